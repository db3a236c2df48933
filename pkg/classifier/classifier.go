package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/uaparser/pkg/cache"
	"github.com/dmitrymomot/uaparser/pkg/logger"
	"github.com/dmitrymomot/uaparser/pkg/metrics"
	"github.com/dmitrymomot/uaparser/pkg/useragent"
)

// Store is a shared second-level cache, for example pkg/redis.Storage.
// A missing key is reported as ok == false with a nil error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// ParserFunc returns the parser to use for the next classification. It may
// return a different parser after a pattern reload.
type ParserFunc func() *useragent.Parser

// Static adapts a fixed parser to ParserFunc.
func Static(p *useragent.Parser) ParserFunc {
	return func() *useragent.Parser { return p }
}

// Service classifies User-Agent strings through an in-process LRU, an
// optional shared store and finally the pattern engine. It never fails:
// store errors are logged and the engine answers instead.
type Service struct {
	parser   ParserFunc
	lru      *cache.LRU[string, useragent.Client]
	store    Store
	storeTTL time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	cachedBy *useragent.Parser
}

type Option func(*Service)

// WithCacheSize sets the LRU capacity. Zero or negative disables the LRU.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		if n <= 0 {
			s.lru = nil
			return
		}
		s.lru = cache.NewLRU[string, useragent.Client](n)
	}
}

// WithStore enables the shared store with the given entry TTL.
func WithStore(st Store, ttl time.Duration) Option {
	return func(s *Service) {
		s.store = st
		s.storeTTL = ttl
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

const (
	DefaultCacheSize = 10_000
	keyPrefix        = "client:"
)

func New(parser ParserFunc, opts ...Option) *Service {
	s := &Service{
		parser: parser,
		lru:    cache.NewLRU[string, useragent.Client](DefaultCacheSize),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("classifier"))
	return s
}

// Classify returns the combined device, OS and user agent result for ua.
func (s *Service) Classify(ctx context.Context, ua string) useragent.Client {
	p := s.currentParser()
	if p == nil {
		return unclassified()
	}

	if s.lru != nil {
		if c, ok := s.lru.Get(ua); ok {
			metrics.Classifications.WithLabelValues(metrics.SourceLRU).Inc()
			return c
		}
	}

	key := storeKey(p, ua)
	if c, ok := s.fromStore(ctx, key); ok {
		metrics.Classifications.WithLabelValues(metrics.SourceStore).Inc()
		s.remember(p, ua, c)
		return c
	}

	c := s.parse(p, ua)
	metrics.Classifications.WithLabelValues(metrics.SourceParser).Inc()
	s.remember(p, ua, c)
	s.toStore(ctx, key, c)
	return c
}

// ClassifyBatch classifies every string and returns results in input order.
func (s *Service) ClassifyBatch(ctx context.Context, uas []string) []useragent.Client {
	out := make([]useragent.Client, len(uas))
	for i, ua := range uas {
		out[i] = s.Classify(ctx, ua)
	}
	return out
}

// Device runs only the device family and bypasses the caches.
func (s *Service) Device(_ context.Context, ua string) useragent.Device {
	p := s.currentParser()
	if p == nil {
		return useragent.DefaultDevice()
	}
	d := p.ParseDevice(ua)
	observeFamily(useragent.FamilyDevice, d.IsOther())
	return d
}

// OS runs only the OS family and bypasses the caches.
func (s *Service) OS(_ context.Context, ua string) useragent.OS {
	p := s.currentParser()
	if p == nil {
		return useragent.DefaultOS()
	}
	o := p.ParseOS(ua)
	observeFamily(useragent.FamilyOS, o.IsOther())
	return o
}

// UserAgent runs only the user agent family and bypasses the caches.
func (s *Service) UserAgent(_ context.Context, ua string) useragent.UserAgent {
	p := s.currentParser()
	if p == nil {
		return useragent.DefaultUserAgent()
	}
	u := p.ParseUserAgent(ua)
	observeFamily(useragent.FamilyUserAgent, u.IsOther())
	return u
}

// currentParser returns the provider's parser and purges the LRU when it
// changed since the last call, so cached results never mix pattern sets.
func (s *Service) currentParser() *useragent.Parser {
	p := s.parser()

	s.mu.Lock()
	defer s.mu.Unlock()
	if p != s.cachedBy {
		if s.lru != nil && s.cachedBy != nil {
			s.lru.Purge()
		}
		s.cachedBy = p
	}
	return p
}

func (s *Service) parse(p *useragent.Parser, ua string) useragent.Client {
	start := time.Now()
	c := p.Parse(ua)
	metrics.ParseDuration.Observe(time.Since(start).Seconds())

	observeFamily(useragent.FamilyDevice, c.Device.IsOther())
	observeFamily(useragent.FamilyOS, c.OS.IsOther())
	observeFamily(useragent.FamilyUserAgent, c.UserAgent.IsOther())
	return c
}

// remember caches c unless a newer parser was published while it was being
// computed.
func (s *Service) remember(p *useragent.Parser, ua string, c useragent.Client) {
	if s.lru == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cachedBy == p {
		s.lru.Add(ua, c)
	}
}

func (s *Service) fromStore(ctx context.Context, key string) (useragent.Client, bool) {
	if s.store == nil {
		return useragent.Client{}, false
	}

	b, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "shared store read failed", logger.Error(err))
		return useragent.Client{}, false
	}
	if !ok {
		return useragent.Client{}, false
	}

	var c useragent.Client
	if err := json.Unmarshal(b, &c); err != nil || c.UserAgent.Family == "" {
		s.log.WarnContext(ctx, "discarding malformed shared store entry", logger.Error(err))
		return useragent.Client{}, false
	}
	return c, true
}

func (s *Service) toStore(ctx context.Context, key string, c useragent.Client) {
	if s.store == nil {
		return
	}
	b, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, key, b, s.storeTTL); err != nil {
		s.log.WarnContext(ctx, "shared store write failed", logger.Error(err))
	}
}

// unclassified is returned while no pattern set is loaded.
func unclassified() useragent.Client {
	return useragent.Client{
		Device:    useragent.DefaultDevice(),
		OS:        useragent.DefaultOS(),
		UserAgent: useragent.DefaultUserAgent(),
	}
}

// storeKey scopes entries to the pattern set, so replicas and reloads never
// read results produced by other patterns.
func storeKey(p *useragent.Parser, ua string) string {
	sum := sha256.Sum256([]byte(ua))
	return keyPrefix + p.Fingerprint() + ":" + hex.EncodeToString(sum[:])
}

func observeFamily(f useragent.Family, other bool) {
	result := metrics.ResultHit
	if other {
		result = metrics.ResultDefault
	}
	metrics.FamilyMatches.WithLabelValues(f.String(), result).Inc()
}

// MatchErrorHook returns a useragent.MatchErrorHook that counts and logs
// regex engine failures.
func MatchErrorHook(log *slog.Logger) useragent.MatchErrorHook {
	return func(f useragent.Family, pattern string, err error) {
		metrics.MatchErrors.WithLabelValues(f.String()).Inc()
		if log != nil {
			log.Warn("pattern evaluation failed, treated as no match",
				logger.Family(f.String()), logger.Pattern(pattern), logger.Error(err))
		}
	}
}
