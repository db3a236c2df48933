package useragent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/dmitrymomot/uaparser/pkg/async"
)

// Parser classifies user agent strings with three independent, ordered
// matcher lists. It is immutable after New and safe for concurrent use.
type Parser struct {
	device    *evaluator[Device]
	os        *evaluator[OS]
	userAgent *evaluator[UserAgent]
	digest    string
}

// New compiles all pattern records. The three families compile concurrently.
// If any record fails to compile no parser is returned. The error is the
// *CompileError of the first failing family in device, os, user_agent order,
// and within that family of the lowest failing record.
func New(p Patterns, opts ...Option) (*Parser, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	ctx := context.Background()
	deviceF := async.Async(ctx, p.Device, func(_ context.Context, recs []DeviceRecord) ([]matcher[Device], error) {
		return compileFamily(o, recs, compileDevice)
	})
	osF := async.Async(ctx, p.OS, func(_ context.Context, recs []OSRecord) ([]matcher[OS], error) {
		return compileFamily(o, recs, compileOS)
	})
	userAgentF := async.Async(ctx, p.UserAgent, func(_ context.Context, recs []UserAgentRecord) ([]matcher[UserAgent], error) {
		return compileFamily(o, recs, compileBrowser)
	})

	devices, deviceErr := deviceF.Await()
	oses, osErr := osF.Await()
	userAgents, userAgentErr := userAgentF.Await()
	for _, err := range []error{deviceErr, osErr, userAgentErr} {
		if err != nil {
			return nil, err
		}
	}

	return &Parser{
		device: &evaluator[Device]{
			family:   FamilyDevice,
			matchers: devices,
			fallback: DefaultDevice(),
			onError:  o.onMatchError,
		},
		os: &evaluator[OS]{
			family:   FamilyOS,
			matchers: oses,
			fallback: DefaultOS(),
			onError:  o.onMatchError,
		},
		userAgent: &evaluator[UserAgent]{
			family:   FamilyUserAgent,
			matchers: userAgents,
			fallback: DefaultUserAgent(),
			onError:  o.onMatchError,
		},
		digest: fingerprint(p),
	}, nil
}

// Fingerprint identifies the pattern set the parser was built from. Parsers
// compiled from equal Patterns share a fingerprint.
func (p *Parser) Fingerprint() string { return p.digest }

func fingerprint(p Patterns) string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

// Parse runs all three families against ua.
func (p *Parser) Parse(ua string) Client {
	return Client{
		Device:    p.ParseDevice(ua),
		OS:        p.ParseOS(ua),
		UserAgent: p.ParseUserAgent(ua),
	}
}

// ParseDevice returns the first device match or DefaultDevice.
func (p *Parser) ParseDevice(ua string) Device { return p.device.evaluate(ua) }

// ParseOS returns the first OS match or DefaultOS.
func (p *Parser) ParseOS(ua string) OS { return p.os.evaluate(ua) }

// ParseUserAgent returns the first user agent match or DefaultUserAgent.
func (p *Parser) ParseUserAgent(ua string) UserAgent { return p.userAgent.evaluate(ua) }

// Len returns the number of compiled matchers of a family.
func (p *Parser) Len(f Family) int {
	switch f {
	case FamilyDevice:
		return len(p.device.matchers)
	case FamilyOS:
		return len(p.os.matchers)
	case FamilyUserAgent:
		return len(p.userAgent.matchers)
	default:
		return 0
	}
}
