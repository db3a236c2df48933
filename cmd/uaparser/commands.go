package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/uaparser/pkg/api"
	"github.com/dmitrymomot/uaparser/pkg/classifier"
	"github.com/dmitrymomot/uaparser/pkg/clientip"
	"github.com/dmitrymomot/uaparser/pkg/environment"
	"github.com/dmitrymomot/uaparser/pkg/httpserver"
	"github.com/dmitrymomot/uaparser/pkg/logger"
	"github.com/dmitrymomot/uaparser/pkg/patternstore"
	"github.com/dmitrymomot/uaparser/pkg/ratelimiter"
	"github.com/dmitrymomot/uaparser/pkg/redis"
	"github.com/dmitrymomot/uaparser/pkg/requestid"
	"github.com/dmitrymomot/uaparser/pkg/useragent"
)

const maxLineSize = 64 << 10

// stdin feeds the parse command when no arguments are given.
var stdin io.Reader = os.Stdin

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "classify the given strings, or one per stdin line, as JSON lines",
		ArgsUsage: "[USER_AGENT...]",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			p, err := loadParser(c.Context, cfg)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.App.Writer)
			if c.Args().Present() {
				for _, ua := range c.Args().Slice() {
					if err := enc.Encode(p.Parse(ua)); err != nil {
						return err
					}
				}
				return nil
			}

			sc := bufio.NewScanner(stdin)
			sc.Buffer(make([]byte, 0, 4096), maxLineSize)
			for sc.Scan() {
				if err := enc.Encode(p.Parse(strings.TrimRight(sc.Text(), "\r"))); err != nil {
					return err
				}
			}
			return sc.Err()
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "compile the pattern file and print the number of patterns per family",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			p, err := loadParser(c.Context, cfg)
			if err != nil {
				return err
			}
			for _, f := range useragent.Families {
				fmt.Fprintf(c.App.Writer, "%s\t%d\n", f, p.Len(f))
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API with periodic pattern reloads",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return serve(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg appConfig) error {
	env := environment.Parse(cfg.AppEnv)
	logOpts := []logger.Option{
		logger.WithEnvironment(env, cfg.AppName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		logOpts = append(logOpts, logger.WithLevelName(cfg.LogLevel))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	src, err := newSource(ctx, cfg)
	if err != nil {
		return err
	}

	reloader := patternstore.NewReloader(src,
		patternstore.WithInterval(cfg.ReloadInterval),
		patternstore.WithParserOptions(parserOptions(cfg, log)...),
		patternstore.WithLogger(log),
	)
	if err := reloader.Start(ctx); err != nil {
		return err
	}

	checks := []httpserver.Check{{Name: "patterns", Func: reloader.Ready}}
	svcOpts := []classifier.Option{
		classifier.WithCacheSize(cfg.CacheSize),
		classifier.WithLogger(log),
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		storage := redis.NewStorage(client, cfg.Redis.KeyPrefix)
		defer storage.Close()

		svcOpts = append(svcOpts, classifier.WithStore(storage, cfg.CacheTTL))
		checks = append(checks, httpserver.Check{Name: "redis", Func: storage.Ping})
	}

	apiOpts := []api.Option{
		api.WithLogger(log),
		api.WithEnvironment(env),
		api.WithReadinessChecks(checks...),
		api.WithClientIP(clientip.NewResolver(cfg.IPHeaders...)),
	}
	if cfg.RateLimit.Enabled() {
		store := ratelimiter.NewMemoryStore()
		go store.Cleanup(ctx, 5*time.Minute)

		limiter, err := ratelimiter.New(store, cfg.RateLimit)
		if err != nil {
			return err
		}
		apiOpts = append(apiOpts, api.WithRateLimit(limiter))
	}

	svc := classifier.New(reloader.Parser, svcOpts...)
	router := api.NewRouter(svc, apiOpts...)

	log.InfoContext(ctx, "starting uaparser",
		logger.Source(src.Name()),
		slog.String("addr", cfg.HTTP.Addr),
	)
	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, router)
}

const s3FetchTimeout = 30 * time.Second

func newSource(ctx context.Context, cfg appConfig) (patternstore.Source, error) {
	if cfg.S3.Enabled() {
		return patternstore.NewS3Source(ctx, cfg.S3,
			patternstore.WithHTTPClient(&http.Client{Timeout: s3FetchTimeout}),
		)
	}
	return patternstore.FileSource{Path: cfg.Regexes}, nil
}

func parserOptions(cfg appConfig, log *slog.Logger) []useragent.Option {
	opts := []useragent.Option{useragent.WithMatchTimeout(cfg.MatchTimeout)}
	if log != nil {
		opts = append(opts, useragent.WithMatchErrorHook(classifier.MatchErrorHook(log)))
	}
	return opts
}

func loadParser(ctx context.Context, cfg appConfig) (*useragent.Parser, error) {
	src, err := newSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return patternstore.Load(ctx, src, parserOptions(cfg, nil)...)
}
