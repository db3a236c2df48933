package main

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/uaparser/pkg/config"
	"github.com/dmitrymomot/uaparser/pkg/httpserver"
	"github.com/dmitrymomot/uaparser/pkg/patternstore"
	"github.com/dmitrymomot/uaparser/pkg/ratelimiter"
	"github.com/dmitrymomot/uaparser/pkg/redis"
)

type appConfig struct {
	AppEnv         string        `env:"APP_ENV" envDefault:"development"`
	AppName        string        `env:"APP_NAME" envDefault:"uaparser"`
	LogLevel       string        `env:"LOG_LEVEL"`
	Regexes        string        `env:"UAPARSER_REGEXES" envDefault:"regexes.yaml"`
	MatchTimeout   time.Duration `env:"UAPARSER_MATCH_TIMEOUT" envDefault:"100ms"`
	CacheSize      int           `env:"UAPARSER_CACHE_SIZE" envDefault:"10000"`
	CacheTTL       time.Duration `env:"UAPARSER_CACHE_TTL" envDefault:"24h"`
	ReloadInterval time.Duration `env:"UAPARSER_RELOAD_INTERVAL" envDefault:"5m"`
	IPHeaders      []string      `env:"HTTP_TRUSTED_IP_HEADERS" envSeparator:","`

	S3        patternstore.S3Config
	Redis     redis.Config
	HTTP      httpserver.Config
	RateLimit ratelimiter.Config
}

// loadConfig reads the environment and lets explicit global flags win.
func loadConfig(c *cli.Context) (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return cfg, err
	}

	if c.IsSet(flagRegexes) {
		cfg.Regexes = c.String(flagRegexes)
		// an explicit local file beats a bucket from the environment
		if !c.IsSet(flagS3Bucket) {
			cfg.S3.Bucket = ""
		}
	}
	if c.IsSet(flagS3Bucket) {
		cfg.S3.Bucket = c.String(flagS3Bucket)
	}
	if c.IsSet(flagS3Key) {
		cfg.S3.Key = c.String(flagS3Key)
	}
	if c.IsSet(flagMatchTimeout) {
		cfg.MatchTimeout = c.Duration(flagMatchTimeout)
	}
	return cfg, nil
}
