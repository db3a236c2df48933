package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

type options struct {
	prefix   string
	files    []string
	environ  map[string]string
	required bool
}

// Option adjusts how Load reads the environment.
type Option func(*options)

// WithPrefix prepends prefix to every env tag, e.g. "UAPARSER_".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvFiles loads the given dotenv files instead of ./.env. Unlike the
// default file, a missing explicit file is an error.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.files = append(o.files, files...) }
}

// WithEnvironment parses from m instead of the process environment.
// Dotenv files are not consulted.
func WithEnvironment(m map[string]string) Option {
	return func(o *options) { o.environ = m }
}

// WithRequiredIfNoDefault makes every field without envDefault required.
func WithRequiredIfNoDefault() Option {
	return func(o *options) { o.required = true }
}

// Load fills v from environment variables according to its env tags.
//
//	type Config struct {
//		Regexes      string        `env:"UAPARSER_REGEXES" envDefault:"regexes.yaml"`
//		MatchTimeout time.Duration `env:"UAPARSER_MATCH_TIMEOUT" envDefault:"100ms"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil { ... }
//
// Variables already present in the process environment win over values from
// dotenv files.
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.environ == nil {
		if len(o.files) > 0 {
			if err := godotenv.Load(o.files...); err != nil {
				return errors.Join(ErrLoadEnvFile, err)
			}
		} else {
			defaultEnvLoaded.Do(func() {
				// .env is optional
				_ = godotenv.Load()
			})
		}
	}

	if err := env.ParseWithOptions(v, env.Options{
		Prefix:          o.prefix,
		Environment:     o.environ,
		RequiredIfNoDef: o.required,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
