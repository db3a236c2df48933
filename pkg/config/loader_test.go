package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uaparser/pkg/config"
)

type serviceConfig struct {
	Regexes      string        `env:"REGEXES" envDefault:"regexes.yaml"`
	MatchTimeout time.Duration `env:"MATCH_TIMEOUT" envDefault:"100ms"`
	CacheSize    int           `env:"CACHE_SIZE" envDefault:"10000"`
	Families     []string      `env:"FAMILIES" envSeparator:","`
}

type requiredConfig struct {
	Bucket string `env:"BUCKET,required"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg serviceConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{})))

	assert.Equal(t, "regexes.yaml", cfg.Regexes)
	assert.Equal(t, 100*time.Millisecond, cfg.MatchTimeout)
	assert.Equal(t, 10000, cfg.CacheSize)
	assert.Empty(t, cfg.Families)
}

func TestLoad_FromEnvironment(t *testing.T) {
	var cfg serviceConfig
	err := config.Load(&cfg,
		config.WithPrefix("UAPARSER_"),
		config.WithEnvironment(map[string]string{
			"UAPARSER_REGEXES":       "/etc/uap/regexes.yaml",
			"UAPARSER_MATCH_TIMEOUT": "250ms",
			"UAPARSER_FAMILIES":      "device,os",
			"REGEXES":                "ignored.yaml",
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, "/etc/uap/regexes.yaml", cfg.Regexes)
	assert.Equal(t, 250*time.Millisecond, cfg.MatchTimeout)
	assert.Equal(t, []string{"device", "os"}, cfg.Families)
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("CACHE_SIZE", "42")

	var cfg serviceConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 42, cfg.CacheSize)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("nil pointer", func(t *testing.T) {
		var cfg *serviceConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("invalid value", func(t *testing.T) {
		var cfg serviceConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{"MATCH_TIMEOUT": "soon"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("required if no default", func(t *testing.T) {
		var cfg serviceConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}), config.WithRequiredIfNoDefault())
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("missing env file", func(t *testing.T) {
		var cfg serviceConfig
		err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(t.TempDir(), "missing.env")))
		assert.ErrorIs(t, err, config.ErrLoadEnvFile)
	})
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_UAPARSER_BUCKET=patterns\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("TEST_UAPARSER_BUCKET") })

	var cfg requiredConfig
	require.NoError(t, config.Load(&cfg, config.WithPrefix("TEST_UAPARSER_"), config.WithEnvFiles(path)))
	assert.Equal(t, "patterns", cfg.Bucket)
}

func TestMustLoad(t *testing.T) {
	var cfg requiredConfig
	assert.Panics(t, func() {
		config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
	})
}
