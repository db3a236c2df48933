package redis

import "time"

// Config configures the optional shared classification store. An empty
// ConnectionURL disables it.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"uaparser:"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether a Redis URL was configured.
func (c Config) Enabled() bool { return c.ConnectionURL != "" }
