package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a default. TELEGRAM_BOT_TOKEN is deliberately optional here:
// a missing token is reported per dispatch, not at startup.
type Config struct {
	// Server
	HTTPPort        string        `env:"HTTP_PORT,default=8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT,default=5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=15s"`

	// Comma separated; "*" allows any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS,default=*"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
	AppEnv   string `env:"APP_ENV,default=production"`
	Locale   string `env:"LOCALE,default=ru"`

	// Telegram Bot API
	BotToken        string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramBaseURL string        `env:"TELEGRAM_API_BASE_URL,default=https://api.telegram.org"`
	TelegramTimeout time.Duration `env:"TELEGRAM_TIMEOUT,default=10s"`

	// Audit log. Without DATABASE_URL the in-memory store is used.
	DatabaseURL         string `env:"DATABASE_URL"`
	DBMaxConns          int32  `env:"DB_MAX_CONNS,default=10"`
	DBMinConns          int32  `env:"DB_MIN_CONNS,default=1"`
	AuditMemoryCapacity int    `env:"AUDIT_MEMORY_CAPACITY,default=1000"`
}

func Load() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.BotToken = strings.TrimSpace(cfg.BotToken)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramTimeout <= 0 {
		return errors.New("TELEGRAM_TIMEOUT must be positive")
	}
	if strings.TrimSpace(c.TelegramBaseURL) == "" {
		return errors.New("TELEGRAM_API_BASE_URL must not be empty")
	}
	if c.AuditMemoryCapacity <= 0 {
		return errors.New("AUDIT_MEMORY_CAPACITY must be positive")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}

// IsDevelopment reports whether the process runs locally, which changes
// where a missing token is said to belong (.env.local vs deployment env).
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.AppEnv)) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into a list.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
