package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Session storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds runtime settings read from VEND_* environment variables.
type Config struct {
	APIURL         string        `env:"VEND_API_URL" envDefault:"http://localhost:8000"`
	HTTPTimeout    time.Duration `env:"VEND_HTTP_TIMEOUT" envDefault:"15s"`
	LoginPath      string        `env:"VEND_LOGIN_PATH" envDefault:"/login"`
	UserAgent      string        `env:"VEND_USER_AGENT" envDefault:"vendctl"`
	SessionBackend string        `env:"VEND_SESSION_BACKEND" envDefault:"file"`
	SessionPath    string        `env:"VEND_SESSION_PATH"`
	SessionDSN     string        `env:"VEND_SESSION_DSN" envDefault:"file:vend_session.db?cache=shared"`
	LogLevel       string        `env:"VEND_LOG_LEVEL" envDefault:"info"`
	WebAddr        string        `env:"VEND_WEB_ADDR" envDefault:":3000"`
	CookieSecure   bool          `env:"VEND_COOKIE_SECURE" envDefault:"false"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate will validate the configuration
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.APIURL, validation.Required, is.URL),
		validation.Field(&c.HTTPTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.LoginPath, validation.Required),
		validation.Field(&c.SessionBackend, validation.Required, validation.In(BackendFile, BackendSQLite, BackendMemory)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.WebAddr, validation.Required),
	)
}

func (c Config) GetBaseURL() string {
	return c.APIURL
}

func (c Config) GetTimeout() time.Duration {
	return c.HTTPTimeout
}

func (c Config) GetLoginPath() string {
	return c.LoginPath
}

func (c Config) GetUserAgent() string {
	return c.UserAgent
}
