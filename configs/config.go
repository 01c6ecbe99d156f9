package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port string `env:"PORT,default=8000"`

	// memory, sqlite or postgres
	DBDriver string `env:"DB_DRIVER,default=sqlite"`
	DBSource string `env:"DB_SOURCE,default=milano.db"`

	JWTSecret string        `env:"JWT_SECRET,default=changeme"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=24h"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	DefaultLang string `env:"DEFAULT_LANG,default=uz"`

	PollInterval  time.Duration `env:"POLL_INTERVAL,default=30s"`
	AlertDuration time.Duration `env:"ALERT_DURATION,default=5s"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=20"`

	GeocoderURL     string        `env:"GEOCODER_URL,default=https://api.opencagedata.com/geocode/v1/json"`
	GeocoderKey     string        `env:"GEOCODER_KEY"`
	GeocoderTimeout time.Duration `env:"GEOCODER_TIMEOUT,default=5s"`

	CORSOrigins string `env:"CORS_ORIGINS,default=*"`
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("could not read .env")
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be memory, sqlite or postgres, got %q", c.DBDriver)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.AlertDuration <= 0 {
		return fmt.Errorf("ALERT_DURATION must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// Origins splits CORS_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
