package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// placeholderJWTSecret is the development default for JWT_SECRET. It is
// refused when ENV=production.
const placeholderJWTSecret = "your-super-secret-key-change-in-production"

type Config struct {
	Port     string `env:"PORT, default=8080"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret     string        `env:"JWT_SECRET, default=your-super-secret-key-change-in-production"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION, default=24h"`

	// HourlyRate seeds the persisted hourly rate on first start. Later
	// changes go through the settings API.
	HourlyRate           float64 `env:"HOURLY_RATE, default=15.57"`
	Timezone             string  `env:"TIMEZONE, default=America/Sao_Paulo"`
	AllowOvernightShifts bool    `env:"ALLOW_OVERNIGHT_SHIFTS, default=true"`

	Database DatabaseConfig
	Redis    RedisConfig
	Login    LoginConfig
	Admin    AdminConfig
}

type DatabaseConfig struct {
	Driver string `env:"DATABASE_DRIVER, default=postgres"`
	URL    string `env:"DATABASE_URL, default=postgresql://postgres@localhost:5432/overtime"`
}

// RedisConfig is optional: an empty Addr keeps rate-limit counters in the
// database.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW, default=15m"`
}

type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL, default=admin@redejb.com.br"`
	Password string `env:"ADMIN_PASSWORD, default=admin123"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == placeholderJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.HourlyRate <= 0 {
		return fmt.Errorf("HOURLY_RATE must be positive, got %v", c.HourlyRate)
	}
	if c.Login.MaxAttempts <= 0 || c.Login.Window <= 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS and LOGIN_WINDOW must be positive")
	}
	return nil
}
