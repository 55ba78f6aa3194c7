package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"8080"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	KeycloakIssuer        string `env:"KEYCLOAK_ISSUER"`
	KeycloakClientID      string `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakClientSecret  string `env:"KEYCLOAK_CLIENT_SECRET"`
	KeycloakRedirectURL   string `env:"KEYCLOAK_REDIRECT_URL"`
	KeycloakPublicBaseURL string `env:"KEYCLOAK_PUBLIC_BASE_URL"`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL  string `env:"GITHUB_REDIRECT_URL"`

	SessionBackend string `env:"SESSION_BACKEND" envDefault:"redis"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseDSN    string `env:"DATABASE_DSN"`

	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionIdleTTL  time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	PendingTTL      time.Duration `env:"PENDING_TTL" envDefault:"15m"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"true"`

	LoginRedirectURL  string `env:"LOGIN_REDIRECT_URL" envDefault:"/"`
	LogoutRedirectURL string `env:"LOGOUT_REDIRECT_URL" envDefault:"/"`

	GenerateUsername   bool   `env:"GENERATE_USERNAME" envDefault:"false"`
	UsernameGenerator  string `env:"USERNAME_GENERATOR" envDefault:"uuid"`
	SetupForm          string `env:"SETUP_FORM" envDefault:"user"`
	SetupInitialData   string `env:"SETUP_INITIAL_DATA" envDefault:"identity"`
	SetupContext       string `env:"SETUP_CONTEXT" envDefault:"provider"`
	AllowOpenIDSignups bool   `env:"ALLOW_OPENID_SIGNUPS" envDefault:"true"`

	// EventsChannel enables Redis pub/sub connect/login events when set.
	EventsChannel string `env:"EVENTS_CHANNEL"`
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.SessionBackend {
	case "redis", "memory":
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	switch c.DatabaseDriver {
	case "postgres", "pgx", "sqlite":
	default:
		return fmt.Errorf("config: unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("config: DATABASE_DSN is required")
	}
	if c.SessionTTL <= 0 || c.PendingTTL <= 0 || c.ProviderTimeout <= 0 {
		return errors.New("config: SESSION_TTL, PENDING_TTL and PROVIDER_TIMEOUT must be positive")
	}
	if c.SessionIdleTTL < 0 {
		return errors.New("config: SESSION_IDLE_TTL must not be negative")
	}
	return nil
}

func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

func (c Config) KeycloakEnabled() bool {
	return c.KeycloakIssuer != ""
}

func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != ""
}
