// Package config loads application configuration from FOLIO_* environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"FOLIO_DB_PATH" envDefault:"./data/folio.db"`
	ServerHost string `env:"FOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"FOLIO_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"FOLIO_ENV" envDefault:"development"`
	LogLevel   string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"FOLIO_UPLOADS_DIR" envDefault:"./uploads"`

	// Admin credentials used when seeding an empty database.
	AdminEmail    string `env:"FOLIO_ADMIN_EMAIL"`
	AdminPassword string `env:"FOLIO_ADMIN_PASSWORD"`

	// Cache configuration
	RedisURL    string `env:"FOLIO_REDIS_URL"` // optional Redis URL for the settings cache
	CachePrefix string `env:"FOLIO_CACHE_PREFIX" envDefault:"folio:"`
	CacheTTL    int    `env:"FOLIO_CACHE_TTL" envDefault:"3600"` // seconds

	// GeoIP configuration
	GeoIPDBPath string `env:"FOLIO_GEOIP_DB_PATH"` // path to GeoLite2-Country.mmdb

	// Machine translation
	OpenAIAPIKey string `env:"FOLIO_OPENAI_API_KEY"`
	OpenAIModel  string `env:"FOLIO_OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Rate limiting (requests per minute)
	ContactRateLimit int `env:"FOLIO_CONTACT_RATE_LIMIT" envDefault:"5"`
	CommentRateLimit int `env:"FOLIO_COMMENT_RATE_LIMIT" envDefault:"10"`

	// Seeding configuration
	DoSeed bool `env:"FOLIO_DO_SEED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// TranslateEnabled returns true if machine translation is configured.
func (c Config) TranslateEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.AdminEmail != "" && !strings.Contains(cfg.AdminEmail, "@") {
		return nil, fmt.Errorf("FOLIO_ADMIN_EMAIL is not a valid email address: %q", cfg.AdminEmail)
	}
	if cfg.AdminPassword != "" && len(cfg.AdminPassword) < 8 {
		return nil, fmt.Errorf("FOLIO_ADMIN_PASSWORD must be at least 8 characters")
	}

	return cfg, nil
}
