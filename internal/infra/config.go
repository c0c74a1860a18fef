package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"matchday"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"matchday"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"matchday"`

	// StoreDriver selects postgres or the in-process memory store (local dev only).
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	// JWT
	JWTSecret       string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTMemberExpiry time.Duration `env:"JWT_MEMBER_EXPIRY" envDefault:"720h"`
	JWTAdminExpiry  time.Duration `env:"JWT_ADMIN_EXPIRY" envDefault:"8h"`

	// Server
	APIPort int `env:"API_PORT" envDefault:"3100"`

	// Matches
	SweepHour       int           `env:"SWEEP_HOUR" envDefault:"3"`
	SweepEnabled    bool          `env:"SWEEP_ENABLED" envDefault:"true"`
	AnnualFee       float64       `env:"ANNUAL_FEE" envDefault:"70"`
	IdempotencyTTL  time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`

	// Captain draws; empty key uses the local CSPRNG.
	RandomOrgAPIKey  string        `env:"RANDOM_ORG_API_KEY"`
	RandomOrgTimeout time.Duration `env:"RANDOM_ORG_TIMEOUT" envDefault:"3s"`

	// Migrations
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`

	// Outbox relay
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"2s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Bootstrap admin, created at startup when the name is set and no such member exists.
	BootstrapAdminName     string `env:"BOOTSTRAP_ADMIN_NAME"`
	BootstrapAdminSurname  string `env:"BOOTSTRAP_ADMIN_SURNAME"`
	BootstrapAdminPhone    string `env:"BOOTSTRAP_ADMIN_PHONE" envDefault:"000000000"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadDotEnv loads variables from the given .env files (default ".env") without
// overriding the process environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for insecure or inconsistent configuration.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass the secret checks (local dev only).
func (c *Config) Validate() error {
	if c.SweepHour < 0 || c.SweepHour > 23 {
		return fmt.Errorf("SWEEP_HOUR must be between 0 and 23, got %d", c.SweepHour)
	}
	if c.AnnualFee <= 0 {
		return fmt.Errorf("ANNUAL_FEE must be positive, got %v", c.AnnualFee)
	}
	switch strings.ToLower(c.StoreDriver) {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.StoreDriver)
	}

	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWTSecret))
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
