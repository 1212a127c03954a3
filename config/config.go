package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"

	MinJWTSecretLength = 32
)

// Config holds every setting read from the environment.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`
	Port int    `env:"PORT" envDefault:"3000"`

	DBDriver       string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBAutoMigrate  bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	JWTSecret        string        `env:"JWT_SECRET"`
	JWTTTL           time.Duration `env:"JWT_TTL" envDefault:"24h"`
	AuthRequireAdmin bool          `env:"AUTH_REQUIRE_ADMIN" envDefault:"false"`
	AuthRateLimitRPM int           `env:"AUTH_RATE_LIMIT_RPM" envDefault:"30"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:4200"`

	MaxUploadBytes    int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	MediaMaxDimension int   `env:"MEDIA_MAX_DIMENSION" envDefault:"2560"`

	CacheBackend    string        `env:"CACHE_BACKEND" envDefault:"memory"`
	RedisURL        string        `env:"REDIS_URL"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	CacheMaxEntries int           `env:"CACHE_MAX_ENTRIES" envDefault:"512"`

	ImageSweepSchedule string        `env:"IMAGE_SWEEP_SCHEDULE" envDefault:"@daily"`
	ImageSweepGrace    time.Duration `env:"IMAGE_SWEEP_GRACE" envDefault:"24h"`
}

func (c Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.DatabaseURL == "" {
			c.DatabaseURL = "wanderwithkii.db"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.CacheBackend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.IsProduction() {
		if len(strings.TrimSpace(c.JWTSecret)) < MinJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters in prod", MinJWTSecretLength)
		}
	} else if c.JWTSecret == "" {
		// Tokens from a previous dev run stop validating after a restart.
		c.JWTSecret = uuid.NewString() + uuid.NewString()
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// LoadEnvFile loads an explicit env file. Variables already set win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
