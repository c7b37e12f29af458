package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

type Config struct {
	Port         string `yaml:"port"          env:"PORT"          env-default:"8585"`
	DBDriver     string `yaml:"db_driver"     env:"DB_DRIVER"     env-default:"sqlite"`
	DBPath       string `yaml:"db_path"       env:"DB_PATH"       env-default:"./bidayalab.db"`
	MongoURI     string `yaml:"mongodb_uri"   env:"MONGODB_URI"`
	MongoDB      string `yaml:"mongodb_database" env:"MONGODB_DATABASE" env-default:"bidayalab"`
	CookieDomain string `yaml:"cookie_domain" env:"COOKIE_DOMAIN"`
	CookieSecure bool   `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`

	UploadDir     string   `yaml:"upload_dir"      env:"UPLOAD_DIR"      env-default:"./static/uploads"`
	ImageDomains  []string `yaml:"image_domains"   env:"IMAGE_DOMAINS"   env-default:"images.unsplash.com" env-separator:","`
	PageCacheSize int      `yaml:"page_cache_size" env:"PAGE_CACHE_SIZE" env-default:"128"`

	RateLimitWindow time.Duration `yaml:"rate_limit_window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"  env:"SHUTDOWN_TIMEOUT"  env-default:"10s"`

	LogLevel  string `yaml:"log_level"  env:"LOG_LEVEL"  env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`

	// Base64 encoded; decoded into CSRFKey and SessionKey.
	CSRFKeyBase64    string `yaml:"csrf_key"    env:"CSRF_KEY"`
	SessionKeyBase64 string `yaml:"session_key" env:"SESSION_KEY"`

	CSRFKey    []byte `yaml:"-"`
	SessionKey []byte `yaml:"-"`
}

// LoadConfig reads the YAML file named by CONFIG_PATH, if any, then the
// environment. Environment variables win over the file.
func LoadConfig() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", cfg.Port)
		cfg.Port = "8585"
	}

	cfg.CSRFKey = decodeKey("CSRF_KEY", cfg.CSRFKeyBase64)
	cfg.SessionKey = decodeKey("SESSION_KEY", cfg.SessionKeyBase64)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	case DriverMongoDB:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongodb driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverMongoDB, c.DBDriver))
	}
	if c.PageCacheSize < 1 {
		errs = append(errs, errors.New("PAGE_CACHE_SIZE must be positive"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR is required"))
	}
	return errors.Join(errs...)
}

// decodeKey decodes a base64 key of at least 32 bytes. Anything else is
// replaced by a random key that only lives until the next restart.
func decodeKey(name, encoded string) []byte {
	if encoded == "" {
		slog.Warn(name + " not set. Generating a random key for development. This key will change on each restart. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(key) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return key
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return b
}
