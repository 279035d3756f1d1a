package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DefaultPricingDocumentKey is the key of the pricing catalog document in the pricing_documents table
const DefaultPricingDocumentKey = "pricing/default"

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string

	DatabaseURL string
	RedisURL    string

	PricingCacheTTL    time.Duration
	PricingDocumentKey string
	PricingConfigPath  string

	GoogleCredentialsPath string
	GoogleCredentialsJSON string
	PricingDriveFileID    string
	InvoiceDriveFolderID  string

	PublicBaseURL string
	ChromePath    string
}

// Load reads configuration from environment variables and an optional .env file.
// Outside production, .env values override the process environment.
func Load() (*Config, error) {
	if !strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		_ = godotenv.Overload()
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:                valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                  valueOrDefault(k.String("PORT"), "8080"),
		LogLevel:              valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:             valueOrDefault(k.String("LOG_FORMAT"), "json"),
		DatabaseURL:           databaseURL(k),
		RedisURL:              strings.TrimSpace(k.String("REDIS_URL")),
		PricingCacheTTL:       parseDuration(k.String("PRICING_CACHE_TTL"), "10m"),
		PricingDocumentKey:    valueOrDefault(k.String("PRICING_DOCUMENT_KEY"), DefaultPricingDocumentKey),
		PricingConfigPath:     strings.TrimSpace(k.String("PRICING_CONFIG_PATH")),
		GoogleCredentialsPath: strings.TrimSpace(k.String("GOOGLE_APPLICATION_CREDENTIALS")),
		GoogleCredentialsJSON: k.String("GOOGLE_APPLICATION_CREDENTIALS_JSON"),
		PricingDriveFileID:    strings.TrimSpace(k.String("PRICING_DRIVE_FILE_ID")),
		InvoiceDriveFolderID:  strings.TrimSpace(k.String("INVOICE_DRIVE_FOLDER_ID")),
		PublicBaseURL:         strings.TrimRight(valueOrDefault(k.String("PUBLIC_BASE_URL"), "http://localhost:8080"), "/"),
		ChromePath:            strings.TrimSpace(k.String("CHROME_PATH")),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
// It listens on every interface so the server is reachable inside containers.
func (c *Config) HTTPAddr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return "0.0.0.0:" + port
}

// DriveEnabled reports whether Google Drive credentials are configured
func (c *Config) DriveEnabled() bool {
	return c.GoogleCredentialsPath != "" || strings.TrimSpace(c.GoogleCredentialsJSON) != ""
}

// IsProduction reports whether the app runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func databaseURL(k *koanf.Koanf) string {
	if url := strings.TrimSpace(k.String("DATABASE_URL")); url != "" {
		return url
	}

	host := k.String("DB_HOST")
	user := k.String("DB_USER")
	dbname := k.String("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return ""
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		valueOrDefault(k.String("DB_PORT"), "5432"),
		user,
		k.String("DB_PASSWORD"),
		dbname,
		valueOrDefault(k.String("DB_SSLMODE"), "disable"),
	)
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// MustLoad behaves like Load but panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
// An empty value unsets the variable for the duration of the load.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
