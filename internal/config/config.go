package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backend selectors.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	FilesSQLite = "sqlite"
	FilesS3     = "s3"
)

// Config holds all runtime configuration, sourced from the environment.
type Config struct {
	Port         string
	CookieSecure bool
	JWTSecret    string

	// Persistent Store backend: "sqlite" (default) or "postgres".
	Driver       string
	DatabasePath string // sqlite file path
	DatabaseDSN  string // postgres DSN

	// File storage backend for studio images: "sqlite" (default) or "s3".
	FileBackend string
	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// Generative AI provider.
	GenAIBaseURL string
	GenAIAPIKey  string
	GenAIModel   string

	// Per-value quota for the Persistent Store, in bytes.
	StoreQuota int
}

// defaultStoreQuota mirrors the ~5MB per-origin limit of the browser
// storage the layout was migrated from.
const defaultStoreQuota = 5 * 1024 * 1024

// Load reads configuration from the environment, preferring an optional
// .env file for local development. It fails on missing or unusable
// security-critical values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:         envOrDefault("PORT", "8080"),
		CookieSecure: os.Getenv("COOKIE_SECURE") != "false",
		JWTSecret:    os.Getenv("JWT_SECRET"),
		Driver:       envOrDefault("DATABASE_DRIVER", DriverSQLite),
		DatabasePath: envOrDefault("DATABASE_PATH", "pathfinder.db"),
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		FileBackend:  envOrDefault("FILE_BACKEND", FilesSQLite),
		S3Region:     os.Getenv("S3_REGION"),
		S3Bucket:     os.Getenv("S3_BUCKET"),
		S3Endpoint:   os.Getenv("S3_ENDPOINT"),
		S3AccessKey:  os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:  os.Getenv("S3_SECRET_KEY"),
		GenAIBaseURL: envOrDefault("GENAI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GenAIAPIKey:  os.Getenv("GENAI_API_KEY"),
		GenAIModel:   envOrDefault("GENAI_MODEL", "gemini-2.5-flash"),
		StoreQuota:   defaultStoreQuota,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}

	if v := os.Getenv("STORE_QUOTA_BYTES"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid STORE_QUOTA_BYTES %q", v)
		}
		cfg.StoreQuota = parsed
	}

	switch cfg.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required when DATABASE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.Driver)
	}

	switch cfg.FileBackend {
	case FilesSQLite:
	case FilesS3:
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			return nil, fmt.Errorf("S3_BUCKET and S3_REGION are required when FILE_BACKEND=s3")
		}
	default:
		return nil, fmt.Errorf("unknown FILE_BACKEND %q", cfg.FileBackend)
	}

	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
