package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Host    string
	Port    string
	Debug   bool

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Bootstrap admin account
	AdminUsername string
	AdminPassword string

	// Upload handling
	StorageDriver    string // "local" or "s3"
	UploadDir        string
	MaxFileSize      int64
	AllowedFileTypes []string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "noble-storage-reviews"),
		AppEnv:  envString("APP_ENV", "development"),
		Host:    envString("HOST", "0.0.0.0"),
		Port:    envString("PORT", "8000"),
		Debug:   envBool("DEBUG", true),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./database/reviews.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret: envString("JWT_SECRET", "your-secret-key-here-change-in-production"),
		JWTExpiry: envDuration("JWT_EXPIRY", 24*time.Hour),

		// Bootstrap admin account
		AdminUsername: envString("ADMIN_USERNAME", "tony"),
		AdminPassword: envString("ADMIN_PASSWORD", "test0723"),

		// Upload handling
		StorageDriver:    envString("STORAGE_DRIVER", "local"),
		UploadDir:        envString("UPLOAD_DIR", "./uploads"),
		MaxFileSize:      envInt64("MAX_FILE_SIZE", 5242880), // 5MB
		AllowedFileTypes: envList("ALLOWED_FILE_TYPES", "image/jpeg,image/png,image/gif,image/webp"),

		// Storage (only read when STORAGE_DRIVER=s3)
		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// Production: validate required configuration
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures secrets are explicitly configured for production
// deployments. Development keeps fallbacks for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.JWTSecret == "your-secret-key-here-change-in-production" {
		slog.Error("production deployment requires an explicit JWT_SECRET")
		os.Exit(1)
	}
	if cfg.StorageDriver == "s3" && (cfg.S3Region == "" || cfg.S3Bucket == "") {
		slog.Error("STORAGE_DRIVER=s3 requires S3_REGION and S3_BUCKET")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envList(key, def string) []string {
	v := envString(key, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
