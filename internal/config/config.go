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
	// Relational store (users, follows, system logs)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Document store
	MongoURI    string
	MongoDB     string
	SearchIndex string

	// Search cache; empty RedisURL disables it
	RedisURL       string
	SearchCacheTTL time.Duration

	// JWT verification only; tokens are issued by the auth service
	JWTSecret string

	// Admin
	AdminUserIDs string
	AdminToken   string

	// Server
	Port           string
	CORSOrigins    string
	RequestTimeout time.Duration

	// Reject review and comment text that trips the word filter
	ContentFilter bool

	SentryDSN        string
	LogRetentionDays int
}

// Load reads the environment, after loading .env when one is present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "engagement"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "engagement"),
		SearchIndex: getEnv("SEARCH_INDEX", "contents_search"),

		RedisURL:       getEnv("REDIS_URL", ""),
		SearchCacheTTL: parseDuration(getEnv("SEARCH_CACHE_TTL", "60s"), time.Minute),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:           getEnv("PORT", "8080"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		RequestTimeout: parseDuration(getEnv("REQUEST_TIMEOUT", "15s"), 15*time.Second),

		ContentFilter: parseBool(getEnv("CONTENT_FILTER", "true")),

		SentryDSN:        getEnv("SENTRY_DSN", ""),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// AdminIDs returns the configured admin user ids.
func (c *Config) AdminIDs() []string {
	var ids []string
	for _, id := range strings.Split(c.AdminUserIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
