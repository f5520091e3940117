package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("SEARCH_CACHE_TTL", "")
	t.Setenv("CONTENT_FILTER", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Minute, cfg.SearchCacheTTL)
	assert.True(t, cfg.ContentFilter)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SEARCH_CACHE_TTL", "5s")
	t.Setenv("REQUEST_TIMEOUT", "bogus")
	t.Setenv("CONTENT_FILTER", "false")
	t.Setenv("LOG_RETENTION_DAYS", "7")
	t.Setenv("ADMIN_USER_IDS", " a , ,b")

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.SearchCacheTTL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.ContentFilter)
	assert.Equal(t, 7, cfg.LogRetentionDays)
	assert.Equal(t, []string{"a", "b"}, cfg.AdminIDs())
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "h", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "1", DBSSLMode: "disable"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=1 sslmode=disable TimeZone=UTC", cfg.DSN())
}
