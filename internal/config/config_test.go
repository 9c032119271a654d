package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "db", cfg.Backend)
	assert.Equal(t, int64(99), cfg.MaxNotificationCount)
	assert.Equal(t, 5*time.Minute, cfg.CountCacheTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WIKI_BASE_URL", "https://wiki.example.org/")
	t.Setenv("ECHO_MAX_NOTIFICATION_COUNT", "50")
	t.Setenv("ECHO_COUNT_CACHE_TTL", "30s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")
	t.Setenv("WIKI_TIMEOUT", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "https://wiki.example.org", cfg.WikiBaseURL)
	assert.Equal(t, int64(50), cfg.MaxNotificationCount)
	assert.Equal(t, 30*time.Second, cfg.CountCacheTTL)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 10*time.Second, cfg.WikiTimeout)
}

func TestLoadRegistry(t *testing.T) {
	registry, err := LoadRegistry(filepath.Join("..", "..", "configs", "notifications.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "edit-user-talk", registry.CategoryOf("edit-user-talk"))
	assert.Equal(t, "article-linked", registry.CategoryOf("page-linked"))
	assert.True(t, registry.CanBundle("page-linked", "web"))
	_, ok := registry.Type("no-such-type")
	assert.False(t, ok)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notifications:\n  orphan:\n    icon: x\n"), 0o600))
	_, err = LoadRegistry(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orphan")
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
