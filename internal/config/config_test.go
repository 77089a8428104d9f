package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
app:
  port: "9090"
db:
  dsn: postgres://studio@localhost/studio
kafka:
  brokers:
    - localhost:9092
studio:
  id_strategy: timestamp
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "postgres://studio@localhost/studio", cfg.DB.DSN)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "timestamp", cfg.Studio.IDStrategy)
	assert.Equal(t, "redis", cfg.Studio.SessionDriver)
	assert.Equal(t, 12*time.Hour, cfg.Studio.SessionTTL)
	assert.Equal(t, "cloudinary", cfg.Storage.Driver)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "7070")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("STUDIO_SESSION_DRIVER", "memory")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "memory", cfg.Studio.SessionDriver)
}
