package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UseDynamoDB)
	assert.Equal(t, 10, cfg.PagerankTagCount)
	assert.Equal(t, 1200.0, cfg.CanvasWidth)
	assert.Equal(t, 33, cfg.FrameIntervalMs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("PAGERANK_TAG_COUNT", "25")
	t.Setenv("CANVAS_WIDTH", "640.5")
	t.Setenv("WATCH_CATALOG", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, 25, cfg.PagerankTagCount)
	assert.Equal(t, 640.5, cfg.CanvasWidth)
	assert.False(t, cfg.WatchCatalog)
}

func TestLoadConfig_InvalidValuesRejected(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_ProductionRequiresAPIKey(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoadFile_OverlaysEnv(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":3000")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "log_level: debug\npagerank_tag_count: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "file value applies")
	assert.Equal(t, 7, cfg.PagerankTagCount, "file value applies")
	assert.Equal(t, ":3000", cfg.ServerAddress, "env value survives for untouched fields")
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [unclosed"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
