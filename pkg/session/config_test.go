package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
gateway_url: ws://localhost:9999/api
connect_timeout: 3s
export_dir: /tmp/exports
extra_media_extensions: [webm, gif]
log_level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:9999/api", cfg.GatewayURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout())
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	assert.Equal(t, []string{"webm", "gif"}, cfg.ExtraMediaExtensions)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "export_dir: exports\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().GatewayURL, cfg.GatewayURL)
	assert.Equal(t, "10s", cfg.ConnectTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("EXPORTS_ROOT", "/mnt/media")
	path := writeConfig(t, "export_dir: ${EXPORTS_ROOT}/otio\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/media/otio", cfg.ExportDir)
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.GatewayURL = "http://localhost:1234"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ws://")

	cfg = DefaultConfig()
	cfg.ConnectTimeout = "soon"
	assert.Error(t, cfg.Validate())
}
