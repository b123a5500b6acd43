package tool

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	data := `dataDir: /var/lib/portal
gatewayIP: 10.0.0.1
portalURL: ""
restartDelay: 5s
admin:
  user: root
  pass: toor
station:
  attempts: 0
  interval: 1s
radio:
  driver: none
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/portal", cfg.DataDir)
	assert.Equal(t, "http://10.0.0.1/portal", cfg.PortalURL)
	assert.Equal(t, 5*time.Second, cfg.RestartDelay)
	assert.Equal(t, "root", cfg.Admin.User)
	assert.Equal(t, DefaultConfig().Station.Attempts, cfg.Station.Attempts)
	assert.Equal(t, time.Second, cfg.Station.Interval)
	assert.Equal(t, "none", cfg.Radio.Driver)
	assert.Equal(t, "wlan0", cfg.Radio.Interface)
}

func TestLoadConfigRejectsDirectory(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte("station: [1, 2"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
