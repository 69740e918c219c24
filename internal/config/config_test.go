package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.TCPHost)
	assert.Equal(t, 1234, cfg.TCPPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 1234, cfg.DiscoveryPort)
	assert.Equal(t, "Serveur_askgod number 1", cfg.AnnouncePayload)
	assert.Equal(t, 2*time.Second, cfg.AnnounceInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ASKGOD_TCP_HOST", "0.0.0.0")
	t.Setenv("ASKGOD_TCP_PORT", "4321")
	t.Setenv("ASKGOD_HTTP_PORT", "9090")
	t.Setenv("ASKGOD_DISCOVERY_PORT", "5678")
	t.Setenv("ASKGOD_ANNOUNCE_PAYLOAD", "hello")
	t.Setenv("ASKGOD_ANNOUNCE_INTERVAL", "500ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.TCPHost)
	assert.Equal(t, 4321, cfg.TCPPort)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 5678, cfg.DiscoveryPort)
	assert.Equal(t, "hello", cfg.AnnouncePayload)
	assert.Equal(t, 500*time.Millisecond, cfg.AnnounceInterval)
}

func TestLoadRejectsMalformedValue(t *testing.T) {
	t.Setenv("ASKGOD_TCP_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}
