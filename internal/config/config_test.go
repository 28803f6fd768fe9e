package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONVENE_API_URL", "")
	t.Setenv("CONVENE_STATE_DIR", "")
	t.Setenv("CONVENE_LOG_LEVEL", "")
	t.Setenv("CONVENE_HTTP_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.convene.events", cfg.APIURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ".convene", filepath.Base(cfg.StateDir))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONVENE_API_URL", "http://localhost:8000")
	t.Setenv("CONVENE_STATE_DIR", t.TempDir())
	t.Setenv("CONVENE_LOG_LEVEL", "debug")
	t.Setenv("CONVENE_HTTP_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("CONVENE_HTTP_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONVENE_HTTP_TIMEOUT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{APIURL: "https://api.convene.events", HTTPTimeout: time.Second}, false},
		{"relative url", Config{APIURL: "api.convene.events", HTTPTimeout: time.Second}, true},
		{"missing scheme", Config{APIURL: "//convene.events", HTTPTimeout: time.Second}, true},
		{"zero timeout", Config{APIURL: "https://api.convene.events"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLogPath(t *testing.T) {
	cfg := Config{StateDir: "/tmp/state"}
	assert.Equal(t, filepath.Join("/tmp/state", "convene.log"), cfg.LogPath())
}
