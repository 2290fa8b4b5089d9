package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 1, cfg.Gateway.DefaultInboundID)
	assert.Equal(t, 30*time.Second, cfg.Panel.Timeout)
	assert.Zero(t, cfg.Panel.SessionTTL)
	assert.Empty(t, cfg.Gateway.AllowedOrigins)
	assert.False(t, cfg.Gateway.JWTAuthEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PANEL_URL", "https://panel.example.com///")
	t.Setenv("PANEL_USER", "admin")
	t.Setenv("PANEL_PASS", "pass")
	t.Setenv("SHARED_SECRET", "a-long-random-secret")
	t.Setenv("ALLOWED_ORIGINS", " https://shop.example.com , https://admin.example.com, ")
	t.Setenv("DEFAULT_INBOUND_ID", "4")
	t.Setenv("PANEL_SESSION_TTL", "5m")
	t.Setenv("JWT_AUTH_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "https://panel.example.com", cfg.Panel.BaseURL, "trailing slashes trimmed")
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Gateway.AllowedOrigins)
	assert.Equal(t, 4, cfg.Gateway.DefaultInboundID)
	assert.Equal(t, 5*time.Minute, cfg.Panel.SessionTTL)
	assert.True(t, cfg.Gateway.JWTAuthEnabled)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Panel:   PanelConfig{BaseURL: "https://p.example.com", Username: "u", Password: "p"},
		Gateway: GatewayConfig{SharedSecret: "a-long-random-secret", DefaultInboundID: 1},
	}
	require.NoError(t, valid.Validate())

	missingPanel := *valid
	missingPanel.Panel.Password = ""
	assert.Error(t, missingPanel.Validate())

	insecure := *valid
	insecure.Gateway.SharedSecret = "change-me"
	assert.Error(t, insecure.Validate())

	emptySecret := *valid
	emptySecret.Gateway.SharedSecret = ""
	assert.Error(t, emptySecret.Validate())

	badInbound := *valid
	badInbound.Gateway.DefaultInboundID = 0
	assert.Error(t, badInbound.Validate())
}
