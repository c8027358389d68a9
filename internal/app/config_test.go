package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.True(t, cfg.Monitoring.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.MetricsPath)
	require.True(t, cfg.Maintenance.Enabled)
	require.Equal(t, "@daily", cfg.Maintenance.Schedule)
	require.Equal(t, 3, cfg.Maintenance.ReminderWindowDays)
	require.Equal(t, 365, cfg.Maintenance.ActivityRetentionDays)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("MINISTRY_SERVER_PORT", "9090")
	t.Setenv("MINISTRY_CLERK_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("MINISTRY_CLERK_ISSUER", "https://clerk.example.com")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "whsec_test", cfg.Clerk.WebhookSecret)
	require.Equal(t, "https://clerk.example.com", cfg.Clerk.Issuer)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())

	cfg.Clerk.WebhookSecret = "whsec_test"
	require.Error(t, cfg.Validate())

	cfg.Clerk.JWTPublicKey = "-----BEGIN PUBLIC KEY-----"
	require.NoError(t, cfg.Validate())
}
