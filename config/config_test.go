package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/brackets"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/tournament?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{"SERVER_PORT", "LOG_LEVEL", "PAIRING_STRATEGY", "PAIRING_RETRY_LIMIT",
		"PAIRING_ESCALATION", "CORS_ALLOWED_ORIGINS", "R2_ACCOUNT_ID", "R2_BUCKET_NAME", "ARCHIVE_PREFIX"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, PairingConfig{Strategy: brackets.StrategySwiss, RetryLimit: brackets.DefaultRetryLimit, Escalation: true}, cfg.Pairing)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.R2.Enabled())
	assert.Equal(t, "rounds/", cfg.ArchivePrefix)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PAIRING_STRATEGY", "Adjacent")
	t.Setenv("PAIRING_RETRY_LIMIT", "12")
	t.Setenv("PAIRING_ESCALATION", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, PairingConfig{Strategy: brackets.StrategyAdjacent, RetryLimit: 12, Escalation: false}, cfg.Pairing)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		is   error
	}{
		{name: "missing database url", env: map[string]string{"DATABASE_URL": ""}, is: ErrDatabaseURLMissing},
		{name: "missing jwt secret", env: map[string]string{"JWT_SECRET_KEY": ""}, is: ErrJWTSecretMissing},
		{name: "port out of range", env: map[string]string{"SERVER_PORT": "70000"}},
		{name: "port not a number", env: map[string]string{"SERVER_PORT": "http"}},
		{name: "unknown strategy", env: map[string]string{"PAIRING_STRATEGY": "knockout"}, is: brackets.ErrUnknownStrategy},
		{name: "zero retry limit", env: map[string]string{"PAIRING_RETRY_LIMIT": "0"}},
		{name: "bad escalation flag", env: map[string]string{"PAIRING_ESCALATION": "sometimes"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "chatty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
