package config

import (
	"testing"

	"grc-platform/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{"DB_DSN", "SERVER_PORT", "SESSION_SECRET", "LOG_DEBUG", "DEFAULT_CONTROL_SORT", "ADMIN_USERNAME", "ADMIN_PASSWORD"} {
		t.Setenv(k, kv[k])
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DSN":         "host=localhost user=grc dbname=grc",
		"SESSION_SECRET": "secret",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "admin@grc.local", cfg.AdminUsername)
	assert.Equal(t, scoring.SortRiskScoreDesc, cfg.DefaultControlSort)
	assert.False(t, cfg.LogDebug)
}

func TestFromEnv_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DSN":               "host=db",
		"SESSION_SECRET":       "secret",
		"SERVER_PORT":          "9090",
		"LOG_DEBUG":            "true",
		"DEFAULT_CONTROL_SORT": "maturity_gap_desc",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.LogDebug)
	assert.Equal(t, scoring.SortMaturityGapDesc, cfg.DefaultControlSort)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{"SESSION_SECRET": "s"}},
		{"missing secret", map[string]string{"DB_DSN": "host=db"}},
		{"bad debug flag", map[string]string{"DB_DSN": "host=db", "SESSION_SECRET": "s", "LOG_DEBUG": "sometimes"}},
		{"unknown sort", map[string]string{"DB_DSN": "host=db", "SESSION_SECRET": "s", "DEFAULT_CONTROL_SORT": "random"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
