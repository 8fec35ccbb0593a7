package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{"SESSION_SECRET": "segredo"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "https://www.herbalife.com", cfg.Lookup.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, 300*time.Second, cfg.Instagram.TTL)
	assert.Empty(t, cfg.Instagram.AccessToken)
	assert.Contains(t, cfg.Company.Address, "Av. Santa Lucía")
}

func TestFromViperOverrides(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{
		"SESSION_SECRET":     "segredo",
		"DB_DRIVER":          "POSTGRES",
		"DATABASE_URL":       "postgres://loja@localhost/loja",
		"INSTAGRAM_FEED_TTL": 60,
		"LOOKUP_BASE_URL":    "https://retailer.test/",
		"LOOKUP_TIMEOUT":     "3s",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, time.Minute, cfg.Instagram.TTL)
	assert.Equal(t, "https://retailer.test", cfg.Lookup.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Lookup.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		errMsg string
	}{
		{"driver desconhecido", map[string]any{"SESSION_SECRET": "x", "DB_DRIVER": "oracle"}, "DB_DRIVER"},
		{"ttl zero", map[string]any{"SESSION_SECRET": "x", "INSTAGRAM_FEED_TTL": 0}, "INSTAGRAM_FEED_TTL"},
		{"sem segredo em release", map[string]any{}, "SESSION_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromViper(newTestViper(tt.values))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateAllowsEmptySecretInDebug(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{"GIN_MODE": "debug"}))
	require.NoError(t, err)
	assert.True(t, cfg.Debug())
}
