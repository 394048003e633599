package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tgfc/som/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":                       "",
		"STORE_ID":                   "",
		"IDEMPOTENCY_TTL":            "",
		"IDEMPOTENCY_SWEEP_INTERVAL": "",
		"BONUS_EXCHANGE_RATE":        "",
		"BONUS_MINIMUM_POINTS":       "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "12345", cfg.StoreID)
	require.Equal(t, 5*time.Second, cfg.IdempotencyTTL)
	require.Equal(t, 10*time.Second, cfg.IdempotencySweep)
	require.EqualValues(t, 1, cfg.BonusExchangeRate)
	require.EqualValues(t, 10, cfg.BonusMinimumPoints)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":                 "9090",
		"STORE_ID":             "54321",
		"IDEMPOTENCY_TTL":      "2s",
		"BONUS_MINIMUM_POINTS": "25",
		"LOG_FORMAT":           "console",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "54321", cfg.StoreID)
	require.Equal(t, 2*time.Second, cfg.IdempotencyTTL)
	require.EqualValues(t, 25, cfg.BonusMinimumPoints)
	require.Equal(t, "console", cfg.LogFormat)
}

func TestLoadRejectsBadStoreID(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"STORE_ID": "123"})
	require.Error(t, err)
}
