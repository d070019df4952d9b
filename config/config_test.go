package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeagueIDs(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, ParseLeagueIDs(" 1,2 ,,3,1 "))
	assert.Empty(t, ParseLeagueIDs(""))
}

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("JWT_SECRET_KEY", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"SERVER_PORT", "SLEEPER_RPS", "SYNC_INTERVAL", "UPSERT_BATCH_SIZE", "LEAGUE_CONCURRENCY", "LEAGUE_IDS", "DB_DRIVER"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 10.0, cfg.SleeperRPS)
	assert.Equal(t, 15*time.Minute, cfg.SyncInterval)
	assert.Equal(t, 10, cfg.UpsertBatchSize)
	assert.Equal(t, 4, cfg.LeagueConcurrency)
	assert.Empty(t, cfg.LeagueIDs)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SLEEPER_RPS", "2.5")
	t.Setenv("SYNC_INTERVAL", "90s")
	t.Setenv("UPSERT_BATCH_SIZE", "25")
	t.Setenv("LEAGUE_CONCURRENCY", "8")
	t.Setenv("LEAGUE_IDS", "784512,99")
	t.Setenv("R2_BUCKET_NAME", "brackets")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 2.5, cfg.SleeperRPS)
	assert.Equal(t, 90*time.Second, cfg.SyncInterval)
	assert.Equal(t, 25, cfg.UpsertBatchSize)
	assert.Equal(t, 8, cfg.LeagueConcurrency)
	assert.Equal(t, []string{"784512", "99"}, cfg.LeagueIDs)
	assert.Equal(t, "brackets", cfg.R2BucketName)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"missing database url", "DATABASE_URL", ""},
		{"missing jwt secret", "JWT_SECRET_KEY", ""},
		{"port out of range", "SERVER_PORT", "70000"},
		{"port not a number", "SERVER_PORT", "http"},
		{"negative rps", "SLEEPER_RPS", "-1"},
		{"bad interval", "SYNC_INTERVAL", "soon"},
		{"zero interval", "SYNC_INTERVAL", "0s"},
		{"zero batch", "UPSERT_BATCH_SIZE", "0"},
		{"zero concurrency", "LEAGUE_CONCURRENCY", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
