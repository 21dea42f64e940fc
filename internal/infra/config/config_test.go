package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_DRIVER", "DATABASE_URL", "OPERATOR_TELEGRAM_IDS", "ADMIN_TELEGRAM_ID",
		"LOG_LEVEL", "ENVIRONMENT", "TIMEZONE", "CRON_SPEC_DAILY_REMINDER", "PORT",
		"POLL_TIMEOUT", "BROADCAST_RATE_PER_SECOND", "EPHEMERAL_DEFAULT_DELAY",
		"EPHEMERAL_WELCOME_DELAY", "EPHEMERAL_SCHEDULE_DELAY", "EPHEMERAL_CONTENT_DELAY",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/homework")
	t.Setenv("OPERATOR_TELEGRAM_IDS", "1, 2")
}

func TestFromEnv_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, []int64{1, 2}, cfg.OperatorIDs)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0 15 * * *", cfg.CronSpecDaily)
	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, 25.0, cfg.BroadcastRate)
	assert.Equal(t, 30*time.Second, cfg.EphemeralDefaultDelay)
	assert.Equal(t, 60*time.Second, cfg.EphemeralWelcomeDelay)
	assert.Equal(t, 60*time.Second, cfg.EphemeralScheduleDelay)
	assert.Equal(t, 120*time.Second, cfg.EphemeralContentDelay)
}

func TestFromEnv_SQLiteDefaultPath(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "data/bot_database.db", cfg.DatabaseURL)
}

func TestFromEnv_LegacyAdminID(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("OPERATOR_TELEGRAM_IDS", "")
	t.Setenv("ADMIN_TELEGRAM_ID", "99")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []int64{99}, cfg.OperatorIDs)
}

func TestFromEnv_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TIMEZONE", "Europe/Moscow")
	t.Setenv("EPHEMERAL_CONTENT_DELAY", "5m")
	t.Setenv("EPHEMERAL_DEFAULT_DELAY", "10")
	t.Setenv("BROADCAST_RATE_PER_SECOND", "5")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.Equal(t, 5*time.Minute, cfg.EphemeralContentDelay)
	assert.Equal(t, 10*time.Second, cfg.EphemeralDefaultDelay)
	assert.Equal(t, 5.0, cfg.BroadcastRate)
}

func TestFromEnv_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing token":     {"TELEGRAM_TOKEN": ""},
		"missing dsn":       {"DATABASE_URL": ""},
		"unknown driver":    {"DATABASE_DRIVER": "mysql"},
		"no operators":      {"OPERATOR_TELEGRAM_IDS": ""},
		"bad operator":      {"OPERATOR_TELEGRAM_IDS": "1,abc"},
		"bad timezone":      {"TIMEZONE": "Mars/Olympus"},
		"bad delay":         {"EPHEMERAL_WELCOME_DELAY": "soon"},
		"non-positive rate": {"BROADCAST_RATE_PER_SECOND": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
