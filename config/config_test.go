package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, "data/credits.db", cfg.DatabasePath)
	assert.Equal(t, int64(500), cfg.InitialCredits)
	assert.Equal(t, int64(100), cfg.DailyReward)
	assert.Equal(t, int64(1), cfg.MinTransfer)
	assert.Equal(t, int64(1000), cfg.MaxTransfer)
	assert.Equal(t, 10, cfg.LeaderboardSize)
	assert.Equal(t, "America/Denver", cfg.DailyResetTimezone)
	assert.Equal(t, []string{"Admin", "Moderator", "Owner"}, cfg.AdminRoles)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("COMMAND_PREFIX", "$")
	t.Setenv("INITIAL_CREDITS", "1000")
	t.Setenv("DAILY_REWARD", "250")
	t.Setenv("LEADERBOARD_SIZE", "5")
	t.Setenv("ADMIN_ROLES", "Boss, Deputy ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "$", cfg.CommandPrefix)
	assert.Equal(t, int64(1000), cfg.InitialCredits)
	assert.Equal(t, int64(250), cfg.DailyReward)
	assert.Equal(t, 5, cfg.LeaderboardSize)
	assert.Equal(t, []string{"Boss", "Deputy"}, cfg.AdminRoles)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDailyResetLocation(t *testing.T) {
	cfg := NewTestConfig("")
	assert.Equal(t, time.UTC, cfg.DailyResetLocation())

	cfg.DailyResetTimezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.DailyResetLocation())
}
