package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken  string
	CommandPrefix string

	// Store configuration
	DatabasePath string
	BackupPath   string

	// Economy settings
	InitialCredits int64
	DailyReward    int64
	MinTransfer    int64
	MaxTransfer    int64

	// Daily reward reset timezone (IANA name), falls back to UTC
	DailyResetTimezone string

	// Role names treated as admin for admin commands
	AdminRoles []string

	// Leaderboard display size
	LeaderboardSize int

	// Environment
	Environment string // "development", "production" or "test"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		CommandPrefix: "!",

		DatabasePath: "data/credits.db",
		BackupPath:   "backups/credits_backup.db",

		InitialCredits: 500,
		DailyReward:    100,
		MinTransfer:    1,
		MaxTransfer:    1000,

		DailyResetTimezone: "America/Denver",

		AdminRoles: []string{"Admin", "Moderator", "Owner"},

		LeaderboardSize: 10,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if prefix := os.Getenv("COMMAND_PREFIX"); prefix != "" {
		config.CommandPrefix = prefix
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		config.DatabasePath = path
	}
	if path := os.Getenv("BACKUP_PATH"); path != "" {
		config.BackupPath = path
	}
	if tz := os.Getenv("DAILY_RESET_TIMEZONE"); tz != "" {
		config.DailyResetTimezone = tz
	}

	// Override numeric defaults if environment variables are set
	if v := os.Getenv("INITIAL_CREDITS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.InitialCredits = parsed
		}
	}
	if v := os.Getenv("DAILY_REWARD"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.DailyReward = parsed
		}
	}
	if v := os.Getenv("MIN_TRANSFER"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MinTransfer = parsed
		}
	}
	if v := os.Getenv("MAX_TRANSFER"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MaxTransfer = parsed
		}
	}
	if v := os.Getenv("LEADERBOARD_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.LeaderboardSize = parsed
		}
	}

	// Parse admin role names
	if roles := os.Getenv("ADMIN_ROLES"); roles != "" {
		config.AdminRoles = nil
		for _, name := range strings.Split(roles, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				config.AdminRoles = append(config.AdminRoles, name)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
	}

	return config, nil
}

// DailyResetLocation resolves the configured daily reset timezone,
// falling back to UTC when the name cannot be loaded.
func (c *Config) DailyResetLocation() *time.Location {
	loc, err := time.LoadLocation(c.DailyResetTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NewTestConfig returns a config suitable for tests, with the store
// pointed at the given path.
func NewTestConfig(databasePath string) *Config {
	return &Config{
		CommandPrefix:      "!",
		DatabasePath:       databasePath,
		BackupPath:         databasePath + ".backup",
		InitialCredits:     500,
		DailyReward:        100,
		MinTransfer:        1,
		MaxTransfer:        1000,
		DailyResetTimezone: "UTC",
		AdminRoles:         []string{"Admin", "Moderator", "Owner"},
		LeaderboardSize:    10,
		Environment:        "test",
	}
}
