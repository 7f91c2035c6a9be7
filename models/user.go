package models

import "time"

// User is a Discord account known to the bot, shared across servers.
type User struct {
	UserID             string     `json:"user_id"`
	Username           string     `json:"username"`
	Discriminator      string     `json:"discriminator,omitempty"`
	CreatedDate        time.Time  `json:"created_date"`
	LastSeen           time.Time  `json:"last_seen"`
	LastUsernameChange *time.Time `json:"last_username_change,omitempty"`
}
