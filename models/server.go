package models

import "time"

// Server is a Discord guild the bot has seen. IDs are the opaque
// snowflake strings Discord hands us; we never parse them.
type Server struct {
	ServerID    string    `json:"server_id"`
	ServerName  string    `json:"server_name"`
	JoinedDate  time.Time `json:"joined_date"`
	LastUpdated time.Time `json:"last_updated"`
	Active      bool      `json:"active"`
}
