package models

import "time"

// Balance is one user's credit holding on one server. A user has at most
// one balance per server; absence means the user was never initialized there.
type Balance struct {
	UserID          string     `json:"user_id"`
	ServerID        string     `json:"server_id"`
	Credits         int64      `json:"credits"`
	LastTransaction time.Time  `json:"last_transaction"`
	LastDailyReward *time.Time `json:"last_daily_reward,omitempty"`
}
