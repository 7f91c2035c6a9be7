package models

// LeaderboardEntry is one row of a server leaderboard, joined against the
// user table so callers can render names without extra lookups.
type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Credits  int64  `json:"credits"`
	Rank     int    `json:"rank"`
}

// ServerStats is the aggregate economy snapshot for one server.
type ServerStats struct {
	ServerID          string  `json:"server_id"`
	TotalUsers        int64   `json:"total_users"`
	TotalCredits      int64   `json:"total_credits"`
	AverageCredits    float64 `json:"average_credits"`
	TotalTransactions int64   `json:"total_transactions"`
}

// TransferResult reports the outcome of a completed transfer: both
// post-transfer balances, for confirmation messages.
type TransferResult struct {
	FromUserID     string `json:"from_user_id"`
	ToUserID       string `json:"to_user_id"`
	Amount         int64  `json:"amount"`
	FromNewBalance int64  `json:"from_new_balance"`
	ToNewBalance   int64  `json:"to_new_balance"`
}

// ClaimResult reports the outcome of a daily reward claim.
type ClaimResult struct {
	Claimed    bool  `json:"claimed"`
	Amount     int64 `json:"amount"`
	NewBalance int64 `json:"new_balance"`
}
