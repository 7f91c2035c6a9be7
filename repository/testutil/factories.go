package testutil

import (
	"time"

	"creditbot/models"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(userID, username string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		UserID:      userID,
		Username:    username,
		CreatedDate: now,
		LastSeen:    now,
	}
}

// CreateTestServer creates a test server with default values
func CreateTestServer(serverID, serverName string) *models.Server {
	return &models.Server{
		ServerID:   serverID,
		ServerName: serverName,
		JoinedDate: time.Now().UTC(),
		Active:     true,
	}
}

// CreateTestBalance creates a test balance with the given credits
func CreateTestBalance(userID, serverID string, credits int64) *models.Balance {
	return &models.Balance{
		UserID:          userID,
		ServerID:        serverID,
		Credits:         credits,
		LastTransaction: time.Now().UTC(),
	}
}

// CreateTestTransaction creates a test ledger entry
func CreateTestTransaction(userID, serverID string, amount int64, txType models.TransactionType, newBalance int64) *models.Transaction {
	return &models.Transaction{
		UserID:     userID,
		ServerID:   serverID,
		Amount:     amount,
		Type:       txType,
		NewBalance: newBalance,
		Timestamp:  time.Now().UTC(),
	}
}
