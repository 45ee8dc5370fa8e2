package testutil

import (
	"time"

	"concoin/models"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(userID int64, displayName string) *models.User {
	return &models.User{
		UserID:      userID,
		DisplayName: displayName,
		Balance:     100,
		JoinedAt:    time.Now(),
	}
}

// CreateTestUserWithBalance creates a test user with a specific balance
func CreateTestUserWithBalance(userID int64, displayName string, balance int64) *models.User {
	user := CreateTestUser(userID, displayName)
	user.Balance = balance
	return user
}

// CreateTestCreditRun creates a test credit run
func CreateTestCreditRun(runDate time.Time) *models.CreditRun {
	return &models.CreditRun{
		RunDate:       runDate,
		Amount:        50,
		UsersCredited: 10,
	}
}

// CreateTestCreditRunWithDetails creates a test credit run with specific details
func CreateTestCreditRunWithDetails(runDate time.Time, amount int64, users int) *models.CreditRun {
	run := CreateTestCreditRun(runDate)
	run.Amount = amount
	run.UsersCredited = users
	return run
}
