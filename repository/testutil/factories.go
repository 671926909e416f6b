package testutil

import (
	"luckyball/models"
)

// CreateTestBet creates a pending test bet with default stake values
func CreateTestBet(userID, drawID int64, numbers []int16) *models.Bet {
	return &models.Bet{
		UserID:       userID,
		DrawID:       drawID,
		Tier:         len(numbers),
		Numbers:      numbers,
		Amount:       10,
		PotentialWin: models.DefaultPrizeTable().JackpotFor(len(numbers)),
	}
}

// CreateTestDepositRequest creates a pending test deposit request
func CreateTestDepositRequest(userID int64, amount int64) *models.DepositRequest {
	return &models.DepositRequest{
		UserID: userID,
		Amount: amount,
		UTR:    "TEST-UTR-0001",
	}
}

// CreateTestWithdrawalRequest creates a pending test withdrawal request
func CreateTestWithdrawalRequest(userID int64, amount int64) *models.WithdrawalRequest {
	return &models.WithdrawalRequest{
		UserID:   userID,
		Amount:   amount,
		PayoutID: "test@upi",
	}
}
