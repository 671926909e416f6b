package repository

import (
	"context"
	"testing"

	"luckyball/models"
	"luckyball/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_RecordAndSum(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "Ledgered", "9900112233", 0)
	require.NoError(t, err)

	entries := []*models.Transaction{
		{UserID: user.ID, Amount: 1000, Kind: models.TransactionKindInitial, Description: "Welcome balance"},
		{UserID: user.ID, Amount: -10, Kind: models.TransactionKindStake, Description: "Stake"},
		{UserID: user.ID, Amount: 500, Kind: models.TransactionKindWin, Description: "Win"},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Record(ctx, entry))
		require.NotZero(t, entry.ID)
		require.False(t, entry.CreatedAt.IsZero())
	}

	t.Run("sum matches signed entries", func(t *testing.T) {
		sum, err := repo.SumByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1490), sum)
	})

	t.Run("sum of empty ledger is zero", func(t *testing.T) {
		sum, err := repo.SumByUser(ctx, user.ID+1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), sum)
	})

	t.Run("get by user respects limit", func(t *testing.T) {
		got, err := repo.GetByUser(ctx, user.ID, 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("reference id round trips", func(t *testing.T) {
		betID := int64(77)
		entry := &models.Transaction{
			UserID:      user.ID,
			Amount:      -10,
			Kind:        models.TransactionKindStake,
			ReferenceID: &betID,
		}
		require.NoError(t, repo.Record(ctx, entry))

		got, err := repo.GetByUser(ctx, user.ID, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].ReferenceID)
		assert.Equal(t, int64(77), *got[0].ReferenceID)
	})
}
