package repository

import (
	"context"
	"testing"

	"luckyball/models"
	"luckyball/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRequestUser(t *testing.T, testDB *testutil.TestDatabase) int64 {
	user, err := NewUserRepository(testDB.DB).Create(context.Background(), "Depositor", "9900112233", 1000)
	require.NoError(t, err)
	return user.ID
}

func TestRequestRepository_DepositLifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	userID := setupRequestUser(t, testDB)

	repo := NewRequestRepository(testDB.DB)
	ctx := context.Background()

	req := testutil.CreateTestDepositRequest(userID, 2000)
	err := repo.CreateDeposit(ctx, req)
	require.NoError(t, err)
	require.NotZero(t, req.ID)
	assert.Equal(t, models.RequestStatusPending, req.Status)

	t.Run("pending request is listed", func(t *testing.T) {
		pending, err := repo.ListPendingDeposits(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, req.ID, pending[0].ID)
	})

	t.Run("get for update", func(t *testing.T) {
		got, err := repo.GetDepositForUpdate(ctx, req.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(2000), got.Amount)
		assert.Equal(t, "TEST-UTR-0001", got.UTR)
	})

	t.Run("resolve approves once", func(t *testing.T) {
		resolved, err := repo.ResolveDeposit(ctx, req.ID, models.RequestStatusApproved)
		require.NoError(t, err)
		assert.True(t, resolved)

		got, err := repo.GetDepositForUpdate(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusApproved, got.Status)
		require.NotNil(t, got.ResolvedAt)
	})

	t.Run("second resolve is rejected", func(t *testing.T) {
		resolved, err := repo.ResolveDeposit(ctx, req.ID, models.RequestStatusRejected)
		require.NoError(t, err)
		assert.False(t, resolved)

		got, err := repo.GetDepositForUpdate(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusApproved, got.Status)
	})

	t.Run("resolved request leaves the pending list", func(t *testing.T) {
		pending, err := repo.ListPendingDeposits(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("missing request", func(t *testing.T) {
		got, err := repo.GetDepositForUpdate(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, got)

		resolved, err := repo.ResolveDeposit(ctx, 999999, models.RequestStatusApproved)
		require.NoError(t, err)
		assert.False(t, resolved)
	})
}

func TestRequestRepository_WithdrawalLifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	userID := setupRequestUser(t, testDB)

	repo := NewRequestRepository(testDB.DB)
	ctx := context.Background()

	req := testutil.CreateTestWithdrawalRequest(userID, 500)
	err := repo.CreateWithdrawal(ctx, req)
	require.NoError(t, err)
	require.NotZero(t, req.ID)
	assert.Equal(t, models.RequestStatusPending, req.Status)

	t.Run("pending request is listed", func(t *testing.T) {
		pending, err := repo.ListPendingWithdrawals(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "test@upi", pending[0].PayoutID)
	})

	t.Run("reject resolves once", func(t *testing.T) {
		resolved, err := repo.ResolveWithdrawal(ctx, req.ID, models.RequestStatusRejected)
		require.NoError(t, err)
		assert.True(t, resolved)

		resolved, err = repo.ResolveWithdrawal(ctx, req.ID, models.RequestStatusApproved)
		require.NoError(t, err)
		assert.False(t, resolved)

		got, err := repo.GetWithdrawalForUpdate(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusRejected, got.Status)
	})
}
