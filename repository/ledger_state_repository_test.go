package repository

import (
	"context"
	"testing"
	"time"

	"lotteryd/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerStateRepository_GetCreatesInitialRow(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := &LedgerStateRepository{q: testDB.DB.Pool, defaultTicketPrice: 2500}

	state, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), state.CurrentRoundID)
	assert.Equal(t, int64(2500), state.TicketPrice)
	assert.Equal(t, int64(0), state.CarryOverPool)
	assert.Equal(t, int64(0), state.OwnerFeeBalance)

	// A second Get sees the same row, not a fresh one
	state.TicketPrice = 5000
	require.NoError(t, repo.Update(ctx, state))

	again, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), again.TicketPrice)
}

func TestLedgerStateRepository_OwnerFees(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := &LedgerStateRepository{q: testDB.DB.Pool, defaultTicketPrice: 1000}

	require.NoError(t, repo.AddOwnerFees(ctx, 100))
	require.NoError(t, repo.AddOwnerFees(ctx, 150))

	withdrawn, err := repo.WithdrawOwnerFees(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(250), withdrawn)

	// A second withdrawal observes zero
	withdrawn, err = repo.WithdrawOwnerFees(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), withdrawn)

	state, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), state.OwnerFeeBalance)
}

func TestLedgerStateRepository_WithdrawSeesConcurrentFees(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := &LedgerStateRepository{q: testDB.DB.Pool, defaultTicketPrice: 1000}
	require.NoError(t, repo.AddOwnerFees(ctx, 100))

	// An uncommitted fee accrual holds the state row lock
	feeTx, err := testDB.DB.Pool.Begin(ctx)
	require.NoError(t, err)
	feeRepo := &LedgerStateRepository{q: feeTx, defaultTicketPrice: 1000}
	require.NoError(t, feeRepo.AddOwnerFees(ctx, 50))

	var withdrawn int64
	var withdrawErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		tx, err := testDB.DB.Pool.Begin(ctx)
		if err != nil {
			withdrawErr = err
			return
		}
		txRepo := &LedgerStateRepository{q: tx, defaultTicketPrice: 1000}
		withdrawn, withdrawErr = txRepo.WithdrawOwnerFees(ctx)
		if withdrawErr != nil {
			tx.Rollback(ctx)
			return
		}
		withdrawErr = tx.Commit(ctx)
	}()

	// Let the withdrawal block on the row lock, then release it
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, feeTx.Commit(ctx))
	<-done

	// The withdrawal pays out the post-accrual balance, not a stale snapshot
	require.NoError(t, withdrawErr)
	assert.Equal(t, int64(150), withdrawn)

	state, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), state.OwnerFeeBalance)
}

func TestLedgerStateRepository_Update(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := &LedgerStateRepository{q: testDB.DB.Pool, defaultTicketPrice: 1000}

	state, err := repo.GetForUpdate(ctx)
	require.NoError(t, err)

	state.CurrentRoundID = 3
	state.CarryOverPool = 15_000_000
	require.NoError(t, repo.Update(ctx, state))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.CurrentRoundID)
	assert.Equal(t, int64(15_000_000), got.CarryOverPool)
}
