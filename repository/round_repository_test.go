package repository

import (
	"context"
	"testing"
	"time"

	"lotteryd/domain/entities"
	"lotteryd/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTestRound(t *testing.T, repo *RoundRepository, id int64) *entities.Round {
	t.Helper()
	now := time.Now().UTC()
	round := &entities.Round{
		ID:          id,
		TicketPrice: 1000,
		PrizePool:   0,
		StartTime:   now,
		EndTime:     now.Add(time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), round))
	return round
}

func TestRoundRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := &RoundRepository{q: testDB.DB.Pool}
	created := insertTestRound(t, repo, 1)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1000), got.TicketPrice)
	assert.Nil(t, got.DrawnAt)
	assert.Empty(t, got.WinningNumbers)

	missing, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRoundRepository_IncrementPrizePool(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := &RoundRepository{q: testDB.DB.Pool}
	insertTestRound(t, repo, 1)

	require.NoError(t, repo.IncrementPrizePool(ctx, 1, 900))
	require.NoError(t, repo.IncrementPrizePool(ctx, 1, 900))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), got.PrizePool)
}

func TestRoundRepository_MarkDrawn(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := &RoundRepository{q: testDB.DB.Pool}
	insertTestRound(t, repo, 1)

	winning := []int32{5, 12, 23, 31, 38, 42, 49}
	drawn, err := repo.MarkDrawn(ctx, 1, winning, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, drawn)

	// Second attempt loses the race: the round already carries numbers
	drawn, err = repo.MarkDrawn(ctx, 1, []int32{1, 1, 1, 1, 1, 1, 1}, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, drawn)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, winning, got.WinningNumbers)
	assert.NotNil(t, got.DrawnAt)
	assert.True(t, got.IsDrawn())
}

func TestRoundRepository_IncrementPrizePoolAfterDraw(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := &RoundRepository{q: testDB.DB.Pool}
	insertTestRound(t, repo, 1)

	_, err := repo.MarkDrawn(ctx, 1, []int32{1, 2, 3, 4, 5, 6, 7}, time.Now().UTC())
	require.NoError(t, err)

	err = repo.IncrementPrizePool(ctx, 1, 900)
	assert.Error(t, err, "a drawn round must not accept pool contributions")
}
