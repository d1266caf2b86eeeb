package repository

import (
	"context"
	"testing"

	"lotteryd/domain/entities"
	"lotteryd/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTestTicket(t *testing.T, repo *TicketRepository, roundID int64, owner entities.AccountID, numbers []int32) *entities.Ticket {
	t.Helper()
	ticket := &entities.Ticket{
		RoundID:       roundID,
		Owner:         owner,
		Numbers:       numbers,
		PurchasePrice: 1000,
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	return ticket
}

func TestTicketRepository_CreateAndGetByRound(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	roundRepo := &RoundRepository{q: testDB.DB.Pool}
	insertTestRound(t, roundRepo, 1)
	repo := &TicketRepository{q: testDB.DB.Pool}

	first := insertTestTicket(t, repo, 1, "alice", []int32{1, 2, 3, 4, 5, 6, 7})
	second := insertTestTicket(t, repo, 1, "bob", []int32{7, 6, 5, 4, 3, 2, 1})

	assert.NotZero(t, first.ID)
	assert.False(t, first.PurchasedAt.IsZero())

	tickets, err := repo.GetByRound(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, first.ID, tickets[0].ID, "tickets come back in purchase order")
	assert.Equal(t, second.ID, tickets[1].ID)
	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6, 7}, tickets[0].Numbers)
	assert.Nil(t, tickets[0].MatchedCount)
}

func TestTicketRepository_GetByOwnerForRound(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	roundRepo := &RoundRepository{q: testDB.DB.Pool}
	insertTestRound(t, roundRepo, 1)
	repo := &TicketRepository{q: testDB.DB.Pool}

	insertTestTicket(t, repo, 1, "alice", []int32{1, 2, 3, 4, 5, 6, 7})
	insertTestTicket(t, repo, 1, "alice", []int32{8, 9, 10, 11, 12, 13, 14})
	insertTestTicket(t, repo, 1, "bob", []int32{7, 6, 5, 4, 3, 2, 1})

	tickets, err := repo.GetByOwnerForRound(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	count, err := repo.CountForRound(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestTicketRepository_GetParticipantSummary(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	roundRepo := &RoundRepository{q: testDB.DB.Pool}
	insertTestRound(t, roundRepo, 1)
	repo := &TicketRepository{q: testDB.DB.Pool}

	insertTestTicket(t, repo, 1, "alice", []int32{1, 2, 3, 4, 5, 6, 7})
	insertTestTicket(t, repo, 1, "alice", []int32{8, 9, 10, 11, 12, 13, 14})
	insertTestTicket(t, repo, 1, "bob", []int32{7, 6, 5, 4, 3, 2, 1})

	participants, err := repo.GetParticipantSummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, entities.AccountID("alice"), participants[0].Account)
	assert.Equal(t, int64(2), participants[0].TicketCount)
	assert.Equal(t, entities.AccountID("bob"), participants[1].Account)
	assert.Equal(t, int64(1), participants[1].TicketCount)
}

func TestTicketRepository_SetMatchedCount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	roundRepo := &RoundRepository{q: testDB.DB.Pool}
	insertTestRound(t, roundRepo, 1)
	repo := &TicketRepository{q: testDB.DB.Pool}

	ticket := insertTestTicket(t, repo, 1, "alice", []int32{1, 2, 3, 4, 5, 6, 7})

	require.NoError(t, repo.SetMatchedCount(ctx, ticket.ID, 4))

	tickets, err := repo.GetByRound(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.NotNil(t, tickets[0].MatchedCount)
	assert.Equal(t, int32(4), *tickets[0].MatchedCount)

	assert.Error(t, repo.SetMatchedCount(ctx, 9999, 4))
}
