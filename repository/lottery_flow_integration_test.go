package repository

import (
	"context"
	"testing"
	"time"

	"lotteryd/application"
	"lotteryd/domain/entities"
	"lotteryd/domain/events"
	"lotteryd/domain/interfaces"
	"lotteryd/domain/services"
	"lotteryd/domain/testhelpers"
	"lotteryd/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowOwner = entities.AccountID("owner")

// capturingPublisher buffers events and keeps everything flushed after commit
type capturingPublisher struct {
	pending []events.Event
	flushed []events.Event
}

func (p *capturingPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

func (p *capturingPublisher) Flush(ctx context.Context) {
	p.flushed = append(p.flushed, p.pending...)
	p.pending = nil
}

func (p *capturingPublisher) Discard() {
	p.pending = nil
}

func flowService(uow application.UnitOfWork, randomness interfaces.RandomnessProvider) interfaces.LotteryService {
	return services.NewLotteryService(
		uow.RoundRepository(),
		uow.TicketRepository(),
		uow.WinnerRepository(),
		uow.BalanceRepository(),
		uow.LedgerStateRepository(),
		uow.LedgerEntryRepository(),
		randomness,
		uow.PaymentRail(),
		uow.EventBus(),
		entities.DefaultTierTable(),
		flowOwner,
	)
}

func TestLotteryFlow_EndToEnd(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	winning := []int32{5, 12, 23, 31, 38, 42, 49}
	randomness := &testhelpers.StubRandomnessProvider{Numbers: winning}
	publisher := &capturingPublisher{}
	factory := NewUnitOfWorkFactory(testDB.DB, 1000, func() interfaces.TransactionalEventPublisher {
		return publisher
	})

	// Open the first round with a short ticket window
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	round, err := flowService(uow, randomness).StartNewRound(ctx, flowOwner, 200*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())
	assert.Equal(t, int64(1), round.ID)

	// Three purchases: a jackpot, a six-prefix and a miss
	purchases := []struct {
		account entities.AccountID
		numbers []int32
	}{
		{"alice", []int32{5, 12, 23, 31, 38, 42, 49}},
		{"bob", []int32{5, 12, 23, 31, 38, 42, 7}},
		{"carol", []int32{6, 12, 23, 31, 38, 42, 49}},
	}
	for _, p := range purchases {
		uow = factory.Create()
		require.NoError(t, uow.Begin(ctx))
		result, err := flowService(uow, randomness).PurchaseTicket(ctx, p.account, p.numbers, 1000)
		require.NoError(t, err)
		require.NoError(t, uow.Commit())
		assert.Equal(t, int64(900), result.NetAmount)
		assert.Equal(t, int64(100), result.OwnerFee)
	}

	// Wait out the ticket window, then draw
	time.Sleep(250 * time.Millisecond)

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	drawResult, err := flowService(uow, randomness).Draw(ctx, flowOwner)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	// Pool is 2700 after fees. Jackpot tier pays 30%, six-match pays 20%.
	dist := drawResult.Distribution
	assert.Equal(t, int64(2700), dist.PrizePool)
	assert.Equal(t, int64(810), dist.Credits["alice"])
	assert.Equal(t, int64(540), dist.Credits["bob"])
	assert.NotContains(t, dist.Credits, entities.AccountID("carol"))
	assert.Equal(t, int64(1350), dist.Undistributed)

	// Undistributed value seeds the next round
	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	next, err := flowService(uow, randomness).StartNewRound(ctx, flowOwner, time.Hour)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())
	assert.Equal(t, int64(2), next.ID)
	assert.Equal(t, int64(1350), next.PrizePool)

	// Winners claim; the rail records a payout row inside the transaction
	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	claimed, err := flowService(uow, randomness).ClaimWinnings(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, uow.Commit())
	assert.Equal(t, int64(810), claimed)

	var payout int64
	err = testDB.DB.Pool.QueryRow(ctx, `SELECT amount FROM payouts WHERE account_id = 'alice'`).Scan(&payout)
	require.NoError(t, err)
	assert.Equal(t, int64(810), payout)

	// A second claim finds nothing
	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err = flowService(uow, randomness).ClaimWinnings(ctx, "alice")
	assert.ErrorIs(t, err, entities.ErrNothingToClaim)
	uow.Rollback()

	// Owner fees: three purchases at 10% each
	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	fees, err := flowService(uow, randomness).WithdrawOwnerFees(ctx, flowOwner)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())
	assert.Equal(t, int64(300), fees)

	// Alice's ledger history carries the full story, newest first
	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	history, err := flowService(uow, randomness).GetLedgerHistory(ctx, "alice", 10)
	require.NoError(t, err)
	uow.Rollback()

	require.Len(t, history, 3)
	assert.Equal(t, entities.EntryTypeWinningsClaim, history[0].EntryType)
	assert.Equal(t, int64(-810), history[0].Amount)
	assert.Equal(t, entities.EntryTypePrizeCredit, history[1].EntryType)
	assert.Equal(t, int64(810), history[1].Amount)
	assert.Equal(t, entities.EntryTypeTicketPurchase, history[2].EntryType)
	assert.Equal(t, int64(-1000), history[2].Amount)

	// Every committed transaction flushed its events
	eventTypes := make(map[events.EventType]int)
	for _, event := range publisher.flushed {
		eventTypes[event.Type()]++
	}
	assert.Equal(t, 2, eventTypes[events.EventTypeRoundStarted])
	assert.Equal(t, 3, eventTypes[events.EventTypeTicketPurchased])
	assert.Equal(t, 1, eventTypes[events.EventTypeRoundDrawn])
	assert.Equal(t, 2, eventTypes[events.EventTypeWinnerDetermined])
	assert.Equal(t, 1, eventTypes[events.EventTypeWinningsClaimed])
	assert.Equal(t, 1, eventTypes[events.EventTypeOwnerFeesWithdrawn])
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &capturingPublisher{}
	factory := NewUnitOfWorkFactory(testDB.DB, 1000, func() interfaces.TransactionalEventPublisher {
		return publisher
	})
	randomness := &testhelpers.StubRandomnessProvider{}

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err := flowService(uow, randomness).StartNewRound(ctx, flowOwner, time.Hour)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	// Nothing persisted, nothing published
	var count int
	err = testDB.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM rounds`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, publisher.flushed)
}

func TestUnitOfWork_DrawIsIdempotentAcrossTransactions(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewTestUnitOfWorkFactory(testDB.DB)
	randomness := &testhelpers.StubRandomnessProvider{Numbers: []int32{1, 2, 3, 4, 5, 6, 7}}

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err := flowService(uow, randomness).StartNewRound(ctx, flowOwner, 100*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	time.Sleep(150 * time.Millisecond)

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err = flowService(uow, randomness).Draw(ctx, flowOwner)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	uow = factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err = flowService(uow, randomness).Draw(ctx, flowOwner)
	assert.ErrorIs(t, err, entities.ErrAlreadyDrawn)
	uow.Rollback()
}
