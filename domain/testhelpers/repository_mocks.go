package testhelpers

import (
	"context"
	"time"

	"lotteryd/domain/entities"
	"lotteryd/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockRoundRepository is a mock implementation of RoundRepository
type MockRoundRepository struct {
	mock.Mock
}

func (m *MockRoundRepository) Create(ctx context.Context, round *entities.Round) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockRoundRepository) GetByID(ctx context.Context, id int64) (*entities.Round, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Round), args.Error(1)
}

func (m *MockRoundRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Round, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Round), args.Error(1)
}

func (m *MockRoundRepository) IncrementPrizePool(ctx context.Context, roundID, amount int64) error {
	args := m.Called(ctx, roundID, amount)
	return args.Error(0)
}

func (m *MockRoundRepository) MarkDrawn(ctx context.Context, roundID int64, winningNumbers []int32, drawnAt time.Time) (bool, error) {
	args := m.Called(ctx, roundID, winningNumbers, drawnAt)
	return args.Bool(0), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByRound(ctx context.Context, roundID int64) ([]*entities.Ticket, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByOwnerForRound(ctx context.Context, roundID int64, owner entities.AccountID) ([]*entities.Ticket, error) {
	args := m.Called(ctx, roundID, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountForRound(ctx context.Context, roundID int64) (int64, error) {
	args := m.Called(ctx, roundID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) GetParticipantSummary(ctx context.Context, roundID int64) ([]*entities.ParticipantInfo, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ParticipantInfo), args.Error(1)
}

func (m *MockTicketRepository) SetMatchedCount(ctx context.Context, ticketID int64, matchedCount int32) error {
	args := m.Called(ctx, ticketID, matchedCount)
	return args.Error(0)
}

// MockWinnerRepository is a mock implementation of WinnerRepository
type MockWinnerRepository struct {
	mock.Mock
}

func (m *MockWinnerRepository) Create(ctx context.Context, winner *entities.RoundWinner) error {
	args := m.Called(ctx, winner)
	return args.Error(0)
}

func (m *MockWinnerRepository) GetByRound(ctx context.Context, roundID int64) ([]*entities.RoundWinner, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RoundWinner), args.Error(1)
}

func (m *MockWinnerRepository) GetByRoundAndTier(ctx context.Context, roundID int64, matchCount int32) ([]*entities.RoundWinner, error) {
	args := m.Called(ctx, roundID, matchCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RoundWinner), args.Error(1)
}

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) Get(ctx context.Context, account entities.AccountID) (int64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceRepository) Credit(ctx context.Context, account entities.AccountID, amount int64) error {
	args := m.Called(ctx, account, amount)
	return args.Error(0)
}

func (m *MockBalanceRepository) ClaimAll(ctx context.Context, account entities.AccountID) (int64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(int64), args.Error(1)
}

// MockLedgerStateRepository is a mock implementation of LedgerStateRepository
type MockLedgerStateRepository struct {
	mock.Mock
}

func (m *MockLedgerStateRepository) Get(ctx context.Context) (*entities.LedgerState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerState), args.Error(1)
}

func (m *MockLedgerStateRepository) GetForUpdate(ctx context.Context) (*entities.LedgerState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerState), args.Error(1)
}

func (m *MockLedgerStateRepository) Update(ctx context.Context, state *entities.LedgerState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockLedgerStateRepository) AddOwnerFees(ctx context.Context, amount int64) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

func (m *MockLedgerStateRepository) WithdrawOwnerFees(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) GetByAccount(ctx context.Context, account entities.AccountID, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, account, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// StubRandomnessProvider returns a fixed number sequence, or a fixed error.
type StubRandomnessProvider struct {
	Numbers []int32
	Err     error
}

func (s *StubRandomnessProvider) Draw(ctx context.Context) ([]int32, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Numbers, nil
}

// RecordingPaymentRail records transfers and optionally fails every one.
type RecordingPaymentRail struct {
	Transfers []RecordedTransfer
	Err       error
}

// RecordedTransfer is one transfer seen by RecordingPaymentRail.
type RecordedTransfer struct {
	To     entities.AccountID
	Amount int64
}

func (r *RecordingPaymentRail) Transfer(ctx context.Context, to entities.AccountID, amount int64) error {
	if r.Err != nil {
		return r.Err
	}
	r.Transfers = append(r.Transfers, RecordedTransfer{To: to, Amount: amount})
	return nil
}
