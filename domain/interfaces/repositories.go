package interfaces

import (
	"context"
	"time"

	"lotteryd/domain/entities"
	"lotteryd/domain/events"
)

// RoundRepository defines the interface for round data access
type RoundRepository interface {
	// Create persists a new round
	Create(ctx context.Context, round *entities.Round) error

	// GetByID retrieves a round by its ID, nil if not found
	GetByID(ctx context.Context, id int64) (*entities.Round, error)

	// GetByIDForUpdate retrieves a round by ID with a row lock for update
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Round, error)

	// IncrementPrizePool atomically adds to an undrawn round's prize pool
	IncrementPrizePool(ctx context.Context, roundID, amount int64) error

	// MarkDrawn atomically transitions an undrawn round to drawn, recording
	// the winning numbers. Returns false if the round was already drawn.
	MarkDrawn(ctx context.Context, roundID int64, winningNumbers []int32, drawnAt time.Time) (bool, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create persists a new ticket, filling in its ID and purchase time
	Create(ctx context.Context, ticket *entities.Ticket) error

	// GetByRound returns all tickets for a round in purchase order
	GetByRound(ctx context.Context, roundID int64) ([]*entities.Ticket, error)

	// GetByOwnerForRound returns an account's tickets for a round
	GetByOwnerForRound(ctx context.Context, roundID int64, owner entities.AccountID) ([]*entities.Ticket, error)

	// CountForRound returns the total number of tickets in a round
	CountForRound(ctx context.Context, roundID int64) (int64, error)

	// GetParticipantSummary returns per-account ticket counts for a round
	GetParticipantSummary(ctx context.Context, roundID int64) ([]*entities.ParticipantInfo, error)

	// SetMatchedCount records a ticket's sequential match count after the draw
	SetMatchedCount(ctx context.Context, ticketID int64, matchedCount int32) error
}

// WinnerRepository defines the interface for winner record data access
type WinnerRepository interface {
	// Create persists a winner record
	Create(ctx context.Context, winner *entities.RoundWinner) error

	// GetByRound returns all winner records for a round
	GetByRound(ctx context.Context, roundID int64) ([]*entities.RoundWinner, error)

	// GetByRoundAndTier returns winner records for one tier of a round
	GetByRoundAndTier(ctx context.Context, roundID int64, matchCount int32) ([]*entities.RoundWinner, error)
}

// BalanceRepository defines the interface for claimable balance data access
type BalanceRepository interface {
	// Get returns an account's claimable balance, zero if never credited
	Get(ctx context.Context, account entities.AccountID) (int64, error)

	// Credit adds to an account's claimable balance, creating the row on
	// first credit
	Credit(ctx context.Context, account entities.AccountID, amount int64) error

	// ClaimAll atomically zeroes an account's claimable balance and returns
	// the amount that was claimable. A concurrent duplicate observes zero.
	ClaimAll(ctx context.Context, account entities.AccountID) (int64, error)
}

// LedgerStateRepository defines the interface for the single-row ledger state
type LedgerStateRepository interface {
	// Get returns the ledger state, creating the initial row if absent
	Get(ctx context.Context) (*entities.LedgerState, error)

	// GetForUpdate returns the ledger state with a row lock for update
	GetForUpdate(ctx context.Context) (*entities.LedgerState, error)

	// Update persists the full ledger state
	Update(ctx context.Context, state *entities.LedgerState) error

	// AddOwnerFees atomically accumulates owner fees
	AddOwnerFees(ctx context.Context, amount int64) error

	// WithdrawOwnerFees atomically zeroes the owner fee balance and returns
	// the amount that was accumulated
	WithdrawOwnerFees(ctx context.Context) (int64, error)
}

// LedgerEntryRepository defines the interface for the append-only audit log
type LedgerEntryRepository interface {
	// Record appends a ledger entry
	Record(ctx context.Context, entry *entities.LedgerEntry) error

	// GetByAccount returns an account's most recent entries
	GetByAccount(ctx context.Context, account entities.AccountID, limit int) ([]*entities.LedgerEntry, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding
// transaction settles: Flush after a commit, Discard after a rollback.
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush delivers the buffered events
	Flush(ctx context.Context)

	// Discard drops the buffered events
	Discard()
}
