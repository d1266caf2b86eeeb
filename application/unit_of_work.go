package application

import (
	"context"

	"lotteryd/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	RoundRepository() interfaces.RoundRepository
	TicketRepository() interfaces.TicketRepository
	WinnerRepository() interfaces.WinnerRepository
	BalanceRepository() interfaces.BalanceRepository
	LedgerStateRepository() interfaces.LedgerStateRepository
	LedgerEntryRepository() interfaces.LedgerEntryRepository

	// PaymentRail returns the transaction-scoped payout rail
	PaymentRail() interfaces.PaymentRail

	// EventBus returns the transaction-scoped event publisher. Events are
	// buffered and flushed only after a successful commit.
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
