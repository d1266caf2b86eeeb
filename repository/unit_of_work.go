package repository

import (
	"context"
	"fmt"

	"lotteryd/application"
	"lotteryd/database"
	"lotteryd/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	defaultTicketPrice     int64
	transactionalPublisher interfaces.TransactionalEventPublisher
	roundRepo              interfaces.RoundRepository
	ticketRepo             interfaces.TicketRepository
	winnerRepo             interfaces.WinnerRepository
	balanceRepo            interfaces.BalanceRepository
	ledgerStateRepo        interfaces.LedgerStateRepository
	ledgerEntryRepo        interfaces.LedgerEntryRepository
	paymentRail            interfaces.PaymentRail
}

type unitOfWorkFactory struct {
	db                 *database.DB
	defaultTicketPrice int64
	newPublisher       func() interfaces.TransactionalEventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Each unit of work
// gets its own transactional publisher from newPublisher so buffered events
// never leak across transactions.
func NewUnitOfWorkFactory(db *database.DB, defaultTicketPrice int64, newPublisher func() interfaces.TransactionalEventPublisher) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:                 db,
		defaultTicketPrice: defaultTicketPrice,
		newPublisher:       newPublisher,
	}
}

// Create creates a new UnitOfWork instance
func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		defaultTicketPrice:     f.defaultTicketPrice,
		transactionalPublisher: f.newPublisher(),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.roundRepo = NewRoundRepository(tx)
	u.ticketRepo = NewTicketRepository(tx)
	u.winnerRepo = NewWinnerRepository(tx)
	u.balanceRepo = NewBalanceRepository(tx)
	u.ledgerStateRepo = NewLedgerStateRepository(tx, u.defaultTicketPrice)
	u.ledgerEntryRepo = NewLedgerEntryRepository(tx)
	u.paymentRail = NewPayoutRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

func (u *unitOfWork) mustBeStarted() {
	if u.tx == nil {
		panic("unit of work not started - call Begin() first")
	}
}

// RoundRepository returns the round repository for this unit of work
func (u *unitOfWork) RoundRepository() interfaces.RoundRepository {
	u.mustBeStarted()
	return u.roundRepo
}

// TicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	u.mustBeStarted()
	return u.ticketRepo
}

// WinnerRepository returns the winner repository for this unit of work
func (u *unitOfWork) WinnerRepository() interfaces.WinnerRepository {
	u.mustBeStarted()
	return u.winnerRepo
}

// BalanceRepository returns the balance repository for this unit of work
func (u *unitOfWork) BalanceRepository() interfaces.BalanceRepository {
	u.mustBeStarted()
	return u.balanceRepo
}

// LedgerStateRepository returns the ledger state repository for this unit of work
func (u *unitOfWork) LedgerStateRepository() interfaces.LedgerStateRepository {
	u.mustBeStarted()
	return u.ledgerStateRepo
}

// LedgerEntryRepository returns the ledger entry repository for this unit of work
func (u *unitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository {
	u.mustBeStarted()
	return u.ledgerEntryRepo
}

// PaymentRail returns the transaction-scoped payout rail
func (u *unitOfWork) PaymentRail() interfaces.PaymentRail {
	u.mustBeStarted()
	return u.paymentRail
}

// EventBus returns the transaction-scoped event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalPublisher
}
