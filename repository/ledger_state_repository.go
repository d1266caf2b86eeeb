package repository

import (
	"context"
	"fmt"

	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// LedgerStateRepository implements single-row ledger state data access
type LedgerStateRepository struct {
	q                  Queryable
	defaultTicketPrice int64
}

// NewLedgerStateRepository creates a new ledger state repository bound to a
// transaction. The default ticket price seeds the state row on first use.
func NewLedgerStateRepository(tx Queryable, defaultTicketPrice int64) interfaces.LedgerStateRepository {
	return &LedgerStateRepository{q: tx, defaultTicketPrice: defaultTicketPrice}
}

const ledgerStateColumns = `id, current_round_id, ticket_price, carry_over_pool, owner_fee_balance, updated_at`

func scanLedgerState(row pgx.Row) (*entities.LedgerState, error) {
	var state entities.LedgerState
	err := row.Scan(
		&state.ID,
		&state.CurrentRoundID,
		&state.TicketPrice,
		&state.CarryOverPool,
		&state.OwnerFeeBalance,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *LedgerStateRepository) ensureRow(ctx context.Context) error {
	query := `
		INSERT INTO ledger_state (id, current_round_id, ticket_price)
		VALUES (1, 0, $1)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, r.defaultTicketPrice); err != nil {
		return fmt.Errorf("failed to initialize ledger state: %w", err)
	}
	return nil
}

// Get returns the ledger state, creating the initial row if absent
func (r *LedgerStateRepository) Get(ctx context.Context) (*entities.LedgerState, error) {
	if err := r.ensureRow(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + ledgerStateColumns + ` FROM ledger_state WHERE id = 1`

	state, err := scanLedgerState(r.q.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger state: %w", err)
	}
	return state, nil
}

// GetForUpdate returns the ledger state with a row lock for update
func (r *LedgerStateRepository) GetForUpdate(ctx context.Context) (*entities.LedgerState, error) {
	if err := r.ensureRow(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + ledgerStateColumns + ` FROM ledger_state WHERE id = 1 FOR UPDATE`

	state, err := scanLedgerState(r.q.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to lock ledger state: %w", err)
	}
	return state, nil
}

// Update persists the full ledger state
func (r *LedgerStateRepository) Update(ctx context.Context, state *entities.LedgerState) error {
	query := `
		UPDATE ledger_state
		SET current_round_id = $1, ticket_price = $2, carry_over_pool = $3,
		    owner_fee_balance = $4, updated_at = NOW()
		WHERE id = 1
	`

	tag, err := r.q.Exec(ctx, query,
		state.CurrentRoundID,
		state.TicketPrice,
		state.CarryOverPool,
		state.OwnerFeeBalance,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger state row missing")
	}
	return nil
}

// AddOwnerFees atomically accumulates owner fees
func (r *LedgerStateRepository) AddOwnerFees(ctx context.Context, amount int64) error {
	if err := r.ensureRow(ctx); err != nil {
		return err
	}

	query := `
		UPDATE ledger_state
		SET owner_fee_balance = owner_fee_balance + $1, updated_at = NOW()
		WHERE id = 1
	`

	if _, err := r.q.Exec(ctx, query, amount); err != nil {
		return fmt.Errorf("failed to add owner fees: %w", err)
	}
	return nil
}

// WithdrawOwnerFees zeroes the owner fee balance and returns the amount that
// was accumulated. The row lock serializes withdrawal against concurrent fee
// accrual, so the amount returned is exactly the amount zeroed. A concurrent
// duplicate observes zero.
func (r *LedgerStateRepository) WithdrawOwnerFees(ctx context.Context) (int64, error) {
	if err := r.ensureRow(ctx); err != nil {
		return 0, err
	}

	lockQuery := `SELECT owner_fee_balance FROM ledger_state WHERE id = 1 FOR UPDATE`

	var amount int64
	if err := r.q.QueryRow(ctx, lockQuery).Scan(&amount); err != nil {
		return 0, fmt.Errorf("failed to lock owner fees: %w", err)
	}
	if amount == 0 {
		return 0, nil
	}

	query := `UPDATE ledger_state SET owner_fee_balance = 0, updated_at = NOW() WHERE id = 1`
	if _, err := r.q.Exec(ctx, query); err != nil {
		return 0, fmt.Errorf("failed to withdraw owner fees: %w", err)
	}
	return amount, nil
}
