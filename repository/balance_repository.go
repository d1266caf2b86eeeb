package repository

import (
	"context"
	"fmt"

	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// BalanceRepository implements claimable balance data access
type BalanceRepository struct {
	q Queryable
}

// NewBalanceRepository creates a new balance repository bound to a transaction
func NewBalanceRepository(tx Queryable) interfaces.BalanceRepository {
	return &BalanceRepository{q: tx}
}

// Get returns an account's claimable balance, zero if never credited
func (r *BalanceRepository) Get(ctx context.Context, account entities.AccountID) (int64, error) {
	query := `SELECT amount FROM claimable_balances WHERE account_id = $1`

	var amount int64
	err := r.q.QueryRow(ctx, query, account).Scan(&amount)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance for account %s: %w", account, err)
	}
	return amount, nil
}

// Credit adds to an account's claimable balance, creating the row on first
// credit
func (r *BalanceRepository) Credit(ctx context.Context, account entities.AccountID, amount int64) error {
	query := `
		INSERT INTO claimable_balances (account_id, amount)
		VALUES ($1, $2)
		ON CONFLICT (account_id)
		DO UPDATE SET amount = claimable_balances.amount + EXCLUDED.amount, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, account, amount); err != nil {
		return fmt.Errorf("failed to credit account %s: %w", account, err)
	}
	return nil
}

// ClaimAll zeroes an account's claimable balance and returns the amount that
// was claimable. The row lock serializes claiming against concurrent credits
// and duplicate claims, so the amount returned is exactly the amount zeroed.
// A duplicate claim waits for the first to commit, then observes zero.
func (r *BalanceRepository) ClaimAll(ctx context.Context, account entities.AccountID) (int64, error) {
	lockQuery := `SELECT amount FROM claimable_balances WHERE account_id = $1 FOR UPDATE`

	var amount int64
	err := r.q.QueryRow(ctx, lockQuery, account).Scan(&amount)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock balance for account %s: %w", account, err)
	}
	if amount == 0 {
		return 0, nil
	}

	query := `UPDATE claimable_balances SET amount = 0, updated_at = NOW() WHERE account_id = $1`
	if _, err := r.q.Exec(ctx, query, account); err != nil {
		return 0, fmt.Errorf("failed to claim balance for account %s: %w", account, err)
	}
	return amount, nil
}
