package repository

import (
	"context"
	"fmt"

	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"
)

// PayoutRepository implements the payment rail as a payouts table. Each
// transfer becomes one row that downstream settlement picks up; because the
// row is written inside the claiming transaction, a failed insert rolls the
// claim back with it.
type PayoutRepository struct {
	q Queryable
}

// NewPayoutRepository creates a new payout repository bound to a transaction
func NewPayoutRepository(tx Queryable) interfaces.PaymentRail {
	return &PayoutRepository{q: tx}
}

// Transfer records a payout toward the account
func (r *PayoutRepository) Transfer(ctx context.Context, to entities.AccountID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("payout amount must be positive, got %d", amount)
	}

	query := `INSERT INTO payouts (account_id, amount) VALUES ($1, $2)`

	if _, err := r.q.Exec(ctx, query, to, amount); err != nil {
		return fmt.Errorf("failed to record payout for account %s: %w", to, err)
	}
	return nil
}
