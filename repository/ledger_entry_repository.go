package repository

import (
	"context"
	"fmt"

	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"
)

// LedgerEntryRepository implements the append-only audit log
type LedgerEntryRepository struct {
	q Queryable
}

// NewLedgerEntryRepository creates a new ledger entry repository bound to a
// transaction
func NewLedgerEntryRepository(tx Queryable) interfaces.LedgerEntryRepository {
	return &LedgerEntryRepository{q: tx}
}

// Record appends a ledger entry
func (r *LedgerEntryRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (account_id, round_id, amount, entry_type, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.Account,
		entry.RoundID,
		entry.Amount,
		entry.EntryType,
		entry.Metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return nil
}

// GetByAccount returns an account's most recent entries
func (r *LedgerEntryRepository) GetByAccount(ctx context.Context, account entities.AccountID, limit int) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT id, account_id, round_id, amount, entry_type, metadata, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, account, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for account %s: %w", account, err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		var entry entities.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Account,
			&entry.RoundID,
			&entry.Amount,
			&entry.EntryType,
			&entry.Metadata,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
