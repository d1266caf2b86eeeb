package repository

import (
	"context"
	"fmt"

	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// WinnerRepository implements winner record data access
type WinnerRepository struct {
	q Queryable
}

// NewWinnerRepository creates a new winner repository bound to a transaction
func NewWinnerRepository(tx Queryable) interfaces.WinnerRepository {
	return &WinnerRepository{q: tx}
}

const winnerColumns = `id, round_id, account_id, ticket_id, match_count, amount, created_at`

func scanWinners(rows pgx.Rows) ([]*entities.RoundWinner, error) {
	defer rows.Close()

	var winners []*entities.RoundWinner
	for rows.Next() {
		var winner entities.RoundWinner
		err := rows.Scan(
			&winner.ID,
			&winner.RoundID,
			&winner.Account,
			&winner.TicketID,
			&winner.MatchCount,
			&winner.Amount,
			&winner.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, &winner)
	}
	return winners, rows.Err()
}

// Create persists a winner record
func (r *WinnerRepository) Create(ctx context.Context, winner *entities.RoundWinner) error {
	query := `
		INSERT INTO round_winners (round_id, account_id, ticket_id, match_count, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		winner.RoundID,
		winner.Account,
		winner.TicketID,
		winner.MatchCount,
		winner.Amount,
	).Scan(&winner.ID, &winner.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create winner record: %w", err)
	}
	return nil
}

// GetByRound returns all winner records for a round
func (r *WinnerRepository) GetByRound(ctx context.Context, roundID int64) ([]*entities.RoundWinner, error) {
	query := `SELECT ` + winnerColumns + ` FROM round_winners WHERE round_id = $1 ORDER BY match_count DESC, id`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winners for round %d: %w", roundID, err)
	}
	return scanWinners(rows)
}

// GetByRoundAndTier returns winner records for one tier of a round
func (r *WinnerRepository) GetByRoundAndTier(ctx context.Context, roundID int64, matchCount int32) ([]*entities.RoundWinner, error) {
	query := `SELECT ` + winnerColumns + ` FROM round_winners WHERE round_id = $1 AND match_count = $2 ORDER BY id`

	rows, err := r.q.Query(ctx, query, roundID, matchCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get tier winners for round %d: %w", roundID, err)
	}
	return scanWinners(rows)
}
