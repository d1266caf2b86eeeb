package repository

import (
	"context"
	"fmt"
	"time"

	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// RoundRepository implements round data access
type RoundRepository struct {
	q Queryable
}

// NewRoundRepository creates a new round repository bound to a transaction
func NewRoundRepository(tx Queryable) interfaces.RoundRepository {
	return &RoundRepository{q: tx}
}

const roundColumns = `id, ticket_price, prize_pool, start_time, end_time, winning_numbers, drawn_at, created_at`

func scanRound(row pgx.Row) (*entities.Round, error) {
	var round entities.Round
	err := row.Scan(
		&round.ID,
		&round.TicketPrice,
		&round.PrizePool,
		&round.StartTime,
		&round.EndTime,
		&round.WinningNumbers,
		&round.DrawnAt,
		&round.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// Create persists a new round. Round IDs are assigned by the caller so they
// stay contiguous and monotonic across rounds.
func (r *RoundRepository) Create(ctx context.Context, round *entities.Round) error {
	query := `
		INSERT INTO rounds (id, ticket_price, prize_pool, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		round.ID,
		round.TicketPrice,
		round.PrizePool,
		round.StartTime,
		round.EndTime,
	).Scan(&round.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// GetByID retrieves a round by its ID, nil if not found
func (r *RoundRepository) GetByID(ctx context.Context, id int64) (*entities.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`

	round, err := scanRound(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round by ID %d: %w", id, err)
	}
	return round, nil
}

// GetByIDForUpdate retrieves a round by ID with a row lock for update
func (r *RoundRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1 FOR UPDATE`

	round, err := scanRound(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock round %d: %w", id, err)
	}
	return round, nil
}

// IncrementPrizePool atomically adds to an undrawn round's prize pool
func (r *RoundRepository) IncrementPrizePool(ctx context.Context, roundID, amount int64) error {
	query := `
		UPDATE rounds
		SET prize_pool = prize_pool + $2
		WHERE id = $1 AND drawn_at IS NULL
	`

	tag, err := r.q.Exec(ctx, query, roundID, amount)
	if err != nil {
		return fmt.Errorf("failed to increment prize pool for round %d: %w", roundID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("round %d is not accepting pool contributions", roundID)
	}
	return nil
}

// MarkDrawn atomically transitions an undrawn round to drawn. The drawn_at
// guard makes the transition first-writer-wins: a concurrent caller sees
// zero rows affected and reports the round as already drawn.
func (r *RoundRepository) MarkDrawn(ctx context.Context, roundID int64, winningNumbers []int32, drawnAt time.Time) (bool, error) {
	query := `
		UPDATE rounds
		SET winning_numbers = $2, drawn_at = $3
		WHERE id = $1 AND drawn_at IS NULL
	`

	tag, err := r.q.Exec(ctx, query, roundID, winningNumbers, drawnAt)
	if err != nil {
		return false, fmt.Errorf("failed to mark round %d drawn: %w", roundID, err)
	}
	return tag.RowsAffected() == 1, nil
}
