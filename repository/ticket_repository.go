package repository

import (
	"context"
	"fmt"

	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// TicketRepository implements ticket data access
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository bound to a transaction
func NewTicketRepository(tx Queryable) interfaces.TicketRepository {
	return &TicketRepository{q: tx}
}

const ticketColumns = `id, round_id, account_id, numbers, matched_count, purchase_price, purchased_at`

func scanTickets(rows pgx.Rows) ([]*entities.Ticket, error) {
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		var ticket entities.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.RoundID,
			&ticket.Owner,
			&ticket.Numbers,
			&ticket.MatchedCount,
			&ticket.PurchasePrice,
			&ticket.PurchasedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}
	return tickets, rows.Err()
}

// Create persists a new ticket, filling in its ID and purchase time
func (r *TicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		INSERT INTO tickets (round_id, account_id, numbers, purchase_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, purchased_at
	`

	err := r.q.QueryRow(ctx, query,
		ticket.RoundID,
		ticket.Owner,
		ticket.Numbers,
		ticket.PurchasePrice,
	).Scan(&ticket.ID, &ticket.PurchasedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// GetByRound returns all tickets for a round in purchase order
func (r *TicketRepository) GetByRound(ctx context.Context, roundID int64) ([]*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE round_id = $1 ORDER BY id`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for round %d: %w", roundID, err)
	}
	return scanTickets(rows)
}

// GetByOwnerForRound returns an account's tickets for a round
func (r *TicketRepository) GetByOwnerForRound(ctx context.Context, roundID int64, owner entities.AccountID) ([]*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE round_id = $1 AND account_id = $2 ORDER BY id`

	rows, err := r.q.Query(ctx, query, roundID, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for account %s: %w", owner, err)
	}
	return scanTickets(rows)
}

// CountForRound returns the total number of tickets in a round
func (r *TicketRepository) CountForRound(ctx context.Context, roundID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE round_id = $1`

	var count int64
	if err := r.q.QueryRow(ctx, query, roundID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets for round %d: %w", roundID, err)
	}
	return count, nil
}

// GetParticipantSummary returns per-account ticket counts for a round
func (r *TicketRepository) GetParticipantSummary(ctx context.Context, roundID int64) ([]*entities.ParticipantInfo, error) {
	query := `
		SELECT account_id, COUNT(*) AS ticket_count
		FROM tickets
		WHERE round_id = $1
		GROUP BY account_id
		ORDER BY ticket_count DESC, account_id
	`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant summary for round %d: %w", roundID, err)
	}
	defer rows.Close()

	var participants []*entities.ParticipantInfo
	for rows.Next() {
		var info entities.ParticipantInfo
		if err := rows.Scan(&info.Account, &info.TicketCount); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, &info)
	}
	return participants, rows.Err()
}

// SetMatchedCount records a ticket's sequential match count after the draw
func (r *TicketRepository) SetMatchedCount(ctx context.Context, ticketID int64, matchedCount int32) error {
	query := `UPDATE tickets SET matched_count = $2 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, ticketID, matchedCount)
	if err != nil {
		return fmt.Errorf("failed to set matched count for ticket %d: %w", ticketID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ticket %d not found", ticketID)
	}
	return nil
}
