package entities

import (
	"time"
)

// Round represents one lottery cycle. A round accepts tickets while its end
// time has not passed and it has not been drawn; the transition to drawn is
// irreversible and happens exactly once. After drawing, the round is
// immutable except for carry-over bookkeeping performed by the ledger.
type Round struct {
	ID             int64      `db:"id"`
	TicketPrice    int64      `db:"ticket_price"`
	PrizePool      int64      `db:"prize_pool"` // net of owner fee
	StartTime      time.Time  `db:"start_time"`
	EndTime        time.Time  `db:"end_time"`
	WinningNumbers []int32    `db:"winning_numbers"` // empty until drawn
	DrawnAt        *time.Time `db:"drawn_at"`        // NULL until drawn
	CreatedAt      time.Time  `db:"created_at"`
}

// IsDrawn returns true once the round's winning numbers have been drawn.
func (r *Round) IsDrawn() bool {
	return r.DrawnAt != nil
}

// HasEnded returns true once the round's ticket window has closed.
func (r *Round) HasEnded() bool {
	return !time.Now().Before(r.EndTime)
}

// AcceptingTickets returns true while tickets can still be purchased.
func (r *Round) AcceptingTickets() bool {
	return !r.IsDrawn() && !r.HasEnded()
}

// CanDraw returns true once the round is past its end time and undrawn.
func (r *Round) CanDraw() bool {
	return !r.IsDrawn() && r.HasEnded()
}

// Complete marks the round as drawn with the given winning numbers.
func (r *Round) Complete(winningNumbers []int32) {
	r.WinningNumbers = winningNumbers
	now := time.Now()
	r.DrawnAt = &now
}

// RoundWinner records one winning ticket's prize within a drawn round.
type RoundWinner struct {
	ID         int64     `db:"id"`
	RoundID    int64     `db:"round_id"`
	Account    AccountID `db:"account_id"`
	TicketID   int64     `db:"ticket_id"`
	MatchCount int32     `db:"match_count"`
	Amount     int64     `db:"amount"`
	CreatedAt  time.Time `db:"created_at"`
}
