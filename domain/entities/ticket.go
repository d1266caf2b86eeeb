package entities

import (
	"time"
)

const (
	// TicketNumberCount is the fixed length of a ticket's number sequence.
	TicketNumberCount = 7

	// MinNumber and MaxNumber bound each individual ticket number.
	MinNumber = 1
	MaxNumber = 49
)

// AccountID identifies a participant account.
type AccountID string

// Ticket represents a single lottery ticket. Numbers are fixed for the
// ticket's lifetime; MatchedCount is nil until the owning round is drawn and
// is written exactly once.
type Ticket struct {
	ID            int64     `db:"id"`
	RoundID       int64     `db:"round_id"`
	Owner         AccountID `db:"account_id"`
	Numbers       []int32   `db:"numbers"`
	MatchedCount  *int32    `db:"matched_count"` // NULL until the round is drawn
	PurchasePrice int64     `db:"purchase_price"`
	PurchasedAt   time.Time `db:"purchased_at"`
}

// ValidateNumbers checks a prospective ticket's number sequence. Duplicates
// within a ticket are permitted; only length and range are enforced.
func ValidateNumbers(numbers []int32) error {
	if len(numbers) != TicketNumberCount {
		return ErrInvalidNumbers
	}
	for _, n := range numbers {
		if n < MinNumber || n > MaxNumber {
			return ErrInvalidNumbers
		}
	}
	return nil
}

// SequentialMatches returns the length of the longest prefix for which the
// ticket numbers equal the winning numbers position by position. Scoring
// stops at the first mismatch; later incidental matches earn no credit.
func SequentialMatches(ticketNumbers, winningNumbers []int32) int32 {
	var matched int32
	for i := 0; i < len(ticketNumbers) && i < len(winningNumbers); i++ {
		if ticketNumbers[i] != winningNumbers[i] {
			break
		}
		matched++
	}
	return matched
}

// Score computes the ticket's sequential match count against the winning
// numbers.
func (t *Ticket) Score(winningNumbers []int32) int32 {
	return SequentialMatches(t.Numbers, winningNumbers)
}

// IsScored returns true once the ticket's round has been drawn and the
// matched count recorded.
func (t *Ticket) IsScored() bool {
	return t.MatchedCount != nil
}

// ParticipantInfo summarizes one account's tickets within a round.
type ParticipantInfo struct {
	Account     AccountID `db:"account_id"`
	TicketCount int64     `db:"ticket_count"`
}
