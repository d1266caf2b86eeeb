package events

import (
	"time"

	"lotteryd/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTicketPurchased     EventType = "ticket_purchased"
	EventTypeRoundStarted        EventType = "round_started"
	EventTypeRoundDrawn          EventType = "round_drawn"
	EventTypeWinnerDetermined    EventType = "winner_determined"
	EventTypeWinningsClaimed     EventType = "winnings_claimed"
	EventTypeOwnerFeesWithdrawn  EventType = "owner_fees_withdrawn"
	EventTypeLedgerEntryRecorded EventType = "ledger_entry_recorded"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// TicketPurchasedEvent represents a ticket purchase accepted into a round
type TicketPurchasedEvent struct {
	RoundID   int64
	Account   entities.AccountID
	Numbers   []int32
	NetAmount int64
	OwnerFee  int64
}

func (e TicketPurchasedEvent) Type() EventType {
	return EventTypeTicketPurchased
}

// RoundStartedEvent represents a new round opening for ticket sales
type RoundStartedEvent struct {
	RoundID      int64
	TicketPrice  int64
	StartingPool int64 // carry-over seeded from the previous round
	EndTime      time.Time
}

func (e RoundStartedEvent) Type() EventType {
	return EventTypeRoundStarted
}

// RoundDrawnEvent represents a completed draw
type RoundDrawnEvent struct {
	RoundID        int64
	WinningNumbers []int32
	PrizePool      int64
	WinnerCount    int
	Undistributed  int64
}

func (e RoundDrawnEvent) Type() EventType {
	return EventTypeRoundDrawn
}

// WinnerDeterminedEvent represents one winning ticket's prize
type WinnerDeterminedEvent struct {
	RoundID    int64
	Account    entities.AccountID
	TicketID   int64
	MatchCount int32
	Amount     int64
}

func (e WinnerDeterminedEvent) Type() EventType {
	return EventTypeWinnerDetermined
}

// WinningsClaimedEvent represents a successful claim of an account's balance
type WinningsClaimedEvent struct {
	Account entities.AccountID
	Amount  int64
}

func (e WinningsClaimedEvent) Type() EventType {
	return EventTypeWinningsClaimed
}

// OwnerFeesWithdrawnEvent represents an owner fee withdrawal
type OwnerFeesWithdrawnEvent struct {
	Account entities.AccountID
	Amount  int64
}

func (e OwnerFeesWithdrawnEvent) Type() EventType {
	return EventTypeOwnerFeesWithdrawn
}

// LedgerEntryRecordedEvent mirrors every monetary movement in the ledger
type LedgerEntryRecordedEvent struct {
	Account   entities.AccountID
	RoundID   *int64
	Amount    int64
	EntryType entities.EntryType
}

func (e LedgerEntryRecordedEvent) Type() EventType {
	return EventTypeLedgerEntryRecorded
}
