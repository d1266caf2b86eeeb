package infrastructure

import (
	"fmt"

	"lotteryd/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeTicketPurchased:
		return "lottery.events.ticket_purchased"
	case events.EventTypeRoundStarted:
		return "lottery.events.round_started"
	case events.EventTypeRoundDrawn:
		return "lottery.events.round_drawn"
	case events.EventTypeWinnerDetermined:
		return "lottery.events.winner_determined"
	case events.EventTypeWinningsClaimed:
		return "lottery.events.winnings_claimed"
	case events.EventTypeOwnerFeesWithdrawn:
		return "lottery.events.owner_fees_withdrawn"
	case events.EventTypeLedgerEntryRecorded:
		return "lottery.events.ledger_entry_recorded"
	default:
		return fmt.Sprintf("lottery.events.unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"lottery.events.ticket_purchased",
		"lottery.events.round_started",
		"lottery.events.round_drawn",
		"lottery.events.winner_determined",
		"lottery.events.winnings_claimed",
		"lottery.events.owner_fees_withdrawn",
		"lottery.events.ledger_entry_recorded",
	}
}
