package utils

import (
	"context"
	"fmt"

	"lotteryd/domain/entities"
	"lotteryd/domain/events"
	"lotteryd/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordLedgerEntry appends a ledger entry and emits the mirroring event.
// This is the single entry point for all monetary movements in the system.
func RecordLedgerEntry(ctx context.Context, entryRepo interfaces.LedgerEntryRepository, eventPublisher interfaces.EventPublisher, entry *entities.LedgerEntry) error {
	if err := entryRepo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	event := events.LedgerEntryRecordedEvent{
		Account:   entry.Account,
		RoundID:   entry.RoundID,
		Amount:    entry.Amount,
		EntryType: entry.EntryType,
	}
	log.WithFields(log.Fields{
		"account":   event.Account,
		"amount":    event.Amount,
		"entryType": event.EntryType,
	}).Debug("Publishing LedgerEntryRecordedEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish ledger entry event")
	}

	return nil
}
