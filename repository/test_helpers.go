package repository

import (
	"context"

	"lotteryd/application"
	"lotteryd/database"
	"lotteryd/domain/events"
	"lotteryd/domain/interfaces"
)

// discardPublisher buffers nothing and publishes nowhere, for tests that do
// not assert on events.
type discardPublisher struct{}

func (discardPublisher) Publish(event events.Event) error { return nil }

func (discardPublisher) Flush(ctx context.Context) {}

func (discardPublisher) Discard() {}

// NewTestUnitOfWorkFactory creates a unit of work factory for tests
func NewTestUnitOfWorkFactory(db *database.DB) application.UnitOfWorkFactory {
	return NewUnitOfWorkFactory(db, 1000, func() interfaces.TransactionalEventPublisher {
		return discardPublisher{}
	})
}
