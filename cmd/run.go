package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"lotteryd/application"
	"lotteryd/config"
	"lotteryd/database"
	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"
	"lotteryd/infrastructure"
	"lotteryd/repository"
)

// Run initializes and starts the lottery engine
func Run(ctx context.Context) error {
	log.Println("Starting lottery engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize NATS
	log.Println("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureEventStream(); err != nil {
		natsClient.Close()
		db.Close()
		return fmt.Errorf("failed to ensure event stream: %w", err)
	}

	// Initialize unit of work factory. Each unit of work buffers its events
	// and flushes them only after its transaction commits.
	uowFactory := repository.NewUnitOfWorkFactory(db, cfg.TicketPrice, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNATSTransactionalPublisher(eventPublisher)
	})

	tierTable := entities.DefaultTierTable()
	randomness := infrastructure.NewCryptoRandomnessProvider()
	owner := entities.AccountID(cfg.OwnerAccount)

	// Start the draw worker
	drawWorker := application.NewDrawWorker(uowFactory, randomness, tierTable, owner, cfg.RoundDuration)
	stopWorker := drawWorker.Start(ctx)

	// Start the command consumer
	commandConsumer := infrastructure.NewCommandConsumer(natsClient, uowFactory, randomness, tierTable, owner)
	consumerErr := make(chan error, 1)
	go func() {
		consumerErr <- commandConsumer.Start(ctx)
	}()

	log.Printf("Lottery engine is running in %s mode...", cfg.Environment)

	select {
	case <-ctx.Done():
	case err := <-consumerErr:
		if err != nil {
			log.Printf("Command consumer error: %v", err)
		}
	}

	// Cleanup resources
	log.Println("Shutting down lottery engine...")

	stopWorker()
	commandConsumer.Stop()

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
