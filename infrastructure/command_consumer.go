package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"lotteryd/application"
	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"
	"lotteryd/domain/services"

	log "github.com/sirupsen/logrus"
)

const (
	subjectPurchaseCommand = "lottery.cmd.purchase"
	subjectClaimCommand    = "lottery.cmd.claim"
)

// purchaseCommand is the wire form of a ticket purchase request
type purchaseCommand struct {
	Account entities.AccountID `json:"account"`
	Numbers []int32            `json:"numbers"`
	Payment int64              `json:"payment"`
}

// claimCommand is the wire form of a winnings claim request
type claimCommand struct {
	Account entities.AccountID `json:"account"`
}

// MessageHandler defines a function that handles raw message bytes
type MessageHandler func(ctx context.Context, data []byte) error

// CommandConsumer subscribes to lottery command subjects and executes each
// command in its own unit of work.
type CommandConsumer struct {
	natsClient *NATSClient
	uowFactory application.UnitOfWorkFactory
	randomness interfaces.RandomnessProvider
	tierTable  *entities.TierTable
	owner      entities.AccountID
	handlers   map[string]MessageHandler
	mu         sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

// NewCommandConsumer creates a new command consumer with all handlers configured
func NewCommandConsumer(
	natsClient *NATSClient,
	uowFactory application.UnitOfWorkFactory,
	randomness interfaces.RandomnessProvider,
	tierTable *entities.TierTable,
	owner entities.AccountID,
) *CommandConsumer {
	ctx, cancel := context.WithCancel(context.Background())

	cc := &CommandConsumer{
		natsClient: natsClient,
		uowFactory: uowFactory,
		randomness: randomness,
		tierTable:  tierTable,
		owner:      owner,
		handlers:   make(map[string]MessageHandler),
		ctx:        ctx,
		cancel:     cancel,
	}

	cc.RegisterHandler(subjectPurchaseCommand, cc.handlePurchase)
	cc.RegisterHandler(subjectClaimCommand, cc.handleClaim)

	return cc
}

// RegisterHandler registers a handler for a specific subject
func (cc *CommandConsumer) RegisterHandler(subject string, handler MessageHandler) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.handlers[subject] = handler
	log.WithField("subject", subject).Info("Registered command handler")
}

// Start begins consuming commands from all registered subjects. Blocks until
// Stop is called.
func (cc *CommandConsumer) Start(ctx context.Context) error {
	log.Info("Starting command consumer")

	if err := cc.natsClient.EnsureCommandStream(); err != nil {
		return fmt.Errorf("failed to ensure command stream: %w", err)
	}

	cc.mu.RLock()
	subjects := make([]string, 0, len(cc.handlers))
	for subject := range cc.handlers {
		subjects = append(subjects, subject)
	}
	cc.mu.RUnlock()

	for _, subject := range subjects {
		if err := cc.subscribe(subject); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
	}

	log.WithField("subjects", subjects).Info("Command consumer started")

	<-cc.ctx.Done()
	return nil
}

// Stop gracefully shuts down the consumer
func (cc *CommandConsumer) Stop() {
	log.Info("Stopping command consumer")
	cc.cancel()
}

func (cc *CommandConsumer) subscribe(subject string) error {
	return cc.natsClient.Subscribe(subject, func(data []byte) error {
		cc.mu.RLock()
		handler, exists := cc.handlers[subject]
		cc.mu.RUnlock()

		if !exists {
			return fmt.Errorf("no handler registered for subject: %s", subject)
		}

		if err := handler(context.Background(), data); err != nil {
			log.WithFields(log.Fields{
				"subject": subject,
				"error":   err,
			}).Error("Failed to handle command")
			return err
		}
		return nil
	})
}

// serviceFor builds a lottery service bound to the unit of work's transaction
func (cc *CommandConsumer) serviceFor(uow application.UnitOfWork) interfaces.LotteryService {
	return services.NewLotteryService(
		uow.RoundRepository(),
		uow.TicketRepository(),
		uow.WinnerRepository(),
		uow.BalanceRepository(),
		uow.LedgerStateRepository(),
		uow.LedgerEntryRepository(),
		cc.randomness,
		uow.PaymentRail(),
		uow.EventBus(),
		cc.tierTable,
		cc.owner,
	)
}

// handlePurchase executes a ticket purchase command. Rejections (bad numbers,
// wrong payment, closed round) are final: the message is acked, not retried.
func (cc *CommandConsumer) handlePurchase(ctx context.Context, data []byte) error {
	var cmd purchaseCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		log.WithError(err).Warn("Dropping malformed purchase command")
		return nil
	}

	uow := cc.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	result, err := cc.serviceFor(uow).PurchaseTicket(ctx, cmd.Account, cmd.Numbers, cmd.Payment)
	if err != nil {
		if isRejection(err) {
			log.WithFields(log.Fields{
				"account": cmd.Account,
				"reason":  err,
			}).Warn("Purchase command rejected")
			return nil
		}
		return fmt.Errorf("failed to purchase ticket: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"account":  cmd.Account,
		"roundID":  result.Round.ID,
		"ticketID": result.Ticket.ID,
	}).Info("Purchase command processed")
	return nil
}

// handleClaim executes a winnings claim command
func (cc *CommandConsumer) handleClaim(ctx context.Context, data []byte) error {
	var cmd claimCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		log.WithError(err).Warn("Dropping malformed claim command")
		return nil
	}

	uow := cc.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	amount, err := cc.serviceFor(uow).ClaimWinnings(ctx, cmd.Account)
	if err != nil {
		if isRejection(err) {
			log.WithFields(log.Fields{
				"account": cmd.Account,
				"reason":  err,
			}).Warn("Claim command rejected")
			return nil
		}
		return fmt.Errorf("failed to claim winnings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"account": cmd.Account,
		"amount":  amount,
	}).Info("Claim command processed")
	return nil
}

// isRejection reports whether the error is a caller mistake that retrying
// the same message can never fix.
func isRejection(err error) bool {
	return errors.Is(err, entities.ErrInvalidNumbers) ||
		errors.Is(err, entities.ErrWrongPayment) ||
		errors.Is(err, entities.ErrRoundEnded) ||
		errors.Is(err, entities.ErrNothingToClaim)
}
