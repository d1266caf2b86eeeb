package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lotteryd/domain/entities"
	"lotteryd/domain/interfaces"
	"lotteryd/domain/services"

	log "github.com/sirupsen/logrus"
)

// retryInterval is how long the worker sleeps after a transient failure or
// when no round exists yet.
const retryInterval = time.Minute

// DrawWorker conducts scheduled draws. It sleeps until the current round's
// end time, draws it as the owner account, and immediately opens the next
// round so ticket sales never stall.
type DrawWorker struct {
	uowFactory    UnitOfWorkFactory
	randomness    interfaces.RandomnessProvider
	tierTable     *entities.TierTable
	owner         entities.AccountID
	roundDuration time.Duration
}

// NewDrawWorker creates a new draw worker
func NewDrawWorker(
	uowFactory UnitOfWorkFactory,
	randomness interfaces.RandomnessProvider,
	tierTable *entities.TierTable,
	owner entities.AccountID,
	roundDuration time.Duration,
) *DrawWorker {
	return &DrawWorker{
		uowFactory:    uowFactory,
		randomness:    randomness,
		tierTable:     tierTable,
		owner:         owner,
		roundDuration: roundDuration,
	}
}

// serviceFor builds a lottery service bound to the unit of work's transaction.
func (w *DrawWorker) serviceFor(uow UnitOfWork) interfaces.LotteryService {
	return services.NewLotteryService(
		uow.RoundRepository(),
		uow.TicketRepository(),
		uow.WinnerRepository(),
		uow.BalanceRepository(),
		uow.LedgerStateRepository(),
		uow.LedgerEntryRepository(),
		w.randomness,
		uow.PaymentRail(),
		uow.EventBus(),
		w.tierTable,
		w.owner,
	)
}

// Start begins the draw worker and returns a stop function.
func (w *DrawWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Draw worker started")

		if err := w.ensureRound(ctx); err != nil {
			log.WithError(err).Error("Failed to ensure an open round")
		}

		for {
			waitDuration := retryInterval
			if endTime := w.currentRoundEnd(ctx); endTime != nil {
				waitDuration = time.Until(*endTime)
				if waitDuration <= 0 {
					if err := w.processDraw(ctx); err != nil {
						log.WithError(err).Error("Failed to process draw")
						waitDuration = retryInterval
					} else {
						continue
					}
				} else {
					log.Infof("Next draw at %v (in %v)", endTime.UTC(), waitDuration)
				}
			}

			select {
			case <-ctx.Done():
				log.Info("Draw worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Draw worker shutting down (stop requested)...")
				return
			case <-time.After(waitDuration):
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// ensureRound opens the first round if none has ever been started.
func (w *DrawWorker) ensureRound(ctx context.Context) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	state, err := uow.LedgerStateRepository().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get ledger state: %w", err)
	}
	if state.CurrentRoundID != 0 {
		return nil
	}

	round, err := w.serviceFor(uow).StartNewRound(ctx, w.owner, w.roundDuration)
	if err != nil {
		return fmt.Errorf("failed to start first round: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("roundID", round.ID).Info("Opened first round")
	return nil
}

// currentRoundEnd reads the current round's end time, nil when unavailable.
func (w *DrawWorker) currentRoundEnd(ctx context.Context) *time.Time {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Error("Failed to begin transaction for round end time")
		return nil
	}
	defer uow.Rollback()

	state, err := uow.LedgerStateRepository().Get(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to get ledger state")
		return nil
	}
	if state.CurrentRoundID == 0 {
		return nil
	}

	round, err := uow.RoundRepository().GetByID(ctx, state.CurrentRoundID)
	if err != nil || round == nil {
		log.WithError(err).Errorf("Failed to get round %d", state.CurrentRoundID)
		return nil
	}
	if round.IsDrawn() {
		return nil
	}
	return &round.EndTime
}

// processDraw draws the ended round and opens the next one, in one
// transaction so the carry-over seed and the new round appear atomically.
func (w *DrawWorker) processDraw(ctx context.Context) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	lotteryService := w.serviceFor(uow)

	result, err := lotteryService.Draw(ctx, w.owner)
	if err != nil {
		// Another instance got there first. The round check on the next
		// loop iteration will pick up the new round.
		if errors.Is(err, entities.ErrAlreadyDrawn) {
			log.Info("Round already drawn elsewhere, skipping")
			return nil
		}
		return fmt.Errorf("failed to draw round: %w", err)
	}

	next, err := lotteryService.StartNewRound(ctx, w.owner, w.roundDuration)
	if err != nil {
		return fmt.Errorf("failed to start next round: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"drawnRound":    result.Round.ID,
		"winnerCount":   len(result.Distribution.Shares),
		"undistributed": result.Distribution.Undistributed,
		"nextRound":     next.ID,
	}).Info("Draw processed")

	return nil
}
