package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"lotteryd/domain/entities"
	"lotteryd/domain/events"
	"lotteryd/domain/interfaces"
	"lotteryd/domain/utils"

	log "github.com/sirupsen/logrus"
)

// defaultHistoryLimit caps ledger history pages when callers pass no limit.
const defaultHistoryLimit = 50

// lotteryService orchestrates rounds, tickets, draws and the prize ledger.
// All repositories handed to a service instance must belong to the same
// transaction; every operation is all-or-nothing within it.
type lotteryService struct {
	roundRepo      interfaces.RoundRepository
	ticketRepo     interfaces.TicketRepository
	winnerRepo     interfaces.WinnerRepository
	balanceRepo    interfaces.BalanceRepository
	stateRepo      interfaces.LedgerStateRepository
	entryRepo      interfaces.LedgerEntryRepository
	randomness     interfaces.RandomnessProvider
	paymentRail    interfaces.PaymentRail
	eventPublisher interfaces.EventPublisher
	tierTable      *entities.TierTable
	owner          entities.AccountID
}

// NewLotteryService creates a new lottery service
func NewLotteryService(
	roundRepo interfaces.RoundRepository,
	ticketRepo interfaces.TicketRepository,
	winnerRepo interfaces.WinnerRepository,
	balanceRepo interfaces.BalanceRepository,
	stateRepo interfaces.LedgerStateRepository,
	entryRepo interfaces.LedgerEntryRepository,
	randomness interfaces.RandomnessProvider,
	paymentRail interfaces.PaymentRail,
	eventPublisher interfaces.EventPublisher,
	tierTable *entities.TierTable,
	owner entities.AccountID,
) interfaces.LotteryService {
	return &lotteryService{
		roundRepo:      roundRepo,
		ticketRepo:     ticketRepo,
		winnerRepo:     winnerRepo,
		balanceRepo:    balanceRepo,
		stateRepo:      stateRepo,
		entryRepo:      entryRepo,
		randomness:     randomness,
		paymentRail:    paymentRail,
		eventPublisher: eventPublisher,
		tierTable:      tierTable,
		owner:          owner,
	}
}

// PurchaseTicket buys one ticket for the current round.
func (s *lotteryService) PurchaseTicket(ctx context.Context, account entities.AccountID, numbers []int32, payment int64) (*interfaces.PurchaseResult, error) {
	if err := entities.ValidateNumbers(numbers); err != nil {
		return nil, err
	}

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger state: %w", err)
	}
	if state.CurrentRoundID == 0 {
		return nil, errors.New("no round has been started")
	}

	round, err := s.roundRepo.GetByID(ctx, state.CurrentRoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round %d: %w", state.CurrentRoundID, err)
	}
	if round == nil {
		return nil, fmt.Errorf("round %d not found", state.CurrentRoundID)
	}
	if !round.AcceptingTickets() {
		return nil, entities.ErrRoundEnded
	}
	if payment != round.TicketPrice {
		return nil, fmt.Errorf("%w: expected %d, got %d", entities.ErrWrongPayment, round.TicketPrice, payment)
	}

	ownerFee := payment * entities.OwnerFeeBasisPoints / entities.BasisPointsTotal
	netAmount := payment - ownerFee

	if err := s.roundRepo.IncrementPrizePool(ctx, round.ID, netAmount); err != nil {
		return nil, fmt.Errorf("failed to add to prize pool: %w", err)
	}
	if err := s.stateRepo.AddOwnerFees(ctx, ownerFee); err != nil {
		return nil, fmt.Errorf("failed to accumulate owner fee: %w", err)
	}
	round.PrizePool += netAmount

	ticket := &entities.Ticket{
		RoundID:       round.ID,
		Owner:         account,
		Numbers:       numbers,
		PurchasePrice: payment,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	roundID := round.ID
	err = utils.RecordLedgerEntry(ctx, s.entryRepo, s.eventPublisher, &entities.LedgerEntry{
		Account:   account,
		RoundID:   &roundID,
		Amount:    -payment,
		EntryType: entities.EntryTypeTicketPurchase,
		Metadata:  map[string]any{"numbers": utils.FormatNumbers(numbers)},
	})
	if err != nil {
		return nil, err
	}
	err = utils.RecordLedgerEntry(ctx, s.entryRepo, s.eventPublisher, &entities.LedgerEntry{
		Account:   s.owner,
		RoundID:   &roundID,
		Amount:    ownerFee,
		EntryType: entities.EntryTypeOwnerFee,
	})
	if err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.TicketPurchasedEvent{
		RoundID:   round.ID,
		Account:   account,
		Numbers:   numbers,
		NetAmount: netAmount,
		OwnerFee:  ownerFee,
	}); err != nil {
		log.WithError(err).Error("Failed to publish TicketPurchasedEvent")
	}

	log.WithFields(log.Fields{
		"roundID": round.ID,
		"account": account,
		"numbers": utils.FormatNumbers(numbers),
	}).Info("Ticket purchased")

	return &interfaces.PurchaseResult{
		Ticket:    ticket,
		Round:     round,
		NetAmount: netAmount,
		OwnerFee:  ownerFee,
	}, nil
}

// Draw conducts the current round's draw.
func (s *lotteryService) Draw(ctx context.Context, caller entities.AccountID) (*interfaces.DrawResult, error) {
	if caller != s.owner {
		return nil, entities.ErrNotAuthorized
	}

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger state: %w", err)
	}
	if state.CurrentRoundID == 0 {
		return nil, errors.New("no round has been started")
	}

	round, err := s.roundRepo.GetByIDForUpdate(ctx, state.CurrentRoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock round %d: %w", state.CurrentRoundID, err)
	}
	if round == nil {
		return nil, fmt.Errorf("round %d not found", state.CurrentRoundID)
	}
	if round.IsDrawn() {
		return nil, entities.ErrAlreadyDrawn
	}
	if !round.HasEnded() {
		return nil, entities.ErrRoundNotEnded
	}

	// Obtain the winning numbers before touching any state, so a failed
	// provider leaves the round exactly as it was.
	winningNumbers, err := s.randomness.Draw(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to draw winning numbers: %w", err)
	}
	if err := entities.ValidateNumbers(winningNumbers); err != nil {
		return nil, fmt.Errorf("%w: provider returned invalid numbers: %v", entities.ErrRandomnessUnavailable, err)
	}

	drawn, err := s.roundRepo.MarkDrawn(ctx, round.ID, winningNumbers, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to mark round drawn: %w", err)
	}
	if !drawn {
		return nil, entities.ErrAlreadyDrawn
	}
	round.Complete(winningNumbers)

	tickets, err := s.ticketRepo.GetByRound(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round tickets: %w", err)
	}
	for _, ticket := range tickets {
		matched := ticket.Score(winningNumbers)
		if err := s.ticketRepo.SetMatchedCount(ctx, ticket.ID, matched); err != nil {
			return nil, fmt.Errorf("failed to record ticket score: %w", err)
		}
		ticket.MatchedCount = &matched
	}

	dist := entities.DistributePrizes(round.PrizePool, tickets, s.tierTable)

	roundID := round.ID
	for _, account := range sortedAccounts(dist.Credits) {
		amount := dist.Credits[account]
		if err := s.balanceRepo.Credit(ctx, account, amount); err != nil {
			return nil, fmt.Errorf("failed to credit winnings: %w", err)
		}
		err = utils.RecordLedgerEntry(ctx, s.entryRepo, s.eventPublisher, &entities.LedgerEntry{
			Account:   account,
			RoundID:   &roundID,
			Amount:    amount,
			EntryType: entities.EntryTypePrizeCredit,
		})
		if err != nil {
			return nil, err
		}
	}

	for _, share := range dist.Shares {
		winner := &entities.RoundWinner{
			RoundID:    round.ID,
			Account:    share.Account,
			TicketID:   share.TicketID,
			MatchCount: share.MatchCount,
			Amount:     share.Amount,
		}
		if err := s.winnerRepo.Create(ctx, winner); err != nil {
			return nil, fmt.Errorf("failed to record winner: %w", err)
		}
		if err := s.eventPublisher.Publish(events.WinnerDeterminedEvent{
			RoundID:    round.ID,
			Account:    share.Account,
			TicketID:   share.TicketID,
			MatchCount: share.MatchCount,
			Amount:     share.Amount,
		}); err != nil {
			log.WithError(err).Error("Failed to publish WinnerDeterminedEvent")
		}
	}

	if dist.Undistributed > 0 {
		lockedState, err := s.stateRepo.GetForUpdate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to lock ledger state: %w", err)
		}
		lockedState.CarryOverPool += dist.Undistributed
		if err := s.stateRepo.Update(ctx, lockedState); err != nil {
			return nil, fmt.Errorf("failed to update carry-over pool: %w", err)
		}
		err = utils.RecordLedgerEntry(ctx, s.entryRepo, s.eventPublisher, &entities.LedgerEntry{
			Account:   entities.SystemAccount,
			RoundID:   &roundID,
			Amount:    dist.Undistributed,
			EntryType: entities.EntryTypeCarryOver,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.eventPublisher.Publish(events.RoundDrawnEvent{
		RoundID:        round.ID,
		WinningNumbers: winningNumbers,
		PrizePool:      round.PrizePool,
		WinnerCount:    len(dist.Shares),
		Undistributed:  dist.Undistributed,
	}); err != nil {
		log.WithError(err).Error("Failed to publish RoundDrawnEvent")
	}

	log.WithFields(log.Fields{
		"roundID":        round.ID,
		"winningNumbers": utils.FormatNumbers(winningNumbers),
		"prizePool":      round.PrizePool,
		"winners":        len(dist.Shares),
		"undistributed":  dist.Undistributed,
	}).Info("Round drawn")

	return &interfaces.DrawResult{Round: round, Distribution: dist}, nil
}

// StartNewRound opens the next round, seeding it with the carry-over pool.
func (s *lotteryService) StartNewRound(ctx context.Context, caller entities.AccountID, duration time.Duration) (*entities.Round, error) {
	if caller != s.owner {
		return nil, entities.ErrNotAuthorized
	}
	if duration <= 0 {
		return nil, fmt.Errorf("round duration must be positive, got %s", duration)
	}

	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock ledger state: %w", err)
	}

	if state.CurrentRoundID != 0 {
		current, err := s.roundRepo.GetByID(ctx, state.CurrentRoundID)
		if err != nil {
			return nil, fmt.Errorf("failed to get round %d: %w", state.CurrentRoundID, err)
		}
		if current != nil && !current.IsDrawn() {
			return nil, entities.ErrCurrentRoundNotDrawn
		}
	}

	carryOver := state.CarryOverPool
	now := time.Now()
	round := &entities.Round{
		ID:          state.CurrentRoundID + 1,
		TicketPrice: state.TicketPrice,
		PrizePool:   carryOver,
		StartTime:   now,
		EndTime:     now.Add(duration),
	}
	if err := s.roundRepo.Create(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	state.CurrentRoundID = round.ID
	state.CarryOverPool = 0
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to update ledger state: %w", err)
	}

	if err := s.eventPublisher.Publish(events.RoundStartedEvent{
		RoundID:      round.ID,
		TicketPrice:  round.TicketPrice,
		StartingPool: carryOver,
		EndTime:      round.EndTime,
	}); err != nil {
		log.WithError(err).Error("Failed to publish RoundStartedEvent")
	}

	log.WithFields(log.Fields{
		"roundID":      round.ID,
		"ticketPrice":  round.TicketPrice,
		"startingPool": carryOver,
		"endTime":      round.EndTime,
	}).Info("New round started")

	return round, nil
}

// ClaimWinnings pays out an account's entire claimable balance.
func (s *lotteryService) ClaimWinnings(ctx context.Context, account entities.AccountID) (int64, error) {
	amount, err := s.balanceRepo.ClaimAll(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to claim balance: %w", err)
	}
	if amount == 0 {
		return 0, entities.ErrNothingToClaim
	}

	// The transfer happens inside the same transaction as the zeroing, so a
	// failed rail restores the claimable balance.
	if err := s.paymentRail.Transfer(ctx, account, amount); err != nil {
		return 0, fmt.Errorf("failed to transfer winnings: %w", err)
	}

	err = utils.RecordLedgerEntry(ctx, s.entryRepo, s.eventPublisher, &entities.LedgerEntry{
		Account:   account,
		Amount:    -amount,
		EntryType: entities.EntryTypeWinningsClaim,
	})
	if err != nil {
		return 0, err
	}

	if err := s.eventPublisher.Publish(events.WinningsClaimedEvent{
		Account: account,
		Amount:  amount,
	}); err != nil {
		log.WithError(err).Error("Failed to publish WinningsClaimedEvent")
	}

	log.WithFields(log.Fields{
		"account": account,
		"amount":  amount,
	}).Info("Winnings claimed")

	return amount, nil
}

// WithdrawOwnerFees pays the accumulated owner fees to the owner account.
func (s *lotteryService) WithdrawOwnerFees(ctx context.Context, caller entities.AccountID) (int64, error) {
	if caller != s.owner {
		return 0, entities.ErrNotAuthorized
	}

	amount, err := s.stateRepo.WithdrawOwnerFees(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to withdraw owner fees: %w", err)
	}
	if amount == 0 {
		return 0, entities.ErrNothingToWithdraw
	}

	if err := s.paymentRail.Transfer(ctx, s.owner, amount); err != nil {
		return 0, fmt.Errorf("failed to transfer owner fees: %w", err)
	}

	err = utils.RecordLedgerEntry(ctx, s.entryRepo, s.eventPublisher, &entities.LedgerEntry{
		Account:   s.owner,
		Amount:    -amount,
		EntryType: entities.EntryTypeOwnerWithdrawal,
	})
	if err != nil {
		return 0, err
	}

	if err := s.eventPublisher.Publish(events.OwnerFeesWithdrawnEvent{
		Account: s.owner,
		Amount:  amount,
	}); err != nil {
		log.WithError(err).Error("Failed to publish OwnerFeesWithdrawnEvent")
	}

	return amount, nil
}

// SetTicketPrice changes the price used by rounds opened afterwards.
func (s *lotteryService) SetTicketPrice(ctx context.Context, caller entities.AccountID, price int64) error {
	if caller != s.owner {
		return entities.ErrNotAuthorized
	}
	if price <= 0 {
		return fmt.Errorf("ticket price must be positive, got %d", price)
	}

	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("failed to lock ledger state: %w", err)
	}
	state.TicketPrice = price
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return fmt.Errorf("failed to update ticket price: %w", err)
	}

	log.WithField("ticketPrice", price).Info("Ticket price updated")
	return nil
}

// GetCurrentRoundInfo returns a snapshot of the current round.
func (s *lotteryService) GetCurrentRoundInfo(ctx context.Context) (*interfaces.RoundInfo, error) {
	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger state: %w", err)
	}
	if state.CurrentRoundID == 0 {
		return nil, errors.New("no round has been started")
	}

	round, err := s.roundRepo.GetByID(ctx, state.CurrentRoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round %d: %w", state.CurrentRoundID, err)
	}
	if round == nil {
		return nil, fmt.Errorf("round %d not found", state.CurrentRoundID)
	}

	count, err := s.ticketRepo.CountForRound(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	participants, err := s.ticketRepo.GetParticipantSummary(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	return &interfaces.RoundInfo{
		Round:        round,
		TicketCount:  count,
		Participants: participants,
	}, nil
}

// GetAccountTickets returns an account's tickets for a round.
func (s *lotteryService) GetAccountTickets(ctx context.Context, roundID int64, account entities.AccountID) ([]*entities.Ticket, error) {
	return s.ticketRepo.GetByOwnerForRound(ctx, roundID, account)
}

// GetRoundTickets returns every ticket of a round.
func (s *lotteryService) GetRoundTickets(ctx context.Context, roundID int64) ([]*entities.Ticket, error) {
	return s.ticketRepo.GetByRound(ctx, roundID)
}

// GetWinningNumbers returns a drawn round's winning numbers.
func (s *lotteryService) GetWinningNumbers(ctx context.Context, roundID int64) ([]int32, error) {
	round, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round %d: %w", roundID, err)
	}
	if round == nil {
		return nil, fmt.Errorf("round %d not found", roundID)
	}
	if !round.IsDrawn() {
		return nil, fmt.Errorf("round %d has not been drawn", roundID)
	}
	return round.WinningNumbers, nil
}

// GetTierInfo summarizes winner counts and per-winner prizes of a drawn round.
func (s *lotteryService) GetTierInfo(ctx context.Context, roundID int64) ([]*interfaces.TierInfo, error) {
	round, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round %d: %w", roundID, err)
	}
	if round == nil {
		return nil, fmt.Errorf("round %d not found", roundID)
	}
	if !round.IsDrawn() {
		return nil, fmt.Errorf("round %d has not been drawn", roundID)
	}

	winners, err := s.winnerRepo.GetByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winners: %w", err)
	}

	byTier := make(map[int32][]*entities.RoundWinner)
	for _, winner := range winners {
		byTier[winner.MatchCount] = append(byTier[winner.MatchCount], winner)
	}

	var tiers []*interfaces.TierInfo
	for match := int32(2); match <= entities.TicketNumberCount; match++ {
		info := &interfaces.TierInfo{MatchCount: match}
		if tierWinners := byTier[match]; len(tierWinners) > 0 {
			info.WinnerCount = len(tierWinners)
			info.PrizePerWinner = tierWinners[0].Amount
		}
		tiers = append(tiers, info)
	}
	return tiers, nil
}

// GetTierWinners returns the winner records of one tier.
func (s *lotteryService) GetTierWinners(ctx context.Context, roundID int64, matchCount int32) ([]*entities.RoundWinner, error) {
	return s.winnerRepo.GetByRoundAndTier(ctx, roundID, matchCount)
}

// GetClaimableBalance returns an account's claimable balance.
func (s *lotteryService) GetClaimableBalance(ctx context.Context, account entities.AccountID) (int64, error) {
	return s.balanceRepo.Get(ctx, account)
}

// GetLedgerHistory returns an account's most recent ledger entries.
func (s *lotteryService) GetLedgerHistory(ctx context.Context, account entities.AccountID, limit int) ([]*entities.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.entryRepo.GetByAccount(ctx, account, limit)
}

// GetPrizeTiers returns the engine's prize schedule.
func (s *lotteryService) GetPrizeTiers() []entities.PrizeTier {
	return s.tierTable.Tiers()
}

// sortedAccounts keeps the crediting order stable across draws.
func sortedAccounts(credits map[entities.AccountID]int64) []entities.AccountID {
	accounts := make([]entities.AccountID, 0, len(credits))
	for account := range credits {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })
	return accounts
}
