package interfaces

import (
	"context"
	"time"

	"lotteryd/domain/entities"
)

// RandomnessProvider supplies the drawn numbers for a round. The sequence may
// contain repeats; the draw mechanism does not deduplicate.
type RandomnessProvider interface {
	// Draw returns seven numbers in [1,49], or ErrRandomnessUnavailable.
	Draw(ctx context.Context) ([]int32, error)
}

// PaymentRail moves claimed value out of the ledger toward an account.
type PaymentRail interface {
	// Transfer pays the amount to the account, or fails with
	// ErrInsufficientFunds. Implementations must be all-or-nothing.
	Transfer(ctx context.Context, to entities.AccountID, amount int64) error
}

// PurchaseResult is returned after a successful ticket purchase
type PurchaseResult struct {
	Ticket    *entities.Ticket
	Round     *entities.Round
	NetAmount int64 // portion added to the prize pool
	OwnerFee  int64
}

// DrawResult is returned after a successful draw
type DrawResult struct {
	Round        *entities.Round
	Distribution *entities.PrizeDistribution
}

// RoundInfo is a snapshot of a round for display and monitoring
type RoundInfo struct {
	Round        *entities.Round
	TicketCount  int64
	Participants []*entities.ParticipantInfo
}

// TierInfo summarizes one prize tier of a drawn round
type TierInfo struct {
	MatchCount     int32
	WinnerCount    int
	PrizePerWinner int64
}

// LotteryService defines the interface for lottery operations
type LotteryService interface {
	// PurchaseTicket buys one ticket for the current round. Payment must
	// equal the round's ticket price exactly; the owner fee is skimmed here.
	PurchaseTicket(ctx context.Context, account entities.AccountID, numbers []int32, payment int64) (*PurchaseResult, error)

	// Draw conducts the current round's draw: scores every ticket, credits
	// winners, and rolls undistributed value into the carry-over pool.
	// Restricted to the owner account; at most once per round.
	Draw(ctx context.Context, caller entities.AccountID) (*DrawResult, error)

	// StartNewRound opens the next round, seeding its prize pool with the
	// carry-over pool. Fails while the current round is undrawn.
	StartNewRound(ctx context.Context, caller entities.AccountID, duration time.Duration) (*entities.Round, error)

	// ClaimWinnings pays out an account's entire claimable balance.
	ClaimWinnings(ctx context.Context, account entities.AccountID) (int64, error)

	// WithdrawOwnerFees pays the accumulated owner fees to the owner.
	WithdrawOwnerFees(ctx context.Context, caller entities.AccountID) (int64, error)

	// SetTicketPrice changes the price for rounds opened afterwards.
	SetTicketPrice(ctx context.Context, caller entities.AccountID, price int64) error

	// GetCurrentRoundInfo returns a snapshot of the current round.
	GetCurrentRoundInfo(ctx context.Context) (*RoundInfo, error)

	// GetAccountTickets returns an account's tickets for a round.
	GetAccountTickets(ctx context.Context, roundID int64, account entities.AccountID) ([]*entities.Ticket, error)

	// GetRoundTickets returns every ticket of a round.
	GetRoundTickets(ctx context.Context, roundID int64) ([]*entities.Ticket, error)

	// GetWinningNumbers returns a drawn round's winning numbers.
	GetWinningNumbers(ctx context.Context, roundID int64) ([]int32, error)

	// GetTierInfo summarizes winner counts and per-winner prizes for
	// matches 2..7 of a drawn round.
	GetTierInfo(ctx context.Context, roundID int64) ([]*TierInfo, error)

	// GetTierWinners returns the winner records of one tier.
	GetTierWinners(ctx context.Context, roundID int64, matchCount int32) ([]*entities.RoundWinner, error)

	// GetClaimableBalance returns an account's claimable balance.
	GetClaimableBalance(ctx context.Context, account entities.AccountID) (int64, error)

	// GetLedgerHistory returns an account's most recent ledger entries,
	// newest first. A non-positive limit falls back to a default page size.
	GetLedgerHistory(ctx context.Context, account entities.AccountID, limit int) ([]*entities.LedgerEntry, error)

	// GetPrizeTiers returns the engine's prize schedule.
	GetPrizeTiers() []entities.PrizeTier
}
