package entities

import (
	"time"
)

// LedgerState is the single-row process ledger shared by every round:
// the current round pointer, the default ticket price for new rounds, the
// carry-over pool feeding the next round, and the accumulated owner fees.
type LedgerState struct {
	ID              int64     `db:"id"`
	CurrentRoundID  int64     `db:"current_round_id"`
	TicketPrice     int64     `db:"ticket_price"`
	CarryOverPool   int64     `db:"carry_over_pool"`
	OwnerFeeBalance int64     `db:"owner_fee_balance"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// ClaimableBalance is an account's winnings awaiting claim. Rows are zeroed
// on a successful claim, never deleted, so history stays queryable.
type ClaimableBalance struct {
	Account   AccountID `db:"account_id"`
	Amount    int64     `db:"amount"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SystemAccount is the ledger-internal account used for pool-level
// movements that belong to no participant, such as carry-over.
const SystemAccount AccountID = "system"

// EntryType classifies a ledger entry.
type EntryType string

const (
	EntryTypeTicketPurchase  EntryType = "ticket_purchase"
	EntryTypeOwnerFee        EntryType = "owner_fee"
	EntryTypePrizeCredit     EntryType = "prize_credit"
	EntryTypeWinningsClaim   EntryType = "winnings_claim"
	EntryTypeOwnerWithdrawal EntryType = "owner_withdrawal"
	EntryTypeCarryOver       EntryType = "carry_over"
)

// LedgerEntry is one append-only record of a monetary movement. Amount is
// signed: positive toward the account, negative away from it.
type LedgerEntry struct {
	ID        int64          `db:"id"`
	Account   AccountID      `db:"account_id"`
	RoundID   *int64         `db:"round_id"`
	Amount    int64          `db:"amount"`
	EntryType EntryType      `db:"entry_type"`
	Metadata  map[string]any `db:"metadata"`
	CreatedAt time.Time      `db:"created_at"`
}
