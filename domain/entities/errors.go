package entities

import "errors"

// Validation errors: the caller supplied bad input and may retry with
// corrected input. No state was changed.
var (
	ErrInvalidNumbers = errors.New("ticket numbers must be seven integers between 1 and 49")
	ErrWrongPayment   = errors.New("payment must equal the ticket price exactly")
)

// State errors: the operation is not legal in the current round/ledger state.
var (
	ErrRoundEnded           = errors.New("round has ended")
	ErrRoundNotEnded        = errors.New("round has not ended yet")
	ErrAlreadyDrawn         = errors.New("round has already been drawn")
	ErrCurrentRoundNotDrawn = errors.New("current round has not been drawn")
	ErrNothingToClaim       = errors.New("no claimable winnings")
	ErrNothingToWithdraw    = errors.New("no owner fees to withdraw")
	ErrNotAuthorized        = errors.New("operation restricted to the owner account")
)

// ErrInvalidTierConfig is fatal at construction time: the engine must not
// start with a tier table whose percentages do not sum to 100%.
var ErrInvalidTierConfig = errors.New("invalid prize tier configuration")

// External dependency errors: the triggering call left no partial mutation
// behind and is safe to retry.
var (
	ErrRandomnessUnavailable = errors.New("randomness provider unavailable")
	ErrInsufficientFunds     = errors.New("payment rail has insufficient funds")
)
