package engine

import "errors"

// Rejected operations return one of these and leave the game untouched.
var (
	ErrGameOver           = errors.New("game is over")
	ErrNotYourTurn        = errors.New("not this participant's turn")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrUnknownProperty    = errors.New("unknown property")
	ErrAlreadyOwned       = errors.New("property already owned")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNotInJail          = errors.New("participant is not in jail")
	ErrInJail             = errors.New("participant is in jail")
	ErrNotOwner           = errors.New("participant does not own this property")
	ErrNoRentDue          = errors.New("no rent due on this property")
	ErrBuildNotAllowed    = errors.New("building not allowed on this property")
	ErrNoJailFreeCard     = errors.New("participant holds no jail-free card")
	ErrRollNotAllowed     = errors.New("rolling is not allowed in the current phase")
	ErrTurnNotComplete    = errors.New("current turn is not complete")
	ErrDecisionPending    = errors.New("a decision is pending")
	ErrNoPendingDecision  = errors.New("no decision is pending")
	ErrBankrupt           = errors.New("participant is bankrupt")
)
