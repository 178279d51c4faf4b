package rules

// Error is a rejected request with a stable machine code and an English
// message. Clients localize by code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrInvalidMatchType    = &Error{Code: "invalid_match_type", Message: "participation type must be Solo, Duo or Squad"}
	ErrWrongRosterSize     = &Error{Code: "wrong_roster_size", Message: "number of player names does not match the participation type"}
	ErrBlankPlayerName     = &Error{Code: "blank_player_name", Message: "enter the names of all players"}
	ErrInsufficientBalance = &Error{Code: "insufficient_balance", Message: "balance is too low"}
	ErrDepositTooSmall     = &Error{Code: "deposit_below_minimum", Message: "minimum deposit is 100"}
	ErrMissingPayment      = &Error{Code: "missing_payment_details", Message: "sender number and transaction id are required"}
	ErrWithdrawalTooSmall  = &Error{Code: "withdrawal_below_minimum", Message: "minimum withdrawal is 200"}
	ErrMissingReceiver     = &Error{Code: "missing_receiving_number", Message: "enter a valid receiving number"}
	ErrInvalidMethod       = &Error{Code: "invalid_method", Message: "payment method must be bKash or Nagad"}
	ErrMissingFields       = &Error{Code: "missing_fields", Message: "all fields are required"}
	ErrWeakPassword        = &Error{Code: "weak_password", Message: "password must be at least 6 characters"}
	ErrEmptyMessage        = &Error{Code: "empty_message", Message: "message must not be empty"}
	ErrTournamentFull      = &Error{Code: "tournament_full", Message: "tournament is full"}
	ErrAlreadyJoined       = &Error{Code: "already_joined", Message: "already joined this tournament"}
	ErrTournamentClosed    = &Error{Code: "tournament_closed", Message: "tournament is complete"}
	ErrNotFinished         = &Error{Code: "tournament_not_finished", Message: "prizes are paid after the match is complete"}
	ErrAlreadyRewarded     = &Error{Code: "already_rewarded", Message: "prize already paid for this team"}
	ErrNoPrize             = &Error{Code: "no_prize", Message: "this team earned no prize"}
)
