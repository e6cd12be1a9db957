package models

import "errors"

// ErrorKind is the stable code for an error in the vesting taxonomy.
// It is what the RPC and CLI layers put on the wire.
type ErrorKind string

const (
	KindInvalidDurationFormat ErrorKind = "INVALID_DURATION_FORMAT"
	KindInvalidAddress        ErrorKind = "INVALID_ADDRESS"
	KindInvalidAmount         ErrorKind = "INVALID_AMOUNT"
	KindInvalidDuration       ErrorKind = "INVALID_DURATION"
	KindInvalidCliff          ErrorKind = "INVALID_CLIFF"
	KindCliffExceedsDuration  ErrorKind = "CLIFF_EXCEEDS_DURATION"
	KindEmptyBatch            ErrorKind = "EMPTY_BATCH"
	KindDuplicateStreamID     ErrorKind = "DUPLICATE_STREAM_ID"
	KindStreamNotFound        ErrorKind = "STREAM_NOT_FOUND"
	KindInsufficientVested    ErrorKind = "INSUFFICIENT_VESTED"
	KindInvalidClaimAmount    ErrorKind = "INVALID_CLAIM_AMOUNT"
	KindExceedsClaimable      ErrorKind = "EXCEEDS_CLAIMABLE"
	KindLedgerCorrupt         ErrorKind = "LEDGER_CORRUPT"
	KindUnknown               ErrorKind = "UNKNOWN"
)

var (
	ErrInvalidDurationFormat = errors.New("invalid duration format")
	ErrInvalidAddress        = errors.New("invalid address")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidDuration       = errors.New("invalid duration")
	ErrInvalidCliff          = errors.New("invalid cliff")
	ErrCliffExceedsDuration  = errors.New("cliff exceeds duration")
	ErrEmptyBatch            = errors.New("empty batch")
	ErrDuplicateStreamID     = errors.New("duplicate stream id")
	ErrStreamNotFound        = errors.New("stream not found")
	ErrInsufficientVested    = errors.New("insufficient vested amount")
	ErrInvalidClaimAmount    = errors.New("invalid claim amount")
	ErrExceedsClaimable      = errors.New("exceeds claimable amount")

	// ErrLedgerCorrupt means a stored entry violates 0 <= claimed <= total.
	// It is never caused by user input.
	ErrLedgerCorrupt = errors.New("ledger corrupt")
)

// kinds is ordered so that row-level kinds win over the parser error they wrap
// (an invalid cliff wraps ErrInvalidDurationFormat).
var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidAddress, KindInvalidAddress},
	{ErrInvalidAmount, KindInvalidAmount},
	{ErrInvalidDuration, KindInvalidDuration},
	{ErrInvalidCliff, KindInvalidCliff},
	{ErrCliffExceedsDuration, KindCliffExceedsDuration},
	{ErrInvalidDurationFormat, KindInvalidDurationFormat},
	{ErrEmptyBatch, KindEmptyBatch},
	{ErrDuplicateStreamID, KindDuplicateStreamID},
	{ErrStreamNotFound, KindStreamNotFound},
	{ErrInsufficientVested, KindInsufficientVested},
	{ErrInvalidClaimAmount, KindInvalidClaimAmount},
	{ErrExceedsClaimable, KindExceedsClaimable},
	{ErrLedgerCorrupt, KindLedgerCorrupt},
}

// KindOf returns the ErrorKind of err, or KindUnknown if err is outside the
// taxonomy. KindOf(nil) is "".
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}
