package models

import (
	"math/big"
	"time"
)

// RawRow is one untyped input row as it arrives from a form or a spreadsheet.
// No field has been checked yet.
type RawRow struct {
	// Line is the 1-based position of the row in its source (0 if unknown).
	Line int

	// WalletAddress is the recipient address, e.g. "0x52908400098527886E0F7030069857D2E4169EE7".
	WalletAddress string

	// Amount is the human amount in whole tokens, e.g. "1500" or "0.25".
	Amount string

	// Duration is the vesting duration spec, e.g. "6mon".
	Duration string

	// Cliff is the cliff spec, e.g. "30d". Empty or "0" means no cliff.
	Cliff string
}

// StreamDefinition is a validated stream, ready to be committed to the ledger
// or submitted to the contract layer as a create-stream payload.
type StreamDefinition struct {
	// ID is the unique stream identifier (UUID format).
	ID string

	// Recipient is the lower-cased hex address of the beneficiary.
	Recipient string

	// TotalAmount is the full amount to vest, in the token's smallest unit.
	TotalAmount *big.Int

	// DurationSeconds is the total vesting period. Always > 0.
	DurationSeconds int64

	// CliffSeconds is the initial lock period. 0 <= CliffSeconds <= DurationSeconds.
	CliffSeconds int64
}

// Stream is the ledger entry for one stream.
//
// Only ClaimedAmount changes after creation, and it never decreases.
type Stream struct {
	// ID is the unique identifier for the stream (UUID format).
	ID string

	// Recipient is the lower-cased hex address of the beneficiary.
	Recipient string

	// TotalAmount is the full amount to vest, in the token's smallest unit.
	TotalAmount *big.Int

	// ClaimedAmount is the amount already released to the recipient.
	// 0 <= ClaimedAmount <= TotalAmount.
	ClaimedAmount *big.Int

	// StartTime is the instant the vesting clock starts.
	StartTime time.Time

	// DurationSeconds is the total vesting period.
	DurationSeconds int64

	// CliffSeconds is the initial period during which nothing is claimable.
	CliffSeconds int64

	// CreatedAt is the Unix timestamp when the stream was committed.
	CreatedAt int64
}

// Clone returns a deep copy of s so callers can't mutate ledger state through
// shared *big.Int values.
func (s *Stream) Clone() *Stream {
	if s == nil {
		return nil
	}
	c := *s
	c.TotalAmount = cloneInt(s.TotalAmount)
	c.ClaimedAmount = cloneInt(s.ClaimedAmount)
	return &c
}

// Remaining returns TotalAmount - ClaimedAmount.
func (s *Stream) Remaining() *big.Int {
	return new(big.Int).Sub(s.TotalAmount, s.ClaimedAmount)
}

// NewStream builds the initial ledger entry for def starting at start.
func NewStream(def StreamDefinition, start time.Time) *Stream {
	return &Stream{
		ID:              def.ID,
		Recipient:       def.Recipient,
		TotalAmount:     cloneInt(def.TotalAmount),
		ClaimedAmount:   new(big.Int),
		StartTime:       start,
		DurationSeconds: def.DurationSeconds,
		CliffSeconds:    def.CliffSeconds,
	}
}

// StreamFilter narrows a stream listing. The zero value matches every stream.
type StreamFilter struct {
	// Recipient restricts the listing to one beneficiary (compared lower-cased).
	Recipient string
}

// Schedule is the vesting state of a stream at one observation instant.
type Schedule struct {
	// VestedFraction is in [0, 1]. For display only; amounts are computed exactly.
	VestedFraction float64

	// VestedAmount is floor(TotalAmount * elapsed / duration), or 0 before the cliff.
	VestedAmount *big.Int

	// ClaimableAmount is max(0, VestedAmount - ClaimedAmount).
	ClaimableAmount *big.Int
}

// ClaimRequest asks to release Amount from a stream, evaluated at ObservedAt.
type ClaimRequest struct {
	StreamID   string
	Amount     *big.Int
	ObservedAt time.Time
}

// ClaimResult is the outcome of a successful claim.
type ClaimResult struct {
	StreamID      string
	AmountClaimed *big.Int

	// ClaimedTotal is the stream's ClaimedAmount after this claim.
	ClaimedTotal *big.Int

	// ClaimableAmount is what remains claimable at the claim's observation time.
	ClaimableAmount *big.Int
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
