// Package batch validates raw stream rows and turns them into stream definitions.
package batch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mmynk/vesting/internal/calculator"
	"github.com/mmynk/vesting/internal/models"
)

// DefaultDecimals matches ERC-20 tokens that follow the ether convention.
const DefaultDecimals int32 = 18

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Rejection pairs a row with the reason it was not accepted.
type Rejection struct {
	Row models.RawRow
	Err error
}

// Kind returns the error kind for the rejection.
func (r Rejection) Kind() models.ErrorKind {
	return models.KindOf(r.Err)
}

// BatchResult holds the outcome of validating a batch.
type BatchResult struct {
	// Accepted preserves input order.
	Accepted []models.StreamDefinition
	Rejected []Rejection
}

// Validator checks raw rows against the stream rules.
type Validator struct {
	decimals int32
	ids      IDAllocator
}

// Option configures a Validator.
type Option func(*Validator)

// WithDecimals sets the token's decimal places used to scale human amounts.
func WithDecimals(decimals int32) Option {
	return func(v *Validator) {
		v.decimals = decimals
	}
}

// WithIDAllocator replaces the default UUID allocator.
func WithIDAllocator(ids IDAllocator) Option {
	return func(v *Validator) {
		v.ids = ids
	}
}

// NewValidator creates a Validator. Defaults: 18 decimals, UUID stream IDs.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{decimals: DefaultDecimals, ids: UUIDAllocator{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Decimals returns the token decimals the validator scales amounts by.
func (v *Validator) Decimals() int32 {
	return v.decimals
}

// ValidateRow checks a single row. The returned definition has no ID.
//
// Checks run in order: address, amount, duration, cliff, cliff <= duration.
// The first failing check decides the error.
func (v *Validator) ValidateRow(row models.RawRow) (models.StreamDefinition, error) {
	if !addressPattern.MatchString(row.WalletAddress) {
		return models.StreamDefinition{}, fmt.Errorf("%w: %q", models.ErrInvalidAddress, row.WalletAddress)
	}

	amount, err := ParseAmount(row.Amount, v.decimals)
	if err != nil {
		return models.StreamDefinition{}, err
	}

	duration, err := calculator.ParseDuration(row.Duration)
	if err != nil {
		return models.StreamDefinition{}, fmt.Errorf("%w: %w", models.ErrInvalidDuration, err)
	}

	cliff, err := parseCliff(row.Cliff)
	if err != nil {
		return models.StreamDefinition{}, fmt.Errorf("%w: %w", models.ErrInvalidCliff, err)
	}

	if cliff > duration {
		return models.StreamDefinition{}, fmt.Errorf("%w: cliff %ds > duration %ds",
			models.ErrCliffExceedsDuration, cliff, duration)
	}

	return models.StreamDefinition{
		Recipient:       strings.ToLower(row.WalletAddress),
		TotalAmount:     amount,
		DurationSeconds: duration,
		CliffSeconds:    cliff,
	}, nil
}

// ValidateBatch validates every row independently. A bad row never blocks the
// others. Each accepted row gets a fresh stream ID.
//
// If no row is accepted the result still carries every rejection and the error
// is models.ErrEmptyBatch.
func (v *Validator) ValidateBatch(rows []models.RawRow) (BatchResult, error) {
	var result BatchResult
	for _, row := range rows {
		def, err := v.ValidateRow(row)
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{Row: row, Err: err})
			continue
		}
		result.Accepted = append(result.Accepted, def)
	}

	if len(result.Accepted) == 0 {
		return result, fmt.Errorf("%w: 0 of %d rows accepted", models.ErrEmptyBatch, len(rows))
	}

	ids := v.ids.Allocate(len(result.Accepted))
	if len(ids) != len(result.Accepted) {
		return BatchResult{}, fmt.Errorf("id allocator returned %d ids for %d rows", len(ids), len(result.Accepted))
	}
	for i := range result.Accepted {
		result.Accepted[i].ID = ids[i]
	}

	return result, nil
}

// parseCliff treats an empty cell or "0" as no cliff.
func parseCliff(spec string) (int64, error) {
	if spec == "" || spec == "0" {
		return 0, nil
	}
	return calculator.ParseDuration(spec)
}
