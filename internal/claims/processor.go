// Package claims validates claim requests and commits them to the ledger.
package claims

import (
	"context"
	"fmt"
	"math/big"

	"github.com/mmynk/vesting/internal/calculator"
	"github.com/mmynk/vesting/internal/ledger"
	"github.com/mmynk/vesting/internal/models"
)

// Processor checks a claim against the stream's schedule before handing it to
// the ledger.
type Processor struct {
	ledger *ledger.Ledger
}

// NewProcessor creates a Processor for l.
func NewProcessor(l *ledger.Ledger) *Processor {
	return &Processor{ledger: l}
}

// Claim releases exactly req.Amount from the stream or nothing at all.
//
// Steps:
// - look up the stream (models.ErrStreamNotFound)
// - evaluate the schedule at req.ObservedAt
// - reject amounts <= 0 (models.ErrInvalidClaimAmount)
// - reject amounts above the claimable amount (models.ErrExceedsClaimable)
// - commit through the ledger, which re-checks under the stream lock
//
// A repeated request is evaluated against the updated claimed amount, so it
// can fail with ErrExceedsClaimable after an identical request succeeded.
func (p *Processor) Claim(ctx context.Context, req models.ClaimRequest) (models.ClaimResult, error) {
	stream, err := p.ledger.Get(ctx, req.StreamID)
	if err != nil {
		return models.ClaimResult{}, err
	}

	sched := calculator.Evaluate(stream, req.ObservedAt)

	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return models.ClaimResult{}, fmt.Errorf("claim on %s: %w: %v", req.StreamID, models.ErrInvalidClaimAmount, req.Amount)
	}
	if req.Amount.Cmp(sched.ClaimableAmount) > 0 {
		return models.ClaimResult{}, fmt.Errorf("claim %s on %s: claimable %s: %w",
			req.Amount, req.StreamID, sched.ClaimableAmount, models.ErrExceedsClaimable)
	}

	updated, err := p.ledger.ApplyClaim(ctx, req.StreamID, req.Amount, req.ObservedAt)
	if err != nil {
		return models.ClaimResult{}, err
	}

	return models.ClaimResult{
		StreamID:        req.StreamID,
		AmountClaimed:   new(big.Int).Set(req.Amount),
		ClaimedTotal:    updated.ClaimedAmount,
		ClaimableAmount: calculator.Evaluate(updated, req.ObservedAt).ClaimableAmount,
	}, nil
}
