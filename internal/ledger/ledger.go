// Package ledger is the authoritative record of every stream and the only
// place a stream's claimed amount changes.
//
// Writes to one stream are serialized with a per-stream lock. Writes to
// different streams run in parallel.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/mmynk/vesting/internal/calculator"
	"github.com/mmynk/vesting/internal/models"
	"github.com/mmynk/vesting/internal/storage"
)

// Ledger owns the stream entries held in a storage.Store.
type Ledger struct {
	store storage.Store
	locks *keyedMutex
}

// New creates a Ledger backed by store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store, locks: newKeyedMutex()}
}

// Create commits def as a new stream whose vesting clock starts at start.
func (l *Ledger) Create(ctx context.Context, def models.StreamDefinition, start time.Time) (*models.Stream, error) {
	if err := checkDefinition(def); err != nil {
		return nil, err
	}

	unlock := l.locks.Lock(def.ID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream := models.NewStream(def, start)
	stream.CreatedAt = start.Unix()
	if err := l.store.CreateStream(ctx, stream); err != nil {
		return nil, fmt.Errorf("create stream %s: %w", def.ID, err)
	}

	return stream.Clone(), nil
}

// CreateBatch commits defs in order, all starting at start. It stops at the
// first failure and returns the streams created before it.
func (l *Ledger) CreateBatch(ctx context.Context, defs []models.StreamDefinition, start time.Time) ([]*models.Stream, error) {
	streams := make([]*models.Stream, 0, len(defs))
	for i, def := range defs {
		stream, err := l.Create(ctx, def, start)
		if err != nil {
			return streams, fmt.Errorf("batch row %d: %w", i+1, err)
		}
		streams = append(streams, stream)
	}
	return streams, nil
}

// Get returns the stream with the given ID.
func (l *Ledger) Get(ctx context.Context, streamID string) (*models.Stream, error) {
	stream, err := l.store.GetStream(ctx, streamID)
	if err != nil {
		return nil, err
	}
	if err := checkIntegrity(stream); err != nil {
		return nil, err
	}
	return stream, nil
}

// List returns the streams matching filter.
func (l *Ledger) List(ctx context.Context, filter models.StreamFilter) ([]*models.Stream, error) {
	streams, err := l.store.ListStreams(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, stream := range streams {
		if err := checkIntegrity(stream); err != nil {
			return nil, err
		}
	}
	return streams, nil
}

// ApplyClaim adds delta to the stream's claimed amount after checking, under
// the stream's lock, that claimed + delta does not exceed what has vested at
// now. The check and the write are atomic with respect to other claims on the
// same stream.
func (l *Ledger) ApplyClaim(ctx context.Context, streamID string, delta *big.Int, now time.Time) (*models.Stream, error) {
	if delta == nil || delta.Sign() <= 0 {
		return nil, fmt.Errorf("claim on %s: %w: %v", streamID, models.ErrInvalidClaimAmount, delta)
	}

	unlock := l.locks.Lock(streamID)
	defer unlock()

	stream, err := l.Get(ctx, streamID)
	if err != nil {
		return nil, err
	}

	sched := calculator.Evaluate(stream, now)
	claimed := new(big.Int).Add(stream.ClaimedAmount, delta)
	if claimed.Cmp(sched.VestedAmount) > 0 {
		return nil, fmt.Errorf("claim %s on %s: vested %s, already claimed %s: %w",
			delta, streamID, sched.VestedAmount, stream.ClaimedAmount, models.ErrInsufficientVested)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.store.SetClaimed(ctx, streamID, claimed); err != nil {
		return nil, fmt.Errorf("claim on %s: %w", streamID, err)
	}

	stream.ClaimedAmount = claimed
	return stream, nil
}

func checkDefinition(def models.StreamDefinition) error {
	switch {
	case def.ID == "":
		return fmt.Errorf("stream definition has no id")
	case def.TotalAmount == nil || def.TotalAmount.Sign() <= 0:
		return fmt.Errorf("stream %s: %w: total %v", def.ID, models.ErrInvalidAmount, def.TotalAmount)
	case def.DurationSeconds <= 0:
		return fmt.Errorf("stream %s: %w: %ds", def.ID, models.ErrInvalidDuration, def.DurationSeconds)
	case def.CliffSeconds < 0:
		return fmt.Errorf("stream %s: %w: %ds", def.ID, models.ErrInvalidCliff, def.CliffSeconds)
	case def.CliffSeconds > def.DurationSeconds:
		return fmt.Errorf("stream %s: %w", def.ID, models.ErrCliffExceedsDuration)
	}
	return nil
}

// checkIntegrity flags entries that break 0 <= claimed <= total. Such an entry
// can only come from a damaged store, never from a claim.
func checkIntegrity(stream *models.Stream) error {
	if stream.ClaimedAmount.Sign() >= 0 && stream.ClaimedAmount.Cmp(stream.TotalAmount) <= 0 {
		return nil
	}
	slog.Error("Ledger corruption detected",
		"stream_id", stream.ID,
		"total", stream.TotalAmount.String(),
		"claimed", stream.ClaimedAmount.String(),
	)
	return fmt.Errorf("stream %s: claimed %s outside [0, %s]: %w",
		stream.ID, stream.ClaimedAmount, stream.TotalAmount, models.ErrLedgerCorrupt)
}
