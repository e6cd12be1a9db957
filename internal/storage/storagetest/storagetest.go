// Package storagetest holds the behavior every storage.Store must share.
package storagetest

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/mmynk/vesting/internal/models"
	"github.com/mmynk/vesting/internal/storage"
)

// Recipients used by the suite.
const (
	Alice = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	Bob   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

// NewStream returns a stream fixture.
func NewStream(id, recipient string, total int64) *models.Stream {
	start := time.Date(2026, 1, 1, 12, 0, 0, 123456789, time.UTC)
	return &models.Stream{
		ID:              id,
		Recipient:       recipient,
		TotalAmount:     big.NewInt(total),
		ClaimedAmount:   new(big.Int),
		StartTime:       start,
		DurationSeconds: 86400,
		CliffSeconds:    3600,
		CreatedAt:       start.Unix(),
	}
}

// Run exercises store. The store must be empty.
func Run(t *testing.T, store storage.Store) {
	ctx := context.Background()

	t.Run("CreateStream and GetStream round-trip", func(t *testing.T) {
		original := NewStream("round-trip", Alice, 1000)
		if err := store.CreateStream(ctx, original); err != nil {
			t.Fatalf("CreateStream failed: %v", err)
		}

		got, err := store.GetStream(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetStream failed: %v", err)
		}
		if got.ID != original.ID || got.Recipient != original.Recipient {
			t.Errorf("identity mismatch: got %s/%s", got.ID, got.Recipient)
		}
		if got.TotalAmount.Cmp(original.TotalAmount) != 0 {
			t.Errorf("TotalAmount mismatch: got %s, want %s", got.TotalAmount, original.TotalAmount)
		}
		if got.ClaimedAmount.Sign() != 0 {
			t.Errorf("ClaimedAmount = %s, want 0", got.ClaimedAmount)
		}
		if !got.StartTime.Equal(original.StartTime) {
			t.Errorf("StartTime mismatch: got %v, want %v", got.StartTime, original.StartTime)
		}
		if got.DurationSeconds != original.DurationSeconds || got.CliffSeconds != original.CliffSeconds {
			t.Errorf("schedule mismatch: got %d/%d", got.DurationSeconds, got.CliffSeconds)
		}
		if got.CreatedAt != original.CreatedAt {
			t.Errorf("CreatedAt mismatch: got %d, want %d", got.CreatedAt, original.CreatedAt)
		}
	})

	t.Run("CreateStream rejects duplicate ID", func(t *testing.T) {
		if err := store.CreateStream(ctx, NewStream("dup", Alice, 10)); err != nil {
			t.Fatalf("CreateStream failed: %v", err)
		}
		err := store.CreateStream(ctx, NewStream("dup", Bob, 20))
		if !errors.Is(err, models.ErrDuplicateStreamID) {
			t.Fatalf("error = %v, want ErrDuplicateStreamID", err)
		}

		// The original row is untouched.
		got, err := store.GetStream(ctx, "dup")
		if err != nil {
			t.Fatalf("GetStream failed: %v", err)
		}
		if got.Recipient != Alice || got.TotalAmount.Int64() != 10 {
			t.Errorf("duplicate insert overwrote stream: %s %s", got.Recipient, got.TotalAmount)
		}
	})

	t.Run("GetStream returns ErrStreamNotFound", func(t *testing.T) {
		_, err := store.GetStream(ctx, "nonexistent-id")
		if !errors.Is(err, models.ErrStreamNotFound) {
			t.Errorf("error = %v, want ErrStreamNotFound", err)
		}
	})

	t.Run("SetClaimed updates only the claimed amount", func(t *testing.T) {
		if err := store.CreateStream(ctx, NewStream("claimable", Bob, 500)); err != nil {
			t.Fatalf("CreateStream failed: %v", err)
		}
		if err := store.SetClaimed(ctx, "claimable", big.NewInt(125)); err != nil {
			t.Fatalf("SetClaimed failed: %v", err)
		}

		got, err := store.GetStream(ctx, "claimable")
		if err != nil {
			t.Fatalf("GetStream failed: %v", err)
		}
		if got.ClaimedAmount.Int64() != 125 {
			t.Errorf("ClaimedAmount = %s, want 125", got.ClaimedAmount)
		}
		if got.TotalAmount.Int64() != 500 {
			t.Errorf("TotalAmount = %s, want 500", got.TotalAmount)
		}
	})

	t.Run("SetClaimed returns ErrStreamNotFound", func(t *testing.T) {
		err := store.SetClaimed(ctx, "nonexistent-id", big.NewInt(1))
		if !errors.Is(err, models.ErrStreamNotFound) {
			t.Errorf("error = %v, want ErrStreamNotFound", err)
		}
	})

	t.Run("returned streams are copies", func(t *testing.T) {
		if err := store.CreateStream(ctx, NewStream("copy", Alice, 77)); err != nil {
			t.Fatalf("CreateStream failed: %v", err)
		}
		got, _ := store.GetStream(ctx, "copy")
		got.TotalAmount.SetInt64(0)
		got.ClaimedAmount.SetInt64(99)

		again, _ := store.GetStream(ctx, "copy")
		if again.TotalAmount.Int64() != 77 || again.ClaimedAmount.Sign() != 0 {
			t.Errorf("mutating a returned stream changed the store: %s/%s", again.TotalAmount, again.ClaimedAmount)
		}
	})

	t.Run("large amounts survive", func(t *testing.T) {
		s := NewStream("large", Alice, 0)
		s.TotalAmount, _ = new(big.Int).SetString("123456789012345678901234567890", 10)
		if err := store.CreateStream(ctx, s); err != nil {
			t.Fatalf("CreateStream failed: %v", err)
		}
		got, err := store.GetStream(ctx, "large")
		if err != nil {
			t.Fatalf("GetStream failed: %v", err)
		}
		if got.TotalAmount.Cmp(s.TotalAmount) != 0 {
			t.Errorf("TotalAmount = %s, want %s", got.TotalAmount, s.TotalAmount)
		}
	})

	t.Run("ListStreams in creation order with recipient filter", func(t *testing.T) {
		all, err := store.ListStreams(ctx, models.StreamFilter{})
		if err != nil {
			t.Fatalf("ListStreams failed: %v", err)
		}
		wantIDs := []string{"round-trip", "dup", "claimable", "copy", "large"}
		if len(all) != len(wantIDs) {
			t.Fatalf("expected %d streams, got %d", len(wantIDs), len(all))
		}
		for i, id := range wantIDs {
			if all[i].ID != id {
				t.Errorf("stream %d = %s, want %s", i, all[i].ID, id)
			}
		}

		bobs, err := store.ListStreams(ctx, models.StreamFilter{Recipient: "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"})
		if err != nil {
			t.Fatalf("ListStreams failed: %v", err)
		}
		if len(bobs) != 1 || bobs[0].ID != "claimable" {
			t.Errorf("expected only the claimable stream for Bob, got %d streams", len(bobs))
		}

		none, err := store.ListStreams(ctx, models.StreamFilter{Recipient: "0xcccccccccccccccccccccccccccccccccccccccc"})
		if err != nil {
			t.Fatalf("ListStreams failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("expected no streams, got %d", len(none))
		}
	})
}
