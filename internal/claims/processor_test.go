package claims

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/mmynk/vesting/internal/calculator"
	"github.com/mmynk/vesting/internal/ledger"
	"github.com/mmynk/vesting/internal/models"
	"github.com/mmynk/vesting/internal/storage/memory"
)

var epoch = time.Unix(0, 0).UTC()

func at(seconds int64) time.Time {
	return epoch.Add(time.Duration(seconds) * time.Second)
}

func setup(t *testing.T) (*Processor, *ledger.Ledger) {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { store.Close() })

	l := ledger.New(store)
	_, err := l.Create(context.Background(), models.StreamDefinition{
		ID:              "s1",
		Recipient:       "0x52908400098527886e0f7030069857d2e4169ee7",
		TotalAmount:     big.NewInt(1000),
		DurationSeconds: 1000,
		CliffSeconds:    100,
	}, at(0))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return NewProcessor(l), l
}

func claim(amount int64, now int64) models.ClaimRequest {
	return models.ClaimRequest{StreamID: "s1", Amount: big.NewInt(amount), ObservedAt: at(now)}
}

func claimable(t *testing.T, l *ledger.Ledger, now int64) int64 {
	t.Helper()
	stream, err := l.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	return calculator.Evaluate(stream, at(now)).ClaimableAmount.Int64()
}

func TestClaim_EndToEnd(t *testing.T) {
	p, l := setup(t)
	ctx := context.Background()

	if got := claimable(t, l, 50); got != 0 {
		t.Errorf("claimable at t=50 = %d, want 0", got)
	}
	if got := claimable(t, l, 500); got != 500 {
		t.Errorf("claimable at t=500 = %d, want 500", got)
	}

	result, err := p.Claim(ctx, claim(300, 500))
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if result.StreamID != "s1" || result.AmountClaimed.Int64() != 300 || result.ClaimedTotal.Int64() != 300 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.ClaimableAmount == nil || result.ClaimableAmount.Int64() != 200 {
		t.Errorf("result claimable = %v, want 200", result.ClaimableAmount)
	}

	if got := claimable(t, l, 500); got != 200 {
		t.Errorf("claimable at t=500 after claim = %d, want 200", got)
	}
	if got := claimable(t, l, 1000); got != 700 {
		t.Errorf("claimable at t=1000 = %d, want 700", got)
	}
}

func TestClaim_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     models.ClaimRequest
		wantErr error
	}{
		{"unknown stream", models.ClaimRequest{StreamID: "nope", Amount: big.NewInt(1), ObservedAt: at(500)}, models.ErrStreamNotFound},
		{"zero amount", claim(0, 500), models.ErrInvalidClaimAmount},
		{"negative amount", claim(-1, 500), models.ErrInvalidClaimAmount},
		{"nil amount", models.ClaimRequest{StreamID: "s1", ObservedAt: at(500)}, models.ErrInvalidClaimAmount},
		{"before cliff", claim(1, 99), models.ErrExceedsClaimable},
		{"claimable plus one", claim(501, 500), models.ErrExceedsClaimable},
		{"more than total", claim(1001, 5000), models.ErrExceedsClaimable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, l := setup(t)
			_, err := p.Claim(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Claim error = %v, want %v", err, tt.wantErr)
			}
			stream, _ := l.Get(context.Background(), "s1")
			if stream.ClaimedAmount.Sign() != 0 {
				t.Errorf("rejected claim changed claimed amount to %s", stream.ClaimedAmount)
			}
		})
	}
}

func TestClaim_RepeatedRequestSeesUpdatedBalance(t *testing.T) {
	p, _ := setup(t)
	ctx := context.Background()

	if _, err := p.Claim(ctx, claim(400, 500)); err != nil {
		t.Fatalf("first Claim failed: %v", err)
	}
	_, err := p.Claim(ctx, claim(400, 500))
	if !errors.Is(err, models.ErrExceedsClaimable) {
		t.Fatalf("second Claim error = %v, want ErrExceedsClaimable", err)
	}
}

func TestClaim_ExactClaimableSucceeds(t *testing.T) {
	p, l := setup(t)
	ctx := context.Background()

	for _, now := range []int64{100, 250, 250, 999, 1000, 2000} {
		amount := claimable(t, l, now)
		if amount == 0 {
			continue
		}
		if _, err := p.Claim(ctx, claim(amount, now)); err != nil {
			t.Fatalf("Claim of full claimable %d at t=%d failed: %v", amount, now, err)
		}
		// Over-claim by one at the same instant always fails.
		if _, err := p.Claim(ctx, claim(1, now)); !errors.Is(err, models.ErrExceedsClaimable) {
			t.Fatalf("Claim of 1 after draining at t=%d error = %v, want ErrExceedsClaimable", now, err)
		}
	}

	stream, _ := l.Get(ctx, "s1")
	if stream.ClaimedAmount.Int64() != 1000 {
		t.Errorf("ClaimedAmount = %s, want 1000", stream.ClaimedAmount)
	}
}
