package calculator

import (
	"math/big"
	"testing"

	"github.com/mmynk/vesting/internal/models"
)

func TestSummarize(t *testing.T) {
	alice := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob := "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	s1 := testStream(1000, 100, 100, 1000)
	s1.Recipient = alice
	s2 := testStream(2000, 0, 0, 2000)
	s2.Recipient = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	s3 := testStream(500, 0, 600, 1000)
	s3.Recipient = bob

	summary := Summarize([]*models.Stream{s3, s1, s2}, at(500))

	if len(summary.Recipients) != 2 {
		t.Fatalf("expected 2 recipients, got %d", len(summary.Recipients))
	}

	a := summary.Recipients[0]
	if a.Recipient != alice {
		t.Errorf("first recipient = %s, want %s", a.Recipient, alice)
	}
	if a.Streams != 2 {
		t.Errorf("alice streams = %d, want 2", a.Streams)
	}
	// s1: vested 500, claimable 400. s2: vested 500, claimable 500.
	checkInt(t, "alice total", a.Total, 3000)
	checkInt(t, "alice vested", a.Vested, 1000)
	checkInt(t, "alice claimed", a.Claimed, 100)
	checkInt(t, "alice claimable", a.Claimable, 900)
	checkInt(t, "alice locked", a.Locked(), 2000)

	b := summary.Recipients[1]
	if b.Recipient != bob {
		t.Errorf("second recipient = %s, want %s", b.Recipient, bob)
	}
	// s3 is still inside its cliff.
	checkInt(t, "bob vested", b.Vested, 0)
	checkInt(t, "bob claimable", b.Claimable, 0)

	if summary.Overall.Streams != 3 {
		t.Errorf("overall streams = %d, want 3", summary.Overall.Streams)
	}
	checkInt(t, "overall total", summary.Overall.Total, 3500)
	checkInt(t, "overall claimable", summary.Overall.Claimable, 900)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil, at(0))
	if len(summary.Recipients) != 0 {
		t.Errorf("expected no recipients, got %d", len(summary.Recipients))
	}
	checkInt(t, "overall total", summary.Overall.Total, 0)
}

func checkInt(t *testing.T, name string, got *big.Int, want int64) {
	t.Helper()
	if got.Cmp(big.NewInt(want)) != 0 {
		t.Errorf("%s = %s, want %d", name, got, want)
	}
}
