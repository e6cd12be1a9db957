package batch

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/mmynk/vesting/internal/models"
)

const (
	addr1 = "0x52908400098527886E0F7030069857D2E4169EE7"
	addr2 = "0x8617e340b3d01fa5f11f306f4090fd50e238070d"
	addr3 = "0xde709f2102306220921060314715629080e2fb77"
)

// sequenceAllocator returns stream-1, stream-2, ...
type sequenceAllocator struct {
	next int
}

func (s *sequenceAllocator) Allocate(count int) []string {
	ids := make([]string, count)
	for i := range ids {
		s.next++
		ids[i] = fmt.Sprintf("stream-%d", s.next)
	}
	return ids
}

func newTestValidator() *Validator {
	return NewValidator(WithDecimals(0), WithIDAllocator(&sequenceAllocator{}))
}

func TestValidateRow(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		row     models.RawRow
		wantErr error
	}{
		{"valid", models.RawRow{WalletAddress: addr1, Amount: "1000", Duration: "1yr", Cliff: "30d"}, nil},
		{"valid no cliff", models.RawRow{WalletAddress: addr2, Amount: "5", Duration: "10min", Cliff: ""}, nil},
		{"valid zero cliff", models.RawRow{WalletAddress: addr2, Amount: "5", Duration: "10min", Cliff: "0"}, nil},
		{"cliff equals duration", models.RawRow{WalletAddress: addr2, Amount: "5", Duration: "1mon", Cliff: "30d"}, nil},
		{"short address", models.RawRow{WalletAddress: "0x1234", Amount: "1", Duration: "1d"}, models.ErrInvalidAddress},
		{"missing prefix", models.RawRow{WalletAddress: addr2[2:], Amount: "1", Duration: "1d"}, models.ErrInvalidAddress},
		{"non-hex address", models.RawRow{WalletAddress: "0xZZ08400098527886E0F7030069857D2E4169EE7", Amount: "1", Duration: "1d"}, models.ErrInvalidAddress},
		{"padded address", models.RawRow{WalletAddress: " " + addr2, Amount: "1", Duration: "1d"}, models.ErrInvalidAddress},
		{"zero amount", models.RawRow{WalletAddress: addr1, Amount: "0", Duration: "1d"}, models.ErrInvalidAmount},
		{"negative amount", models.RawRow{WalletAddress: addr1, Amount: "-5", Duration: "1d"}, models.ErrInvalidAmount},
		{"infinite amount", models.RawRow{WalletAddress: addr1, Amount: "Infinity", Duration: "1d"}, models.ErrInvalidAmount},
		{"NaN amount", models.RawRow{WalletAddress: addr1, Amount: "NaN", Duration: "1d"}, models.ErrInvalidAmount},
		{"text amount", models.RawRow{WalletAddress: addr1, Amount: "lots", Duration: "1d"}, models.ErrInvalidAmount},
		{"fraction with zero decimals", models.RawRow{WalletAddress: addr1, Amount: "1.5", Duration: "1d"}, models.ErrInvalidAmount},
		{"bad duration", models.RawRow{WalletAddress: addr1, Amount: "1", Duration: "1week"}, models.ErrInvalidDuration},
		{"empty duration", models.RawRow{WalletAddress: addr1, Amount: "1", Duration: ""}, models.ErrInvalidDuration},
		{"bad cliff", models.RawRow{WalletAddress: addr1, Amount: "1", Duration: "1d", Cliff: "soon"}, models.ErrInvalidCliff},
		{"cliff exceeds duration", models.RawRow{WalletAddress: addr1, Amount: "1", Duration: "1d", Cliff: "2d"}, models.ErrCliffExceedsDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateRow(tt.row)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateRow() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRow() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRow_Normalizes(t *testing.T) {
	v := newTestValidator()

	def, err := v.ValidateRow(models.RawRow{WalletAddress: addr1, Amount: "1000", Duration: "1yr", Cliff: "30d"})
	if err != nil {
		t.Fatalf("ValidateRow failed: %v", err)
	}
	if def.Recipient != "0x52908400098527886e0f7030069857d2e4169ee7" {
		t.Errorf("Recipient = %s, want lower-cased address", def.Recipient)
	}
	if def.TotalAmount.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("TotalAmount = %s, want 1000", def.TotalAmount)
	}
	if def.DurationSeconds != 31536000 {
		t.Errorf("DurationSeconds = %d, want 31536000", def.DurationSeconds)
	}
	if def.CliffSeconds != 2592000 {
		t.Errorf("CliffSeconds = %d, want 2592000", def.CliffSeconds)
	}
}

func TestValidateBatch_PartialAcceptance(t *testing.T) {
	v := newTestValidator()
	rows := []models.RawRow{
		{Line: 1, WalletAddress: addr1, Amount: "100", Duration: "1mon", Cliff: "1d"},
		{Line: 2, WalletAddress: "not-an-address", Amount: "200", Duration: "1mon", Cliff: "1d"},
		{Line: 3, WalletAddress: addr3, Amount: "300", Duration: "1yr"},
	}

	result, err := v.ValidateBatch(rows)
	if err != nil {
		t.Fatalf("ValidateBatch failed: %v", err)
	}

	if len(result.Accepted) != 2 {
		t.Fatalf("expected 2 accepted rows, got %d", len(result.Accepted))
	}
	if result.Accepted[0].TotalAmount.Int64() != 100 || result.Accepted[1].TotalAmount.Int64() != 300 {
		t.Errorf("accepted rows out of order: %s, %s", result.Accepted[0].TotalAmount, result.Accepted[1].TotalAmount)
	}
	if result.Accepted[0].ID != "stream-1" || result.Accepted[1].ID != "stream-2" {
		t.Errorf("unexpected IDs: %s, %s", result.Accepted[0].ID, result.Accepted[1].ID)
	}

	if len(result.Rejected) != 1 {
		t.Fatalf("expected 1 rejected row, got %d", len(result.Rejected))
	}
	if result.Rejected[0].Row.Line != 2 {
		t.Errorf("rejected row line = %d, want 2", result.Rejected[0].Row.Line)
	}
	if result.Rejected[0].Kind() != models.KindInvalidAddress {
		t.Errorf("rejected kind = %s, want %s", result.Rejected[0].Kind(), models.KindInvalidAddress)
	}
}

func TestValidateBatch_Empty(t *testing.T) {
	v := newTestValidator()

	t.Run("no rows", func(t *testing.T) {
		result, err := v.ValidateBatch(nil)
		if !errors.Is(err, models.ErrEmptyBatch) {
			t.Fatalf("error = %v, want ErrEmptyBatch", err)
		}
		if len(result.Rejected) != 0 {
			t.Errorf("expected no rejections, got %d", len(result.Rejected))
		}
	})

	t.Run("all rows invalid", func(t *testing.T) {
		rows := []models.RawRow{
			{Line: 1, WalletAddress: addr1, Amount: "0", Duration: "1d"},
			{Line: 2, WalletAddress: addr1, Amount: "1", Duration: "1d", Cliff: "2d"},
		}
		result, err := v.ValidateBatch(rows)
		if !errors.Is(err, models.ErrEmptyBatch) {
			t.Fatalf("error = %v, want ErrEmptyBatch", err)
		}
		if len(result.Rejected) != 2 {
			t.Fatalf("expected 2 rejections, got %d", len(result.Rejected))
		}
		if result.Rejected[0].Kind() != models.KindInvalidAmount {
			t.Errorf("row 1 kind = %s", result.Rejected[0].Kind())
		}
		if result.Rejected[1].Kind() != models.KindCliffExceedsDuration {
			t.Errorf("row 2 kind = %s", result.Rejected[1].Kind())
		}
	})
}

func TestValidateBatch_Repeatable(t *testing.T) {
	rows := []models.RawRow{
		{WalletAddress: addr1, Amount: "100", Duration: "1mon"},
		{WalletAddress: addr2, Amount: "abc", Duration: "1mon"},
	}

	first, err := newTestValidator().ValidateBatch(rows)
	if err != nil {
		t.Fatalf("ValidateBatch failed: %v", err)
	}
	second, err := newTestValidator().ValidateBatch(rows)
	if err != nil {
		t.Fatalf("ValidateBatch failed: %v", err)
	}

	if len(first.Accepted) != len(second.Accepted) || len(first.Rejected) != len(second.Rejected) {
		t.Fatalf("results differ: %d/%d vs %d/%d",
			len(first.Accepted), len(first.Rejected), len(second.Accepted), len(second.Rejected))
	}
	if first.Accepted[0].Recipient != second.Accepted[0].Recipient ||
		first.Accepted[0].TotalAmount.Cmp(second.Accepted[0].TotalAmount) != 0 {
		t.Errorf("accepted definitions differ")
	}
}

func TestUUIDAllocator(t *testing.T) {
	ids := UUIDAllocator{}.Allocate(100)
	if len(ids) != 100 {
		t.Fatalf("expected 100 ids, got %d", len(ids))
	}
	seen := make(map[string]bool)
	for _, id := range ids {
		if len(id) != 36 {
			t.Errorf("id %q has length %d, want 36", id, len(id))
		}
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}

	if got := (UUIDAllocator{}).Allocate(0); got != nil {
		t.Errorf("Allocate(0) = %v, want nil", got)
	}
}
