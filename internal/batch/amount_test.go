package batch

import (
	"errors"
	"testing"

	"github.com/mmynk/vesting/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in       string
		decimals int32
		want     string
	}{
		{"1000", 0, "1000"},
		{"1", 18, "1000000000000000000"},
		{"0.25", 18, "250000000000000000"},
		{"1500", 6, "1500000000"},
		{"1.5", 1, "15"},
		{"2.50", 1, "25"},
		{"1e3", 0, "1000"},
		{"0.000001", 6, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in, tt.decimals)
			if err != nil {
				t.Fatalf("ParseAmount(%q, %d) error = %v", tt.in, tt.decimals, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q, %d) = %s, want %s", tt.in, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestParseAmount_Rejects(t *testing.T) {
	tests := []struct {
		in       string
		decimals int32
	}{
		{"", 18},
		{"0", 18},
		{"0.0", 18},
		{"-1", 18},
		{"-0", 18},
		{"abc", 18},
		{"Infinity", 18},
		{"-Infinity", 18},
		{"NaN", 18},
		{"0.0000001", 6},
		{"1.5", 0},
		{"1e999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseAmount(tt.in, tt.decimals)
			if !errors.Is(err, models.ErrInvalidAmount) {
				t.Errorf("ParseAmount(%q, %d) error = %v, want ErrInvalidAmount", tt.in, tt.decimals, err)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	units, err := ParseAmount("1500.25", 18)
	if err != nil {
		t.Fatalf("ParseAmount failed: %v", err)
	}
	if got := FormatAmount(units, 18); got != "1500.25" {
		t.Errorf("FormatAmount = %q, want %q", got, "1500.25")
	}

	units, _ = ParseAmount("42", 0)
	if got := FormatAmount(units, 0); got != "42" {
		t.Errorf("FormatAmount = %q, want %q", got, "42")
	}
}
