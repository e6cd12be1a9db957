package calculator

import (
	"fmt"
	"strconv"

	"github.com/mmynk/vesting/internal/models"
)

// Seconds per duration unit. Months are 30 days and years are 365 days.
const (
	SecondsPerMinute int64 = 60
	SecondsPerDay    int64 = 86400
	SecondsPerMonth  int64 = 30 * SecondsPerDay
	SecondsPerYear   int64 = 365 * SecondsPerDay

	// MaxDurationSeconds caps durations and cliffs at 10000 years.
	MaxDurationSeconds int64 = 10000 * SecondsPerYear
)

var durationUnits = map[string]int64{
	"min": SecondsPerMinute,
	"d":   SecondsPerDay,
	"mon": SecondsPerMonth,
	"yr":  SecondsPerYear,
}

// ParseDuration converts a compact duration spec such as "30d" or "6mon" into
// seconds.
//
// The grammar is <positive integer><unit> with unit one of min, d, mon, yr.
// Whitespace, signs, zero magnitudes and compound specs ("1d6min") are rejected,
// as is anything longer than MaxDurationSeconds.
// Every failure wraps models.ErrInvalidDurationFormat.
func ParseDuration(spec string) (int64, error) {
	i := 0
	for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
		i++
	}
	digits, unit := spec[:i], spec[i:]
	if digits == "" {
		return 0, fmt.Errorf("%w: %q has no magnitude", models.ErrInvalidDurationFormat, spec)
	}

	perUnit, ok := durationUnits[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q has unknown unit %q", models.ErrInvalidDurationFormat, spec, unit)
	}

	magnitude, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", models.ErrInvalidDurationFormat, spec, err)
	}
	if magnitude <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", models.ErrInvalidDurationFormat, spec)
	}
	if magnitude > MaxDurationSeconds/perUnit {
		return 0, fmt.Errorf("%w: %q exceeds %d years", models.ErrInvalidDurationFormat, spec, MaxDurationSeconds/SecondsPerYear)
	}

	return magnitude * perUnit, nil
}
