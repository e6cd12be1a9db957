package calculator

import (
	"math/big"
	"time"

	"github.com/mmynk/vesting/internal/models"
)

// ElapsedSeconds returns the whole seconds from start to now, floored at 0 when
// now is before start. It works on Unix seconds so spans longer than a
// time.Duration can hold still count up.
func ElapsedSeconds(start, now time.Time) int64 {
	elapsed := now.Unix() - start.Unix()
	if now.Nanosecond() < start.Nanosecond() {
		elapsed--
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Evaluate computes the vesting state of a stream at now.
//
// Algorithm:
// - elapsed = now - start, in whole seconds, floored at 0
// - elapsed < cliff: nothing has vested
// - elapsed >= duration: everything has vested
// - otherwise: vested = floor(total * elapsed / duration)
//
// The cliff only gates the start of release. Once it passes, the vested amount
// is measured from the stream start, so a stream jumps to cliff/duration of its
// total at the cliff instant.
//
// Evaluate does not modify the stream.
func Evaluate(stream *models.Stream, now time.Time) models.Schedule {
	total := stream.TotalAmount
	if total == nil {
		total = new(big.Int)
	}
	elapsed := ElapsedSeconds(stream.StartTime, now)

	var (
		fraction float64
		vested   *big.Int
	)
	switch {
	case elapsed < stream.CliffSeconds:
		vested = new(big.Int)
	case elapsed >= stream.DurationSeconds:
		fraction = 1
		vested = new(big.Int).Set(total)
	default:
		fraction = float64(elapsed) / float64(stream.DurationSeconds)
		vested = new(big.Int).Mul(total, big.NewInt(elapsed))
		vested.Quo(vested, big.NewInt(stream.DurationSeconds))
	}

	claimable := new(big.Int).Set(vested)
	if stream.ClaimedAmount != nil {
		claimable.Sub(claimable, stream.ClaimedAmount)
	}
	if claimable.Sign() < 0 {
		claimable.SetInt64(0)
	}

	return models.Schedule{
		VestedFraction:  fraction,
		VestedAmount:    vested,
		ClaimableAmount: claimable,
	}
}

// VestingEnd returns the instant the stream is fully vested.
func VestingEnd(stream *models.Stream) time.Time {
	return addSeconds(stream.StartTime, stream.DurationSeconds)
}

// CliffEnd returns the first instant anything is claimable.
func CliffEnd(stream *models.Stream) time.Time {
	return addSeconds(stream.StartTime, stream.CliffSeconds)
}

// addSeconds is t.Add for second counts beyond time.Duration's ~292 years.
// Durations are capped at MaxDurationSeconds, so the sum stays in range.
func addSeconds(t time.Time, secs int64) time.Time {
	return time.Unix(t.Unix()+secs, int64(t.Nanosecond())).In(t.Location())
}
