// Package stats computes the per-step timing figures shown by a progress bar:
// completion ratio, elapsed time, estimated time remaining and throughput.
//
// Every function here is pure. Division by zero is guarded locally so callers
// never see NaN or an infinite value.
package stats

import (
	"math"
	"time"
)

// Snapshot is the immutable record of one progress step. A new Snapshot is
// computed for every pull; nothing is cached between steps.
type Snapshot struct {
	// Current is the number of items processed before this step.
	Current int
	// Total is the expected number of items. Only meaningful when HasTotal.
	Total int
	// HasTotal reports whether the total is known.
	HasTotal bool
	// Ratio is the completion ratio in [0, 1]; 1.0 when the total is unknown
	// or zero.
	Ratio float64
	// Elapsed is the time since the progress source was created.
	Elapsed time.Duration
	// ETA is the estimated remaining time. Only meaningful when HasETA.
	ETA time.Duration
	// HasETA reports whether an ETA could be estimated.
	HasETA bool
	// Throughput is the processing rate in items per second.
	Throughput float64
}

// ElapsedMs returns the elapsed time in milliseconds.
func (s Snapshot) ElapsedMs() float64 {
	return float64(s.Elapsed) / float64(time.Millisecond)
}

// ETAMs returns the estimated remaining time in milliseconds and whether an
// estimate exists.
func (s Snapshot) ETAMs() (float64, bool) {
	if !s.HasETA {
		return 0, false
	}
	return float64(s.ETA) / float64(time.Millisecond), true
}

// Ratio returns current/total capped at 1.0. A non-positive total yields 1.0.
func Ratio(current, total int) float64 {
	if total <= 0 {
		return 1.0
	}
	return math.Min(float64(current)/float64(total), 1.0)
}

// Elapsed returns now - startedAt, never negative.
func Elapsed(now, startedAt time.Time) time.Duration {
	d := now.Sub(startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Remaining estimates the time left to process total-current items at the
// average rate observed so far. It reports false until at least one item has
// been processed, or when the total is not positive.
func Remaining(current, total int, elapsed time.Duration) (time.Duration, bool) {
	if current <= 0 || total <= 0 {
		return 0, false
	}
	left := total - current
	if left <= 0 {
		return 0, true
	}
	eta := float64(elapsed) / float64(current) * float64(left)
	if math.IsNaN(eta) || math.IsInf(eta, 0) || eta > math.MaxInt64 {
		return 0, false
	}
	return time.Duration(eta), true
}

// Throughput returns items per second. Zero elapsed time yields 0.
func Throughput(current int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	perSec := float64(current) / elapsed.Seconds()
	if math.IsNaN(perSec) || math.IsInf(perSec, 0) {
		return 0
	}
	return perSec
}

// Compute builds the snapshot for one step.
func Compute(current, total int, hasTotal bool, now, startedAt time.Time) Snapshot {
	elapsed := Elapsed(now, startedAt)
	s := Snapshot{
		Current:    current,
		Total:      total,
		HasTotal:   hasTotal,
		Ratio:      1.0,
		Elapsed:    elapsed,
		Throughput: Throughput(current, elapsed),
	}
	if hasTotal {
		s.Ratio = Ratio(current, total)
		s.ETA, s.HasETA = Remaining(current, total, elapsed)
	}
	return s
}
