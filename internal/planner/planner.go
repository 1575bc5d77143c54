// Package planner computes the capture timestamps for a batch extraction.
//
// The duration is divided into count+1 equal segments and the segment
// boundaries become the candidates, which keeps the samples spread across the
// whole timeline. Optional jitter perturbs each candidate by a bounded random
// offset so repeated runs over static footage are less likely to capture
// identical frames, without giving up temporal coverage.
package planner

import (
	"math/rand/v2"
	"sort"
)

const (
	// MinFrameCount and MaxFrameCount bound a batch request.
	MinFrameCount = 1
	MaxFrameCount = 50

	// edgeMargin keeps timestamps away from the first and last instants,
	// which tend to decode as black frames.
	edgeMargin = 0.1

	// jitterFraction bounds the random offset to at most 40% of one segment.
	jitterFraction = 0.4
)

// Rand is the randomness source for jitter. Tests substitute a deterministic
// implementation; production uses the ambient generator via New.
type Rand interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

type Planner struct {
	rng Rand
}

// New returns a planner backed by the ambient math/rand source. No
// reproducibility is guaranteed between runs with jitter enabled.
func New() *Planner {
	return NewWithRand(ambientRand{})
}

func NewWithRand(rng Rand) *Planner {
	return &Planner{rng: rng}
}

// Plan returns exactly count timestamps in ascending order, each clamped to
// [edgeMargin, duration-edgeMargin]. Count is clamped to [1, 50]. With jitter
// disabled the output is deterministic: i*duration/(count+1) pre-clamp.
//
// When the duration is tiny relative to count, post-clamp timestamps may
// collide; that is accepted, not corrected.
func (p *Planner) Plan(duration float64, count int, jitter bool) []float64 {
	if count < MinFrameCount {
		count = MinFrameCount
	}
	if count > MaxFrameCount {
		count = MaxFrameCount
	}

	step := duration / float64(count+1)
	timestamps := make([]float64, count)
	for i := 0; i < count; i++ {
		ts := float64(i+1) * step
		if jitter {
			// Uniform in [-jitterFraction*step, +jitterFraction*step).
			ts += (p.rng.Float64()*2 - 1) * jitterFraction * step
		}
		timestamps[i] = clampTimestamp(ts, duration)
	}

	sort.Float64s(timestamps)
	return timestamps
}

// clampTimestamp bounds ts to [edgeMargin, duration-edgeMargin]. The lower
// bound is applied last so that durations below 2*edgeMargin still yield
// edgeMargin rather than a negative or sub-margin value.
func clampTimestamp(ts, duration float64) float64 {
	if ts > duration-edgeMargin {
		ts = duration - edgeMargin
	}
	if ts < edgeMargin {
		ts = edgeMargin
	}
	return ts
}

type ambientRand struct{}

func (ambientRand) Float64() float64 { return rand.Float64() }
