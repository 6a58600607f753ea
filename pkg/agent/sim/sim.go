// Package sim provides the injectable randomness source behind every
// simulated branch in the tool catalog (payment failures, stock checks,
// fabricated tracking statuses, generated ids). Handlers never reach for a
// global generator; tests substitute a scripted source to force either
// branch.
package sim

import "math/rand/v2"

// Rand is the subset of randomness the tool catalog needs.
type Rand interface {
	// IntN returns a uniform int in [0, n).
	IntN(n int) int
}

type seeded struct {
	r *rand.Rand
}

// NewSeeded returns a Rand backed by math/rand/v2 with the given seed.
// The same seed reproduces the same simulated outcomes, which keeps demo
// runs replayable.
func NewSeeded(seed uint64) Rand {
	return &seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seeded) IntN(n int) int { return s.r.IntN(n) }

// Chance returns true with probability num/den.
func Chance(r Rand, num, den int) bool {
	if den <= 0 {
		return false
	}
	return r.IntN(den) < num
}

// Pick returns one element of choices uniformly. Empty input returns the
// zero value.
func Pick[T any](r Rand, choices []T) T {
	var zero T
	if len(choices) == 0 {
		return zero
	}
	return choices[r.IntN(len(choices))]
}

// Between returns a uniform int in [lo, hi]. Used for the REQ/ORD/REV id
// suffixes; the scheme has a known collision window against the ledger and no
// uniqueness check, acceptable at demo volume.
func Between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}
