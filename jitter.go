package fracdex

import (
	"math/rand"
)

// Jitter interface for testability (use math/rand.Rand).
type Jitter interface {
	// Uniform integer in [min, max], inclusive.
	IntnRange(min, max int) int
}

// NoJitter implements Jitter but returns 0 offset.
type NoJitter struct{}

func (NoJitter) IntnRange(min, max int) int { return 0 }

// RandJitter is a helper backed by *rand.Rand. A *rand.Rand is not safe for
// concurrent use; a nil R uses the global source, which is.
type RandJitter struct{ R *rand.Rand }

// NewRandJitter returns a RandJitter seeded with seed.
func NewRandJitter(seed int64) RandJitter {
	return RandJitter{R: rand.New(rand.NewSource(seed))}
}

func (j RandJitter) IntnRange(min, max int) int {
	if max <= min {
		return min
	}
	if j.R == nil {
		return min + rand.Intn(max-min+1)
	}
	return min + j.R.Intn(max-min+1)
}

// jitterPick offsets the centre digit by up to jitterRange steps, clamped to
// the open interval (lo, hi).
func jitterPick(j Jitter, jitterRange int) pickFunc {
	if j == nil || jitterRange <= 0 {
		return centre
	}
	return func(lo, hi int) int {
		p := centre(lo, hi) + j.IntnRange(-jitterRange, jitterRange)
		return min(max(p, lo+1), hi-1)
	}
}

// KeyBetweenJitter picks a key strictly between a and b, with randomization.
// This provides collision resistance when multiple writers generate keys
// between the same (a,b) at the same time. Only the choice of the new digit
// is randomized; the structural rules of KeyBetween still apply.
func KeyBetweenJitter(a, b string, j Jitter, jitterRange int) (string, error) {
	return keyBetween(a, b, jitterPick(j, jitterRange))
}

// NKeysBetweenJitter generates n keys between a and b with randomization.
func NKeysBetweenJitter(a, b string, n uint, j Jitter, jitterRange int) ([]string, error) {
	return nKeysBetween(a, b, n, jitterPick(j, jitterRange))
}
