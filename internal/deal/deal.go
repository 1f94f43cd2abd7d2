// Package deal produces the shuffled, paired symbol sequence for a board.
package deal

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// DefaultAlphabet is the ordered symbol set boards draw from.
var DefaultAlphabet = []string{"⭐", "🌟", "🔶", "🔷", "💠", "🔺", "🔻", "🔴", "🟢", "🔵", "🟡", "🟣"}

// ErrInvalidConfiguration is returned when a board cannot be dealt from the alphabet.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ResolveSeed returns seed, or a seed taken from the wall clock when seed is
// zero. The result is never zero.
func ResolveSeed(seed uint64) uint64 {
	for seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return seed
}

// DeriveSeed returns a second non-zero seed tied to seed, for a generator
// that must be reproducible together with the one seeded by seed.
func DeriveSeed(seed uint64) uint64 {
	if next := seed + 1; next != 0 {
		return next
	}
	return 1
}

// NewRand returns a PCG-backed generator. A zero seed is resolved with
// ResolveSeed.
func NewRand(seed uint64) *rand.Rand {
	seed = ResolveSeed(seed)
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Validate checks that pairs distinct symbols can be taken from alphabet.
func Validate(alphabet []string, pairs int) error {
	if pairs <= 0 {
		return fmt.Errorf("%w: pair count must be positive, got %d", ErrInvalidConfiguration, pairs)
	}
	if pairs > len(alphabet) {
		return fmt.Errorf("%w: %d pairs requested but only %d symbols available",
			ErrInvalidConfiguration, pairs, len(alphabet))
	}
	return nil
}

// Symbols takes the first pairs symbols of alphabet, duplicates each and
// returns them in random order.
func Symbols(alphabet []string, pairs int, rng *rand.Rand) ([]string, error) {
	if err := Validate(alphabet, pairs); err != nil {
		return nil, err
	}

	values := make([]string, 0, pairs*2)
	for _, s := range alphabet[:pairs] {
		values = append(values, s, s)
	}
	return Shuffle(values, rng), nil
}

// Shuffle returns a uniformly random permutation of in using Fisher-Yates.
// The input slice is left untouched.
func Shuffle[T any](in []T, rng *rand.Rand) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
