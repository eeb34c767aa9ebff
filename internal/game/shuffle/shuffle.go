// Package shuffle is the engine's only source of randomness: a seeded linear
// congruential generator whose state is a plain value carried inside the game
// state. Every function is pure; the caller stores the returned State.
package shuffle

import "unicode/utf16"

// State is the generator state. The zero value is a valid (if boring) seed.
type State uint32

const (
	multiplier = 1664525
	increment  = 1013904223
	modulus    = 1 << 32
)

// NewState derives the initial state from a seed string using the 31x
// rolling string hash over UTF-16 code units, taking the absolute value.
func NewState(seed string) State {
	var h int32
	for _, u := range utf16.Encode([]rune(seed)) {
		h = (h << 5) - h + int32(u)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return State(uint32(abs))
}

// Next advances the generator once and returns a float in [0, 1).
func (s State) Next() (float64, State) {
	n := State(uint32(s)*multiplier + increment)
	return float64(n) / modulus, n
}

// Intn returns an integer in [0, n) and the advanced state. n must be > 0.
func (s State) Intn(n int) (int, State) {
	f, next := s.Next()
	return int(f * float64(n)), next
}

// Shuffle returns a Fisher-Yates permutation of seq together with the
// advanced state. seq is not modified.
func Shuffle[T any](seq []T, s State) ([]T, State) {
	out := make([]T, len(seq))
	copy(out, seq)
	for i := len(out) - 1; i > 0; i-- {
		var j int
		j, s = s.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out, s
}

// Pick chooses k distinct indices from [0, n) in draw order.
func Pick(n, k int, s State) ([]int, State) {
	if k > n {
		k = n
	}
	if k <= 0 {
		return []int{}, s
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	perm, next := Shuffle(idx, s)
	return perm[:k], next
}
