package shuffle

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateHash(t *testing.T) {
	assert.Equal(t, State(0), NewState(""))
	assert.Equal(t, State(97), NewState("a"))
	assert.Equal(t, State(97*31+98), NewState("ab"))
}

func TestNewStateTakesAbsoluteValue(t *testing.T) {
	// A long seed overflows int32 and wraps negative at some point; the
	// resulting state must still be derived from the absolute value.
	s := NewState("a fairly long seed string that overflows the hash")
	var h int32
	for _, r := range "a fairly long seed string that overflows the hash" {
		h = (h << 5) - h + int32(r)
	}
	want := int64(h)
	if want < 0 {
		want = -want
	}
	assert.Equal(t, State(uint32(want)), s)
}

func TestNextIsLCG(t *testing.T) {
	f, next := State(97).Next()
	assert.Equal(t, State(1175363148), next)
	assert.InDelta(t, 1175363148.0/4294967296.0, f, 1e-12)

	// Wraps modulo 2^32.
	top := uint32(4294967295)
	_, wrapped := State(top).Next()
	assert.Equal(t, State(top*1664525+1013904223), wrapped)
}

func TestShuffleIsDeterministic(t *testing.T) {
	deck := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	seed := NewState("test-seed")

	first, s1 := Shuffle(deck, seed)
	second, s2 := Shuffle(deck, seed)

	assert.Equal(t, first, second)
	assert.Equal(t, s1, s2)
	assert.NotEqual(t, seed, s1, "state must advance")
}

func TestShuffleIsPermutationAndPure(t *testing.T) {
	deck := []string{"Copper", "Copper", "Estate", "Silver", "Gold", "Copper"}
	orig := append([]string(nil), deck...)

	out, _ := Shuffle(deck, NewState("seed"))
	require.Len(t, out, len(deck))
	assert.Equal(t, orig, deck, "input must not be modified")

	sortedOut := append([]string(nil), out...)
	sortedIn := append([]string(nil), deck...)
	sort.Strings(sortedOut)
	sort.Strings(sortedIn)
	assert.Equal(t, sortedIn, sortedOut)
}

func TestShuffleDifferentSeedsDiffer(t *testing.T) {
	deck := make([]int, 30)
	for i := range deck {
		deck[i] = i
	}
	a, _ := Shuffle(deck, NewState("alpha"))
	b, _ := Shuffle(deck, NewState("beta"))
	assert.NotEqual(t, a, b)
}

func TestShuffleTrivialInputs(t *testing.T) {
	empty, s := Shuffle([]string{}, State(5))
	assert.Empty(t, empty)
	assert.Equal(t, State(5), s, "nothing to swap, nothing consumed")

	one, s := Shuffle([]string{"x"}, State(5))
	assert.Equal(t, []string{"x"}, one)
	assert.Equal(t, State(5), s)
}

func TestPick(t *testing.T) {
	picked, next := Pick(25, 10, NewState("kingdom"))
	require.Len(t, picked, 10)
	seen := map[int]bool{}
	for _, i := range picked {
		assert.True(t, i >= 0 && i < 25)
		assert.False(t, seen[i], "duplicate index %d", i)
		seen[i] = true
	}

	again, next2 := Pick(25, 10, NewState("kingdom"))
	assert.Equal(t, picked, again)
	assert.Equal(t, next, next2)

	all, _ := Pick(3, 10, State(1))
	assert.Len(t, all, 3)

	none, s := Pick(3, 0, State(1))
	assert.Empty(t, none)
	assert.Equal(t, State(1), s)
}
