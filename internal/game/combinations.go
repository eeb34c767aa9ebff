package game

import "github.com/principality/principality-server-go/internal/game/cards"

// subsets returns every distinct sub-multiset of zone whose size lies in
// [minSize, maxSize]. Identical cards are interchangeable, so a zone of
// Copper, Copper, Estate yields six subsets rather than eight. Each subset
// lists its cards in catalog order; the empty subset comes first.
func subsets(zone []string, minSize, maxSize int) [][]string {
	counts := tally(zone)
	combos := [][]string{{}}
	for _, name := range cards.Distinct(zone) {
		next := make([][]string, 0, len(combos)*(counts[name]+1))
		for k := 0; k <= counts[name]; k++ {
			for _, base := range combos {
				if len(base)+k > maxSize {
					continue
				}
				combo := make([]string, len(base), len(base)+k)
				copy(combo, base)
				for i := 0; i < k; i++ {
					combo = append(combo, name)
				}
				next = append(next, combo)
			}
		}
		combos = next
	}

	out := combos[:0]
	for _, c := range combos {
		if len(c) >= minSize {
			out = append(out, c)
		}
	}
	return out
}

// containsMultiset reports whether zone holds every card of want with
// multiplicity. On failure it returns the first short card and how many of
// it zone has.
func containsMultiset(zone, want []string) (ok bool, short string, have int) {
	held := tally(zone)
	need := tally(want)
	for _, name := range cards.Distinct(want) {
		if held[name] < need[name] {
			return false, name, held[name]
		}
	}
	return true, "", 0
}
