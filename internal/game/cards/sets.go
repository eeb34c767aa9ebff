package cards

import "sort"

// DefaultKingdom is used when a game is created without an explicit kingdom.
var DefaultKingdom = []string{
	Village, Smithy, Laboratory, Market,
	Woodcutter, Festival, CouncilRoom, Cellar,
}

// Named groupings of the kingdom, handy for building themed games and tests.
var (
	TrashingCards = []string{Chapel, Remodel, Mine, Moneylender}
	GainingCards  = []string{Workshop, Feast}
	AttackCards   = []string{Militia, Witch, Bureaucrat, Spy, Thief}
	ReactionCards = []string{Moat}
	SpecialCards  = []string{ThroneRoom, Adventurer, Chancellor, Library, Gardens}
)

// StartingDeck returns a fresh copy of the 7 Copper / 3 Estate starting deck.
func StartingDeck() []string {
	return []string{
		Copper, Copper, Copper, Copper, Copper, Copper, Copper,
		Estate, Estate, Estate,
	}
}

// SortCanonical sorts names in place by catalog order. Unknown names sort
// last, alphabetically.
func SortCanonical(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, b := Index(names[i]), Index(names[j])
		switch {
		case a < 0 && b < 0:
			return names[i] < names[j]
		case a < 0:
			return false
		case b < 0:
			return true
		}
		return a < b
	})
}

// Distinct returns the distinct names in cards, in canonical order.
func Distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	SortCanonical(out)
	return out
}
