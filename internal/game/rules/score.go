package rules

import "github.com/principality/principality-server-go/internal/game/cards"

// Score totals the victory points of a player's complete card set.
func Score(owned []string) int {
	total := 0
	for _, name := range owned {
		if name == cards.Gardens {
			total += len(owned) / 10
			continue
		}
		if card, err := cards.Get(name); err == nil {
			total += card.VP
		}
	}
	return total
}

// Winner returns the seat with the highest score. Ties go to the earliest
// seat. It returns -1 for an empty slice.
func Winner(scores []int) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}
