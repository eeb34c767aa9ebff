package game

import (
	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/shuffle"
)

// Zone helpers. They operate on a working copy inside a transition and never
// on a caller's state.

// removeOne deletes a single instance of card from zone, reporting success.
func removeOne(zone *[]string, card string) bool {
	for i, c := range *zone {
		if c == card {
			*zone = append((*zone)[:i], (*zone)[i+1:]...)
			return true
		}
	}
	return false
}

func countOf(zone []string, card string) int {
	n := 0
	for _, c := range zone {
		if c == card {
			n++
		}
	}
	return n
}

func tally(zone []string) map[string]int {
	out := make(map[string]int, len(zone))
	for _, c := range zone {
		out[c]++
	}
	return out
}

func hasType(zone []string, pred func(string) bool) bool {
	for _, c := range zone {
		if pred(c) {
			return true
		}
	}
	return false
}

// reshuffle turns the discard pile of seat into its draw pile, beneath any
// cards still on the deck, advancing the game RNG.
func (s *GameState) reshuffle(seat int) {
	p := &s.Players[seat]
	if len(p.Discard) == 0 {
		return
	}
	shuffled, next := shuffle.Shuffle(p.Discard, s.RNG)
	s.RNG = next
	p.DrawPile = append(p.DrawPile, shuffled...)
	p.Discard = nil
}

// drawOne moves the top card of seat's deck to its hand, reshuffling when
// the deck is empty. It returns "" when nothing is left to draw.
func (s *GameState) drawOne(seat int) string {
	card := s.takeTop(seat)
	if card != "" {
		p := &s.Players[seat]
		p.Hand = append(p.Hand, card)
	}
	return card
}

// takeTop removes and returns the top card of seat's deck, reshuffling when
// needed. It returns "" when deck and discard are both empty.
func (s *GameState) takeTop(seat int) string {
	p := &s.Players[seat]
	if len(p.DrawPile) == 0 {
		s.reshuffle(seat)
	}
	if len(p.DrawPile) == 0 {
		return ""
	}
	card := p.DrawPile[0]
	p.DrawPile = p.DrawPile[1:]
	return card
}

// peekTop returns the top card of seat's deck without moving it,
// reshuffling first if the deck is empty.
func (s *GameState) peekTop(seat int) string {
	p := &s.Players[seat]
	if len(p.DrawPile) == 0 {
		s.reshuffle(seat)
	}
	if len(p.DrawPile) == 0 {
		return ""
	}
	return p.DrawPile[0]
}

// draw draws up to n cards and returns how many were drawn. A reshuffle in
// the middle of the draw keeps the requested count.
func (s *GameState) draw(seat, n int) int {
	drawn := 0
	for drawn < n {
		if s.drawOne(seat) == "" {
			break
		}
		drawn++
	}
	return drawn
}

func topdeck(p *PlayerState, card string) {
	p.DrawPile = append([]string{card}, p.DrawPile...)
}

// gain takes one card from the supply into seat's destination zone. It
// reports false when the pile is missing or empty.
func (s *GameState) gain(seat int, card, destination string) bool {
	if s.Supply[card] <= 0 {
		return false
	}
	s.Supply[card]--
	p := &s.Players[seat]
	switch destination {
	case DestinationHand:
		p.Hand = append(p.Hand, card)
	case DestinationDeck:
		topdeck(p, card)
	default:
		p.Discard = append(p.Discard, card)
	}
	return true
}

// treasureCoins is the coin value of a treasure, 0 for anything else.
func treasureCoins(name string) int {
	c, err := cards.Get(name)
	if err != nil || !c.IsTreasure() {
		return 0
	}
	return c.Coins
}
