package game

import (
	"fmt"
	"strings"
)

// MoveType tags a move variant.
type MoveType string

const (
	MovePlayAction        MoveType = "play_action"
	MovePlayTreasure      MoveType = "play_treasure"
	MovePlayAllTreasures  MoveType = "play_all_treasures"
	MoveBuy               MoveType = "buy"
	MoveEndPhase          MoveType = "end_phase"
	MoveDiscardForCellar  MoveType = "discard_for_cellar"
	MoveTrashCards        MoveType = "trash_cards"
	MoveGainCard          MoveType = "gain_card"
	MoveSelectTreasure    MoveType = "select_treasure_to_trash"
	MoveSelectThrone      MoveType = "select_action_for_throne"
	MoveChancellor        MoveType = "chancellor_decision"
	MoveSpy               MoveType = "spy_decision"
	MoveRevealAndTopdeck  MoveType = "reveal_and_topdeck"
	MoveDiscardToHandSize MoveType = "discard_to_hand_size"
	MoveLibrarySetAside   MoveType = "library_set_aside"
	MoveRevealReaction    MoveType = "reveal_reaction"
	MoveGainTrashedCard   MoveType = "gain_trashed_card"
)

var moveTypes = map[MoveType]bool{
	MovePlayAction:        true,
	MovePlayTreasure:      true,
	MovePlayAllTreasures:  true,
	MoveBuy:               true,
	MoveEndPhase:          true,
	MoveDiscardForCellar:  true,
	MoveTrashCards:        true,
	MoveGainCard:          true,
	MoveSelectTreasure:    true,
	MoveSelectThrone:      true,
	MoveChancellor:        true,
	MoveSpy:               true,
	MoveRevealAndTopdeck:  true,
	MoveDiscardToHandSize: true,
	MoveLibrarySetAside:   true,
	MoveRevealReaction:    true,
	MoveGainTrashedCard:   true,
}

// ParseMoveType validates a move tag.
func ParseMoveType(s string) (MoveType, error) {
	mt := MoveType(strings.TrimSpace(s))
	if !moveTypes[mt] {
		return "", fmt.Errorf("%w: unknown move type %q", ErrInvalidMove, s)
	}
	return mt, nil
}

// Move is a single player decision. Which fields matter depends on Type:
// Card for single-card moves, Cards for multi-card selections, Choice for
// yes/no decisions. An empty Card on a selection move means skip or decline.
type Move struct {
	Type   MoveType `json:"type"`
	Card   string   `json:"card,omitempty"`
	Cards  []string `json:"cards,omitempty"`
	Choice bool     `json:"choice,omitempty"`
}

// Compact constructors used by the enumerator and tests.

func PlayAction(card string) Move   { return Move{Type: MovePlayAction, Card: card} }
func PlayTreasure(card string) Move { return Move{Type: MovePlayTreasure, Card: card} }
func PlayAllTreasures() Move        { return Move{Type: MovePlayAllTreasures} }
func Buy(card string) Move          { return Move{Type: MoveBuy, Card: card} }
func EndPhase() Move                { return Move{Type: MoveEndPhase} }

func (m Move) isDecision() bool {
	switch m.Type {
	case MoveChancellor, MoveSpy, MoveLibrarySetAside:
		return true
	}
	return false
}

func (m Move) isMultiCard() bool {
	switch m.Type {
	case MoveDiscardForCellar, MoveTrashCards, MoveDiscardToHandSize:
		return true
	}
	return false
}

func (m Move) String() string {
	var b strings.Builder
	b.WriteString(string(m.Type))
	switch {
	case m.isDecision():
		if m.Choice {
			b.WriteString(" yes")
		} else {
			b.WriteString(" no")
		}
	case m.isMultiCard():
		b.WriteString(" [")
		b.WriteString(strings.Join(m.Cards, ", "))
		b.WriteString("]")
	case m.Card != "":
		b.WriteString(" ")
		b.WriteString(m.Card)
	}
	return b.String()
}

// Equal compares moves by value.
func (m Move) Equal(other Move) bool {
	if m.Type != other.Type || m.Card != other.Card || m.Choice != other.Choice {
		return false
	}
	if len(m.Cards) != len(other.Cards) {
		return false
	}
	for i := range m.Cards {
		if m.Cards[i] != other.Cards[i] {
			return false
		}
	}
	return true
}
