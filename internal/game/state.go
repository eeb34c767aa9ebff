package game

import (
	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/rules"
	"github.com/principality/principality-server-go/internal/game/shuffle"
)

// EffectTag names the outstanding step of an interactive card.
type EffectTag string

const (
	EffectDiscardForCellar  EffectTag = "discard_for_cellar"
	EffectTrashCards        EffectTag = "trash_cards"
	EffectTrashForRemodel   EffectTag = "trash_for_remodel"
	EffectGainCard          EffectTag = "gain_card"
	EffectGainTreasure      EffectTag = "gain_treasure"
	EffectSelectTreasure    EffectTag = "select_treasure_to_trash"
	EffectSelectThrone      EffectTag = "select_action_for_throne"
	EffectChancellor        EffectTag = "chancellor_decision"
	EffectSpy               EffectTag = "spy_decision"
	EffectRevealAndTopdeck  EffectTag = "reveal_and_topdeck"
	EffectDiscardToHandSize EffectTag = "discard_to_hand_size"
	EffectLibrarySetAside   EffectTag = "library_set_aside"
	EffectRevealReaction    EffectTag = "reveal_reaction"
	EffectGainTrashedCard   EffectTag = "gain_trashed_card"
)

// effectMoves maps each tag to the only move type it accepts.
var effectMoves = map[EffectTag]MoveType{
	EffectDiscardForCellar:  MoveDiscardForCellar,
	EffectTrashCards:        MoveTrashCards,
	EffectTrashForRemodel:   MoveTrashCards,
	EffectGainCard:          MoveGainCard,
	EffectGainTreasure:      MoveGainCard,
	EffectSelectTreasure:    MoveSelectTreasure,
	EffectSelectThrone:      MoveSelectThrone,
	EffectChancellor:        MoveChancellor,
	EffectSpy:               MoveSpy,
	EffectRevealAndTopdeck:  MoveRevealAndTopdeck,
	EffectDiscardToHandSize: MoveDiscardToHandSize,
	EffectLibrarySetAside:   MoveLibrarySetAside,
	EffectRevealReaction:    MoveRevealReaction,
	EffectGainTrashedCard:   MoveGainTrashedCard,
}

// Gain destinations.
const (
	DestinationDiscard = "discard"
	DestinationHand    = "hand"
	DestinationDeck    = "deck"
)

// PendingEffect is an interactive card resolution in progress. At most one
// exists at a time.
type PendingEffect struct {
	Card   string    `json:"card"`
	Effect EffectTag `json:"effect"`
	// TargetPlayer is the seat whose cards the step works on.
	TargetPlayer   int    `json:"targetPlayer"`
	MaxTrash       int    `json:"maxTrash,omitempty"`
	MaxGainCost    int    `json:"maxGainCost,omitempty"`
	TrashedCard    string `json:"trashedCard,omitempty"`
	Destination    string `json:"destination,omitempty"`
	RevealedCard   string `json:"revealedCard,omitempty"`
	DrawnCard      string `json:"drawnCard,omitempty"`
	TargetHandSize int    `json:"targetHandSize,omitempty"`
	// Targets are the seats the current attack still has to visit.
	Targets []int `json:"targets,omitempty"`
	// Replays are card plays still owed once this card resolves (Throne Room).
	Replays []string `json:"replays,omitempty"`
}

// MoveType is the move the effect accepts.
func (p *PendingEffect) MoveType() MoveType {
	return effectMoves[p.Effect]
}

// Decider returns the seat that must answer the effect: the target for
// attack responses, the current player otherwise.
func (p *PendingEffect) Decider(current int) int {
	switch p.Effect {
	case EffectRevealReaction, EffectDiscardToHandSize, EffectRevealAndTopdeck:
		return p.TargetPlayer
	}
	return current
}

func (p *PendingEffect) clone() *PendingEffect {
	if p == nil {
		return nil
	}
	out := *p
	out.Targets = cloneInts(p.Targets)
	out.Replays = cloneStrings(p.Replays)
	return &out
}

// PlayerState holds one seat's zones and turn counters. DrawPile[0] is the
// top of the deck.
type PlayerState struct {
	Hand     []string `json:"hand"`
	DrawPile []string `json:"drawPile"`
	Discard  []string `json:"discardPile"`
	InPlay   []string `json:"inPlay"`
	// Aside holds cards set aside mid-resolution (Library, Adventurer,
	// cards revealed by Thief). It is empty between moves unless an effect
	// that uses it is pending.
	Aside   []string `json:"setAside,omitempty"`
	Actions int      `json:"actions"`
	Buys    int      `json:"buys"`
	Coins   int      `json:"coins"`
}

// AllCards returns every card the player owns across all zones.
func (p *PlayerState) AllCards() []string {
	out := make([]string, 0, len(p.Hand)+len(p.DrawPile)+len(p.Discard)+len(p.InPlay)+len(p.Aside))
	out = append(out, p.DrawPile...)
	out = append(out, p.Hand...)
	out = append(out, p.Discard...)
	out = append(out, p.InPlay...)
	out = append(out, p.Aside...)
	return out
}

func (p PlayerState) clone() PlayerState {
	p.Hand = cloneStrings(p.Hand)
	p.DrawPile = cloneStrings(p.DrawPile)
	p.Discard = cloneStrings(p.Discard)
	p.InPlay = cloneStrings(p.InPlay)
	p.Aside = cloneStrings(p.Aside)
	return p
}

// GameState is an immutable snapshot. The engine never mutates a state it
// was handed; every transition works on a Clone.
type GameState struct {
	Players       []PlayerState  `json:"players"`
	Supply        map[string]int `json:"supply"`
	Trash         []string       `json:"trash"`
	CurrentPlayer int            `json:"currentPlayer"`
	Phase         rules.Phase    `json:"phase"`
	TurnNumber    int            `json:"turnNumber"`
	Pending       *PendingEffect `json:"pendingEffect,omitempty"`
	Seed          string         `json:"seed"`
	RNG           shuffle.State  `json:"rng"`
}

// Clone returns a deep copy sharing no memory with s.
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Players:       make([]PlayerState, len(s.Players)),
		Supply:        make(map[string]int, len(s.Supply)),
		Trash:         cloneStrings(s.Trash),
		CurrentPlayer: s.CurrentPlayer,
		Phase:         s.Phase,
		TurnNumber:    s.TurnNumber,
		Pending:       s.Pending.clone(),
		Seed:          s.Seed,
		RNG:           s.RNG,
	}
	for i := range s.Players {
		out.Players[i] = s.Players[i].clone()
	}
	for k, v := range s.Supply {
		out.Supply[k] = v
	}
	return out
}

// Current returns the active player's state.
func (s *GameState) Current() *PlayerState {
	return &s.Players[s.CurrentPlayer]
}

// IsGameOver reports whether the terminal condition holds.
func (s *GameState) IsGameOver() bool {
	return rules.IsGameOver(s.Supply)
}

// SupplyNames returns the supply's card names in catalog order.
func (s *GameState) SupplyNames() []string {
	names := make([]string, 0, len(s.Supply))
	for name := range s.Supply {
		names = append(names, name)
	}
	cards.SortCanonical(names)
	return names
}

// CardCounts tallies every physical card in the game: all player zones,
// supply and trash. The totals are constant for the life of a game.
func (s *GameState) CardCounts() map[string]int {
	counts := make(map[string]int)
	for i := range s.Players {
		for _, c := range s.Players[i].AllCards() {
			counts[c]++
		}
	}
	for _, c := range s.Trash {
		counts[c]++
	}
	for name, n := range s.Supply {
		counts[name] += n
	}
	return counts
}

// Scores returns each seat's victory points.
func (s *GameState) Scores() []int {
	out := make([]int, len(s.Players))
	for i := range s.Players {
		out[i] = rules.Score(s.Players[i].AllCards())
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	out := make([]int, len(in))
	copy(out, in)
	return out
}
