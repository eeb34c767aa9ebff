package game

import (
	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/rules"
)

// ValidMoves lists every legal move for state in a stable order: the same
// state always yields the same moves in the same positions. A finished game
// has no moves.
func (e *Engine) ValidMoves(state *GameState) []Move {
	if state == nil || state.IsGameOver() {
		return []Move{}
	}
	if state.Pending != nil {
		return pendingMoves(state)
	}

	p := state.Current()
	switch state.Phase {
	case rules.PhaseAction:
		moves := make([]Move, 0, len(p.Hand)+1)
		if p.Actions > 0 {
			for _, name := range cards.Distinct(p.Hand) {
				if cards.IsAction(name) {
					moves = append(moves, PlayAction(name))
				}
			}
		}
		return append(moves, EndPhase())

	case rules.PhaseBuy:
		moves := make([]Move, 0, len(p.Hand)+len(state.Supply)+2)
		hasTreasure := false
		for _, name := range cards.Distinct(p.Hand) {
			if cards.IsTreasure(name) {
				moves = append(moves, PlayTreasure(name))
				hasTreasure = true
			}
		}
		if hasTreasure {
			moves = append(moves, PlayAllTreasures())
		}
		if p.Buys > 0 {
			for _, name := range state.SupplyNames() {
				if state.Supply[name] > 0 && cards.Cost(name) <= p.Coins {
					moves = append(moves, Buy(name))
				}
			}
		}
		return append(moves, EndPhase())
	}

	// Cleanup only ever needs the transition out of it.
	return []Move{EndPhase()}
}

// pendingMoves dispatches on the open effect. Every generator returns at
// least one move.
func pendingMoves(state *GameState) []Move {
	pe := state.Pending
	current := state.Current()

	switch pe.Effect {
	case EffectDiscardForCellar:
		return multiCardMoves(MoveDiscardForCellar, subsets(current.Hand, 0, len(current.Hand)))

	case EffectTrashCards:
		if pe.Card == cards.Moneylender {
			if countOf(current.Hand, cards.Copper) > 0 {
				return []Move{{Type: MoveTrashCards, Cards: []string{cards.Copper}}}
			}
			return []Move{{Type: MoveTrashCards, Cards: []string{}}}
		}
		return multiCardMoves(MoveTrashCards, subsets(current.Hand, 0, pe.MaxTrash))

	case EffectTrashForRemodel:
		if len(current.Hand) == 0 {
			return []Move{{Type: MoveTrashCards, Cards: []string{}}}
		}
		return multiCardMoves(MoveTrashCards, subsets(current.Hand, 1, 1))

	case EffectGainCard, EffectGainTreasure:
		moves := make([]Move, 0, len(state.Supply))
		for _, name := range gainable(state, pe) {
			moves = append(moves, Move{Type: MoveGainCard, Card: name})
		}
		if len(moves) == 0 {
			return []Move{{Type: MoveGainCard}}
		}
		return moves

	case EffectSelectTreasure:
		zone := current.Hand
		if pe.Card == cards.Thief {
			zone = state.Players[pe.TargetPlayer].Aside
		}
		moves := singleCardMoves(MoveSelectTreasure, zone, cards.IsTreasure)
		if len(moves) == 0 {
			return []Move{{Type: MoveSelectTreasure}}
		}
		return moves

	case EffectSelectThrone:
		moves := singleCardMoves(MoveSelectThrone, current.Hand, cards.IsAction)
		return append(moves, Move{Type: MoveSelectThrone})

	case EffectChancellor, EffectSpy, EffectLibrarySetAside:
		mt := pe.MoveType()
		return []Move{{Type: mt, Choice: true}, {Type: mt, Choice: false}}

	case EffectRevealAndTopdeck:
		moves := singleCardMoves(MoveRevealAndTopdeck, state.Players[pe.TargetPlayer].Hand, cards.IsVictory)
		if len(moves) == 0 {
			return []Move{{Type: MoveRevealAndTopdeck}}
		}
		return moves

	case EffectDiscardToHandSize:
		hand := state.Players[pe.TargetPlayer].Hand
		n := len(hand) - pe.TargetHandSize
		if n <= 0 {
			return []Move{{Type: MoveDiscardToHandSize, Cards: []string{}}}
		}
		return multiCardMoves(MoveDiscardToHandSize, subsets(hand, n, n))

	case EffectRevealReaction:
		return []Move{
			{Type: MoveRevealReaction, Card: cards.Moat},
			{Type: MoveRevealReaction},
		}

	case EffectGainTrashedCard:
		return []Move{
			{Type: MoveGainTrashedCard, Card: pe.TrashedCard},
			{Type: MoveGainTrashedCard},
		}
	}

	return []Move{}
}

// gainable lists supply piles the effect may gain from, in catalog order.
func gainable(state *GameState, pe *PendingEffect) []string {
	out := make([]string, 0, len(state.Supply))
	for _, name := range state.SupplyNames() {
		if state.Supply[name] <= 0 || cards.Cost(name) > pe.MaxGainCost {
			continue
		}
		if pe.Effect == EffectGainTreasure && !cards.IsTreasure(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func multiCardMoves(mt MoveType, combos [][]string) []Move {
	moves := make([]Move, 0, len(combos))
	for _, c := range combos {
		moves = append(moves, Move{Type: mt, Cards: c})
	}
	return moves
}

func singleCardMoves(mt MoveType, zone []string, pred func(string) bool) []Move {
	moves := make([]Move, 0, len(zone))
	for _, name := range cards.Distinct(zone) {
		if pred(name) {
			moves = append(moves, Move{Type: mt, Card: name})
		}
	}
	return moves
}
