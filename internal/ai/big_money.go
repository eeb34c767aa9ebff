package ai

import (
	"github.com/principality/principality-server-go/internal/game"
	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/rules"
)

// buyRule buys Card when the player has at least Coins.
type buyRule struct {
	Card  string
	Coins int
}

var bigMoneyBuys = []buyRule{
	{Card: cards.Province, Coins: 8},
	{Card: cards.Gold, Coins: 6},
	{Card: cards.Silver, Coins: 3},
}

// BigMoneyPolicy plays every action it holds, then all treasures, and buys
// the best of Province, Gold and Silver it can afford. Pending effects are
// answered with the choice that costs the deciding player the least.
type BigMoneyPolicy struct{}

func (p *BigMoneyPolicy) Name() string { return PolicyBigMoney }

func (p *BigMoneyPolicy) Choose(state *game.GameState, moves []game.Move) (game.Move, error) {
	if len(moves) == 0 {
		return game.Move{}, ErrNoMoves
	}
	if state.Pending != nil {
		return best(moves, func(m game.Move) int { return pendingScore(state, m) }), nil
	}

	switch state.Phase {
	case rules.PhaseAction:
		return best(moves, actionScore), nil
	case rules.PhaseBuy:
		if m, ok := find(moves, game.PlayAllTreasures()); ok {
			return m, nil
		}
		coins := state.Current().Coins
		for _, rule := range bigMoneyBuys {
			if coins < rule.Coins {
				continue
			}
			if m, ok := find(moves, game.Buy(rule.Card)); ok {
				return m, nil
			}
		}
	}
	if m, ok := find(moves, game.EndPhase()); ok {
		return m, nil
	}
	return moves[0], nil
}

// best returns the highest scoring move, the earliest on ties.
func best(moves []game.Move, score func(game.Move) int) game.Move {
	out := moves[0]
	top := score(out)
	for _, m := range moves[1:] {
		if s := score(m); s > top {
			out, top = m, s
		}
	}
	return out
}

func find(moves []game.Move, want game.Move) (game.Move, bool) {
	for _, m := range moves {
		if m.Equal(want) {
			return m, true
		}
	}
	return game.Move{}, false
}

// actionScore prefers villages, then the most expensive action. Ending the
// phase scores below any play.
func actionScore(m game.Move) int {
	if m.Type != game.MovePlayAction {
		return -1
	}
	c := cards.MustGet(m.Card)
	return c.Actions*10 + c.Cost
}

// keepValue is how much a card is worth keeping in hand.
func keepValue(name string) int {
	c, err := cards.Get(name)
	if err != nil {
		return 0
	}
	switch {
	case c.IsCurse():
		return -2
	case c.IsVictory() && !c.IsAction() && !c.IsTreasure():
		return -1
	case c.IsTreasure():
		return 2 * c.Coins
	default:
		return c.Cost
	}
}

func sumKeep(names []string) int {
	total := 0
	for _, n := range names {
		total += keepValue(n)
	}
	return total
}

func pendingScore(state *game.GameState, m game.Move) int {
	pe := state.Pending
	switch m.Type {
	case game.MoveDiscardForCellar, game.MoveTrashCards, game.MoveDiscardToHandSize:
		// Get rid of dead cards, keep everything else.
		return -sumKeep(m.Cards)

	case game.MoveGainCard:
		switch m.Card {
		case "":
			return -100
		case cards.Curse:
			return -50
		}
		return cards.Cost(m.Card)

	case game.MoveSelectTreasure:
		if m.Card == "" {
			return -100
		}
		if pe.Card == cards.Thief {
			return cards.Cost(m.Card)
		}
		// Mine: upgrade the best treasure that still has an upgrade.
		if m.Card == cards.Gold {
			return -50
		}
		return cards.Cost(m.Card)

	case game.MoveSelectThrone:
		if m.Card == "" {
			return -1
		}
		return actionScore(game.PlayAction(m.Card))

	case game.MoveChancellor:
		return boolScore(!m.Choice)

	case game.MoveSpy:
		revealed := pe.RevealedCard
		own := pe.TargetPlayer == state.CurrentPlayer
		discard := keepValue(revealed) <= 0
		if !own {
			discard = !discard
		}
		return boolScore(m.Choice == discard)

	case game.MoveLibrarySetAside:
		return boolScore(m.Choice == cards.IsAction(pe.DrawnCard))

	case game.MoveRevealAndTopdeck:
		return -keepValue(m.Card)

	case game.MoveRevealReaction, game.MoveGainTrashedCard:
		return boolScore(m.Card != "")
	}
	return 0
}

func boolScore(b bool) int {
	if b {
		return 1
	}
	return 0
}
