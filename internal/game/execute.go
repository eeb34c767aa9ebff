package game

import (
	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// Execute validates move against state and returns the resulting state.
// state is never modified. On rejection the error is a *MoveError wrapping
// one of the package sentinels.
func (e *Engine) Execute(state *GameState, move Move) (*GameState, error) {
	if state == nil {
		return nil, reject(move, ErrInvalidMove, "No game state")
	}

	next, merr := e.execute(state, move)
	if merr != nil {
		e.logger.Debug("move rejected",
			zap.String("move", move.String()),
			zap.Int("player", state.CurrentPlayer),
			zap.String("reason", merr.Reason),
		)
		return nil, merr
	}

	e.logger.Debug("move applied",
		zap.String("move", move.String()),
		zap.Int("player", state.CurrentPlayer),
		zap.Int("turn", state.TurnNumber),
		zap.String("phase", next.Phase.String()),
	)
	if next.IsGameOver() {
		e.logger.Info("game over",
			zap.String("reason", rules.GameOverReason(next.Supply)),
			zap.Ints("scores", next.Scores()),
			zap.Int("turn", next.TurnNumber),
		)
	}
	return next, nil
}

func (e *Engine) execute(state *GameState, move Move) (*GameState, *MoveError) {
	if reason := rules.GameOverReason(state.Supply); reason != "" {
		return nil, reject(move, ErrGameOver, "Game is over (%s)", reason)
	}

	if pe := state.Pending; pe != nil {
		if want := pe.MoveType(); move.Type != want {
			return nil, reject(move, ErrPendingEffect,
				"Must resolve %s from %s with %s, not %s", pe.Effect, pe.Card, want, move.Type)
		}
	} else if merr := checkPhase(state, move); merr != nil {
		return nil, merr
	}

	s := state.Clone()
	var merr *MoveError
	if s.Pending != nil {
		merr = s.resolve(move)
	} else {
		merr = s.applyPhaseMove(move)
	}
	if merr != nil {
		return nil, merr
	}
	return s, nil
}

// checkPhase rejects move types that do not belong to the current phase.
func checkPhase(state *GameState, move Move) *MoveError {
	switch move.Type {
	case MovePlayAction:
		if state.Phase != rules.PhaseAction {
			return reject(move, ErrWrongPhase, "Cannot play actions in %s phase", state.Phase)
		}
	case MovePlayTreasure, MovePlayAllTreasures:
		if state.Phase != rules.PhaseBuy {
			return reject(move, ErrWrongPhase, "Cannot play treasures in %s phase", state.Phase)
		}
	case MoveBuy:
		if state.Phase != rules.PhaseBuy {
			return reject(move, ErrWrongPhase, "Cannot buy cards in %s phase", state.Phase)
		}
	case MoveEndPhase:
	default:
		if _, err := ParseMoveType(string(move.Type)); err != nil {
			return reject(move, ErrInvalidMove, "Unknown move type %q", move.Type)
		}
		return reject(move, ErrNoPending, "No pending effect: %s is not allowed", move.Type)
	}
	return nil
}

// lookup resolves a card name referenced by a move.
func lookup(move Move, name string) (cards.Card, *MoveError) {
	c, err := cards.Get(name)
	if err != nil {
		return cards.Card{}, reject(move, ErrUnknownCard, "Unknown card: %s", name)
	}
	return c, nil
}

func (s *GameState) applyPhaseMove(move Move) *MoveError {
	p := s.Current()

	switch move.Type {
	case MovePlayAction:
		card, merr := lookup(move, move.Card)
		if merr != nil {
			return merr
		}
		if !card.IsAction() {
			return reject(move, ErrWrongCardType, "%s is not an Action card", card.Name)
		}
		if p.Actions <= 0 {
			return reject(move, ErrInsufficient, "No actions remaining to play %s", card.Name)
		}
		if !removeOne(&p.Hand, card.Name) {
			return reject(move, ErrCardNotInHand, "%s not in hand", card.Name)
		}
		p.InPlay = append(p.InPlay, card.Name)
		p.Actions--
		s.play(card.Name, nil)

	case MovePlayTreasure:
		card, merr := lookup(move, move.Card)
		if merr != nil {
			return merr
		}
		if !card.IsTreasure() {
			return reject(move, ErrWrongCardType, "%s is not a Treasure card", card.Name)
		}
		if !removeOne(&p.Hand, card.Name) {
			return reject(move, ErrCardNotInHand, "%s not in hand", card.Name)
		}
		p.InPlay = append(p.InPlay, card.Name)
		p.Coins += card.Coins

	case MovePlayAllTreasures:
		if !hasType(p.Hand, cards.IsTreasure) {
			return reject(move, ErrCardNotInHand, "No treasures in hand to play")
		}
		kept := make([]string, 0, len(p.Hand))
		for _, name := range p.Hand {
			if cards.IsTreasure(name) {
				p.InPlay = append(p.InPlay, name)
				p.Coins += treasureCoins(name)
				continue
			}
			kept = append(kept, name)
		}
		p.Hand = kept

	case MoveBuy:
		card, merr := lookup(move, move.Card)
		if merr != nil {
			return merr
		}
		if p.Buys <= 0 {
			return reject(move, ErrInsufficient, "No buys remaining to buy %s", card.Name)
		}
		count, ok := s.Supply[card.Name]
		if !ok {
			return reject(move, ErrNotInSupply, "%s not available in supply", card.Name)
		}
		if count <= 0 {
			return reject(move, ErrPileEmpty, "%s pile is empty", card.Name)
		}
		if card.Cost > p.Coins {
			return reject(move, ErrInsufficient,
				"Not enough coins to buy %s. Need %d, have %d", card.Name, card.Cost, p.Coins)
		}
		s.Supply[card.Name]--
		p.Discard = append(p.Discard, card.Name)
		p.Buys--
		p.Coins -= card.Cost

	case MoveEndPhase:
		next, wraps := rules.NextPhase(s.Phase)
		switch {
		case wraps:
			s.cleanup()
		case next == rules.PhaseCleanup:
			// Cleanup has no player decisions; run it straight away.
			s.Phase = rules.PhaseCleanup
			s.cleanup()
		default:
			s.Phase = next
		}

	default:
		return reject(move, ErrInvalidMove, "Unknown move type %q", move.Type)
	}
	return nil
}

// cleanup ends the current turn: everything in hand and in play is
// discarded, a new hand is drawn and play passes to the next seat.
func (s *GameState) cleanup() {
	p := s.Current()
	p.Discard = append(p.Discard, p.Hand...)
	p.Discard = append(p.Discard, p.InPlay...)
	p.Discard = append(p.Discard, p.Aside...)
	p.Hand = []string{}
	p.InPlay = []string{}
	p.Aside = nil
	s.draw(s.CurrentPlayer, HandSize)
	p.Actions = 1
	p.Buys = 1
	p.Coins = 0

	s.CurrentPlayer = rules.NextPlayer(s.CurrentPlayer, len(s.Players))
	s.TurnNumber++
	s.Phase = rules.PhaseAction
}
