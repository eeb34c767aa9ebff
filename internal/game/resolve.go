package game

import (
	"github.com/principality/principality-server-go/internal/game/cards"
)

// resolve answers the open pending effect with move. The move type has
// already been matched against the effect.
func (s *GameState) resolve(move Move) *MoveError {
	pe := s.Pending

	switch pe.Effect {
	case EffectDiscardForCellar:
		return s.resolveCellar(move, pe)
	case EffectTrashCards:
		if pe.Card == cards.Moneylender {
			return s.resolveMoneylender(move, pe)
		}
		return s.resolveTrash(move, pe)
	case EffectTrashForRemodel:
		return s.resolveRemodelTrash(move, pe)
	case EffectGainCard, EffectGainTreasure:
		return s.resolveGain(move, pe)
	case EffectSelectTreasure:
		if pe.Card == cards.Thief {
			return s.resolveThiefTrash(move, pe)
		}
		return s.resolveMineTrash(move, pe)
	case EffectSelectThrone:
		return s.resolveThrone(move, pe)
	case EffectChancellor:
		if move.Choice {
			p := s.Current()
			p.Discard = append(p.Discard, p.DrawPile...)
			p.DrawPile = []string{}
		}
		s.continueFrom(pe)
		return nil
	case EffectSpy:
		if move.Choice {
			target := &s.Players[pe.TargetPlayer]
			if len(target.DrawPile) > 0 {
				target.Discard = append(target.Discard, target.DrawPile[0])
				target.DrawPile = target.DrawPile[1:]
			}
		}
		s.continueFrom(pe)
		return nil
	case EffectRevealAndTopdeck:
		return s.resolveTopdeck(move, pe)
	case EffectDiscardToHandSize:
		return s.resolveDiscardDown(move, pe)
	case EffectLibrarySetAside:
		p := s.Current()
		if move.Choice && removeOne(&p.Hand, pe.DrawnCard) {
			p.Aside = append(p.Aside, pe.DrawnCard)
		}
		s.Pending = nil
		if !s.libraryDraw(s.CurrentPlayer, pe.Replays) {
			s.resume(pe.Replays)
		}
		return nil
	case EffectRevealReaction:
		return s.resolveReaction(move, pe)
	case EffectGainTrashedCard:
		return s.resolveGainTrashed(move, pe)
	}

	return reject(move, ErrInvalidMove, "Unsupported pending effect %s", pe.Effect)
}

// checkCards validates a multi-card selection against zone: every name must
// exist in the catalog and zone must hold enough copies.
func checkCards(move Move, zone []string, verb string) *MoveError {
	for _, name := range move.Cards {
		if _, merr := lookup(move, name); merr != nil {
			return merr
		}
	}
	if ok, short, have := containsMultiset(zone, move.Cards); !ok {
		return reject(move, ErrCardNotInHand, "Cannot %s %d %s: only %d in hand",
			verb, countOf(move.Cards, short), short, have)
	}
	return nil
}

func (s *GameState) resolveCellar(move Move, pe *PendingEffect) *MoveError {
	p := s.Current()
	if merr := checkCards(move, p.Hand, "discard"); merr != nil {
		return merr
	}
	for _, name := range move.Cards {
		removeOne(&p.Hand, name)
		p.Discard = append(p.Discard, name)
	}
	s.draw(s.CurrentPlayer, len(move.Cards))
	s.continueFrom(pe)
	return nil
}

func (s *GameState) resolveTrash(move Move, pe *PendingEffect) *MoveError {
	p := s.Current()
	if len(move.Cards) > pe.MaxTrash {
		return reject(move, ErrTooManyCards, "%s can only trash up to %d cards", pe.Card, pe.MaxTrash)
	}
	if merr := checkCards(move, p.Hand, "trash"); merr != nil {
		return merr
	}
	for _, name := range move.Cards {
		removeOne(&p.Hand, name)
		s.Trash = append(s.Trash, name)
	}
	s.continueFrom(pe)
	return nil
}

func (s *GameState) resolveMoneylender(move Move, pe *PendingEffect) *MoveError {
	p := s.Current()
	if len(move.Cards) == 0 && countOf(p.Hand, cards.Copper) == 0 {
		s.continueFrom(pe)
		return nil
	}
	if len(move.Cards) != 1 {
		return reject(move, ErrWrongCardCount, "Moneylender trashes exactly one Copper, got %d cards", len(move.Cards))
	}
	if move.Cards[0] != cards.Copper {
		if _, merr := lookup(move, move.Cards[0]); merr != nil {
			return merr
		}
		return reject(move, ErrWrongCardType, "Moneylender can only trash a Copper, not %s", move.Cards[0])
	}
	if !removeOne(&p.Hand, cards.Copper) {
		return reject(move, ErrCardNotInHand, "Copper not in hand")
	}
	s.Trash = append(s.Trash, cards.Copper)
	p.Coins += MoneylenderCoins
	s.continueFrom(pe)
	return nil
}

func (s *GameState) resolveRemodelTrash(move Move, pe *PendingEffect) *MoveError {
	p := s.Current()
	switch {
	case len(move.Cards) == 0 && len(p.Hand) == 0:
		s.continueFrom(pe)
		return nil
	case len(move.Cards) == 0:
		return reject(move, ErrWrongCardCount, "Must trash a card")
	case len(move.Cards) > 1:
		return reject(move, ErrTooManyCards, "Remodel trashes exactly one card, got %d", len(move.Cards))
	}

	card, merr := lookup(move, move.Cards[0])
	if merr != nil {
		return merr
	}
	if !removeOne(&p.Hand, card.Name) {
		return reject(move, ErrCardNotInHand, "%s not in hand", card.Name)
	}
	s.Trash = append(s.Trash, card.Name)

	next := *pe
	next.Effect = EffectGainCard
	next.TrashedCard = card.Name
	next.MaxGainCost = card.Cost + RemodelBonus
	next.Destination = DestinationDiscard
	s.Pending = &next
	return nil
}

func (s *GameState) resolveGain(move Move, pe *PendingEffect) *MoveError {
	if move.Card == "" {
		if len(gainable(s, pe)) == 0 {
			s.continueFrom(pe)
			return nil
		}
		if pe.Effect == EffectGainTreasure {
			return reject(move, ErrWrongCardCount, "Must gain a Treasure")
		}
		return reject(move, ErrWrongCardCount, "Must gain a card")
	}

	card, merr := lookup(move, move.Card)
	if merr != nil {
		return merr
	}
	count, ok := s.Supply[card.Name]
	if !ok {
		return reject(move, ErrNotInSupply, "%s not available in supply", card.Name)
	}
	if count <= 0 {
		return reject(move, ErrPileEmpty, "%s pile is empty", card.Name)
	}
	if pe.Effect == EffectGainTreasure && !card.IsTreasure() {
		return reject(move, ErrWrongCardType, "Must gain a Treasure: %s is not a Treasure", card.Name)
	}
	if card.Cost > pe.MaxGainCost {
		return reject(move, ErrCostExceeded,
			"Card costs more than allowed: %s costs %d, maximum is %d", card.Name, card.Cost, pe.MaxGainCost)
	}

	s.gain(s.CurrentPlayer, card.Name, pe.Destination)
	s.continueFrom(pe)
	return nil
}

func (s *GameState) resolveMineTrash(move Move, pe *PendingEffect) *MoveError {
	p := s.Current()
	if move.Card == "" {
		if !hasType(p.Hand, cards.IsTreasure) {
			s.continueFrom(pe)
			return nil
		}
		return reject(move, ErrWrongCardCount, "Must trash a Treasure")
	}

	card, merr := lookup(move, move.Card)
	if merr != nil {
		return merr
	}
	if !card.IsTreasure() {
		return reject(move, ErrWrongCardType, "Must trash a Treasure: %s is not a Treasure", card.Name)
	}
	if !removeOne(&p.Hand, card.Name) {
		return reject(move, ErrCardNotInHand, "%s not in hand", card.Name)
	}
	s.Trash = append(s.Trash, card.Name)

	next := *pe
	next.Effect = EffectGainTreasure
	next.TrashedCard = card.Name
	next.MaxGainCost = card.Cost + MineBonus
	next.Destination = DestinationHand
	s.Pending = &next
	return nil
}

func (s *GameState) resolveThiefTrash(move Move, pe *PendingEffect) *MoveError {
	target := &s.Players[pe.TargetPlayer]
	discardRevealed := func() {
		target.Discard = append(target.Discard, target.Aside...)
		target.Aside = nil
	}

	if move.Card == "" {
		if !hasType(target.Aside, cards.IsTreasure) {
			discardRevealed()
			s.continueFrom(pe)
			return nil
		}
		return reject(move, ErrWrongCardCount, "Must trash a revealed Treasure")
	}

	card, merr := lookup(move, move.Card)
	if merr != nil {
		return merr
	}
	if !card.IsTreasure() {
		return reject(move, ErrWrongCardType, "Must trash a Treasure: %s is not a Treasure", card.Name)
	}
	if !removeOne(&target.Aside, card.Name) {
		return reject(move, ErrCardNotInHand, "%s was not revealed", card.Name)
	}
	s.Trash = append(s.Trash, card.Name)
	discardRevealed()

	next := *pe
	next.Effect = EffectGainTrashedCard
	next.TrashedCard = card.Name
	s.Pending = &next
	return nil
}

func (s *GameState) resolveGainTrashed(move Move, pe *PendingEffect) *MoveError {
	if move.Card == "" {
		s.continueFrom(pe)
		return nil
	}
	if _, merr := lookup(move, move.Card); merr != nil {
		return merr
	}
	if move.Card != pe.TrashedCard {
		return reject(move, ErrWrongCardType, "Can only gain the trashed %s, not %s", pe.TrashedCard, move.Card)
	}
	if !removeOne(&s.Trash, move.Card) {
		return reject(move, ErrCardNotInHand, "%s is no longer in the trash", move.Card)
	}
	p := s.Current()
	p.Discard = append(p.Discard, move.Card)
	s.continueFrom(pe)
	return nil
}

func (s *GameState) resolveThrone(move Move, pe *PendingEffect) *MoveError {
	if move.Card == "" {
		s.continueFrom(pe)
		return nil
	}

	card, merr := lookup(move, move.Card)
	if merr != nil {
		return merr
	}
	if !card.IsAction() {
		return reject(move, ErrWrongCardType, "Throne Room requires an Action card: %s is not an Action", card.Name)
	}
	p := s.Current()
	if !removeOne(&p.Hand, card.Name) {
		return reject(move, ErrCardNotInHand, "%s not in hand", card.Name)
	}
	p.InPlay = append(p.InPlay, card.Name)

	s.Pending = nil
	owed := make([]string, 0, len(pe.Replays)+1)
	owed = append(owed, card.Name)
	owed = append(owed, pe.Replays...)
	s.play(card.Name, owed)
	return nil
}

func (s *GameState) resolveTopdeck(move Move, pe *PendingEffect) *MoveError {
	target := &s.Players[pe.TargetPlayer]
	if move.Card == "" {
		if !hasType(target.Hand, cards.IsVictory) {
			s.continueFrom(pe)
			return nil
		}
		return reject(move, ErrWrongCardCount, "Must reveal a Victory card")
	}

	card, merr := lookup(move, move.Card)
	if merr != nil {
		return merr
	}
	if !card.IsVictory() {
		return reject(move, ErrWrongCardType, "Bureaucrat requires a Victory card: %s is not a Victory card", card.Name)
	}
	if !removeOne(&target.Hand, card.Name) {
		return reject(move, ErrCardNotInHand, "%s not in hand", card.Name)
	}
	topdeck(target, card.Name)
	s.continueFrom(pe)
	return nil
}

func (s *GameState) resolveDiscardDown(move Move, pe *PendingEffect) *MoveError {
	target := &s.Players[pe.TargetPlayer]
	need := len(target.Hand) - pe.TargetHandSize
	if need < 0 {
		need = 0
	}
	if len(move.Cards) != need {
		return reject(move, ErrWrongCardCount, "Must discard exactly %d cards, got %d", need, len(move.Cards))
	}
	if merr := checkCards(move, target.Hand, "discard"); merr != nil {
		return merr
	}
	for _, name := range move.Cards {
		removeOne(&target.Hand, name)
		target.Discard = append(target.Discard, name)
	}
	s.continueFrom(pe)
	return nil
}

func (s *GameState) resolveReaction(move Move, pe *PendingEffect) *MoveError {
	t := pe.TargetPlayer
	if move.Card == "" {
		// Declined: the attack lands on this target, then moves on.
		s.Pending = nil
		if s.strike(pe.Card, t, pe.Targets, pe.Replays) {
			return nil
		}
		s.attack(pe.Card, pe.Targets, pe.Replays)
		return nil
	}

	card, merr := lookup(move, move.Card)
	if merr != nil {
		return merr
	}
	if !card.IsReaction() {
		return reject(move, ErrWrongCardType, "%s is not a Reaction card", card.Name)
	}
	if countOf(s.Players[t].Hand, card.Name) == 0 {
		return reject(move, ErrCardNotInHand, "%s not in hand", card.Name)
	}
	// Revealed: this target is unaffected.
	s.Pending = nil
	s.attack(pe.Card, pe.Targets, pe.Replays)
	return nil
}
