package game

import (
	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/rules"
)

const (
	ChapelMaxTrash      = 4
	WorkshopMaxCost     = 4
	FeastMaxCost        = 5
	RemodelBonus        = 2
	MineBonus           = 3
	MoneylenderCoins    = 3
	MilitiaHandSize     = 3
	LibraryHandSize     = 7
	AdventurerTreasures = 2
	ThiefRevealCount    = 2
)

// play applies one play of card for the current player. The card is
// already in play. Fixed bonuses come first; interactive cards then open a
// pending effect carrying replays, the plays still owed afterwards. A card
// that needs no decision moves straight on to the owed plays.
func (s *GameState) play(card string, replays []string) {
	c := cards.MustGet(card)
	seat := s.CurrentPlayer
	p := s.Current()

	s.draw(seat, c.Cards)
	p.Actions += c.Actions
	p.Buys += c.Buys
	p.Coins += c.Coins

	open := func(pe PendingEffect) {
		pe.Card = card
		pe.TargetPlayer = seat
		pe.Replays = replays
		s.Pending = &pe
	}
	opponents := rules.Opponents(seat, len(s.Players))

	switch card {
	case cards.Cellar:
		open(PendingEffect{Effect: EffectDiscardForCellar})
		return
	case cards.Chapel:
		open(PendingEffect{Effect: EffectTrashCards, MaxTrash: ChapelMaxTrash})
		return
	case cards.Chancellor:
		open(PendingEffect{Effect: EffectChancellor})
		return
	case cards.Workshop:
		open(PendingEffect{Effect: EffectGainCard, MaxGainCost: WorkshopMaxCost, Destination: DestinationDiscard})
		return
	case cards.Feast:
		// Under Throne Room the second play finds Feast already trashed.
		if removeOne(&p.InPlay, cards.Feast) {
			s.Trash = append(s.Trash, cards.Feast)
		}
		open(PendingEffect{Effect: EffectGainCard, MaxGainCost: FeastMaxCost, Destination: DestinationDiscard})
		return
	case cards.Remodel:
		open(PendingEffect{Effect: EffectTrashForRemodel})
		return
	case cards.Mine:
		open(PendingEffect{Effect: EffectSelectTreasure})
		return
	case cards.Moneylender:
		if countOf(p.Hand, cards.Copper) > 0 {
			open(PendingEffect{Effect: EffectTrashCards, MaxTrash: 1})
			return
		}
	case cards.ThroneRoom:
		open(PendingEffect{Effect: EffectSelectThrone})
		return
	case cards.Library:
		if s.libraryDraw(seat, replays) {
			return
		}
	case cards.Adventurer:
		s.adventurer(seat)
	case cards.CouncilRoom:
		for _, opp := range opponents {
			s.draw(opp, 1)
		}
	case cards.Bureaucrat:
		s.gain(seat, cards.Silver, DestinationDeck)
		s.attack(card, opponents, replays)
		return
	case cards.Militia, cards.Witch, cards.Thief:
		s.attack(card, opponents, replays)
		return
	case cards.Spy:
		// The attacker's own deck is inspected first; Moat does not apply.
		s.attack(card, append([]int{seat}, opponents...), replays)
		return
	}

	s.resume(replays)
}

// resume performs the next owed play, if any.
func (s *GameState) resume(replays []string) {
	if len(replays) == 0 {
		return
	}
	s.play(replays[0], replays[1:])
}

// continueFrom clears a finished step and carries on with whatever the card
// still owes: the remaining attack targets, then the owed plays.
func (s *GameState) continueFrom(pe *PendingEffect) {
	s.Pending = nil
	if cards.IsAttack(pe.Card) {
		s.attack(pe.Card, pe.Targets, pe.Replays)
		return
	}
	s.resume(pe.Replays)
}

// attack visits targets in order. A target holding a reaction is asked
// first; otherwise the attack lands. It stops at the first step that needs a
// decision and resumes the owed plays once every target is done.
func (s *GameState) attack(card string, targets []int, replays []string) {
	for len(targets) > 0 {
		t, rest := targets[0], targets[1:]
		if t != s.CurrentPlayer && hasType(s.Players[t].Hand, cards.IsReaction) {
			s.Pending = &PendingEffect{
				Card:         card,
				Effect:       EffectRevealReaction,
				TargetPlayer: t,
				Targets:      rest,
				Replays:      replays,
			}
			return
		}
		if s.strike(card, t, rest, replays) {
			return
		}
		targets = rest
	}
	s.resume(replays)
}

// strike applies card's attack to seat t. It returns true when it opened a
// pending effect. Missing resources make the attack fizzle for that target
// only.
func (s *GameState) strike(card string, t int, rest []int, replays []string) bool {
	target := &s.Players[t]
	open := func(pe PendingEffect) bool {
		pe.Card = card
		pe.TargetPlayer = t
		pe.Targets = rest
		pe.Replays = replays
		s.Pending = &pe
		return true
	}

	switch card {
	case cards.Militia:
		if len(target.Hand) > MilitiaHandSize {
			return open(PendingEffect{Effect: EffectDiscardToHandSize, TargetHandSize: MilitiaHandSize})
		}
	case cards.Witch:
		s.gain(t, cards.Curse, DestinationDiscard)
	case cards.Bureaucrat:
		if hasType(target.Hand, cards.IsVictory) {
			return open(PendingEffect{Effect: EffectRevealAndTopdeck})
		}
	case cards.Spy:
		if top := s.peekTop(t); top != "" {
			return open(PendingEffect{Effect: EffectSpy, RevealedCard: top})
		}
	case cards.Thief:
		for i := 0; i < ThiefRevealCount; i++ {
			c := s.takeTop(t)
			if c == "" {
				break
			}
			target.Aside = append(target.Aside, c)
		}
		if hasType(target.Aside, cards.IsTreasure) {
			return open(PendingEffect{Effect: EffectSelectTreasure})
		}
		target.Discard = append(target.Discard, target.Aside...)
		target.Aside = nil
	}
	return false
}

// libraryDraw draws to LibraryHandSize, stopping to ask about each action
// card drawn. It returns true when it stopped for a decision. Once the hand
// is full, set-aside cards are discarded.
func (s *GameState) libraryDraw(seat int, replays []string) bool {
	p := &s.Players[seat]
	for len(p.Hand) < LibraryHandSize {
		drawn := s.drawOne(seat)
		if drawn == "" {
			break
		}
		if cards.IsAction(drawn) {
			s.Pending = &PendingEffect{
				Card:           cards.Library,
				Effect:         EffectLibrarySetAside,
				TargetPlayer:   seat,
				DrawnCard:      drawn,
				TargetHandSize: LibraryHandSize,
				Replays:        replays,
			}
			return true
		}
	}
	p.Discard = append(p.Discard, p.Aside...)
	p.Aside = nil
	return false
}

// adventurer reveals cards until two treasures turn up. Treasures go to
// hand and everything else revealed is discarded.
func (s *GameState) adventurer(seat int) {
	p := &s.Players[seat]
	found := 0
	for found < AdventurerTreasures {
		c := s.takeTop(seat)
		if c == "" {
			break
		}
		if cards.IsTreasure(c) {
			p.Hand = append(p.Hand, c)
			found++
			continue
		}
		p.Aside = append(p.Aside, c)
	}
	p.Discard = append(p.Discard, p.Aside...)
	p.Aside = nil
}
