// Package cards holds the static card catalog: every card the engine knows,
// its types, cost and fixed effect. The catalog is read-only after init.
package cards

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCard is returned when a card name is not in the catalog.
var ErrUnknownCard = errors.New("unknown card")

// Type is a bit set of card types. A card may carry several (Moat is an
// action and a reaction).
type Type uint8

const (
	TypeTreasure Type = 1 << iota
	TypeVictory
	TypeCurse
	TypeAction
	TypeAttack
	TypeReaction
)

var typeNames = []struct {
	t    Type
	name string
}{
	{TypeAction, "action"},
	{TypeTreasure, "treasure"},
	{TypeVictory, "victory"},
	{TypeCurse, "curse"},
	{TypeAttack, "attack"},
	{TypeReaction, "reaction"},
}

func (t Type) String() string {
	parts := make([]string, 0, 2)
	for _, tn := range typeNames {
		if t&tn.t != 0 {
			parts = append(parts, tn.name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("TYPE_%d", uint8(t))
	}
	return strings.Join(parts, "-")
}

// Has reports whether every bit of other is set on t.
func (t Type) Has(other Type) bool {
	return t&other == other
}

// Card is an immutable catalog entry.
type Card struct {
	Name        string
	Types       Type
	Cost        int
	Coins       int // treasure value, or +$ for actions
	Cards       int
	Actions     int
	Buys        int
	VP          int
	Description string
	// Interactive marks cards whose resolution needs at least one decision.
	Interactive bool
}

func (c Card) IsAction() bool   { return c.Types.Has(TypeAction) }
func (c Card) IsTreasure() bool { return c.Types.Has(TypeTreasure) }
func (c Card) IsVictory() bool  { return c.Types.Has(TypeVictory) }
func (c Card) IsCurse() bool    { return c.Types.Has(TypeCurse) }
func (c Card) IsAttack() bool   { return c.Types.Has(TypeAttack) }
func (c Card) IsReaction() bool { return c.Types.Has(TypeReaction) }

// IsKingdom reports whether the card belongs to the kingdom (not a basic
// treasure, victory or curse pile).
func (c Card) IsKingdom() bool {
	return c.IsAction() || c.Name == Gardens
}

// Card names.
const (
	Copper   = "Copper"
	Silver   = "Silver"
	Gold     = "Gold"
	Estate   = "Estate"
	Duchy    = "Duchy"
	Province = "Province"
	Curse    = "Curse"

	Cellar      = "Cellar"
	Chapel      = "Chapel"
	Moat        = "Moat"
	Chancellor  = "Chancellor"
	Village     = "Village"
	Woodcutter  = "Woodcutter"
	Workshop    = "Workshop"
	Bureaucrat  = "Bureaucrat"
	Feast       = "Feast"
	Gardens     = "Gardens"
	Militia     = "Militia"
	Moneylender = "Moneylender"
	Remodel     = "Remodel"
	Smithy      = "Smithy"
	Spy         = "Spy"
	Thief       = "Thief"
	ThroneRoom  = "Throne Room"
	CouncilRoom = "Council Room"
	Festival    = "Festival"
	Laboratory  = "Laboratory"
	Library     = "Library"
	Market      = "Market"
	Mine        = "Mine"
	Witch       = "Witch"
	Adventurer  = "Adventurer"
)

// catalog is the canonical ordering: basics first, then kingdom cards by
// cost and name. Every place that has to iterate over cards uses it.
var catalog = []Card{
	{Name: Copper, Types: TypeTreasure, Cost: 0, Coins: 1, Description: "+$1"},
	{Name: Silver, Types: TypeTreasure, Cost: 3, Coins: 2, Description: "+$2"},
	{Name: Gold, Types: TypeTreasure, Cost: 6, Coins: 3, Description: "+$3"},
	{Name: Estate, Types: TypeVictory, Cost: 2, VP: 1, Description: "1 Victory Point"},
	{Name: Duchy, Types: TypeVictory, Cost: 5, VP: 3, Description: "3 Victory Points"},
	{Name: Province, Types: TypeVictory, Cost: 8, VP: 6, Description: "6 Victory Points"},
	{Name: Curse, Types: TypeCurse, Cost: 0, VP: -1, Description: "-1 Victory Point"},

	{Name: Cellar, Types: TypeAction, Cost: 2, Actions: 1, Interactive: true,
		Description: "+1 Action. Discard any number of cards, then draw that many"},
	{Name: Chapel, Types: TypeAction, Cost: 2, Interactive: true,
		Description: "Trash up to 4 cards from your hand"},
	{Name: Moat, Types: TypeAction | TypeReaction, Cost: 2, Cards: 2,
		Description: "+2 Cards. When another player plays an Attack, you may reveal this to be unaffected"},
	{Name: Chancellor, Types: TypeAction, Cost: 3, Coins: 2, Interactive: true,
		Description: "+$2. You may put your deck into your discard pile"},
	{Name: Village, Types: TypeAction, Cost: 3, Cards: 1, Actions: 2,
		Description: "+1 Card, +2 Actions"},
	{Name: Woodcutter, Types: TypeAction, Cost: 3, Buys: 1, Coins: 2,
		Description: "+1 Buy, +$2"},
	{Name: Workshop, Types: TypeAction, Cost: 3, Interactive: true,
		Description: "Gain a card costing up to $4"},
	{Name: Bureaucrat, Types: TypeAction | TypeAttack, Cost: 4, Interactive: true,
		Description: "Gain a Silver onto your deck. Each other player reveals a Victory card and puts it onto their deck"},
	{Name: Feast, Types: TypeAction, Cost: 4, Interactive: true,
		Description: "Trash this card. Gain a card costing up to $5"},
	{Name: Gardens, Types: TypeVictory, Cost: 4,
		Description: "Worth 1 Victory Point for every 10 cards in your deck (rounded down)"},
	{Name: Militia, Types: TypeAction | TypeAttack, Cost: 4, Coins: 2, Interactive: true,
		Description: "+$2. Each other player discards down to 3 cards in hand"},
	{Name: Moneylender, Types: TypeAction, Cost: 4, Interactive: true,
		Description: "Trash a Copper from your hand. If you do, +$3"},
	{Name: Remodel, Types: TypeAction, Cost: 4, Interactive: true,
		Description: "Trash a card from your hand. Gain a card costing up to $2 more than it"},
	{Name: Smithy, Types: TypeAction, Cost: 4, Cards: 3,
		Description: "+3 Cards"},
	{Name: Spy, Types: TypeAction | TypeAttack, Cost: 4, Cards: 1, Actions: 1, Interactive: true,
		Description: "+1 Card, +1 Action. Each player reveals the top card of their deck and either discards it or puts it back, your choice"},
	{Name: Thief, Types: TypeAction | TypeAttack, Cost: 4, Interactive: true,
		Description: "Each other player reveals the top 2 cards of their deck. You may trash a revealed Treasure and gain it"},
	{Name: ThroneRoom, Types: TypeAction, Cost: 4, Interactive: true,
		Description: "Choose an Action card in your hand. Play it twice"},
	{Name: CouncilRoom, Types: TypeAction, Cost: 5, Cards: 4, Buys: 1,
		Description: "+4 Cards, +1 Buy. Each other player draws a card"},
	{Name: Festival, Types: TypeAction, Cost: 5, Actions: 2, Buys: 1, Coins: 2,
		Description: "+2 Actions, +1 Buy, +$2"},
	{Name: Laboratory, Types: TypeAction, Cost: 5, Cards: 2, Actions: 1,
		Description: "+2 Cards, +1 Action"},
	{Name: Library, Types: TypeAction, Cost: 5, Interactive: true,
		Description: "Draw until you have 7 cards in hand. You may set aside any Action cards drawn this way"},
	{Name: Market, Types: TypeAction, Cost: 5, Cards: 1, Actions: 1, Buys: 1, Coins: 1,
		Description: "+1 Card, +1 Action, +1 Buy, +$1"},
	{Name: Mine, Types: TypeAction, Cost: 5, Interactive: true,
		Description: "Trash a Treasure from your hand. Gain a Treasure to your hand costing up to $3 more than it"},
	{Name: Witch, Types: TypeAction | TypeAttack, Cost: 5, Cards: 2,
		Description: "+2 Cards. Each other player gains a Curse"},
	{Name: Adventurer, Types: TypeAction, Cost: 6,
		Description: "Reveal cards from your deck until you reveal 2 Treasures. Put those in your hand and discard the others"},
}

var (
	byName  map[string]int
	byLower map[string]int
)

func init() {
	byName = make(map[string]int, len(catalog))
	byLower = make(map[string]int, len(catalog))
	for i, c := range catalog {
		byName[c.Name] = i
		byLower[strings.ToLower(c.Name)] = i
	}
}

// Get returns the catalog entry for name.
func Get(name string) (Card, error) {
	idx, ok := byName[name]
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, name)
	}
	return catalog[idx], nil
}

// MustGet is Get for names known at compile time. It panics on unknown names.
func MustGet(name string) Card {
	c, err := Get(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Exists reports whether name is in the catalog.
func Exists(name string) bool {
	_, ok := byName[name]
	return ok
}

// Lookup resolves a name case-insensitively and ignoring surrounding
// whitespace, returning the canonical catalog name.
func Lookup(name string) (string, error) {
	idx, ok := byLower[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCard, name)
	}
	return catalog[idx].Name, nil
}

// Index returns the canonical position of name, or -1 when unknown.
func Index(name string) int {
	if idx, ok := byName[name]; ok {
		return idx
	}
	return -1
}

// All returns a copy of the catalog in canonical order.
func All() []Card {
	out := make([]Card, len(catalog))
	copy(out, catalog)
	return out
}

// Kingdom returns the names of every kingdom card in canonical order.
func Kingdom() []string {
	names := make([]string, 0, len(catalog))
	for _, c := range catalog {
		if c.IsKingdom() {
			names = append(names, c.Name)
		}
	}
	return names
}

func is(name string, t Type) bool {
	idx, ok := byName[name]
	return ok && catalog[idx].Types.Has(t)
}

// IsAction reports whether name is a known action card.
func IsAction(name string) bool { return is(name, TypeAction) }

// IsTreasure reports whether name is a known treasure card.
func IsTreasure(name string) bool { return is(name, TypeTreasure) }

// IsVictory reports whether name is a known victory card.
func IsVictory(name string) bool { return is(name, TypeVictory) }

// IsAttack reports whether name is a known attack card.
func IsAttack(name string) bool { return is(name, TypeAttack) }

// IsReaction reports whether name is a known reaction card.
func IsReaction(name string) bool { return is(name, TypeReaction) }

// Cost returns the cost of name, or 0 when unknown.
func Cost(name string) int {
	if idx, ok := byName[name]; ok {
		return catalog[idx].Cost
	}
	return 0
}
