package rules

import (
	"errors"
	"fmt"

	"github.com/principality/principality-server-go/internal/game/cards"
)

const (
	MinPlayers = 1
	MaxPlayers = 4

	KingdomPileSize  = 10
	CopperPileSize   = 60
	SilverPileSize   = 40
	GoldPileSize     = 30
	CursePerOpponent = 10

	// EmptyPilesToEnd is how many exhausted supply piles end the game.
	EmptyPilesToEnd = 3
)

// ErrPlayerCount is returned for games outside MinPlayers..MaxPlayers.
var ErrPlayerCount = errors.New("invalid player count")

// SupplyOptions controls which piles a game starts with.
type SupplyOptions struct {
	Players      int
	KingdomCards []string
	// VictoryPileSize overrides the Estate/Duchy/Province (and Gardens)
	// pile size when positive.
	VictoryPileSize int
}

// VictoryPileSize is the standard victory pile size for a player count.
func VictoryPileSize(players int) int {
	if players <= 2 {
		return 8
	}
	return 12
}

// NewSupply builds the starting supply. Kingdom names must be catalog
// kingdom cards; duplicates are rejected.
func NewSupply(opts SupplyOptions) (map[string]int, error) {
	if opts.Players < MinPlayers || opts.Players > MaxPlayers {
		return nil, fmt.Errorf("%w: %d (want %d-%d)", ErrPlayerCount, opts.Players, MinPlayers, MaxPlayers)
	}

	victory := opts.VictoryPileSize
	if victory <= 0 {
		victory = VictoryPileSize(opts.Players)
	}

	supply := map[string]int{
		cards.Copper:   CopperPileSize,
		cards.Silver:   SilverPileSize,
		cards.Gold:     GoldPileSize,
		cards.Estate:   victory,
		cards.Duchy:    victory,
		cards.Province: victory,
	}

	hasAttack := false
	for _, name := range opts.KingdomCards {
		card, err := cards.Get(name)
		if err != nil {
			return nil, fmt.Errorf("kingdom: %w", err)
		}
		if !card.IsKingdom() {
			return nil, fmt.Errorf("kingdom: %s is not a kingdom card", name)
		}
		if _, dup := supply[name]; dup {
			return nil, fmt.Errorf("kingdom: %s listed twice", name)
		}
		if name == cards.Gardens {
			supply[name] = victory
		} else {
			supply[name] = KingdomPileSize
		}
		if card.IsAttack() {
			hasAttack = true
		}
	}

	if hasAttack {
		opponents := opts.Players - 1
		if opponents < 1 {
			opponents = 1
		}
		supply[cards.Curse] = CursePerOpponent * opponents
	}

	return supply, nil
}

// EmptyPiles counts supply piles at zero.
func EmptyPiles(supply map[string]int) int {
	n := 0
	for _, count := range supply {
		if count <= 0 {
			n++
		}
	}
	return n
}

// IsGameOver reports whether the Province pile is gone or enough piles are
// empty.
func IsGameOver(supply map[string]int) bool {
	return GameOverReason(supply) != ""
}

// GameOverReason describes why the game ended, or "" while it continues.
func GameOverReason(supply map[string]int) string {
	if count, ok := supply[cards.Province]; ok && count <= 0 {
		return "Province pile empty"
	}
	if n := EmptyPiles(supply); n >= EmptyPilesToEnd {
		return fmt.Sprintf("%d supply piles empty", n)
	}
	return ""
}
