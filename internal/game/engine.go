package game

import (
	"fmt"

	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/game/rules"
	"github.com/principality/principality-server-go/internal/game/shuffle"
	"go.uber.org/zap"
)

const (
	HandSize          = 5
	RandomKingdomSize = 10
)

// Options configure the games an Engine creates. The zero value plays the
// default kingdom with standard pile sizes.
type Options struct {
	KingdomCards    []string `json:"kingdomCards,omitempty" mapstructure:"kingdom"`
	AllCards        bool     `json:"allCards,omitempty" mapstructure:"all_cards"`
	RandomKingdom   bool     `json:"randomKingdom,omitempty" mapstructure:"random_kingdom"`
	VictoryPileSize int      `json:"victoryPileSize,omitempty" mapstructure:"victory_pile_size"`
}

// Engine validates and applies moves. It holds no game state and is safe
// for concurrent use; each call works on its own copy.
type Engine struct {
	logger *zap.Logger
	opts   Options
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger: logger,
		opts:   opts,
	}
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// kingdom resolves the configured kingdom, consuming RNG only for random
// kingdoms.
func (e *Engine) kingdom(rng shuffle.State) ([]string, shuffle.State) {
	switch {
	case e.opts.AllCards:
		return cards.Kingdom(), rng
	case e.opts.RandomKingdom:
		all := cards.Kingdom()
		picked, next := shuffle.Pick(len(all), RandomKingdomSize, rng)
		out := make([]string, 0, len(picked))
		for _, idx := range picked {
			out = append(out, all[idx])
		}
		cards.SortCanonical(out)
		return out, next
	case len(e.opts.KingdomCards) > 0:
		return append([]string(nil), e.opts.KingdomCards...), rng
	}
	return append([]string(nil), cards.DefaultKingdom...), rng
}

// NewGame deals a fresh game. Identical seeds and options always produce
// identical states.
func (e *Engine) NewGame(seed string, players int) (*GameState, error) {
	rng := shuffle.NewState(seed)
	kingdom, rng := e.kingdom(rng)

	supply, err := rules.NewSupply(rules.SupplyOptions{
		Players:         players,
		KingdomCards:    kingdom,
		VictoryPileSize: e.opts.VictoryPileSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build supply: %w", err)
	}

	state := &GameState{
		Players:       make([]PlayerState, players),
		Supply:        supply,
		Trash:         []string{},
		CurrentPlayer: 0,
		Phase:         rules.PhaseAction,
		TurnNumber:    1,
		Seed:          seed,
	}

	for i := range state.Players {
		var deck []string
		deck, rng = shuffle.Shuffle(cards.StartingDeck(), rng)
		state.Players[i] = PlayerState{
			Hand:     deck[:HandSize:HandSize],
			DrawPile: deck[HandSize:],
			Discard:  []string{},
			InPlay:   []string{},
			Actions:  1,
			Buys:     1,
		}
	}
	state.RNG = rng

	e.logger.Debug("game created",
		zap.String("seed", seed),
		zap.Int("players", players),
		zap.Strings("kingdom", kingdom),
	)

	return state, nil
}

// Result is the outcome of Apply, shaped for transport layers.
type Result struct {
	Success  bool       `json:"success"`
	NewState *GameState `json:"newState,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Apply is Execute folded into a single value.
func (e *Engine) Apply(state *GameState, move Move) Result {
	next, err := e.Execute(state, move)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true, NewState: next}
}

// Victory summarises a game's standing.
type Victory struct {
	GameOver bool   `json:"gameOver"`
	Reason   string `json:"reason,omitempty"`
	Winner   int    `json:"winner"`
	Scores   []int  `json:"scores"`
}

// Outcome reports scores and, once the game is over, the winner. Winner is -1
// while the game is still running.
func (e *Engine) Outcome(state *GameState) Victory {
	scores := state.Scores()
	v := Victory{
		Reason: rules.GameOverReason(state.Supply),
		Winner: -1,
		Scores: scores,
	}
	if v.Reason != "" {
		v.GameOver = true
		v.Winner = rules.Winner(scores)
	}
	return v
}
