package ai

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/principality/principality-server-go/internal/game"
)

var (
	ErrNoMoves    = errors.New("no legal moves")
	ErrMoveLimit  = errors.New("move limit reached")
	ErrNoPolicies = errors.New("no policies")
)

// Policy picks one of the legal moves for a state. moves is exactly what the
// engine enumerated for state.
type Policy interface {
	Name() string
	Choose(state *game.GameState, moves []game.Move) (game.Move, error)
}

// Policy names accepted by NewPolicy.
const (
	PolicyBigMoney = "big_money"
	PolicyRandom   = "random"
)

// NewPolicy builds a policy by name. seed only affects random policies.
func NewPolicy(name string, seed string) (Policy, error) {
	switch name {
	case PolicyBigMoney:
		return &BigMoneyPolicy{}, nil
	case PolicyRandom:
		return NewRandomPolicy(SeedFrom(seed)), nil
	default:
		return nil, fmt.Errorf("unknown policy: %q", name)
	}
}

// SeedFrom hashes a text seed into a numeric one.
func SeedFrom(seed string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return h.Sum64()
}

// Decider is the seat that has to answer state: the target of an attacked-player
// pending effect, otherwise the current player.
func Decider(state *game.GameState) int {
	if state.Pending != nil {
		return state.Pending.Decider(state.CurrentPlayer)
	}
	return state.CurrentPlayer
}

// ForSeat returns the policy that plays seat. Policies are assigned round
// robin when there are fewer policies than seats.
func ForSeat(policies []Policy, seat int) Policy {
	return policies[seat%len(policies)]
}

// Playout is a finished or abandoned AI game.
type Playout struct {
	Final *game.GameState
	Moves []game.Move
}

// Play drives state to game over, asking each seat's policy for its moves.
// It stops with ErrMoveLimit after maxMoves moves when maxMoves > 0; the
// partial playout is returned along with the error.
func Play(ctx context.Context, engine *game.Engine, state *game.GameState, policies []Policy, maxMoves int) (*Playout, error) {
	if len(policies) == 0 {
		return nil, ErrNoPolicies
	}
	out := &Playout{Final: state}
	for !out.Final.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if maxMoves > 0 && len(out.Moves) >= maxMoves {
			return out, fmt.Errorf("%w after %d moves", ErrMoveLimit, len(out.Moves))
		}

		moves := engine.ValidMoves(out.Final)
		seat := Decider(out.Final)
		policy := ForSeat(policies, seat)
		move, err := policy.Choose(out.Final, moves)
		if err != nil {
			return out, fmt.Errorf("%s policy for seat %d: %w", policy.Name(), seat, err)
		}
		next, err := engine.Execute(out.Final, move)
		if err != nil {
			return out, fmt.Errorf("%s policy for seat %d chose %s: %w", policy.Name(), seat, move, err)
		}
		out.Final = next
		out.Moves = append(out.Moves, move)
	}
	return out, nil
}
