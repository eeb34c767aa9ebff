package ai

import (
	"context"
	"fmt"

	"github.com/principality/principality-server-go/internal/session"
)

// PlaySession drives a managed game to the end the same way Play does, but
// submits every move through the manager so stores, events and recorders
// see the whole game.
func PlaySession(ctx context.Context, mgr *session.Manager, gameID string, policies []Policy, maxMoves int) (*session.Game, error) {
	if len(policies) == 0 {
		return nil, ErrNoPolicies
	}
	g, err := mgr.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	for !g.Finished {
		if err := ctx.Err(); err != nil {
			return g, err
		}
		if maxMoves > 0 && len(g.Moves) >= maxMoves {
			return g, fmt.Errorf("%w after %d moves", ErrMoveLimit, len(g.Moves))
		}

		moves, err := mgr.ValidMoves(ctx, gameID)
		if err != nil {
			return g, err
		}
		seat := Decider(g.State)
		policy := ForSeat(policies, seat)
		move, err := policy.Choose(g.State, moves)
		if err != nil {
			return g, fmt.Errorf("%s policy for seat %d: %w", policy.Name(), seat, err)
		}

		next, err := mgr.Execute(ctx, gameID, move)
		if err != nil {
			return g, fmt.Errorf("%s policy for seat %d chose %s: %w", policy.Name(), seat, move, err)
		}
		g = next
	}
	return g, nil
}

// Policies builds one policy per name. Random policies are seeded from seed
// and their position so seats never share a stream.
func Policies(names []string, seed string) ([]Policy, error) {
	out := make([]Policy, 0, len(names))
	for i, name := range names {
		p, err := NewPolicy(name, fmt.Sprintf("%s/%d", seed, i))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
