package ai

import (
	"sync"

	"github.com/principality/principality-server-go/internal/game"
	"golang.org/x/exp/rand"
)

// RandomPolicy picks uniformly among the legal moves. The same seed and the
// same sequence of calls give the same choices.
type RandomPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPolicy) Name() string { return PolicyRandom }

func (p *RandomPolicy) Choose(_ *game.GameState, moves []game.Move) (game.Move, error) {
	if len(moves) == 0 {
		return game.Move{}, ErrNoMoves
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return moves[p.rng.Intn(len(moves))], nil
}
