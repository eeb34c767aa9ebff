package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/principality/principality-server-go/internal/game"
)

// ErrNotFound is returned when a store has no game with the requested ID.
var ErrNotFound = errors.New("game not found")

// Game is an active game as the session layer tracks it: the latest state
// plus everything needed to replay it from the start.
type Game struct {
	ID        string          `json:"id"`
	Seed      string          `json:"seed"`
	Players   int             `json:"players"`
	Options   game.Options    `json:"options"`
	State     *game.GameState `json:"state"`
	Moves     []game.Move     `json:"moves"`
	Finished  bool            `json:"finished"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// clone copies g deeply enough that callers cannot reach store internals.
func (g *Game) clone() *Game {
	out := *g
	if g.State != nil {
		out.State = g.State.Clone()
	}
	out.Moves = append([]game.Move(nil), g.Moves...)
	out.Options.KingdomCards = append([]string(nil), g.Options.KingdomCards...)
	return &out
}

// Store persists active games.
type Store interface {
	Save(ctx context.Context, g *Game) error
	Load(ctx context.Context, id string) (*Game, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps games in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*Game
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]*Game)}
}

func (s *MemoryStore) Save(_ context.Context, g *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = g.clone()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g.clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

// Count returns the number of stored games.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
