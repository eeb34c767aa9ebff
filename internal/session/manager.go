package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/principality/principality-server-go/internal/game"
	"github.com/principality/principality-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// FinishedHandler is called once when a game reaches its terminal state.
type FinishedHandler func(ctx context.Context, g *Game)

// Manager owns active games. The engine is pure and does no locking, so the
// manager applies moves for any one game strictly one at a time.
type Manager struct {
	engine   *game.Engine
	store    Store
	logger   *zap.Logger
	events   *EventBus
	recorder *game.ReplayRecorder

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	finished []FinishedHandler
}

// NewManager creates a manager backed by store. A nil store keeps games in
// memory.
func NewManager(engine *game.Engine, store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		engine: engine,
		store:  store,
		logger: logger,
		events: NewEventBus(),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Events returns the bus the manager publishes to.
func (m *Manager) Events() *EventBus {
	return m.events
}

// SetRecorder enables replay recording for games created afterwards.
func (m *Manager) SetRecorder(rr *game.ReplayRecorder) {
	m.recorder = rr
}

// OnFinished registers fn to run after a move ends a game.
func (m *Manager) OnFinished(fn FinishedHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, fn)
}

func (m *Manager) lock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// Create deals a new game. An empty seed gets a random one.
func (m *Manager) Create(ctx context.Context, seed string, players int) (*Game, error) {
	if seed == "" {
		seed = uuid.NewString()
	}
	state, err := m.engine.NewGame(seed, players)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	g := &Game{
		ID:        uuid.NewString(),
		Seed:      seed,
		Players:   players,
		Options:   m.engine.Options(),
		State:     state,
		Moves:     []game.Move{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Save(ctx, g); err != nil {
		return nil, err
	}
	if m.recorder != nil {
		m.recorder.StartRecording(g.ID, g.Options, state)
	}

	m.logger.Info("game created",
		zap.String("game_id", g.ID),
		zap.String("seed", seed),
		zap.Int("players", players),
	)
	m.events.Publish(NewEvent(EventGameCreated, g.ID))
	return g, nil
}

// Get returns the stored game.
func (m *Manager) Get(ctx context.Context, id string) (*Game, error) {
	return m.store.Load(ctx, id)
}

// ValidMoves enumerates the legal moves of a game's current state. It reads a
// snapshot and takes no lock.
func (m *Manager) ValidMoves(ctx context.Context, id string) ([]game.Move, error) {
	g, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.engine.ValidMoves(g.State), nil
}

// Execute applies move to the game. Rejections come back as the engine's
// *game.MoveError and leave the stored game untouched.
func (m *Manager) Execute(ctx context.Context, id string, move game.Move) (*Game, error) {
	l := m.lock(id)
	l.Lock()
	defer l.Unlock()

	g, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	player := g.State.CurrentPlayer
	if g.State.Pending != nil {
		player = g.State.Pending.Decider(player)
	}

	next, err := m.engine.Execute(g.State, move)
	if err != nil {
		m.logger.Warn("move rejected",
			zap.String("game_id", id),
			zap.String("move", move.String()),
			zap.Error(err),
		)
		evt := NewEvent(EventMoveRejected, id)
		evt.Move = &move
		evt.Player = player
		evt.Turn = g.State.TurnNumber
		evt.Reason = err.Error()
		m.events.Publish(evt)
		return nil, err
	}

	g.State = next
	g.Moves = append(g.Moves, move)
	g.UpdatedAt = time.Now()
	justFinished := !g.Finished && next.IsGameOver()
	g.Finished = next.IsGameOver()

	if err := m.store.Save(ctx, g); err != nil {
		return nil, err
	}
	if m.recorder != nil {
		m.recorder.Record(id, move, next)
	}

	evt := NewEvent(EventMoveApplied, id)
	evt.Move = &move
	evt.Player = player
	evt.Turn = next.TurnNumber
	m.events.Publish(evt)

	if justFinished {
		m.finish(ctx, g)
	}
	return g, nil
}

func (m *Manager) finish(ctx context.Context, g *Game) {
	outcome := m.engine.Outcome(g.State)
	m.logger.Info("game finished",
		zap.String("game_id", g.ID),
		zap.String("reason", outcome.Reason),
		zap.Int("winner", outcome.Winner),
		zap.Ints("scores", outcome.Scores),
		zap.Int("moves", len(g.Moves)),
	)

	evt := NewEvent(EventGameFinished, g.ID)
	evt.Reason = outcome.Reason
	evt.Scores = outcome.Scores
	evt.Turn = g.State.TurnNumber
	m.events.Publish(evt)

	if m.recorder != nil {
		m.recorder.StopRecording(g.ID)
	}

	m.mu.Lock()
	handlers := append([]FinishedHandler(nil), m.finished...)
	m.mu.Unlock()
	for _, fn := range handlers {
		fn(ctx, g.clone())
	}
}

// Reset redeals a game with its original seed and player count. It is the
// only request a finished game accepts.
func (m *Manager) Reset(ctx context.Context, id string) (*Game, error) {
	l := m.lock(id)
	l.Lock()
	defer l.Unlock()

	g, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := m.engine.NewGame(g.Seed, g.Players)
	if err != nil {
		return nil, err
	}

	g.State = state
	g.Moves = []game.Move{}
	g.Finished = false
	g.UpdatedAt = time.Now()
	if err := m.store.Save(ctx, g); err != nil {
		return nil, err
	}
	if m.recorder != nil {
		m.recorder.StartRecording(id, g.Options, state)
	}

	m.logger.Info("game reset", zap.String("game_id", id))
	m.events.Publish(NewEvent(EventGameReset, id))
	return g, nil
}

// Delete drops a game.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.locks, id)
	m.mu.Unlock()
	if m.recorder != nil {
		m.recorder.ClearReplay(id)
	}
	m.events.Publish(NewEvent(EventGameDeleted, id))
	return nil
}

// Outcome reports the scores and, once finished, the winner of a game.
func (m *Manager) Outcome(ctx context.Context, id string) (game.Victory, error) {
	g, err := m.store.Load(ctx, id)
	if err != nil {
		return game.Victory{}, err
	}
	return m.engine.Outcome(g.State), nil
}

// Describe renders a one-line summary of a game for logs and CLIs.
func Describe(g *Game) string {
	s := g.State
	line := fmt.Sprintf("game %s turn %d player %d %s", g.ID, s.TurnNumber, s.CurrentPlayer, s.Phase)
	if s.Pending != nil {
		line += fmt.Sprintf(" pending %s (%s)", s.Pending.Effect, s.Pending.Card)
	}
	if reason := rules.GameOverReason(s.Supply); reason != "" {
		line += " over: " + reason
	}
	return line
}

// IsNotFound reports whether err means the game does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
