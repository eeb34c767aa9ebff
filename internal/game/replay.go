package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const replayVersion = 1

// Replay is a recorded game: the setup needed to deal it again, every move
// applied, and the state after each step. States[0] is the initial deal and
// States[i+1] follows Moves[i].
type Replay struct {
	GameID       string
	Seed         string
	Players      int
	Options      Options
	Moves        []Move
	States       []*GameState
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay starts a replay from an initial state.
func NewReplay(gameID string, opts Options, initial *GameState) *Replay {
	r := &Replay{
		GameID:  gameID,
		Options: opts,
		Moves:   make([]Move, 0),
		States:  make([]*GameState, 0),
	}
	if initial != nil {
		r.Seed = initial.Seed
		r.Players = len(initial.Players)
		r.States = append(r.States, initial)
	}
	return r
}

// Record appends a move and the state it produced.
func (r *Replay) Record(move Move, state *GameState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Moves = append(r.Moves, move)
	r.States = append(r.States, state)
}

// Start rewinds playback to the initial state.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the state at the cursor and advances it, or nil at the end.
func (r *Replay) Next() *GameState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.States) {
		state := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return state
	}
	return nil
}

// Previous steps the cursor back and returns that state, or nil at the start.
func (r *Replay) Previous() *GameState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Skip moves the cursor by count, clamped to the recorded range.
func (r *Replay) Skip(count int) *GameState {
	r.mu.Lock()
	defer r.mu.Unlock()

	newIndex := r.CurrentIndex + count
	if newIndex >= len(r.States) {
		newIndex = len(r.States) - 1
	}
	if newIndex < 0 {
		newIndex = 0
	}

	r.CurrentIndex = newIndex
	if r.CurrentIndex < len(r.States) {
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Size returns the number of recorded states.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.States)
}

// GetStateAt returns the state at index, or nil when out of range.
func (r *Replay) GetStateAt(index int) *GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.States) {
		return r.States[index]
	}
	return nil
}

// Final returns the last recorded state.
func (r *Replay) Final() *GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Verify deals the game again from the recorded seed and options, applies
// every recorded move and compares checksums step by step. It returns the
// index of the first diverging state in the error.
func (r *Replay) Verify(logger *zap.Logger) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine := NewEngine(logger, r.Options)
	state, err := engine.NewGame(r.Seed, r.Players)
	if err != nil {
		return fmt.Errorf("failed to deal replay %s: %w", r.GameID, err)
	}
	if len(r.States) > 0 && state.Checksum() != r.States[0].Checksum() {
		return fmt.Errorf("replay %s diverges at state 0", r.GameID)
	}

	for i, move := range r.Moves {
		state, err = engine.Execute(state, move)
		if err != nil {
			return fmt.Errorf("replay %s move %d (%s): %w", r.GameID, i, move, err)
		}
		if i+1 < len(r.States) && state.Checksum() != r.States[i+1].Checksum() {
			return fmt.Errorf("replay %s diverges at state %d", r.GameID, i+1)
		}
	}
	return nil
}

// SaveToFile writes the replay to <directory>/<gameID>.replay as gzipped gob.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		GameID:     r.GameID,
		Seed:       r.Seed,
		Players:    r.Players,
		Options:    r.Options,
		Timestamp:  time.Now(),
		Version:    replayVersion,
		MoveCount:  len(r.Moves),
		StateCount: len(r.States),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	for i, move := range r.Moves {
		if err := encoder.Encode(move); err != nil {
			return fmt.Errorf("failed to encode move %d: %w", i, err)
		}
	}
	for i, state := range r.States {
		if err := encoder.Encode(state); err != nil {
			return fmt.Errorf("failed to encode state %d: %w", i, err)
		}
	}

	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID, metadata.Options, nil)
	replay.Seed = metadata.Seed
	replay.Players = metadata.Players

	for i := 0; i < metadata.MoveCount; i++ {
		var move Move
		if err := decoder.Decode(&move); err != nil {
			return nil, fmt.Errorf("failed to decode move %d: %w", i, err)
		}
		replay.Moves = append(replay.Moves, move)
	}
	for i := 0; i < metadata.StateCount; i++ {
		var state GameState
		if err := decoder.Decode(&state); err != nil {
			return nil, fmt.Errorf("failed to decode state %d: %w", i, err)
		}
		replay.States = append(replay.States, &state)
	}

	return replay, nil
}

type replayMetadata struct {
	GameID     string
	Seed       string
	Players    int
	Options    Options
	Timestamp  time.Time
	Version    int
	MoveCount  int
	StateCount int
}

// ReplayRecorder keeps replays for live games and persists finished ones.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
	saveDir string
}

// NewReplayRecorder creates a recorder saving into saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
		saveDir: saveDir,
	}
}

// StartRecording begins a replay for gameID from its initial state.
func (rr *ReplayRecorder) StartRecording(gameID string, opts Options, initial *GameState) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[gameID] = NewReplay(gameID, opts, initial)
	rr.enabled[gameID] = true

	rr.logger.Info("started replay recording",
		zap.String("game_id", gameID),
	)
}

// StopRecording keeps the replay but ignores further moves.
func (rr *ReplayRecorder) StopRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.enabled[gameID] = false

	rr.logger.Info("stopped replay recording",
		zap.String("game_id", gameID),
	)
}

// Record appends move and its resulting state when recording is on.
func (rr *ReplayRecorder) Record(gameID string, move Move, state *GameState) {
	rr.mu.RLock()
	enabled := rr.enabled[gameID]
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}

	replay.Record(move, state)

	rr.logger.Debug("recorded replay move",
		zap.String("game_id", gameID),
		zap.String("move", move.String()),
		zap.Int("state_count", replay.Size()),
	)
}

// GetReplay returns the in-memory replay for gameID.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, exists := rr.replays[gameID]
	return replay, exists
}

// SaveReplay writes a replay to disk and drops it from memory.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, exists := rr.replays[gameID]
	if !exists {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}

	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// LoadReplay reads a saved replay from the recorder's directory.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, gameID)
	if err != nil {
		return nil, err
	}

	rr.logger.Info("loaded replay from disk",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Size()),
	)
	return replay, nil
}

// ClearReplay drops a replay without saving it.
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)

	rr.logger.Debug("cleared replay from memory",
		zap.String("game_id", gameID),
	)
}

// IsRecording reports whether moves for gameID are being recorded.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return rr.enabled[gameID]
}
