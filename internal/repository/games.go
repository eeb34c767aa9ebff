package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/principality/principality-server-go/internal/game"
	"github.com/principality/principality-server-go/internal/game/cards"
	"github.com/principality/principality-server-go/internal/session"
	"go.uber.org/zap"
)

// ErrGameNotFound is returned when the archive has no game with the
// requested ID.
var ErrGameNotFound = errors.New("archived game not found")

// GameRecord is a finished game as archived: enough to replay it from the
// seed and to check the replay against the final checksum.
type GameRecord struct {
	ID         uuid.UUID
	Seed       string
	Players    int
	Kingdom    []string
	Moves      []game.Move
	Scores     []int
	Winner     int
	Reason     string
	Turns      int
	Checksum   string
	CreatedAt  time.Time
	FinishedAt time.Time
}

// NewGameRecord builds the archive row for a finished session game.
func NewGameRecord(g *session.Game, outcome game.Victory) (GameRecord, error) {
	id, err := uuid.Parse(g.ID)
	if err != nil {
		return GameRecord{}, fmt.Errorf("invalid game id %q: %w", g.ID, err)
	}
	return GameRecord{
		ID:         id,
		Seed:       g.Seed,
		Players:    g.Players,
		Kingdom:    kingdomOf(g.State),
		Moves:      g.Moves,
		Scores:     outcome.Scores,
		Winner:     outcome.Winner,
		Reason:     outcome.Reason,
		Turns:      g.State.TurnNumber,
		Checksum:   g.State.Checksum(),
		CreatedAt:  g.CreatedAt,
		FinishedAt: g.UpdatedAt,
	}, nil
}

// kingdomOf lists the kingdom piles of a game in catalog order.
func kingdomOf(s *game.GameState) []string {
	out := []string{}
	for _, name := range s.SupplyNames() {
		if cards.MustGet(name).IsKingdom() {
			out = append(out, name)
		}
	}
	return out
}

// GameRepository stores finished games.
type GameRepository struct {
	db *DB
}

func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{db: db}
}

// Save inserts rec, replacing any earlier archive of the same game.
func (r *GameRepository) Save(ctx context.Context, rec GameRecord) error {
	moves, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO games (
			id, seed, players, kingdom, moves, scores, winner,
			reason, turns, checksum, created_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			moves = EXCLUDED.moves,
			scores = EXCLUDED.scores,
			winner = EXCLUDED.winner,
			reason = EXCLUDED.reason,
			turns = EXCLUDED.turns,
			checksum = EXCLUDED.checksum,
			finished_at = EXCLUDED.finished_at
	`,
		rec.ID,
		rec.Seed,
		rec.Players,
		rec.Kingdom,
		moves,
		rec.Scores,
		rec.Winner,
		rec.Reason,
		rec.Turns,
		rec.Checksum,
		rec.CreatedAt,
		rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to archive game %s: %w", rec.ID, err)
	}

	r.db.logger.Debug("archived game",
		zap.String("game_id", rec.ID.String()),
		zap.Int("moves", len(rec.Moves)),
		zap.Int("winner", rec.Winner),
	)
	return nil
}

const selectGame = `
	SELECT id, seed, players, kingdom, moves, scores, winner,
		reason, turns, checksum, created_at, finished_at
	FROM games`

func scanGame(row pgx.Row) (GameRecord, error) {
	var (
		rec   GameRecord
		moves []byte
	)
	err := row.Scan(
		&rec.ID,
		&rec.Seed,
		&rec.Players,
		&rec.Kingdom,
		&moves,
		&rec.Scores,
		&rec.Winner,
		&rec.Reason,
		&rec.Turns,
		&rec.Checksum,
		&rec.CreatedAt,
		&rec.FinishedAt,
	)
	if err != nil {
		return GameRecord{}, err
	}
	if err := json.Unmarshal(moves, &rec.Moves); err != nil {
		return GameRecord{}, fmt.Errorf("failed to unmarshal moves of %s: %w", rec.ID, err)
	}
	return rec, nil
}

// Get loads one archived game.
func (r *GameRepository) Get(ctx context.Context, id uuid.UUID) (GameRecord, error) {
	rec, err := scanGame(r.db.pool.QueryRow(ctx, selectGame+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return GameRecord{}, ErrGameNotFound
	}
	if err != nil {
		return GameRecord{}, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	return rec, nil
}

// ListRecent returns up to limit games, most recently finished first.
func (r *GameRepository) ListRecent(ctx context.Context, limit int) ([]GameRecord, error) {
	rows, err := r.db.pool.Query(ctx, selectGame+" ORDER BY finished_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return out, nil
}

// Verify replays rec from its seed and checks the final checksum. engine must
// be configured the way it was when the game was played.
func Verify(engine *game.Engine, rec GameRecord) error {
	state, err := engine.NewGame(rec.Seed, rec.Players)
	if err != nil {
		return err
	}
	for i, move := range rec.Moves {
		state, err = engine.Execute(state, move)
		if err != nil {
			return fmt.Errorf("game %s: move %d (%s): %w", rec.ID, i, move, err)
		}
	}
	if got := state.Checksum(); got != rec.Checksum {
		return fmt.Errorf("game %s: checksum mismatch: expected %s, got %s", rec.ID, rec.Checksum, got)
	}
	return nil
}
