package tournament

import (
	"context"
	"errors"
	"fmt"

	"github.com/principality/principality-server-go/internal/ai"
	"github.com/principality/principality-server-go/internal/game"
	"go.uber.org/zap"
)

// Runner plays a tournament's pairings as two-player engine games.
type Runner struct {
	engine   *game.Engine
	maxMoves int
	logger   *zap.Logger
}

func NewRunner(engine *game.Engine, maxMoves int, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{engine: engine, maxMoves: maxMoves, logger: logger}
}

// Run starts t if needed and plays every round to the end. A game that hits
// the move limit, or ends with equal scores, is a draw.
func (r *Runner) Run(ctx context.Context, t *Tournament) error {
	if t.GetState() == TournamentStateWaiting {
		if err := t.Start(); err != nil {
			return err
		}
	}

	round := t.CurrentRound()
	for round != nil {
		if err := r.playRound(ctx, t, round); err != nil {
			return err
		}

		r.logger.Info("tournament round finished",
			zap.String("tournament_id", t.ID),
			zap.Int("round", round.Number),
			zap.String("bye", round.Bye),
		)

		next, err := t.NextRound()
		if err != nil {
			return err
		}
		round = next
	}

	standings := t.Standings()
	fields := []zap.Field{zap.String("tournament_id", t.ID)}
	for i, e := range standings {
		fields = append(fields, zap.Int(fmt.Sprintf("%d.%s", i+1, e.Name), e.Points))
	}
	r.logger.Info("tournament finished", fields...)
	return nil
}

func (r *Runner) playRound(ctx context.Context, t *Tournament, round *Round) error {
	for _, p := range round.Pairings {
		if p.Played {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.playPairing(ctx, t, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) playPairing(ctx context.Context, t *Tournament, p *Pairing) error {
	e1, ok1 := t.Entrant(p.Entrant1)
	e2, ok2 := t.Entrant(p.Entrant2)
	if !ok1 || !ok2 {
		return fmt.Errorf("%w: %s vs %s", ErrUnknownEntrant, p.Entrant1, p.Entrant2)
	}
	policies, err := ai.Policies([]string{e1.Strategy, e2.Strategy}, p.Seed)
	if err != nil {
		return err
	}

	state, err := r.engine.NewGame(p.Seed, 2)
	if err != nil {
		return err
	}
	out, err := ai.Play(ctx, r.engine, state, policies, r.maxMoves)
	if err != nil && !errors.Is(err, ai.ErrMoveLimit) {
		return fmt.Errorf("%s vs %s: %w", p.Entrant1, p.Entrant2, err)
	}

	outcome := r.engine.Outcome(out.Final)
	winner := ""
	switch {
	case !outcome.GameOver:
		r.logger.Warn("tournament game hit move limit",
			zap.String("seed", p.Seed),
			zap.Int("moves", len(out.Moves)),
		)
	case outcome.Scores[0] > outcome.Scores[1]:
		winner = p.Entrant1
	case outcome.Scores[1] > outcome.Scores[0]:
		winner = p.Entrant2
	}

	r.logger.Debug("tournament game played",
		zap.String("entrant1", p.Entrant1),
		zap.String("entrant2", p.Entrant2),
		zap.String("winner", winner),
		zap.Ints("scores", outcome.Scores),
	)
	return t.RecordResult(p.Entrant1, p.Entrant2, winner, out.Final.Checksum(), outcome.Scores, len(out.Moves))
}
