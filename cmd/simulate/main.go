package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/principality/principality-server-go/internal/ai"
	"github.com/principality/principality-server-go/internal/config"
	"github.com/principality/principality-server-go/internal/game"
	"github.com/principality/principality-server-go/internal/repository"
	"github.com/principality/principality-server-go/internal/session"
	"github.com/principality/principality-server-go/internal/tournament"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	games      = flag.Int("games", 0, "number of games to play (overrides simulation.games)")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *games > 0 {
		cfg.Simulation.Games = *games
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting principality simulation",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Int("games", cfg.Simulation.Games),
		zap.Strings("strategies", cfg.Simulation.Strategies),
	)

	// Cancel on termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	engine := game.NewEngine(logger, game.Options{
		KingdomCards:    cfg.Game.Kingdom,
		AllCards:        cfg.Game.AllCards,
		RandomKingdom:   cfg.Game.RandomKingdom,
		VictoryPileSize: cfg.Game.VictoryPileSize,
	})

	// Initialize active-game store
	var store session.Store
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb, err := session.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.Redis.KeyPrefix, cfg.Session.TTL, logger)
		logger.Info("redis session store initialized", zap.String("addr", cfg.Redis.Addr))
	default:
		store = session.NewMemoryStore()
		logger.Info("memory session store initialized")
	}

	mgr := session.NewManager(engine, store, logger)

	if cfg.Replay.Enabled {
		if err := os.MkdirAll(cfg.Replay.Directory, 0o755); err != nil {
			logger.Fatal("failed to create replay directory", zap.Error(err))
		}
		recorder := game.NewReplayRecorder(logger, cfg.Replay.Directory)
		mgr.SetRecorder(recorder)
		mgr.OnFinished(func(_ context.Context, g *session.Game) {
			if err := recorder.SaveReplay(g.ID); err != nil {
				logger.Error("failed to save replay", zap.String("game_id", g.ID), zap.Error(err))
			}
		})
		logger.Info("replay recording enabled", zap.String("directory", cfg.Replay.Directory))
	}

	// Initialize archive
	if cfg.Database.Enabled {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)

		gameRepo := repository.NewGameRepository(db)
		mgr.OnFinished(func(ctx context.Context, g *session.Game) {
			rec, err := repository.NewGameRecord(g, engine.Outcome(g.State))
			if err == nil {
				err = gameRepo.Save(ctx, rec)
			}
			if err != nil {
				logger.Error("failed to archive game", zap.String("game_id", g.ID), zap.Error(err))
			}
		})
	}

	if cfg.Simulation.Tournament {
		if err := runTournament(ctx, engine, cfg, logger); err != nil {
			logger.Fatal("tournament failed", zap.Error(err))
		}
		return
	}

	summary := run(ctx, mgr, cfg, logger)

	logger.Info("simulation complete",
		zap.Int("played", summary.played),
		zap.Int("finished", summary.finished),
		zap.Ints("wins", summary.wins),
		zap.Duration("elapsed", summary.elapsed),
	)
}

type summary struct {
	played   int
	finished int
	wins     []int
	elapsed  time.Duration
}

// run plays the configured number of games one after another.
func run(ctx context.Context, mgr *session.Manager, cfg *config.Config, logger *zap.Logger) summary {
	start := time.Now()
	s := summary{wins: make([]int, cfg.Game.Players)}

	for i := 0; i < cfg.Simulation.Games; i++ {
		if ctx.Err() != nil {
			break
		}
		seed := fmt.Sprintf("%s-%d", cfg.Game.Seed, i)
		policies, err := ai.Policies(cfg.Simulation.Strategies, seed)
		if err != nil {
			logger.Fatal("invalid strategies", zap.Error(err))
		}

		g, err := mgr.Create(ctx, seed, cfg.Game.Players)
		if err != nil {
			logger.Fatal("failed to create game", zap.Error(err))
		}
		s.played++

		g, err = ai.PlaySession(ctx, mgr, g.ID, policies, cfg.Simulation.MaxMoves)
		switch {
		case errors.Is(err, ai.ErrMoveLimit):
			logger.Warn("game abandoned", zap.String("game", session.Describe(g)), zap.Error(err))
		case errors.Is(err, context.Canceled):
			logger.Info("game interrupted", zap.String("game", session.Describe(g)))
		case err != nil:
			logger.Error("game failed", zap.String("seed", seed), zap.Error(err))
		default:
			s.finished++
			outcome, err := mgr.Outcome(ctx, g.ID)
			if err == nil && outcome.Winner >= 0 {
				s.wins[outcome.Winner]++
			}
			logger.Info("game played",
				zap.Int("game", i),
				zap.String("game_id", g.ID),
				zap.Int("moves", len(g.Moves)),
				zap.Ints("scores", outcome.Scores),
				zap.Int("winner", outcome.Winner),
			)
		}

		if g != nil {
			if err := mgr.Delete(ctx, g.ID); err != nil {
				logger.Warn("failed to delete game", zap.String("game_id", g.ID), zap.Error(err))
			}
		}
	}

	s.elapsed = time.Since(start)
	return s
}

// runTournament plays the configured strategies against each other, one
// entrant per strategy.
func runTournament(ctx context.Context, engine *game.Engine, cfg *config.Config, logger *zap.Logger) error {
	tm := tournament.NewManager(logger)
	t := tm.CreateTournament("simulation", cfg.Game.Seed, cfg.Simulation.Rounds)
	for i, strategy := range cfg.Simulation.Strategies {
		if err := t.AddEntrant(fmt.Sprintf("%s-%d", strategy, i+1), strategy); err != nil {
			return err
		}
	}

	runner := tournament.NewRunner(engine, cfg.Simulation.MaxMoves, logger)
	if err := runner.Run(ctx, t); err != nil {
		return err
	}
	for i, e := range t.Standings() {
		logger.Info("standing",
			zap.Int("rank", i+1),
			zap.String("entrant", e.Name),
			zap.Int("points", e.Points),
			zap.Int("wins", e.Wins),
			zap.Int("draws", e.Draws),
			zap.Int("losses", e.Losses),
		)
	}
	return nil
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
