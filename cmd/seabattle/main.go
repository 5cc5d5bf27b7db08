// Package main runs a single-player Sea Battle match in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/seabattle/internal/config"
	"github.com/cory-johannsen/seabattle/internal/frontend/terminal"
	"github.com/cory-johannsen/seabattle/internal/game/battle"
	"github.com/cory-johannsen/seabattle/internal/game/dice"
	"github.com/cory-johannsen/seabattle/internal/observability"
	"github.com/cory-johannsen/seabattle/internal/scripting"
	"github.com/cory-johannsen/seabattle/internal/server"
	"github.com/cory-johannsen/seabattle/internal/storage/postgres"
)

func main() {
	os.Exit(run())
}

func run() int {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults and environment")
	envPath := flag.String("env", ".env", "optional dotenv file loaded before configuration")
	scriptPath := flag.String("script", "", "Lua script supplying the player's guesses; overrides script.path")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("loading %s: %v", *envPath, err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("loading config: %v", err)
		return 1
	}
	if *scriptPath != "" {
		cfg.Script.Path = *scriptPath
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Printf("initializing logger: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	src := dice.Source(dice.NewLoggedSource(newSource(cfg.Game), logger.Named("dice")))

	msgs := terminal.DefaultCatalog()
	if cfg.UI.Messages != "" {
		msgs, err = terminal.LoadCatalog(cfg.UI.Messages)
		if err != nil {
			logger.Error("loading messages", zap.Error(err))
			return 1
		}
	}
	renderer := terminal.NewRenderer(os.Stdout, msgs, cfg.UI.Color)
	renderer.Welcome()

	game := battle.New(src, battle.Options{
		PlayerName: cfg.Game.PlayerName,
		CPUName:    cfg.Game.CPUName,
		Logger:     logger,
	})

	renderer.SetupStarted()
	if err := game.Setup(); err != nil {
		renderer.SetupFailed(err)
		logger.Error("setting up game", zap.Error(err))
		return 1
	}
	renderer.SetupComplete(battle.ShipCount)

	var (
		input battle.Input
		view  battle.View = renderer
	)
	if cfg.Script.Path != "" {
		script, err := scripting.LoadFile(cfg.Script.Path, scripting.Options{
			InstructionLimit: cfg.Script.InstructionLimit,
			Source:           src,
			Logger:           logger.Named("script"),
		})
		if err != nil {
			logger.Error("loading script", zap.String("path", cfg.Script.Path), zap.Error(err))
			return 1
		}
		defer script.Close()
		input = script
		view = battle.Views{renderer, script}
	} else {
		input = terminal.NewLineInput(os.Stdin, os.Stdout, msgs.Prompt)
	}

	lc := server.NewLifecycle(logger)
	// Cancelling the service context aborts the match from inside Run.
	lc.Add("match", &server.FuncService{
		StartFn: func(ctx context.Context) error { return game.Run(ctx, input, view) },
	})

	runErr := lc.Run(context.Background())
	switch {
	case runErr == nil:
	case errors.Is(runErr, server.ErrInterrupted), errors.Is(runErr, io.EOF):
		renderer.Interrupted()
	default:
		logger.Error("match failed", zap.Error(runErr))
		return 1
	}
	if err := renderer.Err(); err != nil {
		logger.Error("writing to terminal", zap.Error(err))
	}

	if cfg.Database.Enabled && game.Status() == battle.StatusGameOver {
		if err := record(logger, cfg.Database, game.Stats()); err != nil {
			logger.Error("recording match result", zap.Error(err))
			return 1
		}
	}

	logger.Info("seabattle exiting",
		zap.String("game_id", game.ID().String()),
		zap.Stringer("status", game.Status()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return 0
}

func newSource(g config.GameConfig) dice.Source {
	if g.Source == config.SourceSeeded {
		return dice.NewSeededSource(g.Seed)
	}
	return dice.NewCryptoSource()
}

// record saves the finished match and prints the running tally.
func record(logger *zap.Logger, cfg config.DatabaseConfig, stats battle.Stats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.AutoMigrate {
		status, err := postgres.Migrate(cfg.MigrationsURL(), cfg.DSN(), 0)
		if err != nil {
			return err
		}
		logger.Debug("schema migrated", zap.Uint("version", status.Version), zap.Bool("changed", status.Changed))
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	result, err := postgres.ResultFromStats(stats)
	if err != nil {
		return err
	}
	repo := postgres.NewResultRepository(pool.DB())
	if err := repo.Save(ctx, result); err != nil {
		return err
	}
	tally, err := repo.Tally(ctx)
	if err != nil {
		return err
	}
	logger.Info("match recorded",
		zap.String("game_id", result.ID.String()),
		zap.String("winner", result.Winner),
		zap.Int("played", tally.Played),
	)
	fmt.Fprintf(os.Stdout, "Matches played: %d (you: %d, %s: %d)\n",
		tally.Played, tally.PlayerWins, stats.CPUName, tally.CPUWins)
	return nil
}
