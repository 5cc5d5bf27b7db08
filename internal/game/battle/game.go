package battle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/seabattle/internal/game/ai"
	"github.com/cory-johannsen/seabattle/internal/game/board"
	"github.com/cory-johannsen/seabattle/internal/game/dice"
	"github.com/cory-johannsen/seabattle/internal/game/player"
)

// Options configures a Game. Zero values select defaults.
type Options struct {
	PlayerName string
	CPUName    string
	Logger     *zap.Logger
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Game is one match. It is not safe for concurrent use.
//
// Invariant: status only moves Setup → InProgress → GameOver, or to Aborted
// from Setup or InProgress. winner is SideNone unless status is GameOver.
type Game struct {
	id          uuid.UUID
	status      Status
	winner      Side
	round       int
	rejections  int
	shipCount   int
	playerBoard *board.Board
	cpuBoard    *board.Board
	player      *player.Player
	cpu         *ai.Adversary
	logger      *zap.Logger
	now         func() time.Time
	startedAt   time.Time
	endedAt     time.Time
}

// New creates a Game in StatusSetup. Both boards and the adversary draw from src.
//
// Precondition: src must be non-nil.
// Postcondition: Status() == StatusSetup; ID() is a fresh random UUID.
func New(src dice.Source, opts Options) *Game {
	if src == nil {
		panic("battle: New precondition violated: src must be non-nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	id := uuid.New()
	return &Game{
		id:          id,
		status:      StatusSetup,
		shipCount:   ShipCount,
		playerBoard: board.NewBoard(src, true),
		cpuBoard:    board.NewBoard(src, false),
		player:      player.New(opts.PlayerName),
		cpu:         ai.New(opts.CPUName, src, logger.Named("ai")),
		logger:      logger.With(zap.String("game_id", id.String())),
		now:         now,
	}
}

// Setup places the fleets, player board first.
//
// Postcondition: On success Status() == StatusInProgress and the clock has
// started. On failure the error wraps ErrPlacementExhausted, the status stays
// StatusSetup and Setup may be called again.
func (g *Game) Setup() error {
	if g.status != StatusSetup {
		return fmt.Errorf("battle: setup: %w", ErrAlreadyStarted)
	}
	pp := g.playerBoard.PlaceShipsRandomly(g.shipCount)
	cp := g.cpuBoard.PlaceShipsRandomly(g.shipCount)
	if !pp.Complete() || !cp.Complete() {
		g.logger.Warn("ship placement exhausted",
			zap.Int("player_placed", pp.Placed),
			zap.Int("cpu_placed", cp.Placed),
			zap.Int("requested", g.shipCount),
		)
		return fmt.Errorf("battle: setup: placed %d/%d player and %d/%d cpu ships: %w",
			pp.Placed, pp.Requested, cp.Placed, cp.Requested, ErrPlacementExhausted)
	}
	g.status = StatusInProgress
	g.startedAt = g.now()
	g.logger.Info("game set up",
		zap.Int("ships", g.shipCount),
		zap.Int("player_attempts", pp.Attempts),
		zap.Int("cpu_attempts", cp.Attempts),
	)
	return nil
}

// PlayerTurn resolves one raw player guess against the opponent board.
//
// Precondition: Status() == StatusInProgress, else ErrNotInProgress.
// Postcondition: A *Rejection error leaves every board and history
// unchanged. Otherwise the guess is resolved, recorded in the player's
// history and the round counter advances; a sinking final hit ends the game.
func (g *Game) PlayerTurn(raw string) (TurnReport, error) {
	if g.status != StatusInProgress {
		return TurnReport{}, fmt.Errorf("battle: player turn: %w", ErrNotInProgress)
	}
	c, err := g.player.Validate(raw)
	if err != nil {
		return TurnReport{}, g.reject(raw, reasonFor(err), err)
	}

	res := g.cpuBoard.ProcessGuess(c)
	switch res.Kind {
	case board.GuessAlreadyGuessed:
		return TurnReport{}, g.reject(raw, ReasonAlreadyGuessed, ErrAlreadyGuessed)
	case board.GuessAlreadyHit:
		return TurnReport{}, g.reject(raw, ReasonAlreadyHit, ErrAlreadyHit)
	}

	g.player.RecordGuess(c)
	g.round++
	report := TurnReport{Round: g.round, Side: SidePlayer, Name: g.player.Name(), Result: res}
	g.logTurn(report)
	g.checkTerminal()
	return report, nil
}

// AdversaryTurn lets the adversary fire at the player board.
//
// Precondition: Status() == StatusInProgress, else ErrNotInProgress.
// Postcondition: The adversary's state reflects the resolved result; a
// sinking final hit ends the game.
func (g *Game) AdversaryTurn() (TurnReport, error) {
	if g.status != StatusInProgress {
		return TurnReport{}, fmt.Errorf("battle: adversary turn: %w", ErrNotInProgress)
	}
	c, err := g.cpu.SelectGuess(g.playerBoard.Guessed())
	if err != nil {
		return TurnReport{}, fmt.Errorf("battle: adversary turn: %w", err)
	}
	res := g.playerBoard.ProcessGuess(c)
	g.cpu.RecordResult(c, res.IsHit(), res.Sunk)

	report := TurnReport{Round: g.round, Side: SideCPU, Name: g.cpu.Name(), Result: res, Mode: g.cpu.Mode()}
	g.logTurn(report)
	g.checkTerminal()
	return report, nil
}

// Run plays rounds until one side's fleet is sunk, the input fails or ctx is done.
//
// Each round checks the terminal condition, shows the boards, takes the
// player's turn (prompting again after each rejection), checks the terminal
// condition, takes the adversary's turn and checks again.
//
// Precondition: Status() == StatusInProgress, else ErrNotInProgress.
// Postcondition: Returns nil with Status() == StatusGameOver after
// view.ShowGameOver, or a non-nil error with Status() == StatusAborted.
func (g *Game) Run(ctx context.Context, in Input, view View) error {
	if g.status != StatusInProgress {
		return fmt.Errorf("battle: run: %w", ErrNotInProgress)
	}
	for {
		if g.checkTerminal() {
			g.finishView(view)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return g.abort(err)
		}

		view.ShowBoards(g.cpuBoard.Grid(), g.playerBoard.Grid())
		raw, err := in.NextGuess(ctx)
		if err != nil {
			return g.abort(err)
		}
		report, err := g.PlayerTurn(raw)
		if err != nil {
			var rej *Rejection
			if errors.As(err, &rej) {
				view.ShowRejection(rej)
				continue
			}
			return g.abort(err)
		}
		view.ShowTurn(report)
		if g.checkTerminal() {
			continue
		}

		report, err = g.AdversaryTurn()
		if err != nil {
			return g.abort(err)
		}
		view.ShowTurn(report)
	}
}

// Abort marks an unfinished game as aborted. It is a no-op once the game is over.
func (g *Game) Abort() {
	if g.status == StatusGameOver || g.status == StatusAborted {
		return
	}
	g.status = StatusAborted
	g.endedAt = g.now()
	g.logger.Info("game aborted", zap.Int("rounds", g.round))
}

func (g *Game) abort(cause error) error {
	g.Abort()
	return fmt.Errorf("battle: game aborted: %w", cause)
}

// checkTerminal ends an in-progress game whose fleet on either side is sunk
// and reports whether the game is over.
func (g *Game) checkTerminal() bool {
	if g.status == StatusGameOver {
		return true
	}
	if g.status != StatusInProgress {
		return false
	}
	switch {
	case g.cpuBoard.AllSunk():
		g.finish(SidePlayer)
	case g.playerBoard.AllSunk():
		g.finish(SideCPU)
	default:
		return false
	}
	return true
}

func (g *Game) finish(winner Side) {
	g.status = StatusGameOver
	g.winner = winner
	g.endedAt = g.now()
	g.logger.Info("game over",
		zap.String("winner", winner.String()),
		zap.Int("rounds", g.round),
		zap.Duration("elapsed", g.endedAt.Sub(g.startedAt)),
	)
}

func (g *Game) finishView(view View) {
	view.ShowBoards(g.cpuBoard.Grid(), g.playerBoard.Grid())
	view.ShowGameOver(g.Stats())
}

func (g *Game) reject(raw string, reason Reason, err error) error {
	g.rejections++
	g.logger.Debug("guess rejected",
		zap.String("input", raw),
		zap.String("reason", reason.String()),
	)
	return &Rejection{Input: raw, Reason: reason, Err: err}
}

func (g *Game) logTurn(r TurnReport) {
	fields := []zap.Field{
		zap.Int("round", r.Round),
		zap.String("side", r.Side.String()),
		zap.String("coord", r.Result.Coordinate.String()),
		zap.String("outcome", r.Result.Kind.String()),
		zap.Bool("sunk", r.Result.Sunk),
	}
	if r.Side == SideCPU {
		fields = append(fields, zap.String("mode", r.Mode.String()))
	}
	g.logger.Debug("turn resolved", fields...)
}

func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, player.ErrOutOfBounds):
		return ReasonOutOfBounds
	case errors.Is(err, player.ErrDuplicateGuess):
		return ReasonDuplicate
	default:
		return ReasonMalformed
	}
}

// ID returns the game's identifier.
func (g *Game) ID() uuid.UUID { return g.id }

// Status returns the lifecycle state.
func (g *Game) Status() Status { return g.status }

// Winner returns the winning side, or SideNone before the game is over.
func (g *Game) Winner() Side { return g.winner }

// Round returns the number of resolved player turns.
func (g *Game) Round() int { return g.round }

// OpponentGrid returns a snapshot of the adversary's board as the player sees it.
func (g *Game) OpponentGrid() board.Grid { return g.cpuBoard.Grid() }

// PlayerGrid returns a snapshot of the player's own board.
func (g *Game) PlayerGrid() board.Grid { return g.playerBoard.Grid() }

// Player returns the human participant.
func (g *Game) Player() *player.Player { return g.player }

// Adversary returns the computer participant.
func (g *Game) Adversary() *ai.Adversary { return g.cpu }
