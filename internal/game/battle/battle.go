// Package battle orchestrates a match between a human Player and the
// computer adversary: setup, strictly alternating turns, terminal checks and
// the final statistics.
//
// The orchestrator never renders and never reads raw input. Both are supplied
// through the Input and View collaborators.
package battle

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/seabattle/internal/game/ai"
	"github.com/cory-johannsen/seabattle/internal/game/board"
)

// ShipCount is the number of ships placed on each board.
const ShipCount = 3

var (
	// ErrPlacementExhausted is returned by Setup when either board could not
	// place its full fleet within board.MaxPlacementAttempts.
	ErrPlacementExhausted = errors.New("ship placement exhausted")
	// ErrNotInProgress is returned by turn operations outside StatusInProgress.
	ErrNotInProgress = errors.New("game is not in progress")
	// ErrAlreadyStarted is returned by Setup once the game has left StatusSetup.
	ErrAlreadyStarted = errors.New("game already started")
	// ErrAlreadyGuessed is the rejection cause for a board-side repeat guess.
	ErrAlreadyGuessed = errors.New("location already guessed")
	// ErrAlreadyHit is the rejection cause for a strike on an already damaged segment.
	ErrAlreadyHit = errors.New("location already hit")
)

// Status is the lifecycle state of a Game.
type Status int

const (
	StatusSetup Status = iota
	StatusInProgress
	StatusGameOver
	StatusAborted
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusSetup:
		return "setup"
	case StatusInProgress:
		return "in progress"
	case StatusGameOver:
		return "game over"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Side identifies a participant.
type Side int

const (
	SideNone Side = iota
	SidePlayer
	SideCPU
)

// String returns "none", "player" or "cpu".
func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideCPU:
		return "cpu"
	default:
		return "none"
	}
}

// Input supplies raw guesses for the human side.
//
// NextGuess blocks until a guess is available, the input is exhausted, or ctx
// is done. Any non-nil error aborts the game.
type Input interface {
	NextGuess(ctx context.Context) (string, error)
}

// View receives everything a match wants shown.
type View interface {
	// ShowBoards is handed the opponent grid and the player's own grid. Hidden
	// ship cells must be drawn as water.
	ShowBoards(opponent, own board.Grid)
	// ShowTurn narrates one resolved turn.
	ShowTurn(report TurnReport)
	// ShowRejection explains why a player guess did not consume the turn.
	ShowRejection(rej *Rejection)
	// ShowGameOver is called once with the final statistics.
	ShowGameOver(stats Stats)
}

// TurnReport describes one resolved turn.
type TurnReport struct {
	Round  int
	Side   Side
	Name   string
	Result board.GuessResult
	// Mode is the adversary's mode after the turn resolved. Zero for player turns.
	Mode ai.Mode
}

// Reason classifies a rejected player guess.
type Reason int

const (
	ReasonMalformed Reason = iota
	ReasonOutOfBounds
	ReasonDuplicate
	ReasonAlreadyGuessed
	ReasonAlreadyHit
)

// String returns a short reason label.
func (r Reason) String() string {
	switch r {
	case ReasonMalformed:
		return "malformed"
	case ReasonOutOfBounds:
		return "out of bounds"
	case ReasonDuplicate:
		return "duplicate"
	case ReasonAlreadyGuessed:
		return "already guessed"
	case ReasonAlreadyHit:
		return "already hit"
	default:
		return "unknown"
	}
}

// Rejection is returned by PlayerTurn when a guess did not consume the turn.
// The game state is unchanged and the caller should prompt again.
type Rejection struct {
	Input  string
	Reason Reason
	Err    error
}

// Error implements error.
func (r *Rejection) Error() string {
	return fmt.Sprintf("guess %q rejected (%s): %v", r.Input, r.Reason, r.Err)
}

// Unwrap returns the cause, so errors.Is matches the player and board sentinels.
func (r *Rejection) Unwrap() error { return r.Err }

// Views fans every callback out to each View in order.
type Views []View

func (vs Views) ShowBoards(opponent, own board.Grid) {
	for _, v := range vs {
		v.ShowBoards(opponent, own)
	}
}

func (vs Views) ShowTurn(report TurnReport) {
	for _, v := range vs {
		v.ShowTurn(report)
	}
}

func (vs Views) ShowRejection(rej *Rejection) {
	for _, v := range vs {
		v.ShowRejection(rej)
	}
}

func (vs Views) ShowGameOver(stats Stats) {
	for _, v := range vs {
		v.ShowGameOver(stats)
	}
}
