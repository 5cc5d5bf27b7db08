package ai

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/seabattle/internal/game/board"
	"github.com/cory-johannsen/seabattle/internal/game/dice"
)

// DefaultName is used when an adversary is created with an empty name.
const DefaultName = "CPU"

// Stats is a snapshot of the adversary's statistics.
type Stats struct {
	Name        string
	Mode        Mode
	Guesses     int
	Hits        int
	HitRate     float64
	QueueLength int
}

// Adversary owns a State and steps it with Next and Advance.
// It is not safe for concurrent use.
type Adversary struct {
	name   string
	state  State
	src    dice.Source
	logger *zap.Logger
	now    func() time.Time
}

// New creates an Adversary in ModeHunt with empty histories.
//
// Precondition: src must be non-nil. A nil logger is replaced by a no-op logger.
func New(name string, src dice.Source, logger *zap.Logger) *Adversary {
	return NewFromState(name, State{Mode: ModeHunt}, src, logger)
}

// NewFromState creates an Adversary resuming from s.
//
// Precondition: src must be non-nil.
// Postcondition: State() equals s; later steps do not alias s.
func NewFromState(name string, s State, src dice.Source, logger *zap.Logger) *Adversary {
	if name == "" {
		name = DefaultName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adversary{
		name:   name,
		state:  s.Clone(),
		src:    src,
		logger: logger,
		now:    time.Now,
	}
}

// SelectGuess chooses the next coordinate to fire at.
//
// Postcondition: On success the coordinate is not in exclude and has been
// appended to the guess history. Returns ErrNoCandidates when exclude covers
// the whole board.
func (a *Adversary) SelectGuess(exclude board.CoordinateSet) (board.Coordinate, error) {
	before := a.state.Mode
	next, c, err := a.state.Next(exclude, a.src, a.now())
	if err != nil {
		return board.Coordinate{}, fmt.Errorf("ai: selecting guess: %w", err)
	}
	a.state = next
	a.logger.Debug("adversary selected guess",
		zap.String("coord", c.String()),
		zap.String("mode_before", before.String()),
		zap.String("mode", a.state.Mode.String()),
		zap.Int("queue", len(a.state.Queue)),
	)
	return c, nil
}

// RecordResult feeds back the resolution of the last guess.
//
// Postcondition: State() == Advance(previous, c, wasHit, wasSunk, now).
func (a *Adversary) RecordResult(c board.Coordinate, wasHit, wasSunk bool) {
	before := a.state.Mode
	a.state = Advance(a.state, c, wasHit, wasSunk, a.now())
	a.logger.Debug("adversary recorded result",
		zap.String("coord", c.String()),
		zap.Bool("hit", wasHit),
		zap.Bool("sunk", wasSunk),
		zap.String("mode_before", before.String()),
		zap.String("mode", a.state.Mode.String()),
		zap.Int("queue", len(a.state.Queue)),
	)
}

// Name returns the adversary's display name.
func (a *Adversary) Name() string { return a.name }

// Mode returns the current search phase.
func (a *Adversary) Mode() Mode { return a.state.Mode }

// State returns a deep copy of the current strategy state.
func (a *Adversary) State() State { return a.state.Clone() }

// Queue returns a copy of the pending target queue in FIFO order.
func (a *Adversary) Queue() []board.Coordinate {
	return append([]board.Coordinate(nil), a.state.Queue...)
}

// QueueLength returns the number of pending targets.
func (a *Adversary) QueueLength() int { return len(a.state.Queue) }

// HasGuessed reports whether c is in the guess history.
func (a *Adversary) HasGuessed(c board.Coordinate) bool { return a.state.HasGuessed(c) }

// GuessCount returns the number of selected guesses.
func (a *Adversary) GuessCount() int { return len(a.state.Guesses) }

// HitCount returns the number of reported hits.
func (a *Adversary) HitCount() int { return len(a.state.Hits) }

// HitRate returns hits as a percentage of guesses, or 0 before the first guess.
func (a *Adversary) HitRate() float64 {
	if len(a.state.Guesses) == 0 {
		return 0
	}
	return float64(len(a.state.Hits)) / float64(len(a.state.Guesses)) * 100
}

// Guesses returns a copy of the guess history.
func (a *Adversary) Guesses() []GuessRecord {
	return append([]GuessRecord(nil), a.state.Guesses...)
}

// Hits returns a copy of the hit history.
func (a *Adversary) Hits() []HitRecord {
	return append([]HitRecord(nil), a.state.Hits...)
}

// Stats returns a snapshot of the adversary's statistics.
func (a *Adversary) Stats() Stats {
	return Stats{
		Name:        a.name,
		Mode:        a.state.Mode,
		Guesses:     a.GuessCount(),
		Hits:        a.HitCount(),
		HitRate:     a.HitRate(),
		QueueLength: a.QueueLength(),
	}
}

// String returns "CPU: <name> (Mode: <mode>, Guesses: <n>, Hits: <n>)".
func (a *Adversary) String() string {
	return fmt.Sprintf("CPU: %s (Mode: %s, Guesses: %d, Hits: %d)", a.name, a.state.Mode, a.GuessCount(), a.HitCount())
}
