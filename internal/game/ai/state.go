// Package ai implements the computer opponent: a two-phase hunt/target search
// over an opponent's board.
//
// The strategy state is an explicit State value. Next and Advance are pure:
// they return a new State and never mutate their receiver or argument, so any
// (mode, queue, history) combination can be constructed and stepped directly.
package ai

import (
	"errors"
	"time"

	"github.com/cory-johannsen/seabattle/internal/game/board"
	"github.com/cory-johannsen/seabattle/internal/game/dice"
)

// MaxSelectAttempts bounds the queue pops and random samples of one selection.
const MaxSelectAttempts = 1000

// ErrNoCandidates is returned when every coordinate on the board is excluded.
var ErrNoCandidates = errors.New("no unguessed coordinates remain")

// Mode is the search phase.
type Mode int

const (
	// ModeHunt samples uniformly random unguessed coordinates.
	ModeHunt Mode = iota
	// ModeTarget drains the queue of neighbors around a known, unsunk hit.
	ModeTarget
)

// String returns "hunt" or "target".
func (m Mode) String() string {
	switch m {
	case ModeHunt:
		return "hunt"
	case ModeTarget:
		return "target"
	default:
		return "unknown"
	}
}

// GuessRecord is one selected coordinate and the mode it was selected in.
type GuessRecord struct {
	Coordinate board.Coordinate
	Mode       Mode
	At         time.Time
}

// HitRecord is one reported hit.
type HitRecord struct {
	Coordinate board.Coordinate
	At         time.Time
}

// State is the complete adversary strategy state.
//
// Invariant: Queue holds no duplicates and only neighbors of reported unsunk
// hits that were not yet in Guesses when enqueued. Guesses and Hits are
// append-only and used for statistics.
type State struct {
	Mode    Mode
	Queue   []board.Coordinate
	Guesses []GuessRecord
	Hits    []HitRecord
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		Mode:    s.Mode,
		Queue:   append([]board.Coordinate(nil), s.Queue...),
		Guesses: append([]GuessRecord(nil), s.Guesses...),
		Hits:    append([]HitRecord(nil), s.Hits...),
	}
}

// HasGuessed reports whether c appears in the guess history.
func (s State) HasGuessed(c board.Coordinate) bool {
	for _, g := range s.Guesses {
		if g.Coordinate == c {
			return true
		}
	}
	return false
}

func (s State) queued(c board.Coordinate) bool {
	for _, q := range s.Queue {
		if q == c {
			return true
		}
	}
	return false
}

// Next selects the next guess.
//
// In ModeTarget the queue front is popped, skipping entries present in
// exclude, for at most MaxSelectAttempts pops. If the queue runs dry the
// selection falls back to hunting and the mode becomes ModeHunt. Hunting
// samples uniformly over the grid for at most MaxSelectAttempts draws, then
// scans row-major for the first coordinate not in exclude.
//
// Precondition: src must be non-nil.
// Postcondition: On success the returned coordinate is not in exclude and is
// the last entry of the returned state's Guesses. On ErrNoCandidates the
// returned state equals s.
func (s State) Next(exclude board.CoordinateSet, src dice.Source, at time.Time) (State, board.Coordinate, error) {
	ns := s.Clone()

	if ns.Mode == ModeTarget {
		for tries := 0; len(ns.Queue) > 0 && tries < MaxSelectAttempts; tries++ {
			c := ns.Queue[0]
			ns.Queue = ns.Queue[1:]
			if !exclude.Has(c) {
				return ns.record(c, ModeTarget, at), c, nil
			}
		}
		if len(ns.Queue) == 0 {
			ns.Mode = ModeHunt
		}
	}

	for tries := 0; tries < MaxSelectAttempts; tries++ {
		c := board.Coordinate{Row: src.Intn(board.Size), Col: src.Intn(board.Size)}
		if !exclude.Has(c) {
			return ns.record(c, ModeHunt, at), c, nil
		}
	}
	for r := 0; r < board.Size; r++ {
		for col := 0; col < board.Size; col++ {
			c := board.Coordinate{Row: r, Col: col}
			if !exclude.Has(c) {
				return ns.record(c, ModeHunt, at), c, nil
			}
		}
	}
	return s, board.Coordinate{}, ErrNoCandidates
}

// record returns s with c appended to the guess history under mode.
func (s State) record(c board.Coordinate, mode Mode, at time.Time) State {
	s.Guesses = append(s.Guesses, GuessRecord{Coordinate: c, Mode: mode, At: at})
	return s
}

// Advance applies the result of a resolved guess at c.
//
//   - hit and sunk: ModeHunt, queue cleared.
//   - hit, not sunk: ModeTarget; in-bounds orthogonal neighbors of c (up, down,
//     left, right) not already queued and not in Guesses are appended.
//   - miss: ModeHunt when in ModeTarget with an empty queue; otherwise unchanged.
//
// Postcondition: s is not modified. Hits grows by one iff wasHit.
func Advance(s State, c board.Coordinate, wasHit, wasSunk bool, at time.Time) State {
	ns := s.Clone()
	if !wasHit {
		if ns.Mode == ModeTarget && len(ns.Queue) == 0 {
			ns.Mode = ModeHunt
		}
		return ns
	}

	ns.Hits = append(ns.Hits, HitRecord{Coordinate: c, At: at})
	if wasSunk {
		ns.Mode = ModeHunt
		ns.Queue = nil
		return ns
	}

	ns.Mode = ModeTarget
	for _, n := range c.Neighbors() {
		if ns.queued(n) || ns.HasGuessed(n) {
			continue
		}
		ns.Queue = append(ns.Queue, n)
	}
	return ns
}
