// Package player validates and tracks a human's guesses.
package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/cory-johannsen/seabattle/internal/game/board"
)

// DefaultName is used when a player is created with an empty name.
const DefaultName = "Player"

// ErrMalformedInput is returned when input is not exactly two digit characters.
var ErrMalformedInput = errors.New("input must be exactly two digits")

// ErrOutOfBounds is returned when a decoded row or column falls outside the board.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// ErrDuplicateGuess is returned when the player already guessed the coordinate.
var ErrDuplicateGuess = errors.New("coordinate already guessed")

// Guess is one entry in a player's history.
type Guess struct {
	Coordinate board.Coordinate
	At         time.Time
}

// Player tracks one human's guess history. It owns no board; duplicate
// checks here are independent of the target board's guessed set.
//
// Invariant: history holds each coordinate at most once, in guess order.
type Player struct {
	name    string
	history []Guess
	seen    board.CoordinateSet
	now     func() time.Time
}

// New creates a Player with an empty history.
//
// Postcondition: Name() is name, or DefaultName when name is empty.
func New(name string) *Player {
	if name == "" {
		name = DefaultName
	}
	return &Player{
		name: name,
		seen: make(board.CoordinateSet),
		now:  time.Now,
	}
}

// Name returns the player's display name.
func (p *Player) Name() string { return p.name }

// Validate decodes raw into a coordinate and checks it against the history.
//
// Postcondition: Returns the coordinate and nil when raw is exactly two digit
// characters within the board and not yet guessed. Otherwise returns an error
// wrapping ErrMalformedInput, ErrOutOfBounds, or ErrDuplicateGuess; the
// decoded coordinate is also returned alongside ErrDuplicateGuess.
func (p *Player) Validate(raw string) (board.Coordinate, error) {
	if len(raw) != 2 || !isDigit(raw[0]) || !isDigit(raw[1]) {
		return board.Coordinate{}, fmt.Errorf("%w: got %q", ErrMalformedInput, raw)
	}
	c := board.Coordinate{Row: int(raw[0] - '0'), Col: int(raw[1] - '0')}
	if !c.InBounds() {
		return board.Coordinate{}, fmt.Errorf("%w: rows and columns must be between 0 and %d", ErrOutOfBounds, board.Size-1)
	}
	if p.seen.Has(c) {
		return c, fmt.Errorf("%w: %s", ErrDuplicateGuess, c)
	}
	return c, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// RecordGuess appends c to the history unless it is already present.
//
// Postcondition: HasGuessed(c) is true; GuessCount() grows by at most one.
func (p *Player) RecordGuess(c board.Coordinate) {
	if p.seen.Has(c) {
		return
	}
	p.seen.Add(c)
	p.history = append(p.history, Guess{Coordinate: c, At: p.now()})
}

// Submit validates raw and records the coordinate on success.
//
// Postcondition: On nil error the coordinate is in the history.
func (p *Player) Submit(raw string) (board.Coordinate, error) {
	c, err := p.Validate(raw)
	if err != nil {
		return c, err
	}
	p.RecordGuess(c)
	return c, nil
}

// HasGuessed reports whether c is in the history.
func (p *Player) HasGuessed(c board.Coordinate) bool {
	return p.seen.Has(c)
}

// GuessCount returns the number of distinct recorded guesses.
func (p *Player) GuessCount() int {
	return len(p.history)
}

// History returns a copy of the guess history in order.
func (p *Player) History() []Guess {
	return append([]Guess(nil), p.history...)
}

// LastGuess returns the most recent guess, or false when there is none.
func (p *Player) LastGuess() (Guess, bool) {
	if len(p.history) == 0 {
		return Guess{}, false
	}
	return p.history[len(p.history)-1], true
}

// String returns "Player: <name> (<n> guesses)".
func (p *Player) String() string {
	return fmt.Sprintf("Player: %s (%d guesses)", p.name, p.GuessCount())
}
