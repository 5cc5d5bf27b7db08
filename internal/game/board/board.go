package board

import (
	"github.com/cory-johannsen/seabattle/internal/game/dice"
)

// Orientation is the axis a ship extends along from its origin.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Placement reports the result of PlaceShipsRandomly.
type Placement struct {
	Requested int
	Placed    int
	Attempts  int
}

// Complete reports whether every requested ship was placed.
func (p Placement) Complete() bool {
	return p.Placed == p.Requested
}

// GuessKind classifies the resolution of one guess against a board.
type GuessKind int

const (
	GuessMiss GuessKind = iota
	GuessHit
	// GuessAlreadyGuessed means the coordinate was already in the guessed set; nothing changed.
	GuessAlreadyGuessed
	// GuessAlreadyHit means the coordinate lies on a ship segment that was already damaged.
	GuessAlreadyHit
)

// String returns a human-readable guess kind label.
func (k GuessKind) String() string {
	switch k {
	case GuessMiss:
		return "miss"
	case GuessHit:
		return "hit"
	case GuessAlreadyGuessed:
		return "already guessed"
	case GuessAlreadyHit:
		return "already hit"
	default:
		return "unknown"
	}
}

// GuessResult is the outcome of ProcessGuess.
type GuessResult struct {
	Coordinate Coordinate
	Kind       GuessKind
	// Sunk is true only for GuessHit results that completed a ship.
	Sunk bool
}

// IsHit reports whether the guess damaged a ship.
func (r GuessResult) IsHit() bool {
	return r.Kind == GuessHit
}

// Resolved reports whether the guess was a fresh hit or miss. Unresolved
// results (already guessed, already hit) must not consume a turn.
func (r GuessResult) Resolved() bool {
	return r.Kind == GuessHit || r.Kind == GuessMiss
}

// Board owns a grid, a fleet of ships, and the set of coordinates guessed against it.
//
// Invariant: no two ships share a coordinate; each coordinate appears in the
// guessed set at most once. Only PlaceShipsRandomly and ProcessGuess mutate a Board.
type Board struct {
	reveal  bool
	src     dice.Source
	grid    Grid
	ships   []*Ship
	guessed CoordinateSet
}

// NewBoard creates an empty all-water board.
// When reveal is true, ship cells are marked CellShipVisible; otherwise CellShipHidden.
//
// Precondition: src must be non-nil.
func NewBoard(src dice.Source, reveal bool) *Board {
	return &Board{
		reveal:  reveal,
		src:     src,
		guessed: make(CoordinateSet),
	}
}

// PlaceShipsRandomly clears the board and places up to count ships of
// ShipLength cells at random, non-overlapping positions.
//
// Each attempt samples an orientation and an origin that keeps the ship in
// bounds, and is accepted only when every target cell is water. At most
// MaxPlacementAttempts attempts are made across all ships.
//
// Precondition: count >= 0.
// Postcondition: Placed <= count; Complete() is false when the attempt cap was
// exhausted first. No two placed ships overlap.
func (b *Board) PlaceShipsRandomly(count int) Placement {
	b.grid = Grid{}
	b.ships = nil
	b.guessed = make(CoordinateSet)

	p := Placement{Requested: count}
	for p.Placed < count && p.Attempts < MaxPlacementAttempts {
		p.Attempts++

		orientation := Vertical
		if b.src.Bool() {
			orientation = Horizontal
		}
		cells := shipCells(b.randomOrigin(orientation), orientation)
		if !b.canPlace(cells) {
			continue
		}

		ship, err := NewShip(cells...)
		if err != nil {
			continue
		}
		b.ships = append(b.ships, ship)
		b.markShip(ship)
		p.Placed++
	}
	return p
}

// randomOrigin samples an origin so that a ship along o stays in bounds.
func (b *Board) randomOrigin(o Orientation) Coordinate {
	if o == Horizontal {
		return Coordinate{
			Row: b.src.Intn(Size),
			Col: b.src.Intn(Size - ShipLength + 1),
		}
	}
	return Coordinate{
		Row: b.src.Intn(Size - ShipLength + 1),
		Col: b.src.Intn(Size),
	}
}

func shipCells(origin Coordinate, o Orientation) []Coordinate {
	cells := make([]Coordinate, ShipLength)
	for i := range cells {
		if o == Horizontal {
			cells[i] = Coordinate{Row: origin.Row, Col: origin.Col + i}
		} else {
			cells[i] = Coordinate{Row: origin.Row + i, Col: origin.Col}
		}
	}
	return cells
}

func (b *Board) canPlace(cells []Coordinate) bool {
	for _, c := range cells {
		if !c.InBounds() || b.grid[c.Row][c.Col] != CellWater {
			return false
		}
	}
	return true
}

func (b *Board) markShip(s *Ship) {
	mark := CellShipHidden
	if b.reveal {
		mark = CellShipVisible
	}
	for _, c := range s.coords {
		b.grid[c.Row][c.Col] = mark
	}
}

// ProcessGuess resolves a guess at c.
//
// Precondition: c must be in bounds. Panics otherwise.
// Postcondition: GuessAlreadyGuessed leaves the board unchanged. Any other
// result adds c to the guessed set; GuessHit marks the cell CellHit and sets
// Sunk when the strike completed the ship; GuessMiss marks the cell CellMiss.
func (b *Board) ProcessGuess(c Coordinate) GuessResult {
	if !c.InBounds() {
		panic("board: ProcessGuess precondition violated: coordinate " + c.String() + " out of bounds")
	}
	if b.guessed.Has(c) {
		return GuessResult{Coordinate: c, Kind: GuessAlreadyGuessed}
	}
	b.guessed.Add(c)

	for _, s := range b.ships {
		if !s.Contains(c) {
			continue
		}
		if s.Hit(c) == HitAlreadyHit {
			return GuessResult{Coordinate: c, Kind: GuessAlreadyHit}
		}
		b.grid[c.Row][c.Col] = CellHit
		return GuessResult{Coordinate: c, Kind: GuessHit, Sunk: s.IsSunk()}
	}

	b.grid[c.Row][c.Col] = CellMiss
	return GuessResult{Coordinate: c, Kind: GuessMiss}
}

// RemainingShipCount returns the number of ships not yet sunk.
func (b *Board) RemainingShipCount() int {
	n := 0
	for _, s := range b.ships {
		if !s.IsSunk() {
			n++
		}
	}
	return n
}

// AllSunk reports whether every ship on the board has been sunk.
//
// Postcondition: Returns true iff RemainingShipCount() == 0.
func (b *Board) AllSunk() bool {
	return b.RemainingShipCount() == 0
}

// ShipCount returns the number of ships placed on the board.
func (b *Board) ShipCount() int {
	return len(b.ships)
}

// Ships returns independent copies of the board's ships.
func (b *Board) Ships() []*Ship {
	out := make([]*Ship, len(b.ships))
	for i, s := range b.ships {
		out[i] = s.Clone()
	}
	return out
}

// Grid returns a value snapshot of the cells.
func (b *Board) Grid() Grid {
	return b.grid
}

// Cell returns the state at c, or CellWater when c is out of bounds.
func (b *Board) Cell(c Coordinate) Cell {
	return b.grid.At(c)
}

// Guessed returns a copy of the guessed set.
func (b *Board) Guessed() CoordinateSet {
	return b.guessed.Clone()
}

// GuessCount returns the number of resolved guesses.
func (b *Board) GuessCount() int {
	return b.guessed.Len()
}

// HitCount returns the number of ship cells that have been hit.
func (b *Board) HitCount() int {
	n := 0
	for _, s := range b.ships {
		n += s.HitCount()
	}
	return n
}

// Reveals reports whether the board marks its ships visibly.
func (b *Board) Reveals() bool {
	return b.reveal
}
