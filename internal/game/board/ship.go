package board

import (
	"fmt"
	"strings"
)

// HitResult is the outcome of striking a ship at one coordinate.
type HitResult int

const (
	// HitApplied means the coordinate belonged to the ship and was undamaged.
	HitApplied HitResult = iota
	// HitAlreadyHit means the coordinate was already marked hit; nothing changed.
	HitAlreadyHit
	// HitNotPartOfShip means the coordinate is not one of the ship's cells.
	HitNotPartOfShip
)

// String returns a human-readable hit result label.
func (r HitResult) String() string {
	switch r {
	case HitApplied:
		return "applied"
	case HitAlreadyHit:
		return "already hit"
	case HitNotPartOfShip:
		return "not part of ship"
	default:
		return "unknown"
	}
}

// Ship tracks damage over a fixed, ordered set of coordinates.
//
// Invariant: len(hits) == len(coords); each coordinate is marked hit at most once.
type Ship struct {
	coords []Coordinate
	hits   []bool
}

// NewShip creates an undamaged ship over coords.
//
// Precondition: coords must be non-empty, distinct, and in bounds.
// Postcondition: Returns a Ship with HealthRemaining() == len(coords), or an error.
func NewShip(coords ...Coordinate) (*Ship, error) {
	if len(coords) == 0 {
		return nil, fmt.Errorf("board: ship must have at least one coordinate")
	}
	seen := make(CoordinateSet, len(coords))
	for _, c := range coords {
		if !c.InBounds() {
			return nil, fmt.Errorf("board: ship coordinate %v out of bounds", c)
		}
		if seen.Has(c) {
			return nil, fmt.Errorf("board: duplicate ship coordinate %s", c)
		}
		seen.Add(c)
	}
	return &Ship{
		coords: append([]Coordinate(nil), coords...),
		hits:   make([]bool, len(coords)),
	}, nil
}

func (s *Ship) indexOf(c Coordinate) int {
	for i, sc := range s.coords {
		if sc == c {
			return i
		}
	}
	return -1
}

// Hit marks c as hit.
//
// Postcondition: Returns HitApplied and marks c on the first strike at a ship
// coordinate; HitAlreadyHit with no change on repeat strikes; HitNotPartOfShip
// when c is not a ship coordinate.
func (s *Ship) Hit(c Coordinate) HitResult {
	i := s.indexOf(c)
	if i < 0 {
		return HitNotPartOfShip
	}
	if s.hits[i] {
		return HitAlreadyHit
	}
	s.hits[i] = true
	return HitApplied
}

// Contains reports whether c is one of the ship's coordinates.
func (s *Ship) Contains(c Coordinate) bool {
	return s.indexOf(c) >= 0
}

// IsHitAt reports whether c is a ship coordinate that has been hit.
func (s *Ship) IsHitAt(c Coordinate) bool {
	i := s.indexOf(c)
	return i >= 0 && s.hits[i]
}

// HitCount returns the number of damaged coordinates.
func (s *Ship) HitCount() int {
	n := 0
	for _, h := range s.hits {
		if h {
			n++
		}
	}
	return n
}

// HealthRemaining returns the number of undamaged coordinates.
//
// Postcondition: Returns len(Coordinates()) - HitCount().
func (s *Ship) HealthRemaining() int {
	return len(s.coords) - s.HitCount()
}

// IsSunk reports whether every coordinate has been hit.
func (s *Ship) IsSunk() bool {
	return s.HealthRemaining() == 0
}

// Coordinates returns a copy of the ship's coordinates in placement order.
func (s *Ship) Coordinates() []Coordinate {
	return append([]Coordinate(nil), s.coords...)
}

// Clone returns an independent copy including damage.
func (s *Ship) Clone() *Ship {
	return &Ship{
		coords: append([]Coordinate(nil), s.coords...),
		hits:   append([]bool(nil), s.hits...),
	}
}

// String renders the ship as "Ship[22,23,24] - 2/3", or "SUNK" in place of health.
func (s *Ship) String() string {
	parts := make([]string, len(s.coords))
	for i, c := range s.coords {
		parts[i] = c.String()
	}
	status := "SUNK"
	if !s.IsSunk() {
		status = fmt.Sprintf("%d/%d", s.HealthRemaining(), len(s.coords))
	}
	return fmt.Sprintf("Ship[%s] - %s", strings.Join(parts, ","), status)
}
