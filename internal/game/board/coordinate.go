// Package board implements the sea battle fleet model: coordinates, ships,
// randomized non-overlapping placement, and guess resolution.
package board

import (
	"fmt"
	"sort"
	"strings"
)

// Fixed geometry of every board.
const (
	// Size is the number of rows and columns.
	Size = 10
	// ShipLength is the number of cells every ship occupies.
	ShipLength = 3
	// MaxPlacementAttempts bounds the total sampling attempts of one PlaceShipsRandomly call.
	MaxPlacementAttempts = 1000
)

// Coordinate is a (row, column) position on a board.
type Coordinate struct {
	Row int
	Col int
}

// InBounds reports whether c lies on a Size×Size board.
//
// Postcondition: Returns true iff 0 <= Row < Size and 0 <= Col < Size.
func (c Coordinate) InBounds() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// String returns the canonical two-digit form, row then column.
//
// Precondition: c must be in bounds for the output to round-trip through ParseCoordinate.
func (c Coordinate) String() string {
	return fmt.Sprintf("%d%d", c.Row, c.Col)
}

// Neighbors returns the in-bounds orthogonal neighbors of c in the order
// up, down, left, right.
func (c Coordinate) Neighbors() []Coordinate {
	candidates := [4]Coordinate{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
	out := make([]Coordinate, 0, len(candidates))
	for _, n := range candidates {
		if n.InBounds() {
			out = append(out, n)
		}
	}
	return out
}

// MustParse parses the canonical two-digit form and panics on error.
// Useful for test tables and package-level values.
func MustParse(s string) Coordinate {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		panic("board: MustParse failed for coordinate " + s)
	}
	return Coordinate{Row: int(s[0] - '0'), Col: int(s[1] - '0')}
}

// CoordinateSet is an unordered set of coordinates.
type CoordinateSet map[Coordinate]struct{}

// NewCoordinateSet returns a set containing coords.
func NewCoordinateSet(coords ...Coordinate) CoordinateSet {
	s := make(CoordinateSet, len(coords))
	for _, c := range coords {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether c is in the set. A nil set contains nothing.
func (s CoordinateSet) Has(c Coordinate) bool {
	_, ok := s[c]
	return ok
}

// Add inserts c into the set.
func (s CoordinateSet) Add(c Coordinate) {
	s[c] = struct{}{}
}

// Len returns the number of coordinates in the set.
func (s CoordinateSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s CoordinateSet) Clone() CoordinateSet {
	out := make(CoordinateSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Sorted returns the coordinates in row-major order.
func (s CoordinateSet) Sorted() []Coordinate {
	out := make([]Coordinate, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// String renders the set as comma-separated canonical coordinates in row-major order.
func (s CoordinateSet) String() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = c.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
