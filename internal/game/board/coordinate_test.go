package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/seabattle/internal/game/board"
)

func TestCoordinate_StringRoundTrip(t *testing.T) {
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			coord := board.Coordinate{Row: r, Col: c}
			assert.Equal(t, coord, board.MustParse(coord.String()))
		}
	}
}

func TestCoordinate_InBounds(t *testing.T) {
	assert.True(t, board.Coordinate{Row: 0, Col: 0}.InBounds())
	assert.True(t, board.Coordinate{Row: 9, Col: 9}.InBounds())
	assert.False(t, board.Coordinate{Row: -1, Col: 0}.InBounds())
	assert.False(t, board.Coordinate{Row: 0, Col: 10}.InBounds())
}

func TestCoordinate_NeighborsOrder(t *testing.T) {
	assert.Equal(t, []board.Coordinate{
		board.MustParse("12"), board.MustParse("32"), board.MustParse("21"), board.MustParse("23"),
	}, board.MustParse("22").Neighbors())
}

func TestCoordinate_NeighborsClippedAtCorner(t *testing.T) {
	assert.Equal(t, []board.Coordinate{board.MustParse("10"), board.MustParse("01")}, board.MustParse("00").Neighbors())
	assert.Equal(t, []board.Coordinate{board.MustParse("89"), board.MustParse("98")}, board.MustParse("99").Neighbors())
}

func TestMustParse_PanicsOnGarbage(t *testing.T) {
	assert.Panics(t, func() { board.MustParse("a1") })
	assert.Panics(t, func() { board.MustParse("123") })
}

func TestCoordinateSet(t *testing.T) {
	s := board.NewCoordinateSet(board.MustParse("33"), board.MustParse("01"))
	assert.True(t, s.Has(board.MustParse("01")))
	assert.False(t, s.Has(board.MustParse("10")))
	assert.Equal(t, "{01,33}", s.String())

	clone := s.Clone()
	clone.Add(board.MustParse("10"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, clone.Len())

	var empty board.CoordinateSet
	assert.False(t, empty.Has(board.MustParse("00")))
}

func TestGrid_AtOutOfBoundsIsWater(t *testing.T) {
	var g board.Grid
	g[0][0] = board.CellMiss
	assert.Equal(t, board.CellMiss, g.At(board.MustParse("00")))
	assert.Equal(t, board.CellWater, g.At(board.Coordinate{Row: 11, Col: 3}))
}
