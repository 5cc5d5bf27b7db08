package board

// Cell is the state of one grid position.
type Cell int

const (
	CellWater Cell = iota
	CellShipHidden
	CellShipVisible
	CellHit
	CellMiss
)

// String returns a human-readable cell label.
func (c Cell) String() string {
	switch c {
	case CellWater:
		return "water"
	case CellShipHidden:
		return "ship (hidden)"
	case CellShipVisible:
		return "ship"
	case CellHit:
		return "hit"
	case CellMiss:
		return "miss"
	default:
		return "unknown"
	}
}

// HasShip reports whether an undamaged ship segment occupies the cell.
func (c Cell) HasShip() bool {
	return c == CellShipHidden || c == CellShipVisible
}

// Grid is a value snapshot of a board's cells, indexed [row][col].
type Grid [Size][Size]Cell

// At returns the cell at c, or CellWater when c is out of bounds.
func (g Grid) At(c Coordinate) Cell {
	if !c.InBounds() {
		return CellWater
	}
	return g[c.Row][c.Col]
}
