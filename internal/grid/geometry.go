package grid

import (
	"fmt"
	"math"
)

// Geometry maps world-space XY positions onto cells.
// Origin is the world position of the min corner of cell (0, 0).
type Geometry struct {
	cellSize float64
	originX  float64
	originY  float64
}

// NewGeometry returns a Geometry; cellSize must be positive.
func NewGeometry(cellSize, originX, originY float64) (Geometry, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return Geometry{}, fmt.Errorf("new geometry cell size %v: %w", cellSize, ErrInvalidCellSize)
	}
	return Geometry{cellSize: cellSize, originX: originX, originY: originY}, nil
}

// CellSize returns the world length of one cell edge.
func (g Geometry) CellSize() float64 { return g.cellSize }

// WorldToCell returns the cell containing the world position.
func (g Geometry) WorldToCell(wx, wy float64) (x, y int) {
	x = int(math.Floor((wx - g.originX) / g.cellSize))
	y = int(math.Floor((wy - g.originY) / g.cellSize))
	return x, y
}

// CellToWorldCenter returns the world position of the cell center.
func (g Geometry) CellToWorldCenter(x, y int) (wx, wy float64) {
	wx = g.originX + (float64(x)+0.5)*g.cellSize
	wy = g.originY + (float64(y)+0.5)*g.cellSize
	return wx, wy
}

// Index returns the row-major index of (x, y) in a grid of the given width.
func Index(x, y, width int) int {
	return y*width + x
}
