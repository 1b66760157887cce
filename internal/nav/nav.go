// Package nav enumerates grid neighbors and applies the movement rules shared
// by every planner: connectivity, one-way passages and corner cutting.
package nav

import (
	"fmt"

	"github.com/udisondev/gridpath/internal/grid"
)

// Connectivity selects which offsets count as adjacent.
type Connectivity uint8

const (
	Conn4 Connectivity = 4
	Conn8 Connectivity = 8
)

// String returns "4" or "8".
func (c Connectivity) String() string {
	return fmt.Sprintf("%d", uint8(c))
}

// Neighbor is one candidate move target.
type Neighbor struct {
	X, Y     int
	Diagonal bool
}

// Offset is a unit move.
type Offset struct {
	DX, DY   int
	Diagonal bool
}

// Cardinals are listed first, diagonals after. North is dy = -1.
var offsets = [8]Offset{
	{1, 0, false},  // E
	{-1, 0, false}, // W
	{0, 1, false},  // S
	{0, -1, false}, // N
	{1, 1, true},   // SE
	{1, -1, true},  // NE
	{-1, 1, true},  // SW
	{-1, -1, true}, // NW
}

// Offsets returns the move offsets for conn, in enumeration order.
func Offsets(conn Connectivity) []Offset {
	if conn == Conn8 {
		return offsets[:]
	}
	return offsets[:4]
}

// Neighbors returns the neighbors of (x, y). No bounds are applied.
func Neighbors(x, y int, conn Connectivity) []Neighbor {
	return AppendNeighbors(make([]Neighbor, 0, 8), x, y, conn)
}

// AppendNeighbors appends the neighbors of (x, y) to dst.
func AppendNeighbors(dst []Neighbor, x, y int, conn Connectivity) []Neighbor {
	for _, o := range Offsets(conn) {
		dst = append(dst, Neighbor{X: x + o.DX, Y: y + o.DY, Diagonal: o.Diagonal})
	}
	return dst
}

// oneWayBit maps a cardinal direction to its one-way flag.
func oneWayBit(dx, dy int) grid.Flags {
	switch {
	case dx == 0 && dy == -1:
		return grid.FlagOneWayN
	case dx == 1 && dy == 0:
		return grid.FlagOneWayE
	case dx == 0 && dy == 1:
		return grid.FlagOneWayS
	case dx == -1 && dy == 0:
		return grid.FlagOneWayW
	}
	return 0
}

// PassesOneWay reports whether leaving a cell with flags from in direction
// (dx, dy) is allowed. A cell without one-way bits is unrestricted.
// Diagonal moves are not restricted.
func PassesOneWay(from grid.Flags, dx, dy int) bool {
	if from&grid.OneWayMask == 0 {
		return true
	}
	bit := oneWayBit(dx, dy)
	if bit == 0 {
		return true
	}
	return from&bit != 0
}

// CutsCorner reports whether the diagonal move (dx, dy) from (x, y) slips
// between two cells where at least one is not walkable.
// Cardinal moves never cut corners.
func CutsCorner(x, y, dx, dy int, walkable func(x, y int) bool) bool {
	if dx == 0 || dy == 0 {
		return false
	}
	return !walkable(x+dx, y) || !walkable(x, y+dy)
}

// Policy bundles the movement rules for one search.
type Policy struct {
	Conn                Connectivity
	ForbidCornerCutting bool
}

// Allows reports whether moving by o from (x, y), a cell with flags from, is
// legal. walkable is consulted only for diagonal corner checks.
func (p Policy) Allows(x, y int, from grid.Flags, o Offset, walkable func(x, y int) bool) bool {
	if o.Diagonal && p.Conn != Conn8 {
		return false
	}
	if !PassesOneWay(from, o.DX, o.DY) {
		return false
	}
	if o.Diagonal && p.ForbidCornerCutting && CutsCorner(x, y, o.DX, o.DY, walkable) {
		return false
	}
	return true
}
