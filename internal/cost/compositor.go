// Package cost composes effective traversal costs from stored cells and an
// ordered list of rule layers (obstacles, terrain, zones, expressions).
//
// Layers never touch stored cell data, so several cost profiles can be
// evaluated against the same grid by building one Compositor per profile.
package cost

import (
	"math"

	"github.com/udisondev/gridpath/internal/grid"
)

// Impassable is the effective cost of a cell that can never be entered.
const Impassable = math.MaxInt32

// Query is the input handed to every layer.
type Query struct {
	Level int
	X, Y  int
	Cell  grid.Cell
}

// Contribution is a layer's effect on one cell.
// And == 0 means the layer applies no mask.
type Contribution struct {
	Cost int
	Or   grid.Flags
	And  grid.Flags
}

// Layer is one named cost rule. Apply must not mutate grid state.
type Layer interface {
	Name() string
	Apply(q Query) Contribution
}

// Compositor owns the ordered layer lists.
// Shared layers apply on every level; level layers run after them.
type Compositor struct {
	shared  []Layer
	byLevel map[int][]Layer
}

// NewCompositor returns a compositor with the given shared layers, in order.
func NewCompositor(layers ...Layer) *Compositor {
	return &Compositor{
		shared:  append([]Layer(nil), layers...),
		byLevel: make(map[int][]Layer),
	}
}

// Add appends a layer applied on every level.
func (c *Compositor) Add(layer Layer) {
	c.shared = append(c.shared, layer)
}

// AddForLevel appends a layer applied only on the given level.
func (c *Compositor) AddForLevel(level int, layer Layer) {
	c.byLevel[level] = append(c.byLevel[level], layer)
}

// Replace swaps the shared layer list. Only call it between query batches.
func (c *Compositor) Replace(layers ...Layer) {
	c.shared = append([]Layer(nil), layers...)
}

// Layers returns the effective layer order for a level.
func (c *Compositor) Layers(level int) []Layer {
	out := make([]Layer, 0, len(c.shared)+len(c.byLevel[level]))
	out = append(out, c.shared...)
	return append(out, c.byLevel[level]...)
}

// IsWalkable reports whether the raw cell is walkable, ignoring layers.
func (c *Compositor) IsWalkable(cell grid.Cell) bool {
	return cell.Walkable()
}

// EffectiveCost folds all layers over the cell.
// The running cost is clamped to [0, Impassable]. A cell stored Blocked, an
// impassable base cost or a Blocked result always yields Impassable; layers
// cannot reopen a stored Blocked cell.
func (c *Compositor) EffectiveCost(level, x, y int, cell grid.Cell) (int, grid.Flags) {
	total := int(cell.BaseCost)
	flags := cell.Flags

	q := Query{Level: level, X: x, Y: y, Cell: cell}
	total, flags = apply(c.shared, q, total, flags)
	if extra := c.byLevel[level]; len(extra) > 0 {
		total, flags = apply(extra, q, total, flags)
	}

	if cell.Flags&grid.FlagBlocked != 0 {
		return Impassable, flags | grid.FlagBlocked
	}
	if cell.BaseCost == grid.ImpassableBaseCost || flags&grid.FlagBlocked != 0 {
		return Impassable, flags
	}
	return total, flags
}

func apply(layers []Layer, q Query, total int, flags grid.Flags) (int, grid.Flags) {
	for _, l := range layers {
		contrib := l.Apply(q)
		total = min(max(total+contrib.Cost, 0), Impassable)
		mask := contrib.And
		if mask == 0 {
			mask = grid.AllFlags
		}
		flags = (flags | contrib.Or) & mask
	}
	return total, flags
}

// Passable reports whether a composed (cost, flags) pair may be entered.
func Passable(cost int, flags grid.Flags) bool {
	return cost < Impassable && flags&grid.FlagBlocked == 0 && flags&grid.FlagWalkable != 0
}
