package cost

import "github.com/udisondev/gridpath/internal/grid"

// View reads a grid through one compositor. It is what the planner searches.
type View struct {
	grid *grid.Grid
	comp *Compositor
}

// NewView binds g and c. Several views may share one grid.
func NewView(g *grid.Grid, c *Compositor) *View {
	return &View{grid: g, comp: c}
}

// Grid returns the underlying store.
func (v *View) Grid() *grid.Grid { return v.grid }

// Compositor returns the layer stack used by this view.
func (v *View) Compositor() *Compositor { return v.comp }

// Width returns the declared grid width.
func (v *View) Width() int { return v.grid.Width() }

// Height returns the declared grid height.
func (v *View) Height() int { return v.grid.Height() }

// Levels returns the number of grid levels.
func (v *View) Levels() int { return v.grid.Levels() }

// Cost returns the effective cost and flags of (level, x, y).
// Unknown levels and out-of-bounds cells are Impassable.
func (v *View) Cost(level, x, y int) (int, grid.Flags) {
	l := v.grid.Level(level)
	if l == nil || !v.grid.InBounds(x, y) {
		return Impassable, 0
	}
	return v.comp.EffectiveCost(level, x, y, l.Get(x, y))
}

// Walkable reports whether (level, x, y) can be entered after composition.
func (v *View) Walkable(level, x, y int) bool {
	return Passable(v.Cost(level, x, y))
}
