package grid

import (
	"fmt"
	"math"
)

// EditType selects how an EditCommand rewrites cells.
type EditType uint8

const (
	EditSetWalkable EditType = iota // Value != 0 sets Walkable, 0 clears it
	EditSetBlocked                  // Value != 0 sets Blocked, 0 clears it
	EditSetCost                     // BaseCost = Value, clamped to uint16
	EditSetTerrain                  // TerrainID = Value, clamped to uint16
	EditAddTags                     // Value bit i sets FlagTag<i>
	EditRemoveTags                  // Value bit i clears FlagTag<i>
	EditSetOneWay                   // Value bits N=1 E=2 S=4 W=8 replace the one-way bits
)

var editNames = [...]string{
	EditSetWalkable: "set_walkable",
	EditSetBlocked:  "set_blocked",
	EditSetCost:     "set_cost",
	EditSetTerrain:  "set_terrain",
	EditAddTags:     "add_tags",
	EditRemoveTags:  "remove_tags",
	EditSetOneWay:   "set_one_way",
}

func (t EditType) String() string {
	if int(t) < len(editNames) {
		return editNames[t]
	}
	return fmt.Sprintf("EditType(%d)", t)
}

// ParseEditType maps a config name such as "set_cost" to its EditType.
func ParseEditType(name string) (EditType, error) {
	for i, n := range editNames {
		if n == name {
			return EditType(i), nil
		}
	}
	return 0, fmt.Errorf("parse edit type %q: %w", name, ErrUnknownEdit)
}

// EditCommand rewrites the closed rectangle [Min..Max] of one level.
type EditCommand struct {
	Type       EditType
	MinX, MinY int
	MaxX, MaxY int
	Value      int
}

// ApplyEdit clips cmd to the declared bounds and paints it onto the level.
// It returns how many cells actually changed.
func (g *Grid) ApplyEdit(level int, cmd EditCommand) (int, error) {
	l := g.Level(level)
	if l == nil {
		return 0, fmt.Errorf("apply edit on level %d: %w", level, ErrInvalidLevel)
	}
	fn, err := cmd.painter()
	if err != nil {
		return 0, err
	}

	x0, x1 := min(cmd.MinX, cmd.MaxX), max(cmd.MinX, cmd.MaxX)
	y0, y1 := min(cmd.MinY, cmd.MaxY), max(cmd.MinY, cmd.MaxY)
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, g.width-1), min(y1, g.height-1)
	if x0 > x1 || y0 > y1 {
		return 0, nil
	}

	changed := 0
	l.PaintRect(x0, y0, x1, y1, func(c Cell) Cell {
		next := fn(c)
		if next != c {
			changed++
		}
		return next
	})
	return changed, nil
}

func (cmd EditCommand) painter() (func(Cell) Cell, error) {
	v := cmd.Value
	switch cmd.Type {
	case EditSetWalkable:
		return toggle(FlagWalkable, v != 0), nil
	case EditSetBlocked:
		return toggle(FlagBlocked, v != 0), nil
	case EditSetCost:
		cost := clampUint16(v)
		return func(c Cell) Cell { c.BaseCost = cost; return c }, nil
	case EditSetTerrain:
		id := clampUint16(v)
		return func(c Cell) Cell { c.TerrainID = id; return c }, nil
	case EditAddTags:
		tags := Flags(v<<TagShift) & TagMask
		return func(c Cell) Cell { return c.With(tags) }, nil
	case EditRemoveTags:
		tags := Flags(v<<TagShift) & TagMask
		return func(c Cell) Cell { return c.Without(tags) }, nil
	case EditSetOneWay:
		dirs := Flags(v<<OneWayShift) & OneWayMask
		return func(c Cell) Cell { c.Flags = c.Flags&^OneWayMask | dirs; return c }, nil
	default:
		return nil, fmt.Errorf("apply edit %s: %w", cmd.Type, ErrUnknownEdit)
	}
}

func toggle(f Flags, on bool) func(Cell) Cell {
	if on {
		return func(c Cell) Cell { return c.With(f) }
	}
	return func(c Cell) Cell { return c.Without(f) }
}

func clampUint16(v int) uint16 {
	return uint16(min(max(v, 0), math.MaxUint16))
}
