package grid

// Flags is the per-cell bitset.
// Bits 0..7 carry movement semantics, bits 8..15 are caller-defined tags.
type Flags uint32

// Movement flags.
const (
	FlagWalkable Flags = 1 << 0
	FlagBlocked  Flags = 1 << 1 // hard block, overrides Walkable
	FlagStairs   Flags = 1 << 2
	FlagDoor     Flags = 1 << 3
	FlagOneWayN  Flags = 1 << 4
	FlagOneWayE  Flags = 1 << 5
	FlagOneWayS  Flags = 1 << 6
	FlagOneWayW  Flags = 1 << 7
)

// Tag flags, free for agent classes, zones and other caller semantics.
const (
	FlagTag0 Flags = 1 << (8 + iota)
	FlagTag1
	FlagTag2
	FlagTag3
	FlagTag4
	FlagTag5
	FlagTag6
	FlagTag7
)

// Composite masks.
const (
	OneWayMask = FlagOneWayN | FlagOneWayE | FlagOneWayS | FlagOneWayW
	TagMask    = FlagTag0 | FlagTag1 | FlagTag2 | FlagTag3 | FlagTag4 | FlagTag5 | FlagTag6 | FlagTag7
	AllFlags   = ^Flags(0)
)

// Bit offsets of FlagTag0 and FlagOneWayN.
const (
	TagShift    = 8
	OneWayShift = 4
)

// ImpassableBaseCost marks a cell impassable regardless of cost layers.
const ImpassableBaseCost uint16 = 0xFFFF

// NeutralCost is the base cost of a plain tile: entering it costs exactly one step.
const NeutralCost uint16 = 10

// Cell is the raw per-cell payload stored in chunks.
// Keep it small: a materialized 64x64 chunk holds 4096 of them.
type Cell struct {
	BaseCost  uint16
	Elevation int16
	TerrainID uint16
	Flags     Flags
}

// Walkable returns true if Walkable is set and Blocked is clear.
func (c Cell) Walkable() bool {
	return c.Flags&FlagBlocked == 0 && c.Flags&FlagWalkable != 0
}

// Has reports whether all bits of f are set.
func (c Cell) Has(f Flags) bool {
	return c.Flags&f == f
}

// With returns a copy of c with flags f set.
func (c Cell) With(f Flags) Cell {
	c.Flags |= f
	return c
}

// Without returns a copy of c with flags f cleared.
func (c Cell) Without(f Flags) Cell {
	c.Flags &^= f
	return c
}

// WalkableCell returns a plain walkable cell with neutral cost.
func WalkableCell() Cell {
	return Cell{BaseCost: NeutralCost, Flags: FlagWalkable}
}

// BlockedCell returns a cell that can never be traversed.
func BlockedCell() Cell {
	return Cell{BaseCost: ImpassableBaseCost, Flags: FlagBlocked}
}
