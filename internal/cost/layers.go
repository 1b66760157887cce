package cost

import "github.com/udisondev/gridpath/internal/grid"

type cellKey struct {
	level, x, y int
}

// ObstacleLayer marks individual cells Blocked through a membership set.
type ObstacleLayer struct {
	name    string
	blocked map[cellKey]struct{}
}

// NewObstacleLayer returns an empty obstacle layer.
func NewObstacleLayer(name string) *ObstacleLayer {
	return &ObstacleLayer{name: name, blocked: make(map[cellKey]struct{})}
}

// Name implements Layer.
func (l *ObstacleLayer) Name() string { return l.name }

// SetBlocked adds or removes (level, x, y) from the set.
func (l *ObstacleLayer) SetBlocked(level, x, y int, blocked bool) {
	key := cellKey{level: level, x: x, y: y}
	if blocked {
		l.blocked[key] = struct{}{}
		return
	}
	delete(l.blocked, key)
}

// IsBlocked reports whether the layer blocks (level, x, y).
func (l *ObstacleLayer) IsBlocked(level, x, y int) bool {
	_, ok := l.blocked[cellKey{level: level, x: x, y: y}]
	return ok
}

// Len returns the number of blocked cells.
func (l *ObstacleLayer) Len() int { return len(l.blocked) }

// Apply implements Layer.
func (l *ObstacleLayer) Apply(q Query) Contribution {
	if _, ok := l.blocked[cellKey{level: q.Level, x: q.X, y: q.Y}]; ok {
		return Contribution{Or: grid.FlagBlocked}
	}
	return Contribution{}
}

// TerrainLayer adds a per-terrain cost and can block whole terrain kinds.
type TerrainLayer struct {
	name    string
	costs   map[uint16]int
	blocked map[uint16]struct{}
}

// NewTerrainLayer returns a layer adding costs[cell.TerrainID] to each cell.
// Terrain ids listed in blocked are impassable.
func NewTerrainLayer(name string, costs map[uint16]int, blocked ...uint16) *TerrainLayer {
	l := &TerrainLayer{
		name:    name,
		costs:   make(map[uint16]int, len(costs)),
		blocked: make(map[uint16]struct{}, len(blocked)),
	}
	for id, c := range costs {
		l.costs[id] = c
	}
	for _, id := range blocked {
		l.blocked[id] = struct{}{}
	}
	return l
}

// Name implements Layer.
func (l *TerrainLayer) Name() string { return l.name }

// Apply implements Layer.
func (l *TerrainLayer) Apply(q Query) Contribution {
	id := q.Cell.TerrainID
	if _, ok := l.blocked[id]; ok {
		return Contribution{Or: grid.FlagBlocked}
	}
	return Contribution{Cost: l.costs[id]}
}

// ProfileLayer adapts the grid to one agent class: cells carrying any
// Forbidden flag are blocked, cells carrying any Avoid flag cost AvoidCost more.
type ProfileLayer struct {
	name      string
	Forbidden grid.Flags
	Avoid     grid.Flags
	AvoidCost int
}

// NewProfileLayer returns a profile layer.
func NewProfileLayer(name string, forbidden, avoid grid.Flags, avoidCost int) *ProfileLayer {
	return &ProfileLayer{name: name, Forbidden: forbidden, Avoid: avoid, AvoidCost: avoidCost}
}

// Name implements Layer.
func (l *ProfileLayer) Name() string { return l.name }

// Apply implements Layer.
func (l *ProfileLayer) Apply(q Query) Contribution {
	flags := q.Cell.Flags
	if flags&l.Forbidden != 0 {
		return Contribution{Or: grid.FlagBlocked}
	}
	if flags&l.Avoid != 0 {
		return Contribution{Cost: l.AvoidCost}
	}
	return Contribution{}
}

// LayerFunc adapts a plain function to the Layer interface.
type LayerFunc struct {
	LayerName string
	Fn        func(q Query) Contribution
}

// Name implements Layer.
func (f LayerFunc) Name() string { return f.LayerName }

// Apply implements Layer.
func (f LayerFunc) Apply(q Query) Contribution { return f.Fn(q) }
