package cost

import (
	"errors"
	"fmt"

	"github.com/udisondev/gridpath/internal/grid"
)

// ErrUnknownShape indicates a zone shape other than cuboid, cylinder or polygon.
var ErrUnknownShape = errors.New("cost: unknown zone shape")

// ErrBadZone indicates zone geometry that cannot describe an area.
var ErrBadZone = errors.New("cost: invalid zone geometry")

// Shape is the geometric kind of a Zone.
type Shape string

const (
	ShapeCuboid   Shape = "cuboid"   // axis-aligned box spanning all nodes
	ShapeCylinder Shape = "cylinder" // circle around the first node
	ShapePolygon  Shape = "polygon"  // closed polygon through the nodes
)

// AnyLevel makes a zone apply on every level.
const AnyLevel = -1

// ZoneSpec describes one zone in cell coordinates.
type ZoneSpec struct {
	Name   string
	Shape  Shape
	Level  int
	Nodes  [][2]int
	Radius int
	Cost   int
	Set    grid.Flags
	Clear  grid.Flags
}

// Zone is a validated area with its cost effect.
type Zone struct {
	name   string
	shape  Shape
	level  int
	nodesX []int
	nodesY []int
	radius int
	minX   int
	minY   int
	maxX   int
	maxY   int
	effect Contribution
}

// NewZone validates spec and precomputes its bounding box.
func NewZone(spec ZoneSpec) (*Zone, error) {
	switch spec.Shape {
	case ShapeCuboid, ShapePolygon, ShapeCylinder:
	default:
		return nil, fmt.Errorf("zone %q shape %q: %w", spec.Name, spec.Shape, ErrUnknownShape)
	}

	need := map[Shape]int{ShapeCuboid: 2, ShapeCylinder: 1, ShapePolygon: 3}[spec.Shape]
	if len(spec.Nodes) < need {
		return nil, fmt.Errorf("zone %q: %s needs %d nodes, got %d: %w",
			spec.Name, spec.Shape, need, len(spec.Nodes), ErrBadZone)
	}
	if spec.Clear == grid.AllFlags {
		return nil, fmt.Errorf("zone %q: clearing every flag: %w", spec.Name, ErrBadZone)
	}
	if spec.Clear&grid.FlagBlocked != 0 {
		return nil, fmt.Errorf("zone %q: cannot clear blocked: %w", spec.Name, ErrBadZone)
	}
	if spec.Shape == ShapeCylinder && spec.Radius <= 0 {
		return nil, fmt.Errorf("zone %q: cylinder radius %d: %w", spec.Name, spec.Radius, ErrBadZone)
	}

	z := &Zone{
		name:   spec.Name,
		shape:  spec.Shape,
		level:  spec.Level,
		radius: spec.Radius,
		nodesX: make([]int, len(spec.Nodes)),
		nodesY: make([]int, len(spec.Nodes)),
		effect: Contribution{Cost: spec.Cost, Or: spec.Set},
	}
	if spec.Clear != 0 {
		z.effect.And = ^spec.Clear
	}

	for i, n := range spec.Nodes {
		z.nodesX[i], z.nodesY[i] = n[0], n[1]
	}
	z.minX, z.maxX = minMax(z.nodesX)
	z.minY, z.maxY = minMax(z.nodesY)
	if spec.Shape == ShapeCylinder {
		cx, cy := z.nodesX[0], z.nodesY[0]
		z.minX, z.maxX = cx-z.radius, cx+z.radius
		z.minY, z.maxY = cy-z.radius, cy+z.radius
	}
	return z, nil
}

// Name returns the zone name.
func (z *Zone) Name() string { return z.name }

// Contains reports whether (level, x, y) is inside the zone.
// Points on a polygon edge count as inside.
func (z *Zone) Contains(level, x, y int) bool {
	if z.level != AnyLevel && z.level != level {
		return false
	}
	if x < z.minX || x > z.maxX || y < z.minY || y > z.maxY {
		return false
	}

	switch z.shape {
	case ShapeCuboid:
		return true
	case ShapeCylinder:
		dx := int64(x - z.nodesX[0])
		dy := int64(y - z.nodesY[0])
		r := int64(z.radius)
		return dx*dx+dy*dy <= r*r
	default:
		return z.containsPolygon(x, y)
	}
}

// containsPolygon is a ray-casting point-in-polygon test.
func (z *Zone) containsPolygon(x, y int) bool {
	n := len(z.nodesX)
	count := 0
	j := n - 1

	for i := range n {
		xi, yi := z.nodesX[i], z.nodesY[i]
		xj, yj := z.nodesX[j], z.nodesY[j]
		if (yi > y) != (yj > y) {
			slope := int64(x-xi)*int64(yj-yi) - int64(xj-xi)*int64(y-yi)
			if slope == 0 {
				return true
			}
			if (slope < 0) != (yj-yi < 0) {
				count++
			}
		} else if yi == y && yj == y && x >= min(xi, xj) && x <= max(xi, xj) {
			// horizontal edge
			return true
		}
		j = i
	}

	return count%2 == 1
}

func minMax(v []int) (lo, hi int) {
	lo, hi = v[0], v[0]
	for _, n := range v[1:] {
		lo = min(lo, n)
		hi = max(hi, n)
	}
	return lo, hi
}

// zoneBucketSize is the side, in cells, of one spatial index bucket.
const zoneBucketSize = 32

type bucketKey struct {
	bx, by int
}

// ZoneLayer applies every zone containing a cell, in registration order.
// Zones are bucketed by bounding box so lookups only test nearby zones.
type ZoneLayer struct {
	name    string
	zones   []*Zone
	buckets map[bucketKey][]*Zone
}

// NewZoneLayer builds the layer and its spatial index.
func NewZoneLayer(name string, specs ...ZoneSpec) (*ZoneLayer, error) {
	l := &ZoneLayer{
		name:    name,
		buckets: make(map[bucketKey][]*Zone),
	}
	for _, spec := range specs {
		z, err := NewZone(spec)
		if err != nil {
			return nil, fmt.Errorf("zone layer %q: %w", name, err)
		}
		l.add(z)
	}
	return l, nil
}

func (l *ZoneLayer) add(z *Zone) {
	l.zones = append(l.zones, z)
	for by := floorDiv(z.minY, zoneBucketSize); by <= floorDiv(z.maxY, zoneBucketSize); by++ {
		for bx := floorDiv(z.minX, zoneBucketSize); bx <= floorDiv(z.maxX, zoneBucketSize); bx++ {
			key := bucketKey{bx: bx, by: by}
			l.buckets[key] = append(l.buckets[key], z)
		}
	}
}

// Name implements Layer.
func (l *ZoneLayer) Name() string { return l.name }

// Zones returns the zones in registration order.
func (l *ZoneLayer) Zones() []*Zone { return l.zones }

// ZonesAt returns the zones containing (level, x, y).
func (l *ZoneLayer) ZonesAt(level, x, y int) []*Zone {
	var out []*Zone
	for _, z := range l.buckets[bucketKey{bx: floorDiv(x, zoneBucketSize), by: floorDiv(y, zoneBucketSize)}] {
		if z.Contains(level, x, y) {
			out = append(out, z)
		}
	}
	return out
}

// Apply implements Layer. Overlapping zones add their costs, OR their set
// flags and AND their clear masks.
func (l *ZoneLayer) Apply(q Query) Contribution {
	var out Contribution
	for _, z := range l.buckets[bucketKey{bx: floorDiv(q.X, zoneBucketSize), by: floorDiv(q.Y, zoneBucketSize)}] {
		if !z.Contains(q.Level, q.X, q.Y) {
			continue
		}
		out.Cost += z.effect.Cost
		out.Or |= z.effect.Or
		if z.effect.And != 0 {
			if out.And == 0 {
				out.And = grid.AllFlags
			}
			out.And &= z.effect.And
		}
	}
	return out
}

func floorDiv(a, b int) int {
	d := a / b
	if (a^b) < 0 && d*b != a {
		d--
	}
	return d
}
