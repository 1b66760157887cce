package pathfind

import (
	"fmt"
	"math"
)

// Heuristic selects the distance estimate used to order the open list.
// The zero value is Octile.
type Heuristic uint8

const (
	Octile Heuristic = iota
	Manhattan
	Euclidean
)

var heuristicNames = [...]string{
	Octile:    "octile",
	Manhattan: "manhattan",
	Euclidean: "euclidean",
}

// String returns the lowercase heuristic name.
func (h Heuristic) String() string {
	if int(h) < len(heuristicNames) {
		return heuristicNames[h]
	}
	return fmt.Sprintf("Heuristic(%d)", uint8(h))
}

// ParseHeuristic resolves a name produced by String. Empty means Octile.
func ParseHeuristic(s string) (Heuristic, error) {
	if s == "" {
		return Octile, nil
	}
	for i, name := range heuristicNames {
		if name == s {
			return Heuristic(i), nil
		}
	}
	return 0, fmt.Errorf("unknown heuristic %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (h Heuristic) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Heuristic) UnmarshalText(b []byte) error {
	v, err := ParseHeuristic(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Estimate returns the fixed-point distance estimate between two cells.
// Manhattan is admissible only without diagonals; nothing checks the pairing.
// Euclidean can exceed the 10/14 octile cost on long diagonals.
func (h Heuristic) Estimate(ax, ay, bx, by int) int {
	dx := abs(ax - bx)
	dy := abs(ay - by)
	switch h {
	case Manhattan:
		return OrthogonalStep * (dx + dy)
	case Euclidean:
		return int(OrthogonalStep * math.Sqrt(float64(dx*dx+dy*dy)))
	default:
		return OrthogonalStep*max(dx, dy) + (DiagonalStep-OrthogonalStep)*min(dx, dy)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
