package testutil

import (
	"testing"

	"github.com/udisondev/gridpath/internal/cost"
	"github.com/udisondev/gridpath/internal/grid"
)

// OpenGrid возвращает полностью проходимую сетку w×h с базовой стоимостью 10.
func OpenGrid(tb testing.TB, w, h int) *grid.Grid {
	tb.Helper()

	g, err := grid.New(grid.DefaultConfig(w, h))
	if err != nil {
		tb.Fatalf("grid.New(%d, %d): %v", w, h, err)
	}
	return g
}

// ParseGrid builds a single-level grid from an ASCII map, one string per row:
//
//	.  walkable, cost 10
//	#  blocked
//	1-9  walkable, cost n*10
//	^ > v <  walkable, one-way N, E, S, W
//
// Rows must have equal length.
func ParseGrid(tb testing.TB, rows ...string) *grid.Grid {
	tb.Helper()

	if len(rows) == 0 {
		tb.Fatal("ParseGrid: no rows")
	}
	w := len(rows[0])
	g := OpenGrid(tb, w, len(rows))
	lvl := g.Level(0)

	for y, row := range rows {
		if len(row) != w {
			tb.Fatalf("ParseGrid: row %d has width %d, want %d", y, len(row), w)
		}
		for x, ch := range []byte(row) {
			c := grid.WalkableCell()
			switch {
			case ch == '.':
				continue
			case ch == '#':
				c = grid.BlockedCell()
			case ch >= '1' && ch <= '9':
				c.BaseCost = uint16(ch-'0') * 10
			case ch == '^':
				c = c.With(grid.FlagOneWayN)
			case ch == '>':
				c = c.With(grid.FlagOneWayE)
			case ch == 'v':
				c = c.With(grid.FlagOneWayS)
			case ch == '<':
				c = c.With(grid.FlagOneWayW)
			default:
				tb.Fatalf("ParseGrid: unknown cell %q at (%d, %d)", ch, x, y)
			}
			lvl.Set(x, y, c)
		}
	}
	return g
}

// View wraps g with a compositor holding layers.
func View(g *grid.Grid, layers ...cost.Layer) *cost.View {
	return cost.NewView(g, cost.NewCompositor(layers...))
}
