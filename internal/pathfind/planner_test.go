package pathfind

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gridpath/internal/cost"
	"github.com/udisondev/gridpath/internal/grid"
	"github.com/udisondev/gridpath/internal/testutil"
)

func pts(xy ...int) []Point {
	out := make([]Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func TestFindPathDiagonalOptimal(t *testing.T) {
	v := testutil.View(testutil.OpenGrid(t, 5, 5))
	p := NewPlanner()

	res := p.FindPath(v, Request{ID: "diag", Start: Point{0, 0}, Goal: Point{4, 4}, AllowDiagonal: true})

	require.True(t, res.Found)
	assert.Equal(t, "diag", res.ID)
	assert.Equal(t, 56, res.Cost)
	if diff := cmp.Diff(pts(0, 0, 1, 1, 2, 2, 3, 3, 4, 4), res.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestFindPathDetourAroundWall(t *testing.T) {
	g := testutil.ParseGrid(t,
		".....",
		".....",
		"####.",
		".....",
		".....",
	)
	p := NewPlanner()

	res := p.FindPath(testutil.View(g), Request{Start: Point{0, 0}, Goal: Point{4, 4}, AllowDiagonal: true})

	require.True(t, res.Found)
	assert.Equal(t, 74, res.Cost)
	assert.Len(t, res.Path, 8)
	assert.Contains(t, res.Path, Point{4, 2})
	assert.Greater(t, res.Cost, 56)

	g.Level(0).Set(4, 2, grid.BlockedCell())
	res = p.FindPath(testutil.View(g), Request{Start: Point{0, 0}, Goal: Point{4, 4}, AllowDiagonal: true})
	assert.False(t, res.Found)
	assert.Empty(t, res.Path)
	assert.Zero(t, res.Cost)
}

func TestFindPathAvoidsStoredBlocked(t *testing.T) {
	g := testutil.OpenGrid(t, 3, 2)
	g.Level(0).Set(1, 0, grid.WalkableCell().With(grid.FlagBlocked))
	v := testutil.View(g, cost.LayerFunc{
		LayerName: "unblock",
		Fn:        func(cost.Query) cost.Contribution { return cost.Contribution{And: ^grid.FlagBlocked} },
	})

	res := NewPlanner().FindPath(v, Request{Start: Point{0, 0}, Goal: Point{2, 0}, AllowDiagonal: true})
	require.True(t, res.Found)
	assert.NotContains(t, res.Path, Point{1, 0})
	assert.Equal(t, 40, res.Cost, "corner cutting forbids both diagonals past the cell")

	res = NewPlanner().FindPath(v, Request{Start: Point{0, 0}, Goal: Point{1, 0}, AllowDiagonal: true})
	assert.False(t, res.Found)
}

func TestFindPathPreconditions(t *testing.T) {
	g := testutil.ParseGrid(t,
		"..#",
		"...",
	)
	v := testutil.View(g)
	p := NewPlanner()

	tests := []struct {
		name        string
		start, goal Point
	}{
		{"start out of bounds", Point{-1, 0}, Point{1, 1}},
		{"goal out of bounds", Point{0, 0}, Point{3, 0}},
		{"goal blocked", Point{0, 0}, Point{2, 0}},
		{"start blocked", Point{2, 0}, Point{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.FindPath(v, Request{ID: tt.name, Start: tt.start, Goal: tt.goal, AllowDiagonal: true})
			assert.False(t, res.Found)
			assert.Empty(t, res.Path)
			assert.Zero(t, res.Expanded, "no search attempted")
			assert.Equal(t, tt.name, res.ID)
		})
	}
}

func TestFindPathUnknownLevel(t *testing.T) {
	v := testutil.View(testutil.OpenGrid(t, 4, 4))
	res := NewPlanner().FindPath(v, Request{Level: 3, Start: Point{0, 0}, Goal: Point{3, 3}})
	assert.False(t, res.Found)
}

func TestFindPathStartIsGoal(t *testing.T) {
	v := testutil.View(testutil.OpenGrid(t, 3, 3))
	res := NewPlanner().FindPath(v, Request{Start: Point{1, 1}, Goal: Point{1, 1}})

	require.True(t, res.Found)
	assert.Equal(t, []Point{{1, 1}}, res.Path)
	assert.Zero(t, res.Cost)
	assert.Equal(t, 1, res.Expanded)
}

func TestFindPathPrefersCheapCells(t *testing.T) {
	g := testutil.ParseGrid(t,
		".....",
		".999.",
		".....",
	)
	res := NewPlanner().FindPath(testutil.View(g), Request{Start: Point{0, 1}, Goal: Point{4, 1}})

	require.True(t, res.Found)
	assert.Equal(t, 60, res.Cost)
	assert.Len(t, res.Path, 7)
	for _, pt := range res.Path[1 : len(res.Path)-1] {
		assert.NotEqual(t, 1, pt.Y, "path entered the expensive row at %v", pt)
	}
}

func TestFindPathCheapCellsDiscount(t *testing.T) {
	g := testutil.OpenGrid(t, 4, 1)
	discount := cost.LayerFunc{LayerName: "road", Fn: func(cost.Query) cost.Contribution {
		return cost.Contribution{Cost: -5}
	}}
	res := NewPlanner().FindPath(testutil.View(g, discount), Request{Start: Point{0, 0}, Goal: Point{3, 0}})

	require.True(t, res.Found)
	assert.Equal(t, 15, res.Cost)
}

func TestFindPathFourConnected(t *testing.T) {
	v := testutil.View(testutil.OpenGrid(t, 5, 5))
	res := NewPlanner().FindPath(v, Request{Start: Point{0, 0}, Goal: Point{4, 4}, Heuristic: Manhattan})

	require.True(t, res.Found)
	assert.Equal(t, 80, res.Cost)
	assert.Len(t, res.Path, 9)
	for i := 1; i < len(res.Path); i++ {
		dx := abs(res.Path[i].X - res.Path[i-1].X)
		dy := abs(res.Path[i].Y - res.Path[i-1].Y)
		assert.Equal(t, 1, dx+dy, "step %d is not cardinal", i)
	}
}

func TestFindPathOneWay(t *testing.T) {
	corridor := testutil.ParseGrid(t,
		".",
		"^",
		".",
	)
	v := testutil.View(corridor)
	p := NewPlanner()

	res := p.FindPath(v, Request{Start: Point{0, 1}, Goal: Point{0, 0}})
	assert.True(t, res.Found, "leaving north is allowed")

	res = p.FindPath(v, Request{Start: Point{0, 1}, Goal: Point{0, 2}})
	assert.False(t, res.Found, "leaving south is rejected")

	res = p.FindPath(v, Request{Start: Point{0, 2}, Goal: Point{0, 0}})
	require.True(t, res.Found, "entering from the south and leaving north")
	assert.Equal(t, pts(0, 2, 0, 1, 0, 0), res.Path)

	res = p.FindPath(v, Request{Start: Point{0, 0}, Goal: Point{0, 2}})
	assert.False(t, res.Found, "no route through the one-way cell southbound")

	sideways := testutil.ParseGrid(t, ".^.")
	assert.False(t, p.FindPath(testutil.View(sideways), Request{Start: Point{1, 0}, Goal: Point{2, 0}}).Found)
	assert.False(t, p.FindPath(testutil.View(sideways), Request{Start: Point{1, 0}, Goal: Point{0, 0}}).Found)
	assert.True(t, p.FindPath(testutil.View(sideways), Request{Start: Point{0, 0}, Goal: Point{1, 0}}).Found)
}

func TestFindPathCornerCutting(t *testing.T) {
	g := testutil.ParseGrid(t,
		".#",
		"#.",
	)
	v := testutil.View(g)
	req := Request{Start: Point{0, 0}, Goal: Point{1, 1}, AllowDiagonal: true}

	res := NewPlanner().FindPath(v, req)
	assert.False(t, res.Found)

	res = NewPlanner(WithCornerCutting(false)).FindPath(v, req)
	require.True(t, res.Found)
	assert.Equal(t, 14, res.Cost)
	assert.Equal(t, pts(0, 0, 1, 1), res.Path)

	half := testutil.ParseGrid(t,
		".#",
		"..",
	)
	res = NewPlanner().FindPath(testutil.View(half), req)
	require.True(t, res.Found)
	assert.Equal(t, 20, res.Cost, "one blocked corner already forbids the diagonal")
}

func TestFindPathMaxExpansions(t *testing.T) {
	v := testutil.View(testutil.OpenGrid(t, 20, 20))
	p := NewPlanner(WithMaxExpansions(3))

	res := p.FindPath(v, Request{Start: Point{0, 0}, Goal: Point{19, 19}, AllowDiagonal: true})
	assert.False(t, res.Found)
	assert.Equal(t, 3, res.Expanded)
}

func TestFindPathDenseAndSparseAgree(t *testing.T) {
	g := testutil.ParseGrid(t,
		"..........",
		".####.###.",
		".#......#.",
		".#.####.#.",
		".#.#..#.#.",
		".#.#.##.#.",
		".#.#....#.",
		".#.######.",
		".#........",
		"...#######",
	)
	v := testutil.View(g)
	dense := NewPlanner()
	sparse := NewPlanner(WithDenseLimit(0))

	for _, req := range []Request{
		{Start: Point{4, 4}, Goal: Point{9, 8}, AllowDiagonal: true},
		{Start: Point{4, 4}, Goal: Point{0, 9}},
		{Start: Point{0, 0}, Goal: Point{9, 0}, Heuristic: Euclidean, AllowDiagonal: true},
		{Start: Point{2, 2}, Goal: Point{5, 4}, AllowDiagonal: true},
	} {
		want := dense.FindPath(v, req)
		got := sparse.FindPath(v, req)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("dense/sparse mismatch for %+v (-dense +sparse):\n%s", req, diff)
		}
		require.True(t, want.Found, "request %+v", req)
	}
}

func TestFindPathDeterministic(t *testing.T) {
	v := testutil.View(testutil.OpenGrid(t, 16, 16))
	p := NewPlanner()
	req := Request{Start: Point{0, 3}, Goal: Point{15, 9}, AllowDiagonal: true}

	first := p.FindPath(v, req)
	for range 5 {
		if diff := cmp.Diff(first, p.FindPath(v, req)); diff != "" {
			t.Fatalf("repeat search differs:\n%s", diff)
		}
	}
	fresh := NewPlanner().FindPath(v, req)
	assert.Equal(t, first, fresh)
}

func TestFindPathScratchReset(t *testing.T) {
	p := NewPlanner()

	big := testutil.View(testutil.OpenGrid(t, 8, 8))
	require.True(t, p.FindPath(big, Request{Start: Point{0, 0}, Goal: Point{7, 7}, AllowDiagonal: true}).Found)

	small := testutil.ParseGrid(t,
		".#.",
		".#.",
		".#.",
	)
	res := p.FindPath(testutil.View(small), Request{Start: Point{0, 0}, Goal: Point{2, 2}, AllowDiagonal: true})
	assert.False(t, res.Found, "state from the previous search leaked")
}

func TestFindPathLevels(t *testing.T) {
	cfg := grid.DefaultConfig(3, 1)
	cfg.Levels = 2
	g, err := grid.New(cfg)
	require.NoError(t, err)
	g.Level(1).Set(1, 0, grid.BlockedCell())

	v := testutil.View(g)
	p := NewPlanner()
	assert.True(t, p.FindPath(v, Request{Level: 0, Start: Point{0, 0}, Goal: Point{2, 0}}).Found)
	assert.False(t, p.FindPath(v, Request{Level: 1, Start: Point{0, 0}, Goal: Point{2, 0}}).Found)
}
