// Package pathfind implements A* search over a composed cost field.
//
// Costs are fixed-point integers: an orthogonal step costs 10, a diagonal
// step 14, and entering a cell adds its effective cost minus 10. A plain
// cost-10 tile therefore costs exactly one step.
package pathfind

import (
	"github.com/udisondev/gridpath/internal/cost"
	"github.com/udisondev/gridpath/internal/grid"
	"github.com/udisondev/gridpath/internal/nav"
)

// Step costs on the fixed-point scale.
const (
	OrthogonalStep = 10
	DiagonalStep   = 14
)

// DefaultDenseLimit is the largest cell count searched with dense scratch.
const DefaultDenseLimit = 1 << 20

// Field is what the planner searches. *cost.View implements it.
type Field interface {
	Width() int
	Height() int
	Cost(level, x, y int) (int, grid.Flags)
}

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Request is one path query.
type Request struct {
	ID            string
	Level         int
	Start         Point
	Goal          Point
	Heuristic     Heuristic
	AllowDiagonal bool
}

// Result is the outcome of one Request. Found=false with an empty path is
// the normal "no path" answer.
type Result struct {
	ID       string
	Found    bool
	Path     []Point
	Cost     int
	Expanded int
}

// Planner runs A* searches and owns the reusable scratch buffers.
// A Planner is not safe for concurrent use.
type Planner struct {
	forbidCorners bool
	maxExpansions int
	denseLimit    int

	open   openList
	dense  denseScratch
	sparse sparseScratch
	seq    uint64
}

// Option configures a Planner.
type Option func(*Planner)

// WithCornerCutting sets whether diagonals past unwalkable corners are
// forbidden. Default true.
func WithCornerCutting(forbid bool) Option {
	return func(p *Planner) { p.forbidCorners = forbid }
}

// WithMaxExpansions caps closed nodes per search. 0 means unbounded.
func WithMaxExpansions(n int) Option {
	return func(p *Planner) { p.maxExpansions = max(n, 0) }
}

// WithDenseLimit sets the cell count up to which dense scratch is used.
func WithDenseLimit(cells int) Option {
	return func(p *Planner) { p.denseLimit = cells }
}

// NewPlanner returns a planner with defaults applied.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		forbidCorners: true,
		denseLimit:    DefaultDenseLimit,
		open:          make(openList, 0, 256),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ForbidsCornerCutting reports the corner-cutting setting.
func (p *Planner) ForbidsCornerCutting() bool { return p.forbidCorners }

// FindPath searches field for req. Out-of-bounds or impassable endpoints
// fail immediately without searching.
func (p *Planner) FindPath(field Field, req Request) Result {
	res := Result{ID: req.ID}
	w, h := field.Width(), field.Height()
	if !inside(req.Start, w, h) || !inside(req.Goal, w, h) {
		return res
	}
	walkable := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && cost.Passable(field.Cost(req.Level, x, y))
	}
	if !walkable(req.Start.X, req.Start.Y) || !walkable(req.Goal.X, req.Goal.Y) {
		return res
	}

	s := p.scratchFor(w * h)
	s.reset(w * h)
	p.open = p.open[:0]
	p.seq = 0

	policy := nav.Policy{Conn: nav.Conn4, ForbidCornerCutting: p.forbidCorners}
	if req.AllowDiagonal {
		policy.Conn = nav.Conn8
	}

	start := req.Start.Y*w + req.Start.X
	goal := req.Goal.Y*w + req.Goal.X
	s.update(start, 0, -1)
	p.push(start, req.Heuristic.Estimate(req.Start.X, req.Start.Y, req.Goal.X, req.Goal.Y), 0)

	for len(p.open) > 0 {
		cur := p.open.pop()
		if s.closed(cur.idx) {
			continue
		}
		s.close(cur.idx)
		res.Expanded++

		if cur.idx == goal {
			res.Found = true
			res.Cost = cur.g
			res.Path = reconstruct(s, goal, w)
			return res
		}
		if p.maxExpansions > 0 && res.Expanded >= p.maxExpansions {
			return res
		}

		x, y := cur.idx%w, cur.idx/w
		_, fromFlags := field.Cost(req.Level, x, y)

		for _, o := range nav.Offsets(policy.Conn) {
			nx, ny := x+o.DX, y+o.DY
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			ni := ny*w + nx
			if s.closed(ni) {
				continue
			}
			c, flags := field.Cost(req.Level, nx, ny)
			if !cost.Passable(c, flags) {
				continue
			}
			if !policy.Allows(x, y, fromFlags, o, walkable) {
				continue
			}

			step := OrthogonalStep
			if o.Diagonal {
				step = DiagonalStep
			}
			g := cur.g + step + c - int(grid.NeutralCost)
			if old, ok := s.gScore(ni); ok && g >= old {
				continue
			}
			s.update(ni, g, cur.idx)
			p.push(ni, g+req.Heuristic.Estimate(nx, ny, req.Goal.X, req.Goal.Y), g)
		}
	}
	return res
}

func (p *Planner) scratchFor(cells int) scratch {
	if cells <= p.denseLimit {
		return &p.dense
	}
	return &p.sparse
}

func (p *Planner) push(idx, f, g int) {
	p.seq++
	p.open.push(openEntry{idx: idx, f: f, g: g, seq: p.seq})
}

func reconstruct(s scratch, goal, width int) []Point {
	n := 0
	for i := goal; i >= 0; i = s.parent(i) {
		n++
	}
	path := make([]Point, n)
	for i := goal; i >= 0; i = s.parent(i) {
		n--
		path[n] = Point{X: i % width, Y: i / width}
	}
	return path
}

func inside(pt Point, w, h int) bool {
	return pt.X >= 0 && pt.Y >= 0 && pt.X < w && pt.Y < h
}
