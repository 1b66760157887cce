// Package engine wires a grid, its cost layers, the planner and the query
// scheduler together from a config.Config.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/gridpath/internal/config"
	"github.com/udisondev/gridpath/internal/cost"
	"github.com/udisondev/gridpath/internal/grid"
	"github.com/udisondev/gridpath/internal/pathfind"
	"github.com/udisondev/gridpath/internal/scheduler"
)

// Engine owns one grid and everything that searches it.
// Grid edits and ticks must happen on one goroutine; Submit may be called
// from any goroutine.
type Engine struct {
	cfg      config.Config
	grid     *grid.Grid
	geometry grid.Geometry
	comp     *cost.Compositor
	view     *cost.View
	planner  *pathfind.Planner
	sched    *scheduler.Scheduler

	heuristic pathfind.Heuristic
	handler   func(pathfind.Result)

	mu      sync.Mutex
	results []pathfind.Result
}

// Option configures an Engine.
type Option func(*Engine)

// WithResultHandler registers fn to be called with every result, on the
// goroutine that runs the scheduler.
func WithResultHandler(fn func(pathfind.Result)) Option {
	return func(e *Engine) { e.handler = fn }
}

// New builds an engine from cfg. cfg is validated first.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	def, err := cellFromConfig(cfg.Grid.Default)
	if err != nil {
		return nil, fmt.Errorf("default cell: %w", err)
	}
	g, err := grid.New(grid.Config{
		Width:     cfg.Grid.Width,
		Height:    cfg.Grid.Height,
		ChunkSize: cfg.Grid.ChunkSize,
		Levels:    cfg.Grid.Levels,
		Default:   def,
	})
	if err != nil {
		return nil, fmt.Errorf("creating grid: %w", err)
	}
	geometry, err := grid.NewGeometry(cfg.Grid.CellSize, cfg.Grid.OriginX, cfg.Grid.OriginY)
	if err != nil {
		return nil, fmt.Errorf("creating geometry: %w", err)
	}

	comp := cost.NewCompositor()
	for _, lc := range cfg.Layers {
		layer, err := buildLayer(lc, g.Levels())
		if err != nil {
			return nil, fmt.Errorf("building layer %q: %w", lc.Name, err)
		}
		if lc.Level != nil {
			comp.AddForLevel(*lc.Level, layer)
		} else {
			comp.Add(layer)
		}
	}

	heuristic, err := pathfind.ParseHeuristic(cfg.Planner.Heuristic)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		grid:      g,
		geometry:  geometry,
		comp:      comp,
		view:      cost.NewView(g, comp),
		heuristic: heuristic,
		planner: pathfind.NewPlanner(
			pathfind.WithCornerCutting(cfg.Planner.ForbidCornerCutting),
			pathfind.WithMaxExpansions(cfg.Planner.MaxExpansions),
			pathfind.WithDenseLimit(cfg.Planner.DenseLimit),
		),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sched = scheduler.New(e.planner, e.view, e.record,
		scheduler.WithBudget(cfg.Scheduler.Budget),
		scheduler.WithTickRate(cfg.Scheduler.TickRate),
	)

	slog.Info("engine ready",
		"width", g.Width(),
		"height", g.Height(),
		"levels", g.Levels(),
		"chunk_size", g.ChunkSize(),
		"cell_size", geometry.CellSize(),
		"layers", len(cfg.Layers))

	return e, nil
}

// Grid returns the cell store.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// View returns the composed cost view the planner searches.
func (e *Engine) View() *cost.View { return e.view }

// Geometry returns the world-to-cell mapping.
func (e *Engine) Geometry() grid.Geometry { return e.geometry }

// Scheduler returns the query scheduler.
func (e *Engine) Scheduler() *scheduler.Scheduler { return e.sched }

// ApplyEdits applies edits in order and returns the total changed cells.
// It stops at the first failing edit.
func (e *Engine) ApplyEdits(edits []config.EditConfig) (int, error) {
	total := 0
	for i, ec := range edits {
		cmd, err := editCommand(ec)
		if err != nil {
			return total, fmt.Errorf("edit %d: %w", i, err)
		}
		n, err := e.grid.ApplyEdit(ec.Level, cmd)
		if err != nil {
			return total, fmt.Errorf("edit %d: %w", i, err)
		}
		total += n
		slog.Debug("edit applied", "type", cmd.Type, "level", ec.Level, "changed", n)
	}
	return total, nil
}

// SyncDirty drains every level's dirty chunks and returns how many were
// pending. Renderers would re-upload exactly these chunks.
func (e *Engine) SyncDirty() int {
	total := 0
	for i := range e.grid.Levels() {
		for dc := range e.grid.Level(i).DrainDirty(true) {
			total++
			slog.Debug("chunk changed",
				"level", dc.Level,
				"chunk_x", dc.Coord.X,
				"chunk_y", dc.Coord.Y,
				"uniform", dc.Uniform)
		}
	}
	return total
}

// Request converts a configured query into a planner request.
func (e *Engine) Request(q config.QueryConfig) (pathfind.Request, error) {
	req := pathfind.Request{
		ID:            q.ID,
		Level:         q.Level,
		Start:         pathfind.Point{X: q.From[0], Y: q.From[1]},
		Goal:          pathfind.Point{X: q.To[0], Y: q.To[1]},
		Heuristic:     e.heuristic,
		AllowDiagonal: e.cfg.Planner.AllowDiagonal,
	}
	if q.FromWorld != nil {
		req.Start.X, req.Start.Y = e.geometry.WorldToCell(q.FromWorld[0], q.FromWorld[1])
	}
	if q.ToWorld != nil {
		req.Goal.X, req.Goal.Y = e.geometry.WorldToCell(q.ToWorld[0], q.ToWorld[1])
	}
	if q.Heuristic != nil {
		h, err := pathfind.ParseHeuristic(*q.Heuristic)
		if err != nil {
			return req, fmt.Errorf("query %q: %w", q.ID, err)
		}
		req.Heuristic = h
	}
	if q.AllowDiagonal != nil {
		req.AllowDiagonal = *q.AllowDiagonal
	}
	return req, nil
}

// Submit queues req and returns its ID.
func (e *Engine) Submit(req pathfind.Request) string {
	return e.sched.Enqueue(req)
}

// SubmitQueries converts and queues every configured query.
func (e *Engine) SubmitQueries(queries []config.QueryConfig) ([]string, error) {
	ids := make([]string, 0, len(queries))
	for _, q := range queries {
		req, err := e.Request(q)
		if err != nil {
			return ids, err
		}
		ids = append(ids, e.Submit(req))
	}
	return ids, nil
}

// FindPath runs req immediately, bypassing the queue.
func (e *Engine) FindPath(req pathfind.Request) pathfind.Result {
	return e.planner.FindPath(e.view, req)
}

// Run ticks the scheduler until ctx is canceled.
func (e *Engine) Run(ctx context.Context) error {
	return e.sched.Run(ctx)
}

// RunUntilDrained ticks the scheduler until no query is pending.
func (e *Engine) RunUntilDrained(ctx context.Context) error {
	return e.sched.RunUntilDrained(ctx)
}

// Results returns a copy of every result recorded so far.
func (e *Engine) Results() []pathfind.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]pathfind.Result(nil), e.results...)
}

func (e *Engine) record(res pathfind.Result) {
	e.mu.Lock()
	e.results = append(e.results, res)
	e.mu.Unlock()

	if e.handler != nil {
		e.handler(res)
	}
}
