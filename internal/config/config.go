package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/gridpath/internal/grid"
	"github.com/udisondev/gridpath/internal/pathfind"
)

// ErrInvalid wraps every validation failure returned by Validate and Load.
var ErrInvalid = errors.New("invalid config")

// Layer types.
const (
	LayerObstacle = "obstacle"
	LayerTerrain  = "terrain"
	LayerZone     = "zone"
	LayerExpr     = "expr"
	LayerProfile  = "profile"
)

// Config holds everything gridpathd needs to build and drive an engine.
type Config struct {
	LogLevel  string          `yaml:"log_level"` // debug, info, warn, error
	Grid      GridConfig      `yaml:"grid"`
	Planner   PlannerConfig   `yaml:"planner"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Cost layers, applied in order
	Layers []LayerConfig `yaml:"layers"`

	// Startup edits and queries
	Edits   []EditConfig  `yaml:"edits"`
	Queries []QueryConfig `yaml:"queries"`
}

// GridConfig describes the cell store and its world geometry.
type GridConfig struct {
	Width     int        `yaml:"width"`
	Height    int        `yaml:"height"`
	ChunkSize int        `yaml:"chunk_size"`
	Levels    int        `yaml:"levels"`
	CellSize  float64    `yaml:"cell_size"`
	OriginX   float64    `yaml:"origin_x"`
	OriginY   float64    `yaml:"origin_y"`
	Default   CellConfig `yaml:"default"`
}

// CellConfig is a cell payload in config form.
type CellConfig struct {
	BaseCost  int      `yaml:"base_cost"`
	Elevation int      `yaml:"elevation"`
	Terrain   int      `yaml:"terrain"`
	Flags     []string `yaml:"flags"`
}

// PlannerConfig tunes the A* planner and request defaults.
type PlannerConfig struct {
	ForbidCornerCutting bool   `yaml:"forbid_corner_cutting"`
	MaxExpansions       int    `yaml:"max_expansions"` // 0 = unbounded
	DenseLimit          int    `yaml:"dense_limit"`    // cells
	Heuristic           string `yaml:"heuristic"`
	AllowDiagonal       bool   `yaml:"allow_diagonal"`
}

// SchedulerConfig tunes the query scheduler.
type SchedulerConfig struct {
	Budget   int `yaml:"budget"`    // requests per tick
	TickRate int `yaml:"tick_rate"` // Hz
}

// LayerConfig describes one cost layer. Which fields apply depends on Type.
// A nil Level registers the layer for every level.
type LayerConfig struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Level *int   `yaml:"level"`

	// obstacle
	Cells [][2]int `yaml:"cells"`

	// terrain
	Costs          map[int]int `yaml:"costs"`
	BlockedTerrain []int       `yaml:"blocked_terrain"`

	// zone
	Zones []ZoneConfig `yaml:"zones"`

	// expr
	Cost        string `yaml:"cost"`
	BlockedWhen string `yaml:"blocked_when"`

	// profile
	Forbidden []string `yaml:"forbidden"`
	Avoid     []string `yaml:"avoid"`
	AvoidCost int      `yaml:"avoid_cost"`
}

// ZoneConfig is one zone of a zone layer, in cell coordinates.
type ZoneConfig struct {
	Name   string   `yaml:"name"`
	Shape  string   `yaml:"shape"` // cuboid, cylinder, polygon
	Level  *int     `yaml:"level"` // nil = every level
	Nodes  [][2]int `yaml:"nodes"`
	Radius int      `yaml:"radius"`
	Cost   int      `yaml:"cost"`
	Set    []string `yaml:"set"`
	Clear  []string `yaml:"clear"`
}

// EditConfig is a rectangle edit applied at startup.
// For tag and one-way edits Flags may replace Value.
type EditConfig struct {
	Level int      `yaml:"level"`
	Type  string   `yaml:"type"`
	Rect  [4]int   `yaml:"rect"` // min_x, min_y, max_x, max_y
	Value int      `yaml:"value"`
	Flags []string `yaml:"flags"`
}

// QueryConfig is a path request submitted at startup.
// World positions, when given, override the cell coordinates.
// Nil fields fall back to the planner section.
type QueryConfig struct {
	ID            string      `yaml:"id"`
	Level         int         `yaml:"level"`
	From          [2]int      `yaml:"from"`
	To            [2]int      `yaml:"to"`
	FromWorld     *[2]float64 `yaml:"from_world"`
	ToWorld       *[2]float64 `yaml:"to_world"`
	Heuristic     *string     `yaml:"heuristic"`
	AllowDiagonal *bool       `yaml:"allow_diagonal"`
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Grid: GridConfig{
			Width:     1024,
			Height:    1024,
			ChunkSize: grid.DefaultChunkSize,
			Levels:    1,
			CellSize:  1,
			Default: CellConfig{
				BaseCost: int(grid.NeutralCost),
				Flags:    []string{"walkable"},
			},
		},
		Planner: PlannerConfig{
			ForbidCornerCutting: true,
			DenseLimit:          pathfind.DefaultDenseLimit,
			Heuristic:           pathfind.Octile.String(),
			AllowDiagonal:       true,
		},
		Scheduler: SchedulerConfig{
			Budget:   64,
			TickRate: 30,
		},
	}
}

// Load loads config from a YAML file and validates it.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every problem found, wrapped in ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		bad("log_level %q", c.LogLevel)
	}

	g := c.Grid
	if g.Width <= 0 || g.Height <= 0 {
		bad("grid size %dx%d must be positive", g.Width, g.Height)
	}
	if g.ChunkSize <= 0 || g.ChunkSize&(g.ChunkSize-1) != 0 {
		bad("grid.chunk_size %d must be a positive power of two", g.ChunkSize)
	}
	if g.Levels < 1 {
		bad("grid.levels %d must be at least 1", g.Levels)
	}
	if !(g.CellSize > 0) {
		bad("grid.cell_size %v must be positive", g.CellSize)
	}
	if g.Default.BaseCost < 0 || g.Default.BaseCost > int(grid.ImpassableBaseCost) {
		bad("grid.default.base_cost %d out of range", g.Default.BaseCost)
	}
	if _, err := grid.ParseFlags(g.Default.Flags...); err != nil {
		bad("grid.default.flags: %w", err)
	}

	if _, err := pathfind.ParseHeuristic(c.Planner.Heuristic); err != nil {
		bad("planner.heuristic: %w", err)
	}
	if c.Planner.MaxExpansions < 0 {
		bad("planner.max_expansions %d must not be negative", c.Planner.MaxExpansions)
	}
	if c.Planner.DenseLimit < 1 {
		bad("planner.dense_limit %d must be at least 1", c.Planner.DenseLimit)
	}

	if c.Scheduler.Budget < 1 {
		bad("scheduler.budget %d must be at least 1", c.Scheduler.Budget)
	}
	if c.Scheduler.TickRate < 1 || c.Scheduler.TickRate > 1000 {
		bad("scheduler.tick_rate %d must be within 1..1000", c.Scheduler.TickRate)
	}

	names := make(map[string]struct{}, len(c.Layers))
	for i, l := range c.Layers {
		if l.Name == "" {
			bad("layers[%d]: name is required", i)
		} else if _, dup := names[l.Name]; dup {
			bad("layers[%d]: duplicate name %q", i, l.Name)
		}
		names[l.Name] = struct{}{}

		if l.Level != nil && (*l.Level < 0 || *l.Level >= g.Levels) {
			bad("layers[%d] %q: level %d out of range", i, l.Name, *l.Level)
		}
		switch l.Type {
		case LayerObstacle, LayerTerrain:
		case LayerZone:
			if len(l.Zones) == 0 {
				bad("layers[%d] %q: zone layer without zones", i, l.Name)
			}
		case LayerExpr:
			if l.Cost == "" && l.BlockedWhen == "" {
				bad("layers[%d] %q: expr layer needs cost or blocked_when", i, l.Name)
			}
		case LayerProfile:
			if _, err := grid.ParseFlags(l.Forbidden...); err != nil {
				bad("layers[%d] %q forbidden: %w", i, l.Name, err)
			}
			if _, err := grid.ParseFlags(l.Avoid...); err != nil {
				bad("layers[%d] %q avoid: %w", i, l.Name, err)
			}
		default:
			bad("layers[%d] %q: unknown type %q", i, l.Name, l.Type)
		}
	}

	for i, e := range c.Edits {
		if _, err := grid.ParseEditType(e.Type); err != nil {
			bad("edits[%d]: %w", i, err)
		}
		if e.Level < 0 || e.Level >= g.Levels {
			bad("edits[%d]: level %d out of range", i, e.Level)
		}
		if _, err := grid.ParseFlags(e.Flags...); err != nil {
			bad("edits[%d] flags: %w", i, err)
		}
	}

	for i, q := range c.Queries {
		if q.Level < 0 || q.Level >= g.Levels {
			bad("queries[%d]: level %d out of range", i, q.Level)
		}
		if q.Heuristic != nil {
			if _, err := pathfind.ParseHeuristic(*q.Heuristic); err != nil {
				bad("queries[%d]: %w", i, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
