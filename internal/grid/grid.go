// Package grid implements the chunked, lazily materialized cell store.
//
// A Grid is split into independent levels (floors). Each level keeps a sparse
// map of square chunks; a chunk holds either one value for all of its cells
// (uniform) or a dense slice (materialized). Regions never written cost no
// memory and read as the grid's default cell.
//
// The store is single-owner: it performs no locking and no bounds checking.
package grid

import (
	"fmt"
	"math/bits"
)

// DefaultChunkSize is the chunk side length used when Config.ChunkSize is zero.
const DefaultChunkSize = 64

// Config describes a grid. It is read once by New.
type Config struct {
	Width     int
	Height    int
	ChunkSize int // power of two; 0 means DefaultChunkSize
	Levels    int // 0 means 1
	Default   Cell
}

// DefaultConfig returns a single-level config with walkable neutral-cost cells.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:     width,
		Height:    height,
		ChunkSize: DefaultChunkSize,
		Levels:    1,
		Default:   WalkableCell(),
	}
}

// Grid owns all levels and their chunks.
type Grid struct {
	width     int
	height    int
	chunkSize int
	def       Cell
	levels    []*Level
}

// New validates cfg and creates an empty grid. No chunk is allocated.
func New(cfg Config) (*Grid, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("new grid %dx%d: %w", cfg.Width, cfg.Height, ErrInvalidDimensions)
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkSize < 0 || bits.OnesCount(uint(cfg.ChunkSize)) != 1 {
		return nil, fmt.Errorf("new grid chunk size %d: %w", cfg.ChunkSize, ErrInvalidChunkSize)
	}
	if cfg.Levels == 0 {
		cfg.Levels = 1
	}
	if cfg.Levels < 0 {
		return nil, fmt.Errorf("new grid levels %d: %w", cfg.Levels, ErrInvalidLevel)
	}

	g := &Grid{
		width:     cfg.Width,
		height:    cfg.Height,
		chunkSize: cfg.ChunkSize,
		def:       cfg.Default,
		levels:    make([]*Level, cfg.Levels),
	}
	for i := range g.levels {
		g.levels[i] = newLevel(i, cfg.ChunkSize, cfg.Default)
	}
	return g, nil
}

// Width returns the declared width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the declared height in cells.
func (g *Grid) Height() int { return g.height }

// ChunkSize returns the chunk side length.
func (g *Grid) ChunkSize() int { return g.chunkSize }

// Default returns the cell reported for never-written coordinates.
func (g *Grid) Default() Cell { return g.def }

// Levels returns the number of levels.
func (g *Grid) Levels() int { return len(g.levels) }

// Level returns level i, or nil if i is out of range.
func (g *Grid) Level(i int) *Level {
	if i < 0 || i >= len(g.levels) {
		return nil
	}
	return g.levels[i]
}

// InBounds reports whether (x, y) lies inside the declared width and height.
func (g *Grid) InBounds(x, y int) bool {
	return uint(x) < uint(g.width) && uint(y) < uint(g.height)
}

// Get is shorthand for g.Level(level).Get(x, y).
// Unknown levels read as the default cell.
func (g *Grid) Get(level, x, y int) Cell {
	l := g.Level(level)
	if l == nil {
		return g.def
	}
	return l.Get(x, y)
}

// Release drops the storage of every chunk on every level.
// The grid stays usable and reads as freshly constructed afterwards.
func (g *Grid) Release() {
	for _, l := range g.levels {
		l.release()
	}
}

// Stats summarizes chunk allocation across all levels.
type Stats struct {
	Chunks       int
	Materialized int
	Dirty        int
}

// Stats returns allocation counters summed over all levels.
func (g *Grid) Stats() Stats {
	var s Stats
	for _, l := range g.levels {
		s.Chunks += l.ChunkCount()
		s.Materialized += l.MaterializedCount()
		s.Dirty += l.DirtyCount()
	}
	return s
}
