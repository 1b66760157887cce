package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T, w, h, chunk int) *Grid {
	t.Helper()
	cfg := DefaultConfig(w, h)
	cfg.ChunkSize = chunk
	g, err := New(cfg)
	require.NoError(t, err)
	return g
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"zero width", Config{Width: 0, Height: 10}, ErrInvalidDimensions},
		{"negative height", Config{Width: 10, Height: -1}, ErrInvalidDimensions},
		{"chunk not power of two", Config{Width: 10, Height: 10, ChunkSize: 48}, ErrInvalidChunkSize},
		{"negative chunk", Config{Width: 10, Height: 10, ChunkSize: -64}, ErrInvalidChunkSize},
		{"negative levels", Config{Width: 10, Height: 10, Levels: -2}, ErrInvalidLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	g, err := New(Config{Width: 100, Height: 50})
	require.NoError(t, err)

	assert.Equal(t, DefaultChunkSize, g.ChunkSize())
	assert.Equal(t, 1, g.Levels())
	assert.Nil(t, g.Level(1))
	assert.Nil(t, g.Level(-1))
}

func TestGetDoesNotAllocate(t *testing.T) {
	g := newTestGrid(t, 1000, 1000, 64)
	l := g.Level(0)

	for _, p := range [][2]int{{0, 0}, {999, 999}, {500, 17}, {63, 64}} {
		assert.Equal(t, g.Default(), l.Get(p[0], p[1]))
	}
	assert.Equal(t, 0, l.ChunkCount())
}

func TestSetSameAsDefaultIsNoop(t *testing.T) {
	g := newTestGrid(t, 256, 256, 64)
	l := g.Level(0)

	l.Set(10, 10, g.Default())
	assert.Equal(t, 0, l.ChunkCount())
	assert.Equal(t, 0, l.DirtyCount())
}

func TestSetPromotesChunk(t *testing.T) {
	g := newTestGrid(t, 256, 256, 64)
	l := g.Level(0)
	v := Cell{BaseCost: 25, TerrainID: 3, Flags: FlagWalkable | FlagTag2}

	l.Set(70, 5, v)

	exists, materialized := l.ChunkState(ChunkCoord{X: 1, Y: 0})
	assert.True(t, exists)
	assert.True(t, materialized)
	assert.Equal(t, v, l.Get(70, 5))

	for _, p := range [][2]int{{64, 0}, {127, 63}, {71, 5}, {70, 6}} {
		assert.Equal(t, g.Default(), l.Get(p[0], p[1]), "cell %v", p)
	}

	// neighbouring chunk untouched
	exists, _ = l.ChunkState(ChunkCoord{X: 0, Y: 0})
	assert.False(t, exists)
	assert.Equal(t, 1, l.DirtyCount())
}

func TestPromotionNeverDemotes(t *testing.T) {
	g := newTestGrid(t, 64, 64, 8)
	l := g.Level(0)

	l.Set(1, 1, BlockedCell())
	l.Set(1, 1, g.Default())

	_, materialized := l.ChunkState(ChunkCoord{})
	assert.True(t, materialized)
	assert.Equal(t, g.Default(), l.Get(1, 1))
}

func TestNegativeCoordinatesFloor(t *testing.T) {
	g := newTestGrid(t, 16, 16, 8)
	l := g.Level(0)

	assert.Equal(t, ChunkCoord{X: -1, Y: -1}, l.ChunkOf(-1, -8))
	assert.Equal(t, ChunkCoord{X: -2, Y: 0}, l.ChunkOf(-9, 7))

	l.Set(-1, -1, BlockedCell())
	assert.Equal(t, BlockedCell(), l.Get(-1, -1))
	assert.Equal(t, g.Default(), l.Get(-2, -1))
	assert.Equal(t, g.Default(), l.Get(0, 0))
}

func TestPaintRectNormalizesCorners(t *testing.T) {
	g := newTestGrid(t, 32, 32, 8)
	l := g.Level(0)

	l.PaintRect(5, 5, 2, 3, func(c Cell) Cell { return c.With(FlagTag0) })

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			inside := x >= 2 && x <= 5 && y >= 3 && y <= 5
			assert.Equal(t, inside, l.Get(x, y).Has(FlagTag0), "cell (%d,%d)", x, y)
		}
	}
}

func TestPaintIdentityLeavesChunksClean(t *testing.T) {
	g := newTestGrid(t, 200, 200, 16)
	l := g.Level(0)

	l.PaintRect(0, 0, 199, 199, func(c Cell) Cell { return c })

	var drained []DirtyChunk
	for dc := range l.DrainDirty(true) {
		drained = append(drained, dc)
	}
	assert.Empty(t, drained)
	assert.Equal(t, 0, l.ChunkCount())
}

func TestDrainDirty(t *testing.T) {
	g := newTestGrid(t, 64, 64, 16)
	l := g.Level(0)

	l.Set(40, 3, BlockedCell())
	l.Set(2, 20, BlockedCell())

	var coords []ChunkCoord
	for dc := range l.DrainDirty(false) {
		coords = append(coords, dc.Coord)
		assert.False(t, dc.Uniform)
		assert.Len(t, dc.Cells, 16*16)
	}
	assert.Equal(t, []ChunkCoord{{X: 2, Y: 0}, {X: 0, Y: 1}}, coords)

	// without clear the same chunks come back
	assert.Equal(t, 2, l.DirtyCount())

	n := 0
	for range l.DrainDirty(true) {
		n++
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, l.DirtyCount())

	for range l.DrainDirty(true) {
		t.Fatal("clean chunk yielded")
	}

	// an equal write keeps the chunk clean
	l.Set(40, 3, BlockedCell())
	assert.Equal(t, 0, l.DirtyCount())
}

func TestDrainDirtyEarlyStopKeepsRest(t *testing.T) {
	g := newTestGrid(t, 64, 64, 16)
	l := g.Level(0)
	l.Set(0, 0, BlockedCell())
	l.Set(20, 0, BlockedCell())
	l.Set(40, 0, BlockedCell())

	for range l.DrainDirty(true) {
		break
	}
	assert.Equal(t, 2, l.DirtyCount())
}

func TestFillUsesUniformChunks(t *testing.T) {
	g := newTestGrid(t, 64, 64, 16)
	l := g.Level(0)
	sand := Cell{BaseCost: 20, TerrainID: 2, Flags: FlagWalkable}

	// covers chunk (1,1) fully, (0,*) and (2,*) partially
	l.Fill(10, 16, 40, 31, sand)

	exists, materialized := l.ChunkState(ChunkCoord{X: 1, Y: 1})
	assert.True(t, exists)
	assert.False(t, materialized)

	_, materialized = l.ChunkState(ChunkCoord{X: 0, Y: 1})
	assert.True(t, materialized)

	assert.Equal(t, sand, l.Get(20, 20))
	assert.Equal(t, sand, l.Get(10, 16))
	assert.Equal(t, g.Default(), l.Get(9, 16))
	assert.Equal(t, g.Default(), l.Get(41, 31))

	// a diverging write promotes; the rest keeps the uniform value
	l.Set(20, 20, BlockedCell())
	_, materialized = l.ChunkState(ChunkCoord{X: 1, Y: 1})
	assert.True(t, materialized)
	assert.Equal(t, BlockedCell(), l.Get(20, 20))
	assert.Equal(t, sand, l.Get(21, 20))
}

func TestLevelsShareNoStorage(t *testing.T) {
	cfg := DefaultConfig(32, 32)
	cfg.Levels = 3
	g, err := New(cfg)
	require.NoError(t, err)

	g.Level(1).Set(4, 4, BlockedCell())

	assert.Equal(t, BlockedCell(), g.Get(1, 4, 4))
	assert.Equal(t, g.Default(), g.Get(0, 4, 4))
	assert.Equal(t, g.Default(), g.Get(2, 4, 4))
	assert.Equal(t, g.Default(), g.Get(7, 4, 4))
	assert.Equal(t, Stats{Chunks: 1, Materialized: 1, Dirty: 1}, g.Stats())
}

func TestRelease(t *testing.T) {
	g := newTestGrid(t, 128, 128, 32)
	g.Level(0).Fill(0, 0, 127, 127, BlockedCell())
	require.Equal(t, 16, g.Stats().Chunks)

	g.Release()

	assert.Equal(t, Stats{}, g.Stats())
	assert.Equal(t, g.Default(), g.Get(0, 5, 5))
}

func TestInBounds(t *testing.T) {
	g := newTestGrid(t, 10, 5, 8)

	assert.True(t, g.InBounds(0, 0))
	assert.True(t, g.InBounds(9, 4))
	assert.False(t, g.InBounds(10, 0))
	assert.False(t, g.InBounds(0, 5))
	assert.False(t, g.InBounds(-1, 0))
}
