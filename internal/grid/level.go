package grid

import (
	"iter"
	"slices"
)

// Level is one independent floor of a Grid with its own sparse chunk map.
type Level struct {
	index  int
	side   int
	shift  uint
	mask   int
	def    Cell
	chunks map[ChunkCoord]*chunk
}

func newLevel(index, side int, def Cell) *Level {
	shift := uint(0)
	for 1<<shift < side {
		shift++
	}
	return &Level{
		index:  index,
		side:   side,
		shift:  shift,
		mask:   side - 1,
		def:    def,
		chunks: make(map[ChunkCoord]*chunk),
	}
}

// Index returns the level number inside its grid.
func (l *Level) Index() int { return l.index }

// split returns the owning chunk coordinate and the row-major index inside it.
// Arithmetic shift and mask give floor semantics for negative coordinates.
func (l *Level) split(x, y int) (ChunkCoord, int) {
	key := ChunkCoord{X: int32(x >> l.shift), Y: int32(y >> l.shift)}
	return key, (y&l.mask)*l.side + (x & l.mask)
}

// Get returns the cell at (x, y). It never allocates.
func (l *Level) Get(x, y int) Cell {
	key, i := l.split(x, y)
	ch, ok := l.chunks[key]
	if !ok {
		return l.def
	}
	return ch.at(i)
}

// Set stores c at (x, y).
// Writing the value a cell already holds changes nothing: no chunk is
// created, promoted or marked dirty.
func (l *Level) Set(x, y int, c Cell) {
	key, i := l.split(x, y)
	ch, ok := l.chunks[key]
	if !ok {
		if c == l.def {
			return
		}
		ch = newUniformChunk(l.def)
		l.chunks[key] = ch
	}

	if ch.uniform {
		if c == ch.value {
			return
		}
		ch.promote(l.side * l.side)
	} else if ch.cells[i] == c {
		return
	}

	ch.cells[i] = c
	ch.dirty = true
}

// PaintRect applies fn to every cell of the closed rectangle (x0,y0)-(x1,y1).
// Reversed corners are normalized first.
func (l *Level) PaintRect(x0, y0, x1, y1 int, fn func(Cell) Cell) {
	x0, x1 = min(x0, x1), max(x0, x1)
	y0, y1 = min(y0, y1), max(y0, y1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			l.Set(x, y, fn(l.Get(x, y)))
		}
	}
}

// Fill sets every cell of the closed rectangle to c.
// Chunks covered entirely that are absent or still uniform are rewritten as
// uniform chunks without allocating cell storage; everything else goes
// through Set.
func (l *Level) Fill(x0, y0, x1, y1 int, c Cell) {
	x0, x1 = min(x0, x1), max(x0, x1)
	y0, y1 = min(y0, y1), max(y0, y1)

	for cy := y0 >> l.shift; cy <= y1>>l.shift; cy++ {
		for cx := x0 >> l.shift; cx <= x1>>l.shift; cx++ {
			minX, minY := cx<<l.shift, cy<<l.shift
			maxX, maxY := minX+l.side-1, minY+l.side-1
			fx0, fy0 := max(x0, minX), max(y0, minY)
			fx1, fy1 := min(x1, maxX), min(y1, maxY)

			full := fx0 == minX && fy0 == minY && fx1 == maxX && fy1 == maxY
			if full && l.fillUniform(ChunkCoord{X: int32(cx), Y: int32(cy)}, c) {
				continue
			}
			for y := fy0; y <= fy1; y++ {
				for x := fx0; x <= fx1; x++ {
					l.Set(x, y, c)
				}
			}
		}
	}
}

// fillUniform rewrites a whole chunk as uniform c. It returns false when the
// chunk is materialized and must be written cell by cell.
func (l *Level) fillUniform(key ChunkCoord, c Cell) bool {
	ch, ok := l.chunks[key]
	if !ok {
		if c != l.def {
			ch = newUniformChunk(c)
			ch.dirty = true
			l.chunks[key] = ch
		}
		return true
	}
	if !ch.uniform {
		return false
	}
	if ch.value != c {
		ch.value = c
		ch.dirty = true
	}
	return true
}

// DirtyChunk is one changed chunk reported by DrainDirty.
type DirtyChunk struct {
	Level   int
	Coord   ChunkCoord
	Uniform bool
	Value   Cell   // valid when Uniform
	Cells   []Cell // row-major, aliases chunk storage; nil when Uniform
}

// DrainDirty yields every chunk mutated since it was last drained with
// clear set, ordered by (Y, X). With clear the dirty mark is dropped as
// each chunk is yielded; stopping early leaves the rest dirty.
func (l *Level) DrainDirty(clear bool) iter.Seq[DirtyChunk] {
	return func(yield func(DirtyChunk) bool) {
		keys := make([]ChunkCoord, 0, 8)
		for key, ch := range l.chunks {
			if ch.dirty {
				keys = append(keys, key)
			}
		}
		slices.SortFunc(keys, compareCoord)

		for _, key := range keys {
			ch := l.chunks[key]
			if clear {
				ch.dirty = false
			}
			if !yield(DirtyChunk{
				Level:   l.index,
				Coord:   key,
				Uniform: ch.uniform,
				Value:   ch.value,
				Cells:   ch.cells,
			}) {
				return
			}
		}
	}
}

func compareCoord(a, b ChunkCoord) int {
	if a.Y != b.Y {
		return int(a.Y) - int(b.Y)
	}
	return int(a.X) - int(b.X)
}

// ChunkState reports whether the chunk exists and whether it is materialized.
func (l *Level) ChunkState(key ChunkCoord) (exists, materialized bool) {
	ch, ok := l.chunks[key]
	if !ok {
		return false, false
	}
	return true, !ch.uniform
}

// ChunkOf returns the coordinate of the chunk owning (x, y).
func (l *Level) ChunkOf(x, y int) ChunkCoord {
	key, _ := l.split(x, y)
	return key
}

// ChunkCount returns the number of allocated chunk entries.
func (l *Level) ChunkCount() int { return len(l.chunks) }

// MaterializedCount returns the number of chunks holding dense cell storage.
func (l *Level) MaterializedCount() int {
	n := 0
	for _, ch := range l.chunks {
		if !ch.uniform {
			n++
		}
	}
	return n
}

// DirtyCount returns the number of chunks waiting to be drained.
func (l *Level) DirtyCount() int {
	n := 0
	for _, ch := range l.chunks {
		if ch.dirty {
			n++
		}
	}
	return n
}

func (l *Level) release() {
	clear(l.chunks)
}
