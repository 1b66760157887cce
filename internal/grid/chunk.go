package grid

// ChunkCoord addresses a chunk within a level: floor(x / size), floor(y / size).
type ChunkCoord struct {
	X, Y int32
}

// chunk is either uniform (value applies to every cell, cells is nil) or
// materialized (cells holds size*size values, row-major).
// Promotion is one-way: a materialized chunk never goes back to uniform.
type chunk struct {
	uniform bool
	value   Cell
	cells   []Cell
	dirty   bool
}

func newUniformChunk(value Cell) *chunk {
	return &chunk{uniform: true, value: value}
}

func (c *chunk) at(i int) Cell {
	if c.uniform {
		return c.value
	}
	return c.cells[i]
}

// promote switches a uniform chunk to a dense slice seeded with the uniform value.
func (c *chunk) promote(area int) {
	if !c.uniform {
		return
	}
	c.cells = make([]Cell, area)
	for i := range c.cells {
		c.cells[i] = c.value
	}
	c.uniform = false
}
