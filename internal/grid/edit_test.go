package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEdit(t *testing.T) {
	tests := []struct {
		name  string
		cmd   EditCommand
		check func(t *testing.T, c Cell)
	}{
		{
			name:  "clear walkable",
			cmd:   EditCommand{Type: EditSetWalkable, Value: 0},
			check: func(t *testing.T, c Cell) { assert.False(t, c.Walkable()) },
		},
		{
			name:  "set blocked",
			cmd:   EditCommand{Type: EditSetBlocked, Value: 1},
			check: func(t *testing.T, c Cell) { assert.True(t, c.Has(FlagBlocked|FlagWalkable)) },
		},
		{
			name:  "cost clamped",
			cmd:   EditCommand{Type: EditSetCost, Value: 1 << 20},
			check: func(t *testing.T, c Cell) { assert.Equal(t, ImpassableBaseCost, c.BaseCost) },
		},
		{
			name:  "negative cost clamped",
			cmd:   EditCommand{Type: EditSetCost, Value: -4},
			check: func(t *testing.T, c Cell) { assert.Equal(t, uint16(0), c.BaseCost) },
		},
		{
			name:  "terrain",
			cmd:   EditCommand{Type: EditSetTerrain, Value: 7},
			check: func(t *testing.T, c Cell) { assert.Equal(t, uint16(7), c.TerrainID) },
		},
		{
			name:  "add tags",
			cmd:   EditCommand{Type: EditAddTags, Value: 0b101},
			check: func(t *testing.T, c Cell) { assert.Equal(t, FlagTag0|FlagTag2, c.Flags&TagMask) },
		},
		{
			name:  "one way east",
			cmd:   EditCommand{Type: EditSetOneWay, Value: 2},
			check: func(t *testing.T, c Cell) { assert.Equal(t, FlagOneWayE, c.Flags&OneWayMask) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t, 16, 16, 8)
			cmd := tt.cmd
			cmd.MinX, cmd.MinY, cmd.MaxX, cmd.MaxY = 1, 1, 2, 2

			n, err := g.ApplyEdit(0, cmd)
			require.NoError(t, err)
			assert.Equal(t, 4, n)
			tt.check(t, g.Get(0, 2, 2))
			assert.Equal(t, g.Default(), g.Get(0, 3, 3))
		})
	}
}

func TestApplyEditClampsToBounds(t *testing.T) {
	g := newTestGrid(t, 10, 10, 8)

	n, err := g.ApplyEdit(0, EditCommand{Type: EditSetBlocked, MinX: 12, MinY: 12, MaxX: 8, MaxY: 8, Value: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.True(t, g.Get(0, 9, 9).Has(FlagBlocked))

	n, err = g.ApplyEdit(0, EditCommand{Type: EditSetBlocked, MinX: 20, MinY: 20, MaxX: 30, MaxY: 30, Value: 1})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApplyEditRemoveTagsAndRepeat(t *testing.T) {
	g := newTestGrid(t, 10, 10, 8)
	cmd := EditCommand{Type: EditAddTags, MaxX: 1, MaxY: 0, Value: 1}

	n, err := g.ApplyEdit(0, cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = g.ApplyEdit(0, cmd)
	require.NoError(t, err)
	assert.Zero(t, n, "repeated edit changes nothing")

	cmd.Type = EditRemoveTags
	n, err = g.ApplyEdit(0, cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, g.Default(), g.Get(0, 0, 0))
}

func TestApplyEditErrors(t *testing.T) {
	g := newTestGrid(t, 10, 10, 8)

	_, err := g.ApplyEdit(3, EditCommand{})
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = g.ApplyEdit(0, EditCommand{Type: EditType(99)})
	assert.ErrorIs(t, err, ErrUnknownEdit)
}

func TestParseEditType(t *testing.T) {
	for i := EditSetWalkable; i <= EditSetOneWay; i++ {
		got, err := ParseEditType(i.String())
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	_, err := ParseEditType("paint_it_black")
	assert.ErrorIs(t, err, ErrUnknownEdit)
}
