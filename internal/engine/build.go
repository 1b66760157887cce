package engine

import (
	"fmt"
	"math"

	"github.com/udisondev/gridpath/internal/config"
	"github.com/udisondev/gridpath/internal/cost"
	"github.com/udisondev/gridpath/internal/grid"
)

func cellFromConfig(cc config.CellConfig) (grid.Cell, error) {
	flags, err := grid.ParseFlags(cc.Flags...)
	if err != nil {
		return grid.Cell{}, err
	}
	baseCost, err := toUint16("base_cost", cc.BaseCost)
	if err != nil {
		return grid.Cell{}, err
	}
	terrain, err := toUint16("terrain", cc.Terrain)
	if err != nil {
		return grid.Cell{}, err
	}
	if cc.Elevation < math.MinInt16 || cc.Elevation > math.MaxInt16 {
		return grid.Cell{}, fmt.Errorf("elevation %d out of range", cc.Elevation)
	}
	return grid.Cell{
		BaseCost:  baseCost,
		Elevation: int16(cc.Elevation),
		TerrainID: terrain,
		Flags:     flags,
	}, nil
}

func toUint16(field string, v int) (uint16, error) {
	if v < 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("%s %d out of range 0..%d", field, v, math.MaxUint16)
	}
	return uint16(v), nil
}

// buildLayer turns one layer config into a cost layer.
func buildLayer(lc config.LayerConfig, levels int) (cost.Layer, error) {
	switch lc.Type {
	case config.LayerObstacle:
		l := cost.NewObstacleLayer(lc.Name)
		for _, level := range layerLevels(lc.Level, levels) {
			for _, c := range lc.Cells {
				l.SetBlocked(level, c[0], c[1], true)
			}
		}
		return l, nil

	case config.LayerTerrain:
		costs := make(map[uint16]int, len(lc.Costs))
		for id, c := range lc.Costs {
			tid, err := toUint16("terrain id", id)
			if err != nil {
				return nil, err
			}
			costs[tid] = c
		}
		blocked := make([]uint16, 0, len(lc.BlockedTerrain))
		for _, id := range lc.BlockedTerrain {
			tid, err := toUint16("blocked terrain id", id)
			if err != nil {
				return nil, err
			}
			blocked = append(blocked, tid)
		}
		return cost.NewTerrainLayer(lc.Name, costs, blocked...), nil

	case config.LayerZone:
		specs := make([]cost.ZoneSpec, 0, len(lc.Zones))
		for _, zc := range lc.Zones {
			spec, err := zoneSpec(zc)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
		return cost.NewZoneLayer(lc.Name, specs...)

	case config.LayerExpr:
		return cost.NewExprLayer(lc.Name, lc.Cost, lc.BlockedWhen)

	case config.LayerProfile:
		forbidden, err := grid.ParseFlags(lc.Forbidden...)
		if err != nil {
			return nil, err
		}
		avoid, err := grid.ParseFlags(lc.Avoid...)
		if err != nil {
			return nil, err
		}
		return cost.NewProfileLayer(lc.Name, forbidden, avoid, lc.AvoidCost), nil

	default:
		return nil, fmt.Errorf("unknown layer type %q", lc.Type)
	}
}

func layerLevels(level *int, levels int) []int {
	if level != nil {
		return []int{*level}
	}
	out := make([]int, levels)
	for i := range out {
		out[i] = i
	}
	return out
}

func zoneSpec(zc config.ZoneConfig) (cost.ZoneSpec, error) {
	set, err := grid.ParseFlags(zc.Set...)
	if err != nil {
		return cost.ZoneSpec{}, fmt.Errorf("zone %q set: %w", zc.Name, err)
	}
	clr, err := grid.ParseFlags(zc.Clear...)
	if err != nil {
		return cost.ZoneSpec{}, fmt.Errorf("zone %q clear: %w", zc.Name, err)
	}
	level := cost.AnyLevel
	if zc.Level != nil {
		level = *zc.Level
	}
	return cost.ZoneSpec{
		Name:   zc.Name,
		Shape:  cost.Shape(zc.Shape),
		Level:  level,
		Nodes:  zc.Nodes,
		Radius: zc.Radius,
		Cost:   zc.Cost,
		Set:    set,
		Clear:  clr,
	}, nil
}

// editCommand converts an edit config. Named flags, when present, supply
// the value of tag and one-way edits.
func editCommand(ec config.EditConfig) (grid.EditCommand, error) {
	typ, err := grid.ParseEditType(ec.Type)
	if err != nil {
		return grid.EditCommand{}, err
	}
	cmd := grid.EditCommand{
		Type:  typ,
		MinX:  ec.Rect[0],
		MinY:  ec.Rect[1],
		MaxX:  ec.Rect[2],
		MaxY:  ec.Rect[3],
		Value: ec.Value,
	}
	if len(ec.Flags) == 0 {
		return cmd, nil
	}

	flags, err := grid.ParseFlags(ec.Flags...)
	if err != nil {
		return cmd, err
	}
	switch typ {
	case grid.EditAddTags, grid.EditRemoveTags:
		cmd.Value = int((flags & grid.TagMask) >> grid.TagShift)
	case grid.EditSetOneWay:
		cmd.Value = int((flags & grid.OneWayMask) >> grid.OneWayShift)
	default:
		return cmd, fmt.Errorf("%s edit does not take flags", typ)
	}
	return cmd, nil
}
