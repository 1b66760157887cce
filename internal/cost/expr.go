package cost

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/udisondev/gridpath/internal/grid"
)

// ExprEnv is the environment exposed to cost expressions.
type ExprEnv struct {
	Level     int  `expr:"level"`
	X         int  `expr:"x"`
	Y         int  `expr:"y"`
	BaseCost  int  `expr:"base_cost"`
	Elevation int  `expr:"elevation"`
	Terrain   int  `expr:"terrain"`
	Flags     int  `expr:"flags"`
	Walkable  bool `expr:"walkable"`
}

// Tag reports whether caller tag i (0..7) is set on the cell.
func (e ExprEnv) Tag(i int) bool {
	if i < 0 || i > 7 {
		return false
	}
	return grid.Flags(e.Flags)&(grid.FlagTag0<<i) != 0
}

// ExprLayer computes an additive cost, and optionally a block condition,
// from expr-lang programs compiled once at construction.
//
//	cost:         "elevation > 40 ? 25 : 0"
//	blocked_when: "terrain == 9 && !Tag(1)"
//
// Runtime evaluation errors contribute nothing and are logged once.
type ExprLayer struct {
	name       string
	costSrc    string
	blockedSrc string
	cost       *vm.Program
	blocked    *vm.Program
	warned     bool
}

// NewExprLayer compiles the expressions. Either may be empty, not both.
func NewExprLayer(name, costExpr, blockedWhen string) (*ExprLayer, error) {
	if costExpr == "" && blockedWhen == "" {
		return nil, fmt.Errorf("expr layer %q: no expression given", name)
	}
	l := &ExprLayer{name: name, costSrc: costExpr, blockedSrc: blockedWhen}

	if costExpr != "" {
		program, err := expr.Compile(costExpr, expr.Env(ExprEnv{}))
		if err != nil {
			return nil, fmt.Errorf("expr layer %q: compiling cost: %w", name, err)
		}
		l.cost = program
	}
	if blockedWhen != "" {
		program, err := expr.Compile(blockedWhen, expr.Env(ExprEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("expr layer %q: compiling blocked_when: %w", name, err)
		}
		l.blocked = program
	}
	return l, nil
}

// Name implements Layer.
func (l *ExprLayer) Name() string { return l.name }

// Apply implements Layer.
func (l *ExprLayer) Apply(q Query) Contribution {
	env := ExprEnv{
		Level:     q.Level,
		X:         q.X,
		Y:         q.Y,
		BaseCost:  int(q.Cell.BaseCost),
		Elevation: int(q.Cell.Elevation),
		Terrain:   int(q.Cell.TerrainID),
		Flags:     int(q.Cell.Flags),
		Walkable:  q.Cell.Walkable(),
	}

	var out Contribution
	if l.blocked != nil {
		res, err := expr.Run(l.blocked, env)
		if err != nil {
			l.warn("blocked_when", l.blockedSrc, err)
			return Contribution{}
		}
		if b, _ := res.(bool); b {
			out.Or = grid.FlagBlocked
		}
	}
	if l.cost != nil {
		res, err := expr.Run(l.cost, env)
		if err != nil {
			l.warn("cost", l.costSrc, err)
			return out
		}
		c, err := toInt(res)
		if err != nil {
			l.warn("cost", l.costSrc, err)
			return out
		}
		out.Cost = c
	}
	return out
}

func (l *ExprLayer) warn(kind, src string, err error) {
	if l.warned {
		return
	}
	l.warned = true
	slog.Warn("cost expression evaluation failed",
		"layer", l.name,
		"kind", kind,
		"expression", src,
		"err", err)
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case float64:
		return int(n), nil
	case float32:
		return int(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expression returned non-numeric result %T", v)
	}
}
