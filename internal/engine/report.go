package engine

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/udisondev/gridpath/internal/pathfind"
)

// Report summarizes the results recorded by an engine.
// Cost statistics cover found paths only; expansion statistics cover all.
type Report struct {
	Queries int
	Found   int

	CostMean float64
	CostP50  float64
	CostP95  float64

	ExpandedMean float64
	ExpandedP95  float64
	ExpandedMax  float64

	PathCellsTotal int
}

// Report computes summary statistics over every result so far.
func (e *Engine) Report() Report {
	return Summarize(e.Results())
}

// Summarize computes a Report over results.
func Summarize(results []pathfind.Result) Report {
	r := Report{Queries: len(results)}
	if len(results) == 0 {
		return r
	}

	costs := make([]float64, 0, len(results))
	expanded := make([]float64, 0, len(results))
	for _, res := range results {
		expanded = append(expanded, float64(res.Expanded))
		if !res.Found {
			continue
		}
		r.Found++
		r.PathCellsTotal += len(res.Path)
		costs = append(costs, float64(res.Cost))
	}

	slices.Sort(expanded)
	r.ExpandedMean = stat.Mean(expanded, nil)
	r.ExpandedP95 = stat.Quantile(0.95, stat.Empirical, expanded, nil)
	r.ExpandedMax = floats.Max(expanded)

	if len(costs) > 0 {
		slices.Sort(costs)
		r.CostMean = stat.Mean(costs, nil)
		r.CostP50 = stat.Quantile(0.5, stat.Empirical, costs, nil)
		r.CostP95 = stat.Quantile(0.95, stat.Empirical, costs, nil)
	}
	return r
}
