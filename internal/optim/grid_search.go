package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/sim"
)

var (
	ErrNoCandidate   = errors.New("optim: no stable candidate")
	ErrBadRanges     = errors.New("optim: one value range per parameter required")
	ErrUnknownMetric = errors.New("optim: metric not reported")
)

// Candidate is one evaluated parameter combination.
type Candidate struct {
	Params map[string]float64
	Value  float64
	Stable bool
}

// GridSearch evaluates every combination of parameter values and keeps the
// stable one with the lowest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs all combinations over base concurrently. Combinations that fail
// validation are skipped. Ties keep the first combination in grid order.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
) (map[string]float64, float64, []Candidate, error) {
	if len(g.paramNames) != len(g.ranges) || len(g.paramNames) == 0 {
		return nil, 0, nil, ErrBadRanges
	}
	probe := *base
	for _, name := range g.paramNames {
		if err := automation.ApplyParam(&probe, name, 0); err != nil {
			return nil, 0, nil, err
		}
	}

	var combos []map[string]float64
	g.searchRecursive(0, make(map[string]float64), &combos)

	var (
		sims []*sim.Simulator
		kept []map[string]float64
	)
	for _, params := range combos {
		cfg := *base
		for name, v := range params {
			automation.ApplyParam(&cfg, name, v)
		}
		exp, err := experiment.New(&cfg, reg)
		if err != nil {
			continue
		}
		sims = append(sims, exp.GetSimulator())
		kept = append(kept, params)
	}
	if len(sims) == 0 {
		return nil, 0, nil, ErrNoCandidate
	}

	results, err := sim.NewEnsemble(sims...).Run(ctx, base.Duration, base.Frame)
	if err != nil {
		return nil, 0, nil, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	candidates := make([]Candidate, len(results))
	for i, r := range results {
		val, ok := r.Metrics[metricName]
		if !ok {
			return nil, 0, nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metricName)
		}
		stable := r.Metrics["stability"] == 1
		candidates[i] = Candidate{Params: kept[i], Value: val, Stable: stable}
		if stable && val < best {
			best = val
			bestParams = kept[i]
		}
	}
	if bestParams == nil {
		return nil, 0, candidates, ErrNoCandidate
	}
	return bestParams, best, candidates, nil
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(depth+1, newParams, out)
	}
}
