package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent simulators concurrently over the same duration.
// Simulators must not share mutable systems.
type Ensemble struct {
	sims []*Simulator
}

func NewEnsemble(sims ...*Simulator) *Ensemble {
	return &Ensemble{sims: sims}
}

func (e *Ensemble) Len() int { return len(e.sims) }

// Run returns one result per simulator in the order they were given. The
// first failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, duration, frame float64) ([]*Result, error) {
	results := make([]*Result, len(e.sims))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range e.sims {
		g.Go(func() error {
			r, err := s.Run(ctx, duration, frame)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
