package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"shadow-claim/internal/model"
)

// ProcessBatch runs independent simulations with bounded concurrency. The
// output keeps input order; a failing item carries its own FAILURE response
// and does not stop the others. Items not started before ctx is cancelled
// are left nil and ctx.Err() is returned.
func (e *Engine) ProcessBatch(ctx context.Context, reqs []model.SimulationRequest) ([]*model.SimulationResponse, error) {
	if len(reqs) > e.maxBatch {
		return nil, &model.ValidationError{
			Field:   "simulations",
			Message: fmt.Sprintf("batch of %d exceeds the limit of %d", len(reqs), e.maxBatch),
		}
	}

	rates := e.prefetchRoomRates(ctx, reqs)

	out := make([]*model.SimulationResponse, len(reqs))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i := range reqs {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			req := reqs[i]
			if rate, ok := rates[req.Procedure]; ok && req.StayContext.EligibleCategoryRate.IsZero() {
				req.StayContext.EligibleCategoryRate = rate
			}
			resp, _ := e.Process(ctx, &req)
			out[i] = resp
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// prefetchRoomRates resolves, in one concurrent pass, the distinct procedures
// whose items still need an eligible room rate.
func (e *Engine) prefetchRoomRates(ctx context.Context, reqs []model.SimulationRequest) map[string]decimal.Decimal {
	seen := make(map[string]struct{})
	var names []string
	for i := range reqs {
		name := reqs[i].Procedure
		if name == "" || !reqs[i].StayContext.EligibleCategoryRate.IsZero() {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	return e.procedures.RoomRates(ctx, names)
}
