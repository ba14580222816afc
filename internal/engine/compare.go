package engine

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"shadow-claim/internal/jsonpatch"
	"shadow-claim/internal/model"
)

// Compare simulates the request as given and again with an alternative stay
// (typically the entitled room), and reports the JSON patch between them.
func (e *Engine) Compare(ctx context.Context, req *model.CompareRequest) (*model.CompareResponse, error) {
	baseline, err := e.Process(ctx, &req.Simulation)
	if err != nil {
		return nil, err
	}
	alt := req.Simulation
	alt.StayContext = req.AlternativeStay
	alternative, err := e.Process(ctx, &alt)
	if err != nil {
		return nil, fmt.Errorf("alternative stay: %w", err)
	}

	a, err := toDocument(baseline.Result)
	if err != nil {
		return nil, err
	}
	b, err := toDocument(alternative.Result)
	if err != nil {
		return nil, err
	}
	fwd, bwd := jsonpatch.DiffBoth(a, b, "")
	if fwd == nil {
		fwd = []jsonpatch.Op{}
	}
	if bwd == nil {
		bwd = []jsonpatch.Op{}
	}
	return &model.CompareResponse{
		Baseline:     baseline.Result,
		Alternative:  alternative.Result,
		Patch:        fwd,
		ReversePatch: bwd,
	}, nil
}

func toDocument(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return doc, nil
}
