package engine

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shadow-claim/internal/model"
	"shadow-claim/internal/obs"
	"shadow-claim/internal/payout"
	"shadow-claim/internal/procedures"
	"shadow-claim/internal/shaving"
)

// Options wires the engine's collaborators. Only Simulator is required.
type Options struct {
	Simulator        *payout.Simulator
	Procedures       *procedures.Registry
	Metrics          *obs.Metrics
	Logger           zerolog.Logger
	MaxBatchSize     int
	BatchConcurrency int
}

// Engine validates simulation requests, runs them through the payout
// simulator and wraps the result with run metadata.
type Engine struct {
	sim         *payout.Simulator
	procedures  *procedures.Registry
	metrics     *obs.Metrics
	logger      zerolog.Logger
	validate    *validator.Validate
	maxBatch    int
	concurrency int
}

func New(opts Options) *Engine {
	if opts.Simulator == nil {
		opts.Simulator = payout.New(payout.DefaultConfig())
	}
	if opts.Procedures == nil {
		opts.Procedures = procedures.NewRegistry("", opts.Logger)
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = 100
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 8
	}
	return &Engine{
		sim:         opts.Simulator,
		procedures:  opts.Procedures,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		validate:    newValidator(),
		maxBatch:    opts.MaxBatchSize,
		concurrency: opts.BatchConcurrency,
	}
}

// Process runs one simulation. A validation failure still returns a
// response (outcome FAILURE) alongside the *model.ValidationError.
func (e *Engine) Process(ctx context.Context, req *model.SimulationRequest) (*model.SimulationResponse, error) {
	start := time.Now()
	resp := &model.SimulationResponse{Messages: []model.Advisory{}}

	result, err := e.simulate(ctx, req)
	outcome := model.OutcomeSuccess
	if err != nil {
		outcome = model.OutcomeFailure
		resp.Messages = append(resp.Messages, model.Advisory{
			Level:   model.LevelCritical,
			Code:    model.CodeInvalidInput,
			Message: err.Error(),
		})
		e.logger.Warn().Err(err).Msg("simulation rejected")
	} else {
		resp.Result = result
		e.logger.Debug().
			Str("total_claimed", result.Breakdown.TotalClaimed.String()).
			Str("estimated_payout", result.Summary.EstimatedPayout.String()).
			Int("advice", len(result.Advice)).
			Msg("simulation completed")
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()
	resp.SimulationMetadata = model.SimulationMetadata{
		SimulationID:          uuid.New().String(),
		SimulationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
		SimulationCompletedAt: now.Format(time.RFC3339),
		SimulationDurationMs:  elapsed.Milliseconds(),
		SimulationOutcome:     outcome,
	}
	if e.metrics != nil {
		e.metrics.SimulationsTotal.WithLabelValues(outcome).Inc()
		e.metrics.SimulationDuration.Observe(elapsed.Seconds())
	}
	return resp, err
}

func (e *Engine) simulate(ctx context.Context, req *model.SimulationRequest) (*model.PayoutResult, error) {
	if req == nil {
		return nil, &model.ValidationError{Message: "request body is required"}
	}
	if err := e.validateRequest(req); err != nil {
		return nil, err
	}

	stay := req.StayContext
	if req.Procedure != "" && stay.EligibleCategoryRate.IsZero() {
		if rate, ok := e.procedures.RoomRate(ctx, req.Procedure); ok {
			stay.EligibleCategoryRate = rate
		}
	}

	result, err := e.sim.Simulate(&req.PolicyProfile, req.HospitalBill, stay)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		m := shaving.Multiplier(e.sim.ShavingConfig(req.PolicyProfile.RoomRentRule), stay)
		e.metrics.ShavingMultiplier.Observe(m.InexactFloat64())
	}
	return result, nil
}

// IsValidation reports whether err is a client input problem.
func IsValidation(err error) bool {
	var verr *model.ValidationError
	return errors.As(err, &verr)
}
