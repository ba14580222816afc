package handler

import (
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"shadow-claim/internal/engine"
	"shadow-claim/internal/model"
	"shadow-claim/internal/obs"
)

const (
	PathSimulate       = "/shadow-claim/simulate-payout"
	PathSimulateBatch  = "/shadow-claim/simulate-payout/batch"
	PathCompare        = "/shadow-claim/compare"
	PathMatchProcedure = "/shadow-claim/match-procedure"
	PathHealth         = "/healthz"
	PathMetrics        = "/metrics"
)

type Handler struct {
	engine  *engine.Engine
	metrics *obs.Metrics
	logger  zerolog.Logger
	scrape  fasthttp.RequestHandler
}

// New builds the HTTP handler. gatherer backs /metrics; a nil gatherer
// serves the default registry.
func New(e *engine.Engine, metrics *obs.Metrics, gatherer prometheus.Gatherer, logger zerolog.Logger) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		engine:  e,
		metrics: metrics,
		logger:  logger,
		scrape:  fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
	}
}

// Handle is the fasthttp entry point.
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	path := string(ctx.Path())

	switch path {
	case PathSimulate:
		h.post(ctx, h.simulate)
	case PathSimulateBatch:
		h.post(ctx, h.simulateBatch)
	case PathCompare:
		h.post(ctx, h.compare)
	case PathMatchProcedure:
		h.post(ctx, h.matchProcedure)
	case PathHealth:
		h.get(ctx, func(ctx *fasthttp.RequestCtx) {
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		})
	case PathMetrics:
		h.get(ctx, h.scrape)
	default:
		path = "unmatched"
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}

	status := ctx.Response.StatusCode()
	if h.metrics != nil {
		h.metrics.HTTPRequestsTotal.WithLabelValues(string(ctx.Method()), path, strconv.Itoa(status)).Inc()
	}
	h.logger.Info().
		Str("method", string(ctx.Method())).
		Str("path", string(ctx.Path())).
		Int("status", status).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("http_request")
}

func (h *Handler) post(ctx *fasthttp.RequestCtx, next fasthttp.RequestHandler) {
	if !ctx.IsPost() {
		ctx.Response.Header.Set(fasthttp.HeaderAllow, fasthttp.MethodPost)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	next(ctx)
}

func (h *Handler) get(ctx *fasthttp.RequestCtx, next fasthttp.RequestHandler) {
	if !ctx.IsGet() {
		ctx.Response.Header.Set(fasthttp.HeaderAllow, fasthttp.MethodGet)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	next(ctx)
}

func (h *Handler) simulate(ctx *fasthttp.RequestCtx) {
	var req model.SimulationRequest
	if !decode(ctx, &req) {
		return
	}
	resp, err := h.engine.Process(ctx, &req)
	switch {
	case err == nil:
		writeJSON(ctx, fasthttp.StatusOK, resp)
	case engine.IsValidation(err):
		writeJSON(ctx, fasthttp.StatusBadRequest, resp)
	default:
		h.internalError(ctx, err)
	}
}

func (h *Handler) simulateBatch(ctx *fasthttp.RequestCtx) {
	var req model.BatchRequest
	if !decode(ctx, &req) {
		return
	}
	if len(req.Simulations) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "At least one simulation is required")
		return
	}
	out, err := h.engine.ProcessBatch(ctx, req.Simulations)
	switch {
	case err == nil:
		writeJSON(ctx, fasthttp.StatusOK, out)
	case engine.IsValidation(err):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
	default:
		h.internalError(ctx, err)
	}
}

func (h *Handler) compare(ctx *fasthttp.RequestCtx) {
	var req model.CompareRequest
	if !decode(ctx, &req) {
		return
	}
	out, err := h.engine.Compare(ctx, &req)
	switch {
	case err == nil:
		writeJSON(ctx, fasthttp.StatusOK, out)
	case engine.IsValidation(err):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
	default:
		h.internalError(ctx, err)
	}
}

func (h *Handler) matchProcedure(ctx *fasthttp.RequestCtx) {
	var req model.ProcedureMatchRequest
	if !decode(ctx, &req) {
		return
	}
	out, err := h.engine.MatchProcedures(&req)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, out)
}

func (h *Handler) internalError(ctx *fasthttp.RequestCtx, err error) {
	h.logger.Error().Err(err).Str("path", string(ctx.Path())).Msg("request failed")
	writeError(ctx, fasthttp.StatusInternalServerError, "Internal error")
}

func decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = fasthttp.StatusInternalServerError
		body = []byte(`{"status":500,"message":"Internal error"}`)
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, model.ErrorResponse{
		Status:  status,
		Message: message,
	})
}
