package handler

import (
	"net"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"shadow-claim/internal/engine"
	"shadow-claim/internal/model"
	"shadow-claim/internal/obs"
	"shadow-claim/internal/payout"
)

const simulateBody = `{
	"policy_profile": {
		"room_rent_limit": {"limit_type": "category", "value": "Private Single A/C Room"},
		"co_pay": {"percentage": 10},
		"modern_treatments": {},
		"non_payable_items": ["Cosmetic Consumable"],
		"notice_period": {"planned_hours": 48},
		"sum_insured": 500000
	},
	"hospital_bill": [
		{"name": "Room Charges", "category": "Associated", "amount": 8000},
		{"name": "ICU Charges", "category": "ICU", "amount": 10000},
		{"name": "Cosmetic Consumable", "category": "Pharmacy", "amount": 500}
	],
	"stay_context": {"chosen_category": "Deluxe Room", "actual_rent": 4000, "eligible_category_rate": 2000}
}`

type testServer struct {
	client  *fasthttp.Client
	metrics *obs.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := obs.NewMetrics("test", reg)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng := engine.New(engine.Options{
		Simulator:    payout.New(payout.DefaultConfig(), payout.WithClock(func() time.Time { return now })),
		Metrics:      metrics,
		Logger:       zerolog.Nop(),
		MaxBatchSize: 2,
	})
	h := New(eng, metrics, reg, zerolog.Nop())

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: h.Handle}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	return &testServer{
		client: &fasthttp.Client{
			Dial: func(string) (net.Conn, error) { return ln.Dial() },
		},
		metrics: metrics,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://shadow-claim.test" + path)
	req.Header.SetMethod(method)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}
	require.NoError(t, s.client.Do(req, resp))
	return resp.StatusCode(), append([]byte(nil), resp.Body()...)
}

func TestSimulatePayout(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fasthttp.MethodPost, PathSimulate, simulateBody)
	require.Equal(t, fasthttp.StatusOK, status, string(body))

	var resp model.SimulationResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, model.OutcomeSuccess, resp.SimulationMetadata.SimulationOutcome)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "12600", resp.Result.Summary.EstimatedPayout.String())
	assert.Equal(t, "5900", resp.Result.Summary.OutOfPocket.String())
	assert.Contains(t, resp.Result.ActionableAdvice(), "₹3600")

	assert.Equal(t, float64(1), testutil.ToFloat64(
		s.metrics.HTTPRequestsTotal.WithLabelValues(fasthttp.MethodPost, PathSimulate, "200")))
}

func TestSimulatePayoutZeroSumInsured(t *testing.T) {
	s := newTestServer(t)
	body := strings.Replace(simulateBody, `"sum_insured": 500000`, `"sum_insured": 0`, 1)

	status, raw := s.do(t, fasthttp.MethodPost, PathSimulate, body)
	require.Equal(t, fasthttp.StatusBadRequest, status)

	var resp model.SimulationResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Equal(t, model.OutcomeFailure, resp.SimulationMetadata.SimulationOutcome)
	assert.Nil(t, resp.Result)
	require.Len(t, resp.Messages, 1)
	assert.Contains(t, resp.Messages[0].Message, "sum_insured")
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)

	status, raw := s.do(t, fasthttp.MethodPost, PathSimulate, `{"policy_profile":`)
	require.Equal(t, fasthttp.StatusBadRequest, status)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Equal(t, fasthttp.StatusBadRequest, resp.Status)
	assert.True(t, strings.HasPrefix(resp.Message, "Invalid request body"))
}

func TestRouting(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{fasthttp.MethodGet, PathSimulate, fasthttp.StatusMethodNotAllowed},
		{fasthttp.MethodPut, PathCompare, fasthttp.StatusMethodNotAllowed},
		{fasthttp.MethodPost, PathHealth, fasthttp.StatusMethodNotAllowed},
		{fasthttp.MethodGet, "/shadow-claim/unknown", fasthttp.StatusNotFound},
		{fasthttp.MethodGet, PathHealth, fasthttp.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, _ := s.do(t, tt.method, tt.path, "")
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestSimulateBatch(t *testing.T) {
	s := newTestServer(t)
	bad := strings.Replace(simulateBody, `"sum_insured": 500000`, `"sum_insured": 0`, 1)

	status, raw := s.do(t, fasthttp.MethodPost, PathSimulateBatch, `{"simulations":[`+simulateBody+`,`+bad+`]}`)
	require.Equal(t, fasthttp.StatusOK, status, string(raw))

	var out []model.SimulationResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out, 2)
	assert.Equal(t, model.OutcomeSuccess, out[0].SimulationMetadata.SimulationOutcome)
	assert.Equal(t, model.OutcomeFailure, out[1].SimulationMetadata.SimulationOutcome)

	status, _ = s.do(t, fasthttp.MethodPost, PathSimulateBatch, `{"simulations":[`+simulateBody+`,`+simulateBody+`,`+simulateBody+`]}`)
	assert.Equal(t, fasthttp.StatusBadRequest, status)

	status, _ = s.do(t, fasthttp.MethodPost, PathSimulateBatch, `{"simulations":[]}`)
	assert.Equal(t, fasthttp.StatusBadRequest, status)
}

func TestCompare(t *testing.T) {
	s := newTestServer(t)
	body := `{"simulation":` + simulateBody + `,"alternative_stay":{"chosen_category":"Private Single A/C Room","actual_rent":2000,"eligible_category_rate":2000}}`

	status, raw := s.do(t, fasthttp.MethodPost, PathCompare, body)
	require.Equal(t, fasthttp.StatusOK, status, string(raw))

	var out model.CompareResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "16200", out.Alternative.Summary.EstimatedPayout.String())
	assert.NotEmpty(t, out.Patch)
}

func TestMatchProcedure(t *testing.T) {
	s := newTestServer(t)

	status, raw := s.do(t, fasthttp.MethodPost, PathMatchProcedure, `{"query":"knee replacment"}`)
	require.Equal(t, fasthttp.StatusOK, status, string(raw))

	var out model.ProcedureMatchResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Results, 3)
	assert.Equal(t, "Knee Replacement", out.Results[0].Procedure)
	assert.Equal(t, "3000", out.Results[0].StandardRoomRate.String())

	status, _ = s.do(t, fasthttp.MethodPost, PathMatchProcedure, `{"query":""}`)
	assert.Equal(t, fasthttp.StatusBadRequest, status)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, fasthttp.MethodPost, PathSimulate, simulateBody)

	status, raw := s.do(t, fasthttp.MethodGet, PathMetrics, "")
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(raw), "test_simulations_total")
}
