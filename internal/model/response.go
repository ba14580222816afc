package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ShavingBreakdown is the output of the shaving calculator. TotalClaimed
// always equals the sum of the other four fields.
type ShavingBreakdown struct {
	TotalClaimed             decimal.Decimal `json:"total_claimed"`
	AdmissibleAmount         decimal.Decimal `json:"admissible_amount"`
	SavingsLostToShaving     decimal.Decimal `json:"savings_lost_to_shaving"`
	ModernTreatmentDeduction decimal.Decimal `json:"modern_treatment_deduction"`
	NonPayableDeduction      decimal.Decimal `json:"non_payable_deduction"`
}

type Summary struct {
	TotalBill       decimal.Decimal `json:"total_hospital_bill"`
	CoPayAmount     decimal.Decimal `json:"co_pay_amount"`
	EstimatedPayout decimal.Decimal `json:"estimated_payout"`
	OutOfPocket     decimal.Decimal `json:"out_of_pocket_expense"`
}

type DeductionDetail struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

type DeductionDetails struct {
	ProportionateDeduction   DeductionDetail `json:"proportionate_deduction"`
	NonMedicalItems          DeductionDetail `json:"non_medical_items"`
	CoPay                    DeductionDetail `json:"co_pay"`
	ModernTreatmentDeduction DeductionDetail `json:"modern_treatment_deduction"`
}

type PayoutResult struct {
	Summary          Summary          `json:"summary"`
	DeductionDetails DeductionDetails `json:"deduction_details"`
	Advice           []Advisory       `json:"advice"`
	Breakdown        ShavingBreakdown `json:"shaved_breakdown"`
}

// AdviceText returns the advisory messages in the order they were raised.
func (r *PayoutResult) AdviceText() []string {
	out := make([]string, 0, len(r.Advice))
	for _, a := range r.Advice {
		out = append(out, a.Message)
	}
	return out
}

// ActionableAdvice joins the advisory messages into a single line.
func (r *PayoutResult) ActionableAdvice() string {
	return strings.Join(r.AdviceText(), " | ")
}

type SimulationResponse struct {
	SimulationMetadata SimulationMetadata `json:"simulation_metadata"`
	Result             *PayoutResult      `json:"result"`
	Messages           []Advisory         `json:"messages"`
}

type SimulationMetadata struct {
	SimulationID          string `json:"simulation_id"`
	SimulationStartedAt   string `json:"simulation_started_at"`
	SimulationCompletedAt string `json:"simulation_completed_at"`
	SimulationDurationMs  int64  `json:"simulation_duration_ms"`
	SimulationOutcome     string `json:"simulation_outcome"`
}

type CompareResponse struct {
	Baseline     *PayoutResult    `json:"baseline"`
	Alternative  *PayoutResult    `json:"alternative"`
	Patch        []map[string]any `json:"patch"`
	ReversePatch []map[string]any `json:"reverse_patch"`
}

type ProcedureMatch struct {
	Procedure        string          `json:"procedure"`
	BaseCost         decimal.Decimal `json:"base_cost"`
	StandardRoomRate decimal.Decimal `json:"standard_room_rate"`
	SimilarityScore  float64         `json:"similarity_score"`
}

type ProcedureMatchResponse struct {
	Results []ProcedureMatch `json:"results"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
