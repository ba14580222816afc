package payout

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"shadow-claim/internal/advisory"
	"shadow-claim/internal/model"
	"shadow-claim/internal/shaving"
)

var hundred = decimal.NewFromInt(100)

// Simulator turns a policy profile and an itemised bill into a payout
// estimate. It holds no mutable state and is safe for concurrent use.
type Simulator struct {
	cfg Config
	now func() time.Time
}

type Option func(*Simulator)

// WithClock replaces time.Now for the notice-period check.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

func New(cfg Config, opts ...Option) *Simulator {
	s := &Simulator{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}


// ShavingConfig derives the shaving rules from the policy's room rent rule.
func (s *Simulator) ShavingConfig(rule model.RoomRentRule) shaving.Config {
	cfg := shaving.Config{
		AllowedRoomCategory: s.cfg.DefaultRoomCategory,
		ShavingApplies:      true,
	}
	if rule.Value.Category != "" {
		cfg.AllowedRoomCategory = rule.Value.Category
	}
	if rule.ProportionateDeduction != nil {
		cfg.ShavingApplies = *rule.ProportionateDeduction
	}
	if rule.ExcludesICUAndPharmacy == nil || *rule.ExcludesICUAndPharmacy {
		cfg.ProtectedCategories = append([]string(nil), s.cfg.ProtectedCategories...)
	}
	return cfg
}

// CoPayRate returns the co-pay fraction in [0, 1]. Entry-age based co-pay is
// waived when the insured entered below the threshold age.
func (s *Simulator) CoPayRate(p *model.PolicyProfile) decimal.Decimal {
	rate := p.CoPayRule.Percentage.Div(hundred)
	if !p.CoPayRule.IsEntryAgeBased {
		return rate
	}
	threshold := s.cfg.DefaultCoPayThresholdAge
	if p.CoPayRule.ThresholdAge != nil {
		threshold = *p.CoPayRule.ThresholdAge
	}
	age := s.cfg.DefaultEntryAge
	if p.UserEntryAge != nil {
		age = *p.UserEntryAge
	}
	if age < threshold {
		return decimal.Zero
	}
	return rate
}

// Simulate computes the payout for one bill. The only error it returns is a
// *model.ValidationError, raised before the bill is looked at.
func (s *Simulator) Simulate(p *model.PolicyProfile, bill []model.HospitalBillItem, stay model.StayContext) (*model.PayoutResult, error) {
	if p.SumInsured.IsZero() {
		return nil, &model.ValidationError{Field: "sum_insured", Message: "sum insured is 0, cannot simulate payout"}
	}
	now := s.now()

	shaveCfg := s.ShavingConfig(p.RoomRentRule)
	rate := s.CoPayRate(p)

	b := shaving.Compute(shaveCfg, p.ModernTreatmentLimits, p.NonPayableItems, bill, stay, p.SumInsured)

	coPay := b.AdmissibleAmount.Mul(rate)
	payout := b.AdmissibleAmount.Sub(coPay)

	notice := s.cfg.DefaultPlannedNoticeHours
	if p.NoticePeriod.PlannedHours != nil {
		notice = *p.NoticePeriod.PlannedHours
	}

	return &model.PayoutResult{
		Summary: model.Summary{
			TotalBill:       b.TotalClaimed,
			CoPayAmount:     coPay,
			EstimatedPayout: payout,
			OutOfPocket:     b.TotalClaimed.Sub(payout),
		},
		DeductionDetails: deductionDetails(b, coPay, rate),
		Advice: advisory.Evaluate(&advisory.Input{
			Stay:                stay,
			Breakdown:           b,
			CoPayRate:           rate,
			AllowedRoomCategory: shaveCfg.AllowedRoomCategory,
			PlannedNoticeHours:  notice,
			Now:                 now,
		}),
		Breakdown: b,
	}, nil
}

func deductionDetails(b model.ShavingBreakdown, coPay, rate decimal.Decimal) model.DeductionDetails {
	coPayReason := "Waived based on entry age."
	if !rate.IsZero() {
		coPayReason = fmt.Sprintf("Applied at %s%%.", rate.Mul(hundred).Round(0).String())
	}
	return model.DeductionDetails{
		ProportionateDeduction: model.DeductionDetail{
			Amount: b.SavingsLostToShaving,
			Reason: "Associated expenses reduced due to room category upgrade.",
		},
		NonMedicalItems: model.DeductionDetail{
			Amount: b.NonPayableDeduction,
			Reason: "Excluded consumables scrubbed from bill.",
		},
		CoPay: model.DeductionDetail{
			Amount: coPay,
			Reason: coPayReason,
		},
		ModernTreatmentDeduction: model.DeductionDetail{
			Amount: b.ModernTreatmentDeduction,
			Reason: "Costs exceeded policy sub-limits for advanced procedures.",
		},
	}
}
