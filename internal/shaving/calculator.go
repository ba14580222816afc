package shaving

import (
	"github.com/shopspring/decimal"

	"shadow-claim/internal/model"
)

// Config controls how room-rent shaving is applied to a bill.
type Config struct {
	AllowedRoomCategory string
	ShavingApplies      bool
	// Categories that are never shaved, e.g. ICU or Pharmacy.
	ProtectedCategories []string
}

func (c Config) isProtected(category string) bool {
	for _, p := range c.ProtectedCategories {
		if p == category {
			return true
		}
	}
	return false
}

var one = decimal.NewFromInt(1)

// Multiplier returns the proportion of non-protected charges that stays
// admissible for the given stay. It is always in (0, 1].
func Multiplier(cfg Config, stay model.StayContext) decimal.Decimal {
	if !cfg.ShavingApplies || stay.ChosenCategory == cfg.AllowedRoomCategory {
		return one
	}
	if !stay.ActualRentPerDay.IsPositive() || !stay.EligibleCategoryRate.IsPositive() {
		return one
	}
	m := stay.EligibleCategoryRate.Div(stay.ActualRentPerDay)
	if !m.IsPositive() {
		// Div keeps 16 fractional digits; widen until the ratio shows up.
		prec := int32(len(stay.ActualRentPerDay.Truncate(0).String())) + int32(decimal.DivisionPrecision)
		m = stay.EligibleCategoryRate.DivRound(stay.ActualRentPerDay, prec-stay.EligibleCategoryRate.Exponent())
	}
	return decimal.Min(m, one)
}

type normalizedLimit struct {
	slug string
	caps model.CapTable
}

// Compute walks the bill in order and splits every item amount between
// non-payable exclusion, sub-limit deduction, shaving loss and the
// admissible amount.
func Compute(
	cfg Config,
	limits model.TreatmentLimits,
	nonPayable []string,
	bill []model.HospitalBillItem,
	stay model.StayContext,
	sumInsured decimal.Decimal,
) model.ShavingBreakdown {
	normalized := make([]normalizedLimit, 0, len(limits))
	for _, l := range limits {
		normalized = append(normalized, normalizedLimit{slug: Slug(l.Name), caps: l.Caps})
	}
	excluded := nonPayableSet(nonPayable)
	multiplier := Multiplier(cfg, stay)

	var b model.ShavingBreakdown
	for _, item := range bill {
		amount := item.Amount
		b.TotalClaimed = b.TotalClaimed.Add(amount)

		if _, ok := excluded[itemKey(item.Name)]; ok {
			b.NonPayableDeduction = b.NonPayableDeduction.Add(amount)
			continue
		}

		base := amount
		itemSlug := Slug(item.Name)
		for _, l := range normalized {
			if !slugMatches(l.slug, itemSlug) {
				continue
			}
			// First declared match wins, capped or not.
			if limit, ok := l.caps.Cap(sumInsured); ok && amount.GreaterThan(limit) {
				b.ModernTreatmentDeduction = b.ModernTreatmentDeduction.Add(amount.Sub(limit))
				base = limit
			}
			break
		}

		if cfg.isProtected(item.CategoryOrDefault()) {
			b.AdmissibleAmount = b.AdmissibleAmount.Add(base)
			continue
		}
		shaved := base.Mul(multiplier)
		b.AdmissibleAmount = b.AdmissibleAmount.Add(shaved)
		b.SavingsLostToShaving = b.SavingsLostToShaving.Add(base.Sub(shaved))
	}
	return b
}
