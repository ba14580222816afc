package model

import "github.com/shopspring/decimal"

// DefaultCategory is assumed for bill items that arrive without a category.
const DefaultCategory = "Associated"

// Categories exempt from shaving when the room rent rule excludes ICU and
// pharmacy charges.
const (
	CategoryICU         = "ICU"
	CategoryPharmacy    = "Pharmacy"
	CategoryImplants    = "Implants"
	CategoryDiagnostics = "Diagnostics"
)

type HospitalBillItem struct {
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount" validate:"gte=0"`
}

// CategoryOrDefault returns the item category, or DefaultCategory when blank.
func (i HospitalBillItem) CategoryOrDefault() string {
	if i.Category == "" {
		return DefaultCategory
	}
	return i.Category
}

type StayContext struct {
	ChosenCategory       string          `json:"chosen_category"`
	ActualRentPerDay     decimal.Decimal `json:"actual_rent" validate:"gte=0"`
	EligibleCategoryRate decimal.Decimal `json:"eligible_category_rate" validate:"gte=0"`
	// ISO-8601 date or date-time; may be empty, past or future.
	AdmissionDate string `json:"admission_date"`
}
