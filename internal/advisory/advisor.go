package advisory

import (
	"time"

	"github.com/shopspring/decimal"

	"shadow-claim/internal/model"
)

// Input is everything an advisor may look at. It is built once per
// simulation after the payout figures are known.
type Input struct {
	Stay                model.StayContext
	Breakdown           model.ShavingBreakdown
	CoPayRate           decimal.Decimal
	AllowedRoomCategory string
	PlannedNoticeHours  int
	Now                 time.Time
}

// Advisor inspects a finished simulation and reports zero or more findings.
type Advisor interface {
	Advise(in *Input) []model.Advisory
}

// Advisors run in this order and their findings are never reordered.
var registry = []Advisor{
	RoomDowngrade{},
	NoticePeriod{},
}

// Evaluate runs every registered advisor and concatenates their findings.
func Evaluate(in *Input) []model.Advisory {
	advice := []model.Advisory{}
	for _, a := range registry {
		advice = append(advice, a.Advise(in)...)
	}
	return advice
}
