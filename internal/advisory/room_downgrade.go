package advisory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"shadow-claim/internal/model"
)

// RoomDowngrade estimates what the insured would recover by moving to the
// room category the policy allows.
type RoomDowngrade struct{}

func (RoomDowngrade) Advise(in *Input) []model.Advisory {
	if !in.Stay.ActualRentPerDay.GreaterThan(in.Stay.EligibleCategoryRate) {
		return nil
	}
	gain := in.Breakdown.SavingsLostToShaving.Mul(decimal.NewFromInt(1).Sub(in.CoPayRate))
	return []model.Advisory{{
		Level:   model.LevelWarning,
		Code:    model.CodeRoomDowngrade,
		Message: fmt.Sprintf("Downgrading to %s could save you ₹%s in 'shaving' penalties.", in.AllowedRoomCategory, gain.StringFixedBank(0)),
	}}
}
