package advisory

import (
	"fmt"

	"shadow-claim/internal/model"
)

// NoticePeriod warns when a planned admission is closer than the notice the
// policy requires for cashless approval.
type NoticePeriod struct{}

func (NoticePeriod) Advise(in *Input) []model.Advisory {
	admission, ok := ParseAdmissionDate(in.Stay.AdmissionDate, in.Now.Location())
	if !ok {
		return nil
	}
	hours := admission.Sub(in.Now).Hours()
	if hours >= float64(in.PlannedNoticeHours) {
		return nil
	}
	return []model.Advisory{{
		Level:   model.LevelCritical,
		Code:    model.CodeNoticePeriod,
		Message: fmt.Sprintf("CRITICAL: Planned admission notice is < %dhrs. Inform TPA immediately to prevent cashless rejection.", in.PlannedNoticeHours),
	}}
}
