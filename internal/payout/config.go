package payout

import "shadow-claim/internal/model"

// Config carries the defaults the orchestrator falls back to when the
// extracted policy leaves a field out.
type Config struct {
	// Used when the room rent rule excludes ICU and pharmacy charges.
	ProtectedCategories       []string
	DefaultRoomCategory       string
	DefaultCoPayThresholdAge  int
	DefaultPlannedNoticeHours int
	DefaultEntryAge           int
}

func DefaultConfig() Config {
	return Config{
		ProtectedCategories:       []string{model.CategoryICU, model.CategoryPharmacy, model.CategoryImplants, model.CategoryDiagnostics},
		DefaultRoomCategory:       "Private Single A/C Room",
		DefaultCoPayThresholdAge:  61,
		DefaultPlannedNoticeHours: 48,
		DefaultEntryAge:           40,
	}
}
