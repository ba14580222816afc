package model

// Advisory is one actionable finding attached to a payout result.
type Advisory struct {
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

const (
	CodeRoomDowngrade = "ROOM_DOWNGRADE"
	CodeNoticePeriod  = "NOTICE_PERIOD"
	CodeInvalidInput  = "INVALID_INPUT"
)
