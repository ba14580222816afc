package model

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// UpToSumInsured is the limit text meaning a treatment is covered up to the
// full sum insured, i.e. no sub-limit.
const UpToSumInsured = "Up to Sum Insured"

// PolicyProfile is the structured policy produced by the extraction service.
// JSON keys follow the stored policy document.
type PolicyProfile struct {
	RoomRentRule          RoomRentRule    `json:"room_rent_limit"`
	CoPayRule             CoPayRule       `json:"co_pay"`
	ModernTreatmentLimits TreatmentLimits `json:"modern_treatments"`
	NonPayableItems       []string        `json:"non_payable_items"`
	NoticePeriod          NoticePeriod    `json:"notice_period"`
	SumInsured            decimal.Decimal `json:"sum_insured" validate:"gte=0"`
	UserEntryAge          *int            `json:"user_entry_age,omitempty" validate:"omitempty,gte=0"`
}

type RoomRentRule struct {
	LimitType              string         `json:"limit_type"`
	Value                  RoomLimitValue `json:"value"`
	ProportionateDeduction *bool          `json:"proportionate_deduction,omitempty"`
	ExcludesICUAndPharmacy *bool          `json:"excludes_icu_and_pharmacy,omitempty"`
}

// RoomLimitValue holds the room rent limit as extracted: either a room
// category ("Private Single A/C Room") or a numeric rent cap.
type RoomLimitValue struct {
	Category string
	Amount   *decimal.Decimal
}

func (v *RoomLimitValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = RoomLimitValue{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v.Category = strings.TrimSpace(s)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		// Unparseable values fall back to the default room category.
		return nil
	}
	v.Amount = &d
	return nil
}

func (v RoomLimitValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Category != "":
		return json.Marshal(v.Category)
	case v.Amount != nil:
		return []byte(v.Amount.String()), nil
	default:
		return []byte("null"), nil
	}
}

type CoPayRule struct {
	Percentage      decimal.Decimal `json:"percentage" validate:"gte=0,lte=100"`
	IsEntryAgeBased bool            `json:"is_entry_age_based"`
	ThresholdAge    *int            `json:"threshold_age,omitempty"`
	IsZoneBased     bool            `json:"is_zone_based"`
}

type NoticePeriod struct {
	PlannedHours   *int `json:"planned_hours,omitempty"`
	EmergencyHours *int `json:"emergency_hours,omitempty"`
}

// TreatmentLimit is the sub-limit for one advanced treatment. A nil Caps
// table means the treatment is covered up to the sum insured.
type TreatmentLimit struct {
	Name    string
	Covered bool
	Caps    CapTable
}

// CapTable maps a stringified integer sum insured to its cap text.
type CapTable map[string]string

// Cap returns the numeric cap for the given sum insured, or false when the
// treatment is uncapped at that sum insured.
func (t CapTable) Cap(sumInsured decimal.Decimal) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	raw, ok := t[sumInsured.Truncate(0).String()]
	if !ok {
		return decimal.Zero, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, UpToSumInsured) {
		return decimal.Zero, false
	}
	c, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil || c.IsNegative() {
		return decimal.Zero, false
	}
	return c, true
}

// TreatmentLimits keeps the declaration order of the modern treatment map,
// which decides which limit wins when several names match an item.
type TreatmentLimits []TreatmentLimit

type treatmentLimitBody struct {
	Covered *bool              `json:"covered"`
	Limit   json.RawMessage `json:"limit"`
}

func (l *TreatmentLimits) UnmarshalJSON(data []byte) error {
	*l = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("modern_treatments: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("modern_treatments %q: %w", name, err)
		}
		limit, err := parseTreatmentLimit(name, raw)
		if err != nil {
			return err
		}
		*l = append(*l, limit)
	}
	_, err = dec.Token()
	return err
}

func parseTreatmentLimit(name string, raw []byte) (TreatmentLimit, error) {
	limit := TreatmentLimit{Name: name, Covered: true}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return limit, nil
	}
	var body treatmentLimitBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return limit, fmt.Errorf("modern_treatments %q: %w", name, err)
	}
	if body.Covered == nil && len(body.Limit) == 0 {
		// Older profiles store the cap table directly under the treatment.
		limit.Caps = parseCapTable(raw)
		return limit, nil
	}
	if body.Covered != nil {
		limit.Covered = *body.Covered
	}
	limit.Caps = parseCapTable(body.Limit)
	return limit, nil
}

// parseCapTable accepts "Up to Sum Insured" or an object of sum insured to
// cap. Cap values may be strings or numbers.
func parseCapTable(raw []byte) CapTable {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	table := make(CapTable, len(entries))
	for k, v := range entries {
		v = bytes.TrimSpace(v)
		if len(v) > 0 && v[0] == '"' {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				table[k] = s
			}
			continue
		}
		table[k] = string(v)
	}
	return table
}

func (l TreatmentLimits) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		var limit any = UpToSumInsured
		if t.Caps != nil {
			limit = map[string]string(t.Caps)
		}
		body, err := json.Marshal(map[string]any{"covered": t.Covered, "limit": limit})
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
