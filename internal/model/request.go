package model

type SimulationRequest struct {
	PolicyProfile PolicyProfile      `json:"policy_profile"`
	HospitalBill  []HospitalBillItem `json:"hospital_bill" validate:"dive"`
	StayContext   StayContext        `json:"stay_context"`
	// Optional procedure name used to look up the standard room rate when
	// the stay context carries no eligible rate.
	Procedure string `json:"procedure,omitempty"`
}

type BatchRequest struct {
	Simulations []SimulationRequest `json:"simulations"`
}

type CompareRequest struct {
	Simulation      SimulationRequest `json:"simulation"`
	AlternativeStay StayContext       `json:"alternative_stay"`
}

type ProcedureMatchRequest struct {
	Query string `json:"query"`
}
