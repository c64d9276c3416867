package models

import (
	"encoding/json"
	"strconv"
)

// IdentityNumber is a voter identity number parsed from user input.
// Fragments that do not convert stay in position and are sent as null,
// leaving their rejection to the backend.
type IdentityNumber struct {
	Value int64
	Valid bool
}

func (n IdentityNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(n.Value, 10)), nil
}

func (n *IdentityNumber) UnmarshalJSON(data []byte) error {
	var value *int64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if value == nil {
		*n = IdentityNumber{}
		return nil
	}
	*n = IdentityNumber{Value: *value, Valid: true}
	return nil
}

// AddPlanillaRequest is the body of the create-planilla call
type AddPlanillaRequest struct {
	CedulaDirigente  string           `json:"cedulaDirigente"`
	NombreDirigente  string           `json:"nombreDirigente"`
	CedulaPlanillero string           `json:"cedulaPlanillero"`
	CedulasVotantes  []IdentityNumber `json:"cedulasVotantes"`
}

// SubmissionResult is what the backend reports about a create call.
// A nil or zero TotalInsertados means nothing was created.
type SubmissionResult struct {
	PlanillaID       *int64  `json:"planillaId"`
	CedulasRepetidas []int64 `json:"cedulasRepetidas"`
	TotalInsertados  *int64  `json:"totalInsertados"`
}

// AddPlanillaResponse wraps SubmissionResult
type AddPlanillaResponse struct {
	Success bool             `json:"success"`
	Data    SubmissionResult `json:"data"`
	Message string           `json:"message"`
}

// FailureReason distinguishes the failed submission notices
type FailureReason string

const (
	FailureAllDuplicates FailureReason = "all_duplicates"
	FailureGeneric       FailureReason = "generic"
)

// SubmissionOutcome is the classified result of a create call:
// SubmissionSuccess, SubmissionPartial or SubmissionFailure.
type SubmissionOutcome interface {
	outcome()
}

type SubmissionSuccess struct {
	PlanillaID *int64
	Inserted   int64
}

type SubmissionPartial struct {
	PlanillaID *int64
	Inserted   int64
	Duplicates []int64
}

type SubmissionFailure struct {
	Reason     FailureReason
	Duplicates []int64
}

func (SubmissionSuccess) outcome() {}
func (SubmissionPartial) outcome() {}
func (SubmissionFailure) outcome() {}
