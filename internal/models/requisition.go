// server/internal/models/requisition.go
package models

import (
	"encoding/json"
	"time"
)

// RequisitionStatus is the closed set of lifecycle states.
type RequisitionStatus string

const (
	StatusInitiated  RequisitionStatus = "INITIATED"
	StatusSubmitted  RequisitionStatus = "SUBMITTED"
	StatusAuthorized RequisitionStatus = "AUTHORIZED"
	StatusApproved   RequisitionStatus = "APPROVED"
)

// Valid reports whether s is one of the four known states.
func (s RequisitionStatus) Valid() bool {
	switch s {
	case StatusInitiated, StatusSubmitted, StatusAuthorized, StatusApproved:
		return true
	}
	return false
}

// Requisition is a facility's periodic resupply request.
// Line items are kept as raw JSON; their schema belongs to the caller.
type Requisition struct {
	ID                 string            `json:"id"`
	FacilityID         string            `json:"facilityId"`
	ProgramID          string            `json:"programId"`
	ProcessingPeriodID string            `json:"processingPeriodId"`
	Status             RequisitionStatus `json:"status"`
	Emergency          bool              `json:"emergency"`
	CreatedDate        time.Time         `json:"createdDate"`
	ModifiedDate       time.Time         `json:"modifiedDate"`
	LineItems          []json.RawMessage `json:"requisitionLineItems"`
}

// Clone returns a copy that shares no mutable state with r.
func (r *Requisition) Clone() Requisition {
	out := *r
	if r.LineItems != nil {
		out.LineItems = make([]json.RawMessage, len(r.LineItems))
		copy(out.LineItems, r.LineItems)
	} else {
		out.LineItems = []json.RawMessage{}
	}
	return out
}

// RequisitionFilter is a conjunction; empty fields match everything.
type RequisitionFilter struct {
	FacilityID         string
	ProgramID          string
	ProcessingPeriodID string
	Status             string
}

func (f RequisitionFilter) Matches(r *Requisition) bool {
	if f.FacilityID != "" && r.FacilityID != f.FacilityID {
		return false
	}
	if f.ProgramID != "" && r.ProgramID != f.ProgramID {
		return false
	}
	if f.ProcessingPeriodID != "" && r.ProcessingPeriodID != f.ProcessingPeriodID {
		return false
	}
	if f.Status != "" && string(r.Status) != f.Status {
		return false
	}
	return true
}
