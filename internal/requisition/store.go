// server/internal/requisition/store.go
package requisition

import (
	"encoding/json"
	"sync"
	"time"

	"lmis-mock-server/internal/apperror"
	"lmis-mock-server/internal/models"

	"github.com/google/uuid"
)

const entityName = "Requisition"

// transitions is the only place the lifecycle is defined: current -> next.
// APPROVED has no outgoing edge.
var transitions = map[models.RequisitionStatus]models.RequisitionStatus{
	models.StatusInitiated:  models.StatusSubmitted,
	models.StatusSubmitted:  models.StatusAuthorized,
	models.StatusAuthorized: models.StatusApproved,
}

// actions names the operation that reaches a status, for error messages.
var actions = map[models.RequisitionStatus]string{
	models.StatusSubmitted:  "submit",
	models.StatusAuthorized: "authorize",
	models.StatusApproved:   "approve",
}

// CreateInput carries the fields accepted by Create.
type CreateInput struct {
	FacilityID         string
	ProgramID          string
	ProcessingPeriodID string
	Emergency          bool
	LineItems          []json.RawMessage
}

// Store holds requisitions in insertion order.
type Store struct {
	mu    sync.RWMutex
	items []*models.Requisition
	index map[string]int
	now   func() time.Time
}

// NewStore builds a store seeded with the given requisitions.
func NewStore(seed []models.Requisition) *Store {
	s := &Store{
		items: make([]*models.Requisition, 0, len(seed)),
		index: make(map[string]int, len(seed)),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for i := range seed {
		r := seed[i].Clone()
		s.index[r.ID] = len(s.items)
		s.items = append(s.items, &r)
	}
	return s
}

// SetClock overrides the time source. Used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// List returns matching requisitions in insertion order.
func (s *Store) List(filter models.RequisitionFilter) []models.Requisition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(filter.Matches)
}

// Get returns a copy of the requisition with id.
func (s *Store) Get(id string) (models.Requisition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.lookup(id)
	if !ok {
		return models.Requisition{}, apperror.NotFound(entityName)
	}
	return r.Clone(), nil
}

// Create appends a new INITIATED requisition.
func (s *Store) Create(in CreateInput) (models.Requisition, error) {
	if in.FacilityID == "" || in.ProgramID == "" || in.ProcessingPeriodID == "" {
		return models.Requisition{}, apperror.Validation("Missing required fields")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	r := &models.Requisition{
		ID:                 uuid.New().String(),
		FacilityID:         in.FacilityID,
		ProgramID:          in.ProgramID,
		ProcessingPeriodID: in.ProcessingPeriodID,
		Status:             models.StatusInitiated,
		Emergency:          in.Emergency,
		CreatedDate:        now,
		ModifiedDate:       now,
		LineItems:          copyLineItems(in.LineItems),
	}
	s.index[r.ID] = len(s.items)
	s.items = append(s.items, r)
	return r.Clone(), nil
}

// Save overwrites the line items when lineItems is non-nil and always
// refreshes modifiedDate. Allowed in every status.
func (s *Store) Save(id string, lineItems []json.RawMessage) (models.Requisition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.lookup(id)
	if !ok {
		return models.Requisition{}, apperror.NotFound(entityName)
	}
	if lineItems != nil {
		r.LineItems = copyLineItems(lineItems)
	}
	r.ModifiedDate = s.now()
	return r.Clone(), nil
}

// Transition moves a requisition to desired, which must be the single
// successor of its current status.
func (s *Store) Transition(id string, desired models.RequisitionStatus) (models.Requisition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.lookup(id)
	if !ok {
		return models.Requisition{}, apperror.NotFound(entityName)
	}
	if next, ok := transitions[r.Status]; !ok || next != desired {
		return models.Requisition{}, apperror.InvalidTransition(
			"Cannot %s requisition in %s status", actionFor(desired), r.Status)
	}
	r.Status = desired
	r.ModifiedDate = s.now()
	return r.Clone(), nil
}

// Submit moves an INITIATED requisition to SUBMITTED.
func (s *Store) Submit(id string) (models.Requisition, error) {
	return s.Transition(id, models.StatusSubmitted)
}

// Authorize moves a SUBMITTED requisition to AUTHORIZED.
func (s *Store) Authorize(id string) (models.Requisition, error) {
	return s.Transition(id, models.StatusAuthorized)
}

// Approve moves an AUTHORIZED requisition to APPROVED.
func (s *Store) Approve(id string) (models.Requisition, error) {
	return s.Transition(id, models.StatusApproved)
}

// ListForApproval returns requisitions waiting on an approval-chain action.
func (s *Store) ListForApproval() []models.Requisition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(r *models.Requisition) bool {
		return r.Status == models.StatusSubmitted || r.Status == models.StatusAuthorized
	})
}

// ListForConversion returns approved requisitions.
func (s *Store) ListForConversion() []models.Requisition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(r *models.Requisition) bool {
		return r.Status == models.StatusApproved
	})
}

// Count returns the number of stored requisitions per status.
func (s *Store) Count() map[models.RequisitionStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.RequisitionStatus]int, len(transitions)+1)
	for _, r := range s.items {
		out[r.Status]++
	}
	return out
}

// caller holds s.mu
func (s *Store) lookup(id string) (*models.Requisition, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

// caller holds s.mu
func (s *Store) collect(keep func(*models.Requisition) bool) []models.Requisition {
	out := []models.Requisition{}
	for _, r := range s.items {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func actionFor(status models.RequisitionStatus) string {
	if a, ok := actions[status]; ok {
		return a
	}
	return "move"
}

func copyLineItems(items []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(items))
	copy(out, items)
	return out
}
