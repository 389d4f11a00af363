// server/internal/stock/ledger.go
package stock

import (
	"sync"
	"time"

	"lmis-mock-server/internal/apperror"
	"lmis-mock-server/internal/models"

	"github.com/google/uuid"
)

const (
	// DefaultReason is recorded when a line item carries no reasonId.
	DefaultReason = "ADJUSTMENT"
	// StatusProcessed is the only status an event acknowledgement reports.
	StatusProcessed = "PROCESSED"

	occurredDateLayout = "2006-01-02"
)

var lineItemReasons = []models.StockLineItemReason{
	{ID: "reason-receive", Name: "Receipt", ReasonType: models.ReasonCredit},
	{ID: "reason-issue", Name: "Issue", ReasonType: models.ReasonDebit},
	{ID: "reason-adjustment-pos", Name: "Positive Adjustment", ReasonType: models.ReasonCredit},
	{ID: "reason-adjustment-neg", Name: "Negative Adjustment", ReasonType: models.ReasonDebit},
	{ID: "reason-expired", Name: "Expired", ReasonType: models.ReasonDebit},
	{ID: "reason-damaged", Name: "Damaged", ReasonType: models.ReasonDebit},
}

// Seed is the initial ledger content.
type Seed struct {
	StockCards        []models.StockCard              `json:"stockCards"`
	ValidSources      []models.ValidSourceDestination `json:"validSources"`
	ValidDestinations []models.ValidSourceDestination `json:"validDestinations"`
}

// Ledger owns the stock cards and their movement history.
// Cards are never created or removed after seeding.
type Ledger struct {
	mu           sync.RWMutex
	cards        []*models.StockCard
	sources      []models.ValidSourceDestination
	destinations []models.ValidSourceDestination
	now          func() time.Time
}

// NewLedger copies the seed so later events never alias it.
func NewLedger(seed Seed) *Ledger {
	l := &Ledger{
		cards:        make([]*models.StockCard, 0, len(seed.StockCards)),
		sources:      append([]models.ValidSourceDestination{}, seed.ValidSources...),
		destinations: append([]models.ValidSourceDestination{}, seed.ValidDestinations...),
		now:          func() time.Time { return time.Now().UTC() },
	}
	for i := range seed.StockCards {
		c := seed.StockCards[i].Clone()
		l.cards = append(l.cards, &c)
	}
	return l
}

// SetClock overrides the time source. Used by tests.
func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// ListCards returns copies of the cards matching filter.
func (l *Ledger) ListCards(filter models.StockCardFilter) []models.StockCard {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []models.StockCard{}
	for _, c := range l.cards {
		if filter.Matches(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// GetCard returns a copy of the card with id.
func (l *Ledger) GetCard(id string) (models.StockCard, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, c := range l.cards {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return models.StockCard{}, apperror.NotFound("Stock card")
}

// Summaries projects matching cards to {stockCard, orderable, stockOnHand}.
// Only facilityId and programId take part in the filter.
func (l *Ledger) Summaries(facilityID, programID string) []models.StockCardSummary {
	filter := models.StockCardFilter{FacilityID: facilityID, ProgramID: programID}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []models.StockCardSummary{}
	for _, c := range l.cards {
		if !filter.Matches(c) {
			continue
		}
		out = append(out, models.StockCardSummary{
			StockCard:   models.Ref{ID: c.ID},
			Orderable:   models.Ref{ID: c.OrderableID},
			StockOnHand: c.StockOnHand,
		})
	}
	return out
}

// RecordEvent applies each line item to the first card holding its
// orderable. Items without a matching card are skipped, not rejected; they
// are listed in SkippedOrderableIDs. Quantity is added to stockOnHand as
// given, whatever the reason.
func (l *Ledger) RecordEvent(items []models.StockEventLineItem) models.StockEventResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := models.StockEventResult{
		ID:                  uuid.New().String(),
		Status:              StatusProcessed,
		LineItems:           len(items),
		SkippedOrderableIDs: []string{},
	}
	today := l.now().Format(occurredDateLayout)

	for _, item := range items {
		card := l.findByOrderable(item.OrderableID)
		if card == nil {
			result.SkippedOrderableIDs = append(result.SkippedOrderableIDs, item.OrderableID)
			continue
		}

		movement := models.StockLineItem{
			ID:           uuid.New().String(),
			OccurredDate: item.OccurredDate,
			Quantity:     item.Quantity,
			Reason:       item.ReasonID,
			Source:       item.SourceID,
			Destination:  item.DestinationID,
		}
		if movement.OccurredDate == "" {
			movement.OccurredDate = today
		}
		if movement.Reason == "" {
			movement.Reason = DefaultReason
		}

		card.LineItems = append(card.LineItems, movement)
		card.StockOnHand += item.Quantity
		result.Applied++
	}
	return result
}

// ValidSources returns the seeded source nodes.
func (l *Ledger) ValidSources() []models.ValidSourceDestination {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.ValidSourceDestination{}, l.sources...)
}

// ValidDestinations returns the seeded destination nodes.
func (l *Ledger) ValidDestinations() []models.ValidSourceDestination {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.ValidSourceDestination{}, l.destinations...)
}

// LineItemReasons is descriptive metadata; RecordEvent never consults it.
func (l *Ledger) LineItemReasons() []models.StockLineItemReason {
	return append([]models.StockLineItemReason{}, lineItemReasons...)
}

// caller holds l.mu
func (l *Ledger) findByOrderable(orderableID string) *models.StockCard {
	for _, c := range l.cards {
		if c.OrderableID == orderableID {
			return c
		}
	}
	return nil
}
