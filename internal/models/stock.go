// server/internal/models/stock.go
package models

// StockLineItem is one movement on a stock card.
type StockLineItem struct {
	ID           string  `json:"id"`
	OccurredDate string  `json:"occurredDate"`
	Quantity     int     `json:"quantity"`
	Reason       string  `json:"reason"`
	Source       *string `json:"source"`
	Destination  *string `json:"destination"`
}

// StockCard is the running balance of one orderable at one facility/program.
type StockCard struct {
	ID          string          `json:"id"`
	FacilityID  string          `json:"facilityId"`
	ProgramID   string          `json:"programId"`
	OrderableID string          `json:"orderableId"`
	StockOnHand int             `json:"stockOnHand"`
	LineItems   []StockLineItem `json:"lineItems"`
}

func (c *StockCard) Clone() StockCard {
	out := *c
	out.LineItems = make([]StockLineItem, len(c.LineItems))
	copy(out.LineItems, c.LineItems)
	return out
}

type StockCardFilter struct {
	FacilityID  string
	ProgramID   string
	OrderableID string
}

func (f StockCardFilter) Matches(c *StockCard) bool {
	if f.FacilityID != "" && c.FacilityID != f.FacilityID {
		return false
	}
	if f.ProgramID != "" && c.ProgramID != f.ProgramID {
		return false
	}
	if f.OrderableID != "" && c.OrderableID != f.OrderableID {
		return false
	}
	return true
}

// StockCardSummary is the read-only projection served by /stockCardSummaries.
type StockCardSummary struct {
	StockCard   Ref `json:"stockCard"`
	Orderable   Ref `json:"orderable"`
	StockOnHand int `json:"stockOnHand"`
}

// StockEventLineItem is a caller-supplied movement request.
type StockEventLineItem struct {
	OrderableID   string  `json:"orderableId"`
	Quantity      int     `json:"quantity"`
	ReasonID      string  `json:"reasonId,omitempty"`
	OccurredDate  string  `json:"occurredDate,omitempty"`
	SourceID      *string `json:"sourceId,omitempty"`
	DestinationID *string `json:"destinationId,omitempty"`
}

// StockEventResult acknowledges a recorded event. LineItems counts the
// supplied items, applied or not.
type StockEventResult struct {
	ID                  string   `json:"id"`
	Status              string   `json:"status"`
	LineItems           int      `json:"lineItems"`
	Applied             int      `json:"applied"`
	SkippedOrderableIDs []string `json:"skippedOrderableIds"`
}

// ValidReasonType tags a reason as increasing or decreasing stock.
type ValidReasonType string

const (
	ReasonCredit ValidReasonType = "CREDIT"
	ReasonDebit  ValidReasonType = "DEBIT"
)

type StockLineItemReason struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	ReasonType ValidReasonType `json:"reasonType"`
}

// ValidSourceDestination is a node stock can come from or go to.
type ValidSourceDestination struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	FacilityTypeID    string `json:"facilityTypeId,omitempty"`
	ProgramID         string `json:"programId,omitempty"`
	IsFreeTextAllowed bool   `json:"isFreeTextAllowed"`
}
