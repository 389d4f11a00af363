// server/internal/models/reference.go
package models

type GeographicZone struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type FacilityType struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Facility is a health facility taking part in requisitions and stock.
type Facility struct {
	ID                string         `json:"id"`
	Code              string         `json:"code"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Active            bool           `json:"active"`
	Enabled           bool           `json:"enabled"`
	GeographicZone    GeographicZone `json:"geographicZone"`
	Type              FacilityType   `json:"type"`
	SupportedPrograms []Ref          `json:"supportedPrograms,omitempty"`
}

type Program struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type Dispensable struct {
	DispensingUnit string `json:"dispensingUnit"`
}

// Orderable is a catalog product.
type Orderable struct {
	ID                    string      `json:"id"`
	ProductCode           string      `json:"productCode"`
	FullProductName       string      `json:"fullProductName"`
	Description           string      `json:"description,omitempty"`
	NetContent            int         `json:"netContent"`
	PackRoundingThreshold int         `json:"packRoundingThreshold"`
	Dispensable           Dispensable `json:"dispensable"`
	Programs              []Ref       `json:"programs,omitempty"`
}

type ProcessingSchedule struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ProcessingPeriod is the reporting interval a requisition is filed against.
type ProcessingPeriod struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	StartDate          string             `json:"startDate"`
	EndDate            string             `json:"endDate"`
	ProcessingSchedule ProcessingSchedule `json:"processingSchedule"`
}
