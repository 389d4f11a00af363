// server/internal/reference/catalog.go
package reference

import (
	"strings"

	"lmis-mock-server/internal/apperror"
	"lmis-mock-server/internal/models"
)

// Data is the seed content of the catalog.
type Data struct {
	Facilities        []models.Facility         `json:"facilities"`
	Programs          []models.Program          `json:"programs"`
	Orderables        []models.Orderable        `json:"orderables"`
	ProcessingPeriods []models.ProcessingPeriod `json:"processingPeriods"`
}

// Catalog serves read-only reference data. It is immutable after
// construction, so no locking is needed.
type Catalog struct {
	data Data
}

func NewCatalog(data Data) *Catalog {
	return &Catalog{data: data}
}

// FacilityFilter: Active nil means "any".
type FacilityFilter struct {
	Active *bool
	ZoneID string
}

func (c *Catalog) Facilities(filter FacilityFilter) []models.Facility {
	out := []models.Facility{}
	for _, f := range c.data.Facilities {
		if filter.Active != nil && f.Active != *filter.Active {
			continue
		}
		if filter.ZoneID != "" && f.GeographicZone.ID != filter.ZoneID {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (c *Catalog) Facility(id string) (models.Facility, error) {
	for _, f := range c.data.Facilities {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Facility{}, apperror.NotFound("Facility")
}

func (c *Catalog) Programs(active *bool) []models.Program {
	out := []models.Program{}
	for _, p := range c.data.Programs {
		if active != nil && p.Active != *active {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *Catalog) Program(id string) (models.Program, error) {
	for _, p := range c.data.Programs {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Program{}, apperror.NotFound("Program")
}

// Orderables matches code as a case-insensitive substring of productCode.
func (c *Catalog) Orderables(code string) []models.Orderable {
	code = strings.ToLower(code)
	out := []models.Orderable{}
	for _, o := range c.data.Orderables {
		if code != "" && !strings.Contains(strings.ToLower(o.ProductCode), code) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (c *Catalog) Orderable(id string) (models.Orderable, error) {
	for _, o := range c.data.Orderables {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Orderable{}, apperror.NotFound("Orderable")
}

func (c *Catalog) ProcessingPeriods() []models.ProcessingPeriod {
	return append([]models.ProcessingPeriod{}, c.data.ProcessingPeriods...)
}

func (c *Catalog) ProcessingPeriod(id string) (models.ProcessingPeriod, error) {
	for _, p := range c.data.ProcessingPeriods {
		if p.ID == id {
			return p, nil
		}
	}
	return models.ProcessingPeriod{}, apperror.NotFound("Processing period")
}

// GeographicZones lists the distinct zones referenced by facilities, in
// first-seen order.
func (c *Catalog) GeographicZones() []models.GeographicZone {
	seen := map[string]bool{}
	out := []models.GeographicZone{}
	for _, f := range c.data.Facilities {
		z := f.GeographicZone
		if z.ID == "" || seen[z.ID] {
			continue
		}
		seen[z.ID] = true
		out = append(out, z)
	}
	return out
}

// FacilityTypes lists the distinct facility types, in first-seen order.
func (c *Catalog) FacilityTypes() []models.FacilityType {
	seen := map[string]bool{}
	out := []models.FacilityType{}
	for _, f := range c.data.Facilities {
		t := f.Type
		if t.ID == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
