// server/internal/directory/fhir.go
package directory

import (
	"time"

	"github.com/google/uuid"
)

// FHIRVersion is the release the capability statement advertises.
const FHIRVersion = "4.0.1"

// Resource is a FHIR resource kept as a free-form JSON object.
type Resource = map[string]any

type BundleSearch struct {
	Mode string `json:"mode"`
}

type BundleEntry struct {
	FullURL  string       `json:"fullUrl"`
	Resource Resource     `json:"resource"`
	Search   BundleSearch `json:"search"`
}

type Meta struct {
	LastUpdated string `json:"lastUpdated"`
}

// Bundle is a searchset bundle.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id"`
	Meta         Meta          `json:"meta"`
	Type         string        `json:"type"`
	Total        int           `json:"total"`
	Entry        []BundleEntry `json:"entry"`
}

func NewBundle(resources []Resource) Bundle {
	entries := make([]BundleEntry, 0, len(resources))
	for _, r := range resources {
		id, _ := r["id"].(string)
		entries = append(entries, BundleEntry{
			FullURL:  "urn:uuid:" + id,
			Resource: r,
			Search:   BundleSearch{Mode: "match"},
		})
	}
	return Bundle{
		ResourceType: "Bundle",
		ID:           uuid.New().String(),
		Meta:         Meta{LastUpdated: Timestamp(time.Now())},
		Type:         "searchset",
		Total:        len(resources),
		Entry:        entries,
	}
}

type Issue struct {
	Severity    string `json:"severity"`
	Code        string `json:"code"`
	Diagnostics string `json:"diagnostics"`
}

// OperationOutcome is the FHIR error body.
type OperationOutcome struct {
	ResourceType string  `json:"resourceType"`
	Issue        []Issue `json:"issue"`
}

func NewOperationOutcome(severity, code, diagnostics string) OperationOutcome {
	return OperationOutcome{
		ResourceType: "OperationOutcome",
		Issue:        []Issue{{Severity: severity, Code: code, Diagnostics: diagnostics}},
	}
}

// Timestamp formats t the way resource meta and bundles carry it.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}

// CapabilityStatement describes what the directory supports.
func CapabilityStatement() map[string]any {
	interactions := func(codes ...string) []map[string]string {
		out := make([]map[string]string, 0, len(codes))
		for _, c := range codes {
			out = append(out, map[string]string{"code": c})
		}
		return out
	}
	return map[string]any{
		"resourceType": "CapabilityStatement",
		"status":       "active",
		"date":         "2026-01-17",
		"kind":         "instance",
		"software": map[string]string{
			"name":    "OpenSRP FHIR Gateway Mock",
			"version": "1.0.0",
		},
		"fhirVersion": FHIRVersion,
		"format":      []string{"json"},
		"rest": []map[string]any{{
			"mode": "server",
			"resource": []map[string]any{
				{"type": string(TypePatient), "interaction": interactions("read", "search-type", "create", "update")},
				{"type": string(TypeLocation), "interaction": interactions("read", "search-type", "create")},
				{"type": string(TypeOrganization), "interaction": interactions("read", "search-type")},
				{"type": string(TypePractitioner), "interaction": interactions("read", "search-type")},
				{"type": string(TypePractitionerRole), "interaction": interactions("read", "search-type")},
			},
		}},
	}
}
