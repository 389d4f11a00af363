// server/internal/directory/directory.go
package directory

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"lmis-mock-server/internal/apperror"

	"github.com/google/uuid"
)

type ResourceType string

const (
	TypePatient          ResourceType = "Patient"
	TypeLocation         ResourceType = "Location"
	TypeOrganization     ResourceType = "Organization"
	TypePractitioner     ResourceType = "Practitioner"
	TypePractitionerRole ResourceType = "PractitionerRole"
)

// Seed holds the fixture resources per type.
type Seed struct {
	Patients          []Resource
	Locations         []Resource
	Organizations     []Resource
	Practitioners     []Resource
	PractitionerRoles []Resource
}

type predicate func(r Resource, value string) bool

// searchParams lists, per type, the supported query parameters in the order
// they are applied.
var searchParams = map[ResourceType][]struct {
	name  string
	match predicate
}{
	TypePatient: {
		{"_id", matchID},
		{"identifier", matchIdentifier},
		{"name", matchHumanName},
		{"gender", matchField("gender")},
		{"birthdate", matchField("birthDate")},
	},
	TypeLocation: {
		{"_id", matchID},
		{"identifier", matchIdentifier},
		{"name", matchName},
		{"status", matchField("status")},
		{"partof", matchReference("partOf")},
	},
	TypeOrganization: {
		{"_id", matchID},
		{"identifier", matchIdentifier},
		{"name", matchName},
		{"active", matchActive},
		{"partof", matchReference("partOf")},
	},
	TypePractitioner: {
		{"_id", matchID},
		{"identifier", matchIdentifier},
		{"name", matchHumanName},
		{"active", matchActive},
	},
	TypePractitionerRole: {
		{"_id", matchID},
		{"practitioner", matchReference("practitioner")},
		{"organization", matchReference("organization")},
		{"location", matchAnyReference("location")},
		{"active", matchActive},
	},
}

var creatable = map[ResourceType]bool{TypePatient: true, TypeLocation: true}

// Directory is the in-memory clinical resource directory.
type Directory struct {
	mu        sync.RWMutex
	resources map[ResourceType][]Resource
	now       func() time.Time
}

func New(seed Seed) *Directory {
	d := &Directory{
		resources: map[ResourceType][]Resource{},
		now:       time.Now,
	}
	d.resources[TypePatient] = cloneAll(seed.Patients)
	d.resources[TypeLocation] = cloneAll(seed.Locations)
	d.resources[TypeOrganization] = cloneAll(seed.Organizations)
	d.resources[TypePractitioner] = cloneAll(seed.Practitioners)
	d.resources[TypePractitionerRole] = cloneAll(seed.PractitionerRoles)
	return d
}

// Creatable reports whether rt accepts POST.
func Creatable(rt ResourceType) bool {
	return creatable[rt]
}

// Search applies every supported, non-empty query parameter conjunctively.
// "active" is applied whenever present, as in the FHIR token semantics.
func (d *Directory) Search(rt ResourceType, query url.Values) []Resource {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := []Resource{}
next:
	for _, r := range d.resources[rt] {
		for _, p := range searchParams[rt] {
			if !query.Has(p.name) {
				continue
			}
			v := query.Get(p.name)
			if v == "" && p.name != "active" {
				continue
			}
			if !p.match(r, v) {
				continue next
			}
		}
		out = append(out, cloneResource(r))
	}
	return out
}

func (d *Directory) Read(rt ResourceType, id string) (Resource, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i := d.indexOf(rt, id); i >= 0 {
		return cloneResource(d.resources[rt][i]), nil
	}
	return nil, apperror.NotFound(fmt.Sprintf("%s/%s", rt, id))
}

// Create stores a new resource at version 1, assigning an id if missing.
func (d *Directory) Create(rt ResourceType, r Resource) (Resource, error) {
	if err := validate(rt, r); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	r = cloneResource(r)
	id, _ := r["id"].(string)
	if id == "" {
		id = fmt.Sprintf("%s-%s", strings.ToLower(string(rt)), uuid.New().String()[:8])
		r["id"] = id
	} else if d.indexOf(rt, id) >= 0 {
		return nil, apperror.Validation(fmt.Sprintf("%s/%s already exists", rt, id))
	}
	r["meta"] = d.meta(1)
	d.resources[rt] = append(d.resources[rt], r)
	return cloneResource(r), nil
}

// Update replaces the resource with the given id, bumping its versionId, or
// creates it at version 1. created reports which happened.
func (d *Directory) Update(rt ResourceType, id string, r Resource) (out Resource, created bool, err error) {
	if err := validate(rt, r); err != nil {
		return nil, false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	r = cloneResource(r)
	r["id"] = id
	i := d.indexOf(rt, id)
	if i < 0 {
		r["meta"] = d.meta(1)
		d.resources[rt] = append(d.resources[rt], r)
		return cloneResource(r), true, nil
	}
	r["meta"] = d.meta(versionOf(d.resources[rt][i]) + 1)
	d.resources[rt][i] = r
	return cloneResource(r), false, nil
}

// Counts returns the number of resources per type.
func (d *Directory) Counts() map[ResourceType]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[ResourceType]int, len(d.resources))
	for rt, rs := range d.resources {
		out[rt] = len(rs)
	}
	return out
}

// caller holds d.mu
func (d *Directory) indexOf(rt ResourceType, id string) int {
	for i, r := range d.resources[rt] {
		if rid, _ := r["id"].(string); rid == id {
			return i
		}
	}
	return -1
}

func (d *Directory) meta(version int) map[string]any {
	return map[string]any{
		"versionId":   strconv.Itoa(version),
		"lastUpdated": Timestamp(d.now()),
	}
}

func validate(rt ResourceType, r Resource) error {
	if r == nil || r["resourceType"] != string(rt) {
		return apperror.Validation(fmt.Sprintf("Invalid %s resource", rt))
	}
	return nil
}

func versionOf(r Resource) int {
	meta, _ := r["meta"].(map[string]any)
	switch v := meta["versionId"].(type) {
	case string:
		n, _ := strconv.Atoi(v)
		return n
	case float64:
		return int(v)
	}
	return 0
}

func matchID(r Resource, v string) bool {
	id, _ := r["id"].(string)
	return id == v
}

func matchField(field string) predicate {
	return func(r Resource, v string) bool {
		s, _ := r[field].(string)
		return s == v
	}
}

func matchName(r Resource, v string) bool {
	name, _ := r["name"].(string)
	return strings.Contains(strings.ToLower(name), strings.ToLower(v))
}

// matchHumanName looks at family and given parts of every HumanName.
func matchHumanName(r Resource, v string) bool {
	v = strings.ToLower(v)
	for _, n := range objects(r["name"]) {
		if family, _ := n["family"].(string); strings.Contains(strings.ToLower(family), v) {
			return true
		}
		given, _ := n["given"].([]any)
		for _, g := range given {
			if s, _ := g.(string); strings.Contains(strings.ToLower(s), v) {
				return true
			}
		}
	}
	return false
}

func matchIdentifier(r Resource, v string) bool {
	for _, ident := range objects(r["identifier"]) {
		if value, _ := ident["value"].(string); value == v {
			return true
		}
	}
	return false
}

func matchActive(r Resource, v string) bool {
	active, ok := r["active"].(bool)
	return ok && active == (strings.ToLower(v) == "true")
}

func matchReference(field string) predicate {
	return func(r Resource, v string) bool {
		ref, _ := r[field].(map[string]any)
		s, _ := ref["reference"].(string)
		return s == v
	}
}

func matchAnyReference(field string) predicate {
	return func(r Resource, v string) bool {
		for _, ref := range objects(r[field]) {
			if s, _ := ref["reference"].(string); s == v {
				return true
			}
		}
		return false
	}
}

func objects(v any) []map[string]any {
	list, _ := v.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func cloneAll(rs []Resource) []Resource {
	out := make([]Resource, 0, len(rs))
	for _, r := range rs {
		out = append(out, cloneResource(r))
	}
	return out
}

func cloneResource(r Resource) Resource {
	if r == nil {
		return nil
	}
	return cloneValue(r).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
