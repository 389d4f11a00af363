package directory

import (
	"encoding/json"
	"net/url"
	"testing"

	"lmis-mock-server/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResource(t *testing.T, raw string) Resource {
	t.Helper()
	var r Resource
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func testDirectory(t *testing.T) *Directory {
	t.Helper()
	return New(Seed{
		Patients: []Resource{
			mustResource(t, `{"resourceType":"Patient","id":"patient-001","gender":"female","birthDate":"1990-05-12",
				"identifier":[{"system":"national-id","value":"NID-001"}],
				"name":[{"family":"Banda","given":["Grace"]}],"meta":{"versionId":"3"}}`),
			mustResource(t, `{"resourceType":"Patient","id":"patient-002","gender":"male","birthDate":"1985-01-01",
				"name":[{"family":"Phiri","given":["John","Chikondi"]}]}`),
		},
		Locations: []Resource{
			mustResource(t, `{"resourceType":"Location","id":"location-001","name":"Lilongwe District","status":"active"}`),
			mustResource(t, `{"resourceType":"Location","id":"location-002","name":"Area 25 Clinic","status":"active","partOf":{"reference":"Location/location-001"}}`),
		},
		Organizations: []Resource{
			mustResource(t, `{"resourceType":"Organization","id":"org-001","name":"Ministry of Health","active":true}`),
			mustResource(t, `{"resourceType":"Organization","id":"org-002","name":"Old Team","active":false,"partOf":{"reference":"Organization/org-001"}}`),
		},
		Practitioners: []Resource{
			mustResource(t, `{"resourceType":"Practitioner","id":"practitioner-001","active":true,"name":[{"family":"Mwale","given":["Ruth"]}]}`),
		},
		PractitionerRoles: []Resource{
			mustResource(t, `{"resourceType":"PractitionerRole","id":"role-001","active":true,
				"practitioner":{"reference":"Practitioner/practitioner-001"},
				"organization":{"reference":"Organization/org-001"},
				"location":[{"reference":"Location/location-002"}]}`),
		},
	})
}

func ids(rs []Resource) []string {
	out := []string{}
	for _, r := range rs {
		out = append(out, r["id"].(string))
	}
	return out
}

func TestSearchPatients(t *testing.T) {
	d := testDirectory(t)

	assert.Len(t, d.Search(TypePatient, url.Values{}), 2)
	assert.Equal(t, []string{"patient-002"}, ids(d.Search(TypePatient, url.Values{"name": {"chik"}})))
	assert.Equal(t, []string{"patient-001"}, ids(d.Search(TypePatient, url.Values{"name": {"BANDA"}})))
	assert.Equal(t, []string{"patient-001"}, ids(d.Search(TypePatient, url.Values{"identifier": {"NID-001"}})))
	assert.Equal(t, []string{"patient-002"}, ids(d.Search(TypePatient, url.Values{"gender": {"male"}})))
	assert.Equal(t, []string{"patient-001"}, ids(d.Search(TypePatient, url.Values{"birthdate": {"1990-05-12"}})))
	assert.Empty(t, d.Search(TypePatient, url.Values{"_id": {"patient-001"}, "gender": {"male"}}))
}

func TestSearchOtherTypes(t *testing.T) {
	d := testDirectory(t)

	assert.Equal(t, []string{"location-002"}, ids(d.Search(TypeLocation, url.Values{"partof": {"Location/location-001"}})))
	assert.Equal(t, []string{"location-001"}, ids(d.Search(TypeLocation, url.Values{"name": {"district"}})))
	assert.Equal(t, []string{"org-001"}, ids(d.Search(TypeOrganization, url.Values{"active": {"true"}})))
	assert.Equal(t, []string{"org-002"}, ids(d.Search(TypeOrganization, url.Values{"active": {"false"}})))
	assert.Equal(t, []string{"org-002"}, ids(d.Search(TypeOrganization, url.Values{"active": {""}})))
	assert.Equal(t, []string{"practitioner-001"}, ids(d.Search(TypePractitioner, url.Values{"name": {"ruth"}})))
	assert.Equal(t, []string{"role-001"}, ids(d.Search(TypePractitionerRole, url.Values{"location": {"Location/location-002"}})))
	assert.Empty(t, d.Search(TypePractitionerRole, url.Values{"organization": {"Organization/org-002"}}))
}

func TestRead(t *testing.T) {
	d := testDirectory(t)

	r, err := d.Read(TypeOrganization, "org-001")
	require.NoError(t, err)
	assert.Equal(t, "Ministry of Health", r["name"])

	_, err = d.Read(TypePatient, "patient-999")
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, "Patient/patient-999 not found", err.Error())
}

func TestCreate(t *testing.T) {
	d := testDirectory(t)

	created, err := d.Create(TypePatient, Resource{"resourceType": "Patient", "gender": "female"})
	require.NoError(t, err)
	id := created["id"].(string)
	assert.Regexp(t, `^patient-[0-9a-f]{8}$`, id)
	meta := created["meta"].(map[string]any)
	assert.Equal(t, "1", meta["versionId"])
	assert.NotEmpty(t, meta["lastUpdated"])

	got, err := d.Read(TypePatient, id)
	require.NoError(t, err)
	assert.Equal(t, "female", got["gender"])

	_, err = d.Create(TypePatient, Resource{"resourceType": "Patient", "id": id})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestCreateRejectsWrongType(t *testing.T) {
	d := testDirectory(t)

	_, err := d.Create(TypeLocation, Resource{"resourceType": "Patient"})
	require.Error(t, err)
	assert.Equal(t, "Invalid Location resource", err.Error())

	_, err = d.Create(TypeLocation, nil)
	assert.Error(t, err)
}

func TestUpdateBumpsVersion(t *testing.T) {
	d := testDirectory(t)

	updated, created, err := d.Update(TypePatient, "patient-001", Resource{"resourceType": "Patient", "gender": "other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "patient-001", updated["id"])
	assert.Equal(t, "4", updated["meta"].(map[string]any)["versionId"])

	updated, _, err = d.Update(TypePatient, "patient-002", Resource{"resourceType": "Patient"})
	require.NoError(t, err)
	assert.Equal(t, "1", updated["meta"].(map[string]any)["versionId"])

	updated, created, err = d.Update(TypePatient, "patient-new", Resource{"resourceType": "Patient"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "1", updated["meta"].(map[string]any)["versionId"])
	assert.Equal(t, 3, d.Counts()[TypePatient])
}

func TestResultsAreCopies(t *testing.T) {
	d := testDirectory(t)

	r, err := d.Read(TypePatient, "patient-001")
	require.NoError(t, err)
	r["gender"] = "changed"
	r["name"].([]any)[0].(map[string]any)["family"] = "Changed"

	again, err := d.Read(TypePatient, "patient-001")
	require.NoError(t, err)
	assert.Equal(t, "female", again["gender"])
	assert.Equal(t, "Banda", again["name"].([]any)[0].(map[string]any)["family"])
}

func TestBundleAndOutcome(t *testing.T) {
	b := NewBundle([]Resource{{"id": "p1"}})
	assert.Equal(t, "Bundle", b.ResourceType)
	assert.Equal(t, "searchset", b.Type)
	assert.Equal(t, 1, b.Total)
	assert.Equal(t, "urn:uuid:p1", b.Entry[0].FullURL)
	assert.Equal(t, "match", b.Entry[0].Search.Mode)

	oo := NewOperationOutcome("error", "not-found", "Patient/x not found")
	assert.Equal(t, "OperationOutcome", oo.ResourceType)
	require.Len(t, oo.Issue, 1)

	assert.False(t, Creatable(TypePractitionerRole))
	assert.True(t, Creatable(TypeLocation))
}
