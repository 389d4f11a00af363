package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lmis-mock-server/internal/eventlog"
	"lmis-mock-server/internal/metrics"
	"lmis-mock-server/internal/models"
	"lmis-mock-server/internal/requisition"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(h gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return w
}

func TestBodyObject(t *testing.T) {
	for body, want := range map[string]map[string]any{
		``:             {},
		`null`:         {},
		`[1,2]`:        {},
		`{not json`:    {},
		`{"type":"x"}`: {"type": "x"},
	} {
		gin.SetMode(gin.TestMode)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		assert.Equal(t, want, bodyObject(c), "body %q", body)
	}
}

func TestPatientWebhookAction(t *testing.T) {
	log := eventlog.New(10, nil)
	h := &EventHandler{Log: log, Metrics: metrics.NewCollector(), Logger: zap.NewNop()}

	w := serve(h.OpenSRPPatientWebhook, http.MethodPost, "/webhooks/opensrp/patient", `{"name":"x"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = serve(h.OpenSRPPatientWebhook, http.MethodPost, "/webhooks/opensrp/patient", `{"id":"patient-9"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	events, total := log.List("opensrp", "", 10)
	require.Equal(t, 2, total)
	assert.Equal(t, "patient.updated", events[0].Type)
	assert.Equal(t, "patient.created", events[1].Type)
}

func TestSimulateEncounterDefaults(t *testing.T) {
	log := eventlog.New(10, nil)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	h := &EventHandler{Log: log, Metrics: metrics.NewCollector(), Logger: zap.NewNop(), now: func() time.Time { return fixed }}

	w := serve(h.SimulateEncounter, http.MethodPost, "/api/events/simulate/opensrp/encounter", `{"patientId":"patient-002"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	events, _ := log.List("", "encounter.created", 1)
	require.Len(t, events, 1)
	p := events[0].Payload
	assert.Equal(t, "Encounter", p["resourceType"])
	assert.True(t, strings.HasPrefix(p["id"].(string), "encounter-"))
	assert.Len(t, p["id"].(string), len("encounter-")+8)
	assert.Equal(t, map[string]any{"reference": "Patient/patient-002"}, p["subject"])
	assert.Equal(t, map[string]any{"reference": "Organization/org-001"}, p["serviceProvider"])
	assert.Equal(t, map[string]any{"start": "2025-03-01T12:00:00.000000Z", "end": "2025-03-01T12:00:00.000000Z"}, p["period"])
}

func TestGenericSimulateDefaults(t *testing.T) {
	log := eventlog.New(10, nil)
	h := &EventHandler{Log: log, Metrics: metrics.NewCollector(), Logger: zap.NewNop()}

	w := serve(h.Simulate, http.MethodPost, "/api/events/simulate", ``)
	require.Equal(t, http.StatusCreated, w.Code)

	events, _ := log.List("", "", 1)
	require.Len(t, events, 1)
	assert.Equal(t, "openlmis", events[0].Source)
	assert.Equal(t, "test.event", events[0].Type)
	assert.Empty(t, events[0].Payload)
}

func TestSaveNullLineItemsKeepsExisting(t *testing.T) {
	store := requisition.NewStore(nil)
	r, err := store.Create(requisition.CreateInput{
		FacilityID: "fac-1", ProgramID: "prog-1", ProcessingPeriodID: "per-1",
		LineItems: []json.RawMessage{json.RawMessage(`{"q":1}`)},
	})
	require.NoError(t, err)

	h := &RequisitionHandler{Store: store, Metrics: metrics.NewCollector(), Logger: zap.NewNop()}
	save := func(body string) *httptest.ResponseRecorder {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/api/requisitions/"+r.ID+"/save", strings.NewReader(body))
		c.Params = gin.Params{{Key: "id", Value: r.ID}}
		h.Save(c)
		return w
	}

	for _, body := range []string{``, `{}`, `{"requisitionLineItems":null}`} {
		w := save(body)
		require.Equal(t, http.StatusOK, w.Code, body)
		got, err := store.Get(r.ID)
		require.NoError(t, err)
		assert.Len(t, got.LineItems, 1, body)
	}

	w := save(`{"requisitionLineItems":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ := store.Get(r.ID)
	assert.Empty(t, got.LineItems)

	w = save(`{"requisitionLineItems":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubArchive struct {
	events []models.Event
	err    error
	source string
	limit  int64
}

func (a *stubArchive) Recent(_ context.Context, source string, limit int64) ([]models.Event, error) {
	a.source, a.limit = source, limit
	return a.events, a.err
}

func TestArchived(t *testing.T) {
	archive := &stubArchive{events: []models.Event{{ID: "evt-2", Source: "opensrp"}, {ID: "evt-1", Source: "opensrp"}}}
	h := &EventHandler{Log: eventlog.New(10, nil), Archive: archive, Metrics: metrics.NewCollector(), Logger: zap.NewNop()}

	w := serve(h.Archived, http.MethodGet, "/api/events/archive?source=opensrp&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "opensrp", archive.source)
	assert.Equal(t, int64(5), archive.limit)

	var body struct {
		Events []models.Event `json:"events"`
		Total  int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, "evt-2", body.Events[0].ID)

	serve(h.Archived, http.MethodGet, "/api/events/archive", "")
	assert.Equal(t, int64(eventlog.DefaultLimit), archive.limit)

	archive.err = errors.New("connection refused")
	w = serve(h.Archived, http.MethodGet, "/api/events/archive", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
