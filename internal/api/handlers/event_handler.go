// server/internal/api/handlers/event_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lmis-mock-server/internal/eventlog"
	"lmis-mock-server/internal/metrics"
	"lmis-mock-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SourceOpenLMIS = "openlmis"
	SourceOpenSRP  = "opensrp"
)

// EventArchive reads events mirrored outside the bounded in-memory log.
type EventArchive interface {
	Recent(ctx context.Context, source string, limit int64) ([]models.Event, error)
}

// EventHandler receives webhooks, lists the event log and fabricates
// sample events for integration testing.
type EventHandler struct {
	Log     *eventlog.Log
	Archive EventArchive
	Metrics *metrics.Collector
	Logger  *zap.Logger
	now     func() time.Time
}

func (h *EventHandler) List(c *gin.Context) {
	limit := eventlog.DefaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = v
	}
	events, total := h.Log.List(c.Query("source"), c.Query("type"), limit)
	c.JSON(http.StatusOK, gin.H{"events": events, "total": total})
}

// Archived lists events from the MongoDB archive, newest first.
func (h *EventHandler) Archived(c *gin.Context) {
	if h.Archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event archive not configured"})
		return
	}

	limit := int64(eventlog.DefaultLimit)
	if v, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && v >= 0 {
		limit = v
	}
	events, err := h.Archive.Recent(c.Request.Context(), c.Query("source"), limit)
	if err != nil {
		h.Logger.Error("failed to read event archive", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read event archive"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "total": len(events)})
}

func (h *EventHandler) Clear(c *gin.Context) {
	h.Log.Clear()
	h.Logger.Info("event log cleared")
	c.JSON(http.StatusOK, gin.H{"message": "All events cleared"})
}

// --- Webhooks ---

func (h *EventHandler) OpenLMISWebhook(c *gin.Context) {
	data := bodyObject(c)
	h.receive(c, SourceOpenLMIS, stringOr(data, "type", "unknown"), data, true)
}

func (h *EventHandler) OpenLMISRequisitionWebhook(c *gin.Context) {
	data := bodyObject(c)
	h.receive(c, SourceOpenLMIS, "requisition."+stringOr(data, "action", "update"), data, false)
}

func (h *EventHandler) OpenLMISStockWebhook(c *gin.Context) {
	data := bodyObject(c)
	h.receive(c, SourceOpenLMIS, "stock."+stringOr(data, "action", "update"), data, false)
}

// OpenSRPWebhook falls back to the lowercased resourceType, since FHIR
// notifications usually arrive as bare resources or bundles.
func (h *EventHandler) OpenSRPWebhook(c *gin.Context) {
	data := bodyObject(c)
	resourceType := stringOr(data, "resourceType", "unknown")
	h.receive(c, SourceOpenSRP, stringOr(data, "type", strings.ToLower(resourceType)), data, true)
}

func (h *EventHandler) OpenSRPPatientWebhook(c *gin.Context) {
	data := bodyObject(c)
	action := "created"
	if id, ok := data["id"]; ok && truthy(id) {
		action = "updated"
	}
	h.receive(c, SourceOpenSRP, "patient."+action, data, false)
}

func (h *EventHandler) OpenSRPEncounterWebhook(c *gin.Context) {
	h.receive(c, SourceOpenSRP, "encounter.created", bodyObject(c), false)
}

func (h *EventHandler) receive(c *gin.Context, source, eventType string, payload map[string]any, withTimestamp bool) {
	event := h.Log.Add(c.Request.Context(), source, eventType, payload)
	h.Metrics.EventsReceived.WithLabelValues(source).Inc()
	h.Logger.Info("event received",
		zap.String("eventId", event.ID),
		zap.String("source", source),
		zap.String("type", eventType),
	)

	resp := gin.H{"received": true, "eventId": event.ID}
	if withTimestamp {
		resp["timestamp"] = event.Timestamp
	}
	c.JSON(http.StatusCreated, resp)
}

// --- Simulation ---

func (h *EventHandler) Simulate(c *gin.Context) {
	data := bodyObject(c)
	payload, _ := data["payload"].(map[string]any)
	h.simulate(c, stringOr(data, "source", SourceOpenLMIS), stringOr(data, "type", "test.event"), payload)
}

func (h *EventHandler) SimulateRequisition(c *gin.Context) {
	data := bodyObject(c)
	h.simulate(c, SourceOpenLMIS, "requisition.statusChange", map[string]any{
		"requisitionId":  valueOr(data, "requisitionId", "req-001-uuid-mock"),
		"previousStatus": valueOr(data, "previousStatus", "INITIATED"),
		"newStatus":      valueOr(data, "newStatus", "SUBMITTED"),
		"facilityId":     valueOr(data, "facilityId", "fac-001"),
		"programId":      valueOr(data, "programId", "prog-essential-meds"),
		"userId":         valueOr(data, "userId", "user-001"),
		"timestamp":      h.isoNow(),
	})
}

func (h *EventHandler) SimulateStock(c *gin.Context) {
	data := bodyObject(c)
	h.simulate(c, SourceOpenLMIS, "stock.updated", map[string]any{
		"stockCardId": valueOr(data, "stockCardId", "stock-card-001"),
		"facilityId":  valueOr(data, "facilityId", "fac-001"),
		"orderableId": valueOr(data, "orderableId", "orderable-paracetamol"),
		"quantity":    valueOr(data, "quantity", 100),
		"reason":      valueOr(data, "reason", "RECEIVE"),
		"stockOnHand": valueOr(data, "stockOnHand", 170),
		"timestamp":   h.isoNow(),
	})
}

func (h *EventHandler) SimulatePatient(c *gin.Context) {
	data := bodyObject(c)
	action := stringOr(data, "action", "created")
	h.simulate(c, SourceOpenSRP, "patient."+action, map[string]any{
		"resourceType": "Patient",
		"id":           valueOr(data, "patientId", "patient-new-001"),
		"name": []any{map[string]any{
			"family": valueOr(data, "family", "Test"),
			"given":  []any{valueOr(data, "given", "Patient")},
		}},
		"gender":    valueOr(data, "gender", "male"),
		"birthDate": valueOr(data, "birthDate", "1990-01-01"),
		"meta":      map[string]any{"lastUpdated": h.isoNow()},
	})
}

func (h *EventHandler) SimulateEncounter(c *gin.Context) {
	data := bodyObject(c)
	now := h.isoNow()
	h.simulate(c, SourceOpenSRP, "encounter.created", map[string]any{
		"resourceType":    "Encounter",
		"id":              valueOr(data, "encounterId", "encounter-"+strings.ReplaceAll(uuid.New().String(), "-", "")[:8]),
		"status":          "finished",
		"class":           map[string]any{"code": "AMB", "display": "ambulatory"},
		"subject":         map[string]any{"reference": "Patient/" + stringOr(data, "patientId", "patient-001")},
		"period":          map[string]any{"start": now, "end": now},
		"serviceProvider": map[string]any{"reference": "Organization/" + stringOr(data, "organizationId", "org-001")},
	})
}

func (h *EventHandler) simulate(c *gin.Context, source, eventType string, payload map[string]any) {
	event := h.Log.Add(c.Request.Context(), source, eventType, payload)
	h.Metrics.EventsReceived.WithLabelValues(source).Inc()
	h.Logger.Info("event simulated",
		zap.String("eventId", event.ID),
		zap.String("source", source),
		zap.String("type", eventType),
	)
	c.JSON(http.StatusCreated, gin.H{"simulated": true, "event": event})
}

func (h *EventHandler) isoNow() string {
	now := time.Now
	if h.now != nil {
		now = h.now
	}
	return now().UTC().Format("2006-01-02T15:04:05.000000Z")
}

// bodyObject decodes the request body as a JSON object. Anything else,
// including an empty or malformed body, yields an empty object.
func bodyObject(c *gin.Context) map[string]any {
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		return map[string]any{}
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		return map[string]any{}
	}
	return data
}

// valueOr returns data[key] when present and non-null.
func valueOr(data map[string]any, key string, def any) any {
	if v, ok := data[key]; ok && v != nil {
		return v
	}
	return def
}

func stringOr(data map[string]any, key, def string) string {
	if s, ok := data[key].(string); ok && s != "" {
		return s
	}
	return def
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	}
	return true
}
