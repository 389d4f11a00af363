// server/internal/api/handlers/stock_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"lmis-mock-server/internal/metrics"
	"lmis-mock-server/internal/models"
	"lmis-mock-server/internal/stock"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StockHandler struct {
	Ledger  *stock.Ledger
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

type StockEventRequest struct {
	FacilityID string                      `json:"facilityId"`
	ProgramID  string                      `json:"programId"`
	LineItems  []models.StockEventLineItem `json:"lineItems"`
}

func (h *StockHandler) ListCards(c *gin.Context) {
	filter := models.StockCardFilter{
		FacilityID:  c.Query("facilityId"),
		ProgramID:   c.Query("programId"),
		OrderableID: c.Query("orderableId"),
	}
	c.JSON(http.StatusOK, models.NewCollection(h.Ledger.ListCards(filter)))
}

func (h *StockHandler) GetCard(c *gin.Context) {
	card, err := h.Ledger.GetCard(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *StockHandler) Summaries(c *gin.Context) {
	summaries := h.Ledger.Summaries(c.Query("facilityId"), c.Query("programId"))
	c.JSON(http.StatusOK, models.NewCollection(summaries))
}

// RecordEvent requires a non-empty JSON object. Line items naming an
// orderable without a card are skipped and reported in the response.
func (h *StockHandler) RecordEvent(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err)
		return
	}

	var fields map[string]json.RawMessage
	if len(body) == 0 || json.Unmarshal(body, &fields) != nil || len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body required"})
		return
	}

	var req StockEventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock event: " + err.Error()})
		return
	}

	result := h.Ledger.RecordEvent(req.LineItems)

	h.Metrics.StockEvents.Inc()
	h.Metrics.StockEventLineItems.WithLabelValues("applied").Add(float64(result.Applied))
	h.Metrics.StockEventLineItems.WithLabelValues("skipped").Add(float64(len(result.SkippedOrderableIDs)))
	h.Logger.Info("stock event recorded",
		zap.String("eventId", result.ID),
		zap.Int("lineItems", result.LineItems),
		zap.Int("applied", result.Applied),
	)
	if len(result.SkippedOrderableIDs) > 0 {
		h.Logger.Warn("stock event line items without a stock card",
			zap.String("eventId", result.ID),
			zap.Strings("orderableIds", result.SkippedOrderableIDs),
		)
	}

	c.JSON(http.StatusCreated, result)
}

func (h *StockHandler) ValidSources(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCollection(h.Ledger.ValidSources()))
}

func (h *StockHandler) ValidDestinations(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCollection(h.Ledger.ValidDestinations()))
}

func (h *StockHandler) LineItemReasons(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCollection(h.Ledger.LineItemReasons()))
}
