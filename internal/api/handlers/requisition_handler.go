// server/internal/api/handlers/requisition_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"lmis-mock-server/internal/apperror"
	"lmis-mock-server/internal/metrics"
	"lmis-mock-server/internal/models"
	"lmis-mock-server/internal/requisition"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RequisitionHandler struct {
	Store   *requisition.Store
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

type CreateRequisitionRequest struct {
	FacilityID         string            `json:"facilityId"`
	ProgramID          string            `json:"programId"`
	ProcessingPeriodID string            `json:"processingPeriodId"`
	Emergency          bool              `json:"emergency"`
	LineItems          []json.RawMessage `json:"requisitionLineItems"`
}

type SaveRequisitionRequest struct {
	LineItems *[]json.RawMessage `json:"requisitionLineItems"`
}

// List filters by facility, program, period and status. An unknown status
// matches nothing.
func (h *RequisitionHandler) List(c *gin.Context) {
	filter := models.RequisitionFilter{
		FacilityID:         c.Query("facilityId"),
		ProgramID:          c.Query("programId"),
		ProcessingPeriodID: c.Query("processingPeriodId"),
		Status:             c.Query("status"),
	}
	if filter.Status != "" && !models.RequisitionStatus(filter.Status).Valid() {
		c.JSON(http.StatusOK, models.NewPage([]models.Requisition{}))
		return
	}
	c.JSON(http.StatusOK, models.NewPage(h.Store.List(filter)))
}

func (h *RequisitionHandler) Get(c *gin.Context) {
	r, err := h.Store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *RequisitionHandler) Create(c *gin.Context) {
	var req CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(c, apperror.Validation("Missing required fields"))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	r, err := h.Store.Create(requisition.CreateInput{
		FacilityID:         req.FacilityID,
		ProgramID:          req.ProgramID,
		ProcessingPeriodID: req.ProcessingPeriodID,
		Emergency:          req.Emergency,
		LineItems:          req.LineItems,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.Metrics.RequisitionsCreated.Inc()
	h.Logger.Info("requisition initiated",
		zap.String("requisitionId", r.ID),
		zap.String("facilityId", r.FacilityID),
		zap.String("programId", r.ProgramID),
	)
	c.JSON(http.StatusCreated, r)
}

// Save replaces the line items when the body carries them. An empty body
// only refreshes modifiedDate.
func (h *RequisitionHandler) Save(c *gin.Context) {
	var req SaveRequisitionRequest
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	var lineItems []json.RawMessage
	if req.LineItems != nil {
		lineItems = *req.LineItems
		if lineItems == nil {
			lineItems = []json.RawMessage{}
		}
	}

	r, err := h.Store.Save(c.Param("id"), lineItems)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *RequisitionHandler) Submit(c *gin.Context) {
	h.transition(c, models.StatusSubmitted)
}

func (h *RequisitionHandler) Authorize(c *gin.Context) {
	h.transition(c, models.StatusAuthorized)
}

func (h *RequisitionHandler) Approve(c *gin.Context) {
	h.transition(c, models.StatusApproved)
}

func (h *RequisitionHandler) transition(c *gin.Context, to models.RequisitionStatus) {
	id := c.Param("id")
	r, err := h.Store.Transition(id, to)
	if err != nil {
		h.Metrics.RequisitionTransitionsFailed.WithLabelValues(string(to), apperror.KindOf(err).String()).Inc()
		respondError(c, err)
		return
	}

	h.Metrics.RequisitionTransitions.WithLabelValues(string(to)).Inc()
	h.Logger.Info("requisition transitioned",
		zap.String("requisitionId", id),
		zap.String("status", string(r.Status)),
	)
	c.JSON(http.StatusOK, r)
}

func (h *RequisitionHandler) ForApproval(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCollection(h.Store.ListForApproval()))
}

func (h *RequisitionHandler) ForConversion(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCollection(h.Store.ListForConversion()))
}
