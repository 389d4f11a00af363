// server/internal/api/handlers/reference_handler.go
package handlers

import (
	"net/http"

	"lmis-mock-server/internal/models"
	"lmis-mock-server/internal/reference"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves the read-only catalog.
type ReferenceHandler struct {
	Catalog *reference.Catalog
}

func (h *ReferenceHandler) ListFacilities(c *gin.Context) {
	facilities := h.Catalog.Facilities(reference.FacilityFilter{
		Active: optionalBool(c, "active"),
		ZoneID: c.Query("zoneId"),
	})
	c.JSON(http.StatusOK, models.NewCollection(facilities))
}

func (h *ReferenceHandler) GetFacility(c *gin.Context) {
	f, err := h.Catalog.Facility(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *ReferenceHandler) ListPrograms(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCollection(h.Catalog.Programs(optionalBool(c, "active"))))
}

func (h *ReferenceHandler) GetProgram(c *gin.Context) {
	p, err := h.Catalog.Program(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ReferenceHandler) ListOrderables(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCollection(h.Catalog.Orderables(c.Query("code"))))
}

func (h *ReferenceHandler) GetOrderable(c *gin.Context) {
	o, err := h.Catalog.Orderable(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *ReferenceHandler) ListProcessingPeriods(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCollection(h.Catalog.ProcessingPeriods()))
}

func (h *ReferenceHandler) GetProcessingPeriod(c *gin.Context) {
	p, err := h.Catalog.ProcessingPeriod(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ReferenceHandler) ListGeographicZones(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCollection(h.Catalog.GeographicZones()))
}

func (h *ReferenceHandler) ListFacilityTypes(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewCollection(h.Catalog.FacilityTypes()))
}
