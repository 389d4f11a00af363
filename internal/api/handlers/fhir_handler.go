// server/internal/api/handlers/fhir_handler.go
package handlers

import (
	"net/http"

	"lmis-mock-server/internal/apperror"
	"lmis-mock-server/internal/directory"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FHIRHandler serves the clinical directory. Errors are rendered as
// OperationOutcome resources rather than {"error": ...}.
type FHIRHandler struct {
	Directory *directory.Directory
	Logger    *zap.Logger
}

func (h *FHIRHandler) Metadata(c *gin.Context) {
	c.JSON(http.StatusOK, directory.CapabilityStatement())
}

func (h *FHIRHandler) Search(rt directory.ResourceType) gin.HandlerFunc {
	return func(c *gin.Context) {
		resources := h.Directory.Search(rt, c.Request.URL.Query())
		c.JSON(http.StatusOK, directory.NewBundle(resources))
	}
}

func (h *FHIRHandler) Read(rt directory.ResourceType) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := h.Directory.Read(rt, c.Param("id"))
		if err != nil {
			respondOutcome(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func (h *FHIRHandler) Create(rt directory.ResourceType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body directory.Resource
		if err := c.ShouldBindJSON(&body); err != nil {
			body = nil
		}

		r, err := h.Directory.Create(rt, body)
		if err != nil {
			respondOutcome(c, err)
			return
		}

		id, _ := r["id"].(string)
		h.Logger.Info("fhir resource created", zap.String("resourceType", string(rt)), zap.String("id", id))
		c.Header("Location", "/fhir/"+string(rt)+"/"+id)
		c.JSON(http.StatusCreated, r)
	}
}

// Update upserts; the response is 200 whether or not the resource existed.
func (h *FHIRHandler) Update(rt directory.ResourceType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body directory.Resource
		if err := c.ShouldBindJSON(&body); err != nil {
			body = nil
		}

		r, created, err := h.Directory.Update(rt, c.Param("id"), body)
		if err != nil {
			respondOutcome(c, err)
			return
		}

		h.Logger.Info("fhir resource updated",
			zap.String("resourceType", string(rt)),
			zap.String("id", c.Param("id")),
			zap.Bool("created", created),
		)
		c.JSON(http.StatusOK, r)
	}
}

func respondOutcome(c *gin.Context, err error) {
	code := "exception"
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		code = "not-found"
	case apperror.KindValidation:
		code = "invalid"
	default:
		c.Error(err)
	}
	c.JSON(apperror.HTTPStatus(err), directory.NewOperationOutcome("error", code, apperror.Message(err)))
}
