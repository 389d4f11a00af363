// server/internal/api/handlers/system_handler.go
package handlers

import (
	"net/http"

	"lmis-mock-server/internal/directory"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "OpenLMIS & OpenSRP Mock Server"
	ServiceVersion = "1.0.0"
)

type SystemHandler struct{}

// Index describes the mocked services and where to find them.
func (h *SystemHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    ServiceName,
		"version": ServiceVersion,
		"services": gin.H{
			"openlmis": gin.H{
				"description": "OpenLMIS 2 Backend Mock",
				"endpoints": gin.H{
					"auth":         "/api/oauth/token",
					"users":        "/api/users",
					"requisitions": "/api/requisitions",
					"stockCards":   "/api/stockCards",
					"facilities":   "/api/facilities",
					"programs":     "/api/programs",
					"orderables":   "/api/orderables",
				},
			},
			"opensrp_fhir": gin.H{
				"description": "OpenSRP 2 FHIR Gateway Mock",
				"fhirVersion": directory.FHIRVersion,
				"endpoints": gin.H{
					"metadata":         "/fhir/metadata",
					"patient":          "/fhir/Patient",
					"location":         "/fhir/Location",
					"organization":     "/fhir/Organization",
					"practitioner":     "/fhir/Practitioner",
					"practitionerRole": "/fhir/PractitionerRole",
				},
			},
			"events": gin.H{
				"list":     "/api/events",
				"simulate": "/api/events/simulate",
				"live":     "/api/events/ws",
			},
		},
		"defaultCredentials": gin.H{
			"username": "administrator",
			"password": "password",
		},
	})
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
