// server/internal/api/routes/routes.go
package routes

import (
	"time"

	"lmis-mock-server/config"
	"lmis-mock-server/internal/api/handlers"
	"lmis-mock-server/internal/api/middleware"
	"lmis-mock-server/internal/auth"
	"lmis-mock-server/internal/directory"
	"lmis-mock-server/internal/eventlog"
	"lmis-mock-server/internal/metrics"
	"lmis-mock-server/internal/models"
	"lmis-mock-server/internal/reference"
	"lmis-mock-server/internal/requisition"
	"lmis-mock-server/internal/socket"
	"lmis-mock-server/internal/stock"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the long-lived components the router serves.
type Dependencies struct {
	Config       config.Config
	Logger       *zap.Logger
	Metrics      *metrics.Collector
	Requisitions *requisition.Store
	Ledger       *stock.Ledger
	Catalog      *reference.Catalog
	Directory    *directory.Directory
	Auth         *auth.Service
	Events       *eventlog.Log
	// Archive is nil unless MongoDB is configured.
	Archive handlers.EventArchive
	Hub     *socket.Hub
}

// SetupRouter wires every handler onto a fresh gin engine.
func SetupRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics(deps.Metrics))
	router.Use(cors.New(corsConfig(deps.Config.CORS)))

	systemHandler := &handlers.SystemHandler{}
	requisitionHandler := &handlers.RequisitionHandler{Store: deps.Requisitions, Metrics: deps.Metrics, Logger: logger}
	stockHandler := &handlers.StockHandler{Ledger: deps.Ledger, Metrics: deps.Metrics, Logger: logger}
	referenceHandler := &handlers.ReferenceHandler{Catalog: deps.Catalog}
	userHandler := &handlers.UserHandler{Auth: deps.Auth, Logger: logger}
	fhirHandler := &handlers.FHIRHandler{Directory: deps.Directory, Logger: logger}
	eventHandler := &handlers.EventHandler{Log: deps.Events, Archive: deps.Archive, Metrics: deps.Metrics, Logger: logger}
	webSocketHandler := &handlers.WebSocketHandler{Hub: deps.Hub, Logger: logger}

	router.GET("/", systemHandler.Index)
	router.GET("/health", systemHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.Use(middleware.Identify(deps.Auth))
	{
		// === Auth, never behind a token ===
		oauth := api.Group("/oauth")
		{
			oauth.POST("/token", userHandler.Token)
			oauth.POST("/check_token", userHandler.CheckToken)
		}
		api.GET("/users", userHandler.ListUsers)
		api.GET("/users/:id", userHandler.GetUser)

		// === Requisitions and stock ===
		core := api.Group("")
		if deps.Config.Auth.RequireToken {
			core.Use(middleware.RequireIdentity())
		}
		{
			core.GET("/requisitions", requisitionHandler.List)
			core.POST("/requisitions", requisitionHandler.Create)
			core.GET("/requisitions/:id", requisitionHandler.Get)
			core.PUT("/requisitions/:id/save", requisitionHandler.Save)
			core.PUT("/requisitions/:id/submit", requisitionHandler.Submit)
			core.PUT("/requisitions/:id/authorize", requisitionHandler.Authorize)
			core.PUT("/requisitions/:id/approve", requisitionHandler.Approve)
			core.GET("/requisitions-for-approval", requisitionHandler.ForApproval)
			core.GET("/requisitions-for-convert-to-order", requisitionHandler.ForConversion)

			core.GET("/stockCards", stockHandler.ListCards)
			core.GET("/stockCards/:id", stockHandler.GetCard)
			core.GET("/stockCardSummaries", stockHandler.Summaries)
			core.POST("/stockEvents", stockHandler.RecordEvent)
			core.GET("/validSources", stockHandler.ValidSources)
			core.GET("/validDestinations", stockHandler.ValidDestinations)
			core.GET("/stockCardLineItemReasons", stockHandler.LineItemReasons)
		}

		// === Reference data ===
		api.GET("/facilities", referenceHandler.ListFacilities)
		api.GET("/facilities/:id", referenceHandler.GetFacility)
		api.GET("/programs", referenceHandler.ListPrograms)
		api.GET("/programs/:id", referenceHandler.GetProgram)
		api.GET("/orderables", referenceHandler.ListOrderables)
		api.GET("/orderables/:id", referenceHandler.GetOrderable)
		api.GET("/processingPeriods", referenceHandler.ListProcessingPeriods)
		api.GET("/processingPeriods/:id", referenceHandler.GetProcessingPeriod)
		api.GET("/geographicZones", referenceHandler.ListGeographicZones)
		api.GET("/facilityTypes", referenceHandler.ListFacilityTypes)

		// === Event log ===
		events := api.Group("/events")
		{
			events.GET("", eventHandler.List)
			events.GET("/archive", eventHandler.Archived)
			if deps.Config.Auth.RequireToken {
				events.DELETE("", middleware.Authorize(models.RoleAdmin), eventHandler.Clear)
			} else {
				events.DELETE("", eventHandler.Clear)
			}
			events.GET("/ws", webSocketHandler.ServeWs)
			events.POST("/simulate", eventHandler.Simulate)
			events.POST("/simulate/openlmis/requisition", eventHandler.SimulateRequisition)
			events.POST("/simulate/openlmis/stock", eventHandler.SimulateStock)
			events.POST("/simulate/opensrp/patient", eventHandler.SimulatePatient)
			events.POST("/simulate/opensrp/encounter", eventHandler.SimulateEncounter)
		}
	}

	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/openlmis", eventHandler.OpenLMISWebhook)
		webhooks.POST("/openlmis/requisitions", eventHandler.OpenLMISRequisitionWebhook)
		webhooks.POST("/openlmis/stock", eventHandler.OpenLMISStockWebhook)
		webhooks.POST("/opensrp", eventHandler.OpenSRPWebhook)
		webhooks.POST("/opensrp/patient", eventHandler.OpenSRPPatientWebhook)
		webhooks.POST("/opensrp/encounter", eventHandler.OpenSRPEncounterWebhook)
	}

	fhir := router.Group("/fhir")
	{
		fhir.GET("/metadata", fhirHandler.Metadata)
		for _, rt := range []directory.ResourceType{
			directory.TypePatient,
			directory.TypeLocation,
			directory.TypeOrganization,
			directory.TypePractitioner,
			directory.TypePractitionerRole,
		} {
			fhir.GET("/"+string(rt), fhirHandler.Search(rt))
			fhir.GET("/"+string(rt)+"/:id", fhirHandler.Read(rt))
			if directory.Creatable(rt) {
				fhir.POST("/"+string(rt), fhirHandler.Create(rt))
			}
		}
		fhir.PUT("/"+string(directory.TypePatient)+"/:id", fhirHandler.Update(directory.TypePatient))
	}

	return router
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders: []string{"Location"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.AllowedOrigins
	if len(c.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
	}
	return c
}
