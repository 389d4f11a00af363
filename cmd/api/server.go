// server/cmd/api/server.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"lmis-mock-server/config"
	"lmis-mock-server/internal/api/handlers"
	"lmis-mock-server/internal/api/routes"
	"lmis-mock-server/internal/auth"
	"lmis-mock-server/internal/database"
	"lmis-mock-server/internal/directory"
	"lmis-mock-server/internal/eventlog"
	"lmis-mock-server/internal/fixtures"
	"lmis-mock-server/internal/logger"
	"lmis-mock-server/internal/metrics"
	"lmis-mock-server/internal/reference"
	"lmis-mock-server/internal/requisition"
	"lmis-mock-server/internal/s3"
	"lmis-mock-server/internal/socket"
	"lmis-mock-server/internal/stock"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func runServer(cmd *cobra.Command, _ []string) error {
	// 1. Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if cfg.Log.Development {
		cfg.Server.Mode = gin.DebugMode
		cfg.Log.Level = "debug"
	}
	gin.SetMode(cfg.Server.Mode)

	// 2. Logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Seed data, loaded once before serving traffic
	source, err := fixtureSource(ctx, cfg)
	if err != nil {
		return err
	}
	bundle, err := fixtures.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("could not load fixtures: %w", err)
	}
	log.Info("fixtures loaded",
		zap.String("source", cfg.Fixtures.Source),
		zap.Int("requisitions", len(bundle.Requisitions)),
		zap.Int("stockCards", len(bundle.Stock.StockCards)),
		zap.Int("users", len(bundle.Users)),
	)

	// 4. Stores and collaborators
	requisitions := requisition.NewStore(bundle.Requisitions)
	ledger := stock.NewLedger(bundle.Stock)
	catalog := reference.NewCatalog(bundle.Reference)
	dir := directory.New(bundle.FHIR)

	authService, err := auth.NewService(bundle.Users, cfg.Auth)
	if err != nil {
		return err
	}

	// 5. Event log and its sinks
	hub := socket.NewHub(log.Named("socket"))
	sinks := []eventlog.Sink{hub}
	var archive handlers.EventArchive
	if cfg.Mongo.URI != "" {
		client, err := database.Connect(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		coll := client.Database(cfg.Mongo.DBName).Collection(cfg.Mongo.Collection)
		eventArchive := database.NewEventArchive(coll)
		sinks = append(sinks, eventArchive)
		archive = eventArchive
		log.Info("archiving events to MongoDB",
			zap.String("db", cfg.Mongo.DBName),
			zap.String("collection", cfg.Mongo.Collection),
		)
	}
	events := eventlog.New(cfg.Events.MaxEvents, log.Named("events"), sinks...)

	// 6. Metrics
	m := metrics.NewCollector()
	m.RegisterGauge("socket", "subscribers", "Connected event feed subscribers.", func() float64 {
		return float64(hub.Count())
	})
	m.RegisterGauge("events", "logged", "Events currently held in the event log.", func() float64 {
		return float64(events.Len())
	})
	m.RegisterGauge("requisition", "stored", "Requisitions held in memory.", func() float64 {
		total := 0
		for _, n := range requisitions.Count() {
			total += n
		}
		return float64(total)
	})
	m.RegisterGauge("fhir", "resources", "FHIR resources held in the directory.", func() float64 {
		total := 0
		for _, n := range dir.Counts() {
			total += n
		}
		return float64(total)
	})

	// 7. Router
	router := routes.SetupRouter(routes.Dependencies{
		Config:       cfg,
		Logger:       log,
		Metrics:      m,
		Requisitions: requisitions,
		Ledger:       ledger,
		Catalog:      catalog,
		Directory:    dir,
		Auth:         authService,
		Events:       events,
		Archive:      archive,
		Hub:          hub,
	})

	// 8. Serve until signalled
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server",
			zap.String("addr", cfg.Addr()),
			zap.Bool("requireToken", cfg.Auth.RequireToken),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func fixtureSource(ctx context.Context, cfg config.Config) (fixtures.Source, error) {
	switch cfg.Fixtures.Source {
	case "", "embedded":
		return fixtures.Embedded(), nil
	case "dir":
		return fixtures.Dir(cfg.Fixtures.Dir), nil
	case "s3":
		fetcher, err := s3.NewFetcher(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return fetcher, nil
	default:
		return nil, fmt.Errorf("unknown fixtures source %q", cfg.Fixtures.Source)
	}
}
