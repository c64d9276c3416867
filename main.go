package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/config"
	"github.com/fenilmodi00/planillas-dashboard/database"
	"github.com/fenilmodi00/planillas-dashboard/handlers"
	"github.com/fenilmodi00/planillas-dashboard/jobs"
	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	unified := cfg.Unified()
	shared.ConfigureLogging(unified.Logging)

	// Session store
	store, checks, err := openSessionStore(cfg, unified)
	if err != nil {
		logrus.Fatalf("Failed to open session store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close session store")
		}
		database.Close()
	}()

	sessions := services.NewSessionManager(store, unified.Session.DefaultTTL, unified.Session.AlertTTL)

	// Backend gateway
	clientFactory := shared.NewHTTPClientFactory(unified.Gateway.HTTPRequestTimeout)
	defer clientFactory.CleanupAllClients()

	var gatewayMetrics *shared.HTTPMetrics
	if unified.Gateway.EnableMetrics {
		gatewayMetrics = shared.NewHTTPMetrics()
	}
	api := services.NewAPIClient(unified.Gateway, clientFactory, sessions, gatewayMetrics)

	// Services
	authService := services.NewAuthService(api, sessions)
	planillaService := services.NewPlanillaService(api)
	dirigenteService := services.NewDirigenteService(api)
	workflow := services.NewSubmissionWorkflow(planillaService)

	var pdfRenderer services.PDFRenderer
	if unified.Export.UseChromePDF {
		pdfRenderer = services.NewChromePDFRenderer(unified.Export.PDFTimeout)
	}
	exportService := services.NewExportService(pdfRenderer)

	logrus.WithFields(logrus.Fields{
		"api_base_url":    unified.Gateway.BaseURL,
		"session_backend": unified.Session.Backend,
		"session_ttl":     unified.Session.DefaultTTL,
		"chrome_pdf":      unified.Export.UseChromePDF,
	}).Info("Planillas dashboard services initialized")

	// Background jobs
	scheduler := jobs.NewScheduler().
		Every("session cleanup", unified.Session.CleanupInterval, jobs.NewSessionCleanupJob(sessions)).
		Every("metrics report", time.Hour, jobs.NewMetricsReportJob(gatewayMetrics, workflow.Metrics()))
	scheduler.Start()
	defer scheduler.Stop()

	// Handlers
	views, err := handlers.NewViews()
	if err != nil {
		logrus.Fatalf("Failed to load templates: %v", err)
	}
	validate := validator.New()
	sessionMiddleware := handlers.NewSessionMiddleware(sessions, unified.Session)

	app := handlers.NewApp(handlers.Handlers{
		Views:     views,
		Sessions:  sessionMiddleware,
		Auth:      handlers.NewAuthHandler(authService, sessionMiddleware, views, validate),
		Planillas: handlers.NewPlanillaHandler(planillaService, dirigenteService, workflow, sessions, views, validate),
		Admin:     handlers.NewAdminHandler(planillaService, sessions, views, unified.Dashboard),
		Exports:   handlers.NewExportHandler(planillaService, exportService, validate),
		Health:    handlers.NewHealthHandler(gatewayMetrics, workflow.Metrics(), unified.Session.Backend, checks),
	}, true)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logrus.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	logrus.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}

// openSessionStore connects the configured backend and returns the health
// checks that go with it.
func openSessionStore(cfg *config.Config, unified *shared.UnifiedConfiguration) (services.SessionStore, map[string]handlers.HealthCheck, error) {
	switch unified.Session.Backend {
	case config.SessionBackendPostgres:
		if err := database.ConnectWithConfig(cfg.DatabaseURL, &unified.Database); err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(database.DB); err != nil {
			return nil, nil, err
		}
		return database.NewPostgresSessionStore(database.DB), map[string]handlers.HealthCheck{
			"database": database.HealthCheck,
		}, nil

	case config.SessionBackendRedis:
		client, err := database.ConnectRedis(context.Background(), cfg.RedisURI)
		if err != nil {
			return nil, nil, err
		}
		return database.NewRedisSessionStore(client), map[string]handlers.HealthCheck{
			"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
		}, nil

	default:
		return services.NewMemorySessionStore(unified.Session.MaxSessions), nil, nil
	}
}
