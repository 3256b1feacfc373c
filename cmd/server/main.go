package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminhandler "regdesk/internal/admin/handler"
	adminservice "regdesk/internal/admin/service"
	"regdesk/internal/audit"
	jwttoken "regdesk/internal/jwt_token"
	mediadisk "regdesk/internal/media/disk"
	mediahosted "regdesk/internal/media/hosted"
	"regdesk/internal/platform/config"
	"regdesk/internal/platform/database"
	"regdesk/internal/platform/health"
	"regdesk/internal/platform/httpserver"
	"regdesk/internal/platform/logger"
	"regdesk/internal/platform/metrics"
	registrationhandler "regdesk/internal/registration/handler"
	registrationservice "regdesk/internal/registration/service"
	"regdesk/internal/registration/store"
	"regdesk/internal/registration/tracer"
	httptransport "regdesk/internal/transport/http"
	"regdesk/migrations"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing regdesk",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"media_mode", cfg.MediaMode,
		"database_configured", cfg.DatabaseURL != "",
	)

	ctx := context.Background()

	// Database is optional; without it the service runs on in-memory stores,
	// which is only meant for local development.
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var (
		records    registrationservice.RecordStore
		auditStore audit.Store
	)
	if pool != nil {
		defer pool.Close()
		if err := migrations.Apply(ctx, pool.DB()); err != nil {
			log.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		records = store.NewPostgres(pool.DB())
		auditStore = audit.NewPostgresStore(pool.DB())
	} else {
		log.Warn("no DATABASE_URL configured, using in-memory stores")
		records = store.NewInMemory()
		auditStore = audit.NewInMemoryStore()
	}

	var mediaStore registrationservice.MediaStore
	switch cfg.MediaMode {
	case "hosted":
		mediaStore = mediahosted.New(cfg.MediaHostURL, cfg.MediaHostAPIKey)
	default:
		mediaStore = mediadisk.New(cfg.UploadsDir, cfg.PublicBaseURL)
	}

	m := metrics.New()

	auditPublisher := audit.NewPublisher(auditStore,
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)
	defer auditPublisher.Close()

	registrationSvc, err := registrationservice.New(records, mediaStore,
		registrationservice.WithLogger(log),
		registrationservice.WithMetrics(m),
		registrationservice.WithAuditPublisher(auditPublisher),
		registrationservice.WithTracer(tracer.NewOTel()),
	)
	if err != nil {
		log.Error("failed to build registration service", "error", err)
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.SessionTTL)
	adminSvc, err := adminservice.New(
		adminservice.Credentials{
			Username:     cfg.AdminUsername,
			Password:     cfg.AdminPassword,
			PasswordHash: cfg.AdminPasswordHash,
		},
		jwtService,
		cfg.SessionTTL,
		adminservice.WithLogger(log),
		adminservice.WithMetrics(m),
		adminservice.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		log.Error("failed to build admin service", "error", err)
		os.Exit(1)
	}

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(checkCtx)
		})
	}

	staticDir := ""
	if cfg.MediaMode != "hosted" {
		staticDir = cfg.UploadsDir
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Registration:   registrationhandler.New(registrationSvc, log),
		Admin:          adminhandler.New(adminSvc, log),
		Health:         healthHandler,
		Auth:           jwttoken.NewJWTServiceAdapter(jwtService),
		Logger:         log,
		Metrics:        m,
		MetricsHandler: httptransport.DefaultMetricsHandler(),
		StaticDir:      staticDir,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
