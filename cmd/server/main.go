package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/dsi-erp/backend/internal/application/catalog"
	"github.com/dsi-erp/backend/internal/infrastructure/config"
	"github.com/dsi-erp/backend/internal/infrastructure/event"
	"github.com/dsi-erp/backend/internal/infrastructure/logger"
	"github.com/dsi-erp/backend/internal/infrastructure/persistence"
	"github.com/dsi-erp/backend/internal/infrastructure/telemetry"
	"github.com/dsi-erp/backend/internal/interfaces/http/handler"
	"github.com/dsi-erp/backend/internal/interfaces/http/middleware"
	"github.com/dsi-erp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			DSI ERP Item Catalog API
//	@version		1.0
//	@description	Item groups and items with generated item codes
//	@BasePath		/api/v1

// telemetryProviders holds the OpenTelemetry pipelines that need shutting down
type telemetryProviders struct {
	tracer *telemetry.TracerProvider
	meter  *telemetry.MeterProvider
	logs   *telemetry.LoggerProvider
}

func (p *telemetryProviders) shutdown(ctx context.Context, log *zap.Logger) {
	if err := p.tracer.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := p.meter.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := p.logs.Shutdown(ctx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	providers, log, err := setupTelemetry(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		providers.shutdown(shutdownCtx, log)
		_ = log.Sync()
	}()

	log.Info("Starting DSI ERP backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracing(telemetry.DBTracingConfig{
		Enabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		FullSQL:       cfg.Telemetry.DBLogFullSQL,
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		System:        dbSystem,
	}, log)
	if err := db.DB.Use(dbTracing); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	itemGroupRepo := persistence.NewGormItemGroupRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	itemLinkRepo := persistence.NewGormItemLinkRepository(db.DB)
	txScope := persistence.NewGormCatalogTransactionScope(db.DB)

	// Event bus with the audit log handler
	eventSerializer := event.NewEventSerializer()
	event.RegisterCatalogEvents(eventSerializer)
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(eventSerializer, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	policy := cfg.Catalog.CodePolicy()
	itemGroupService := catalogapp.NewItemGroupService(itemGroupRepo, itemRepo, eventBus, policy, log)
	itemService := catalogapp.NewItemService(catalogapp.ItemServiceConfig{
		ItemRepo:       itemRepo,
		ItemGroupRepo:  itemGroupRepo,
		ItemLinkRepo:   itemLinkRepo,
		TxScope:        txScope,
		EventPublisher: eventBus,
		Policy:         policy,
		Logger:         log,
	})

	catalogMetrics, err := telemetry.NewCatalogMetrics(providers.meter.Meter("dsi-erp/catalog"))
	if err != nil {
		log.Warn("Catalog metrics unavailable", zap.Error(err))
	} else {
		itemService.SetCatalogMetrics(catalogMetrics)
	}

	if err := itemGroupService.EnsureRoot(ctx); err != nil {
		log.Fatal("Failed to ensure root item group", zap.Error(err))
	}
	log.Info("Item code policy",
		zap.String("root_item_group", policy.RootItemGroup),
		zap.String("fallback_prefix", policy.FallbackPrefix),
		zap.Int("sequence_width", policy.SequenceWidth),
		zap.Int("segment_length", policy.SegmentLength),
	)

	engine := newEngine(cfg, log, providers)

	router.Mount(engine, router.DefaultAPIVersion,
		router.System(handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, db)),
		router.Catalog(
			handler.NewItemGroupHandler(itemGroupService),
			handler.NewItemHandler(itemService),
		),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// setupTelemetry starts the trace, metric and log pipelines. When OTLP logs
// are enabled the returned logger writes to both the console and the collector.
func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetryProviders, *zap.Logger, error) {
	tc := cfg.Telemetry
	serviceName := tc.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.TracingConfig{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, log, err
	}

	meter, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tc.Enabled && tc.MetricsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ExportInterval:    tc.MetricsExportInterval,
		ServiceName:       serviceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, log, err
	}

	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.Enabled && tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, log, err
	}

	providers := &telemetryProviders{tracer: tracer, meter: meter, logs: logs}
	return providers, logs.Tee(log, logger.ParseLevel(cfg.Log.Level)), nil
}

// newEngine builds the gin engine with the middleware stack
func newEngine(cfg *config.Config, log *zap.Logger, providers *telemetryProviders) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// the request ID and span must exist before the access log reads them
	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(serviceName, providers.tracer.IsEnabled()),
		middleware.SpanAnnotator(),
		logger.AccessLog(log),
		logger.Recovery(log),
		middleware.HTTPMetrics(providers.meter.Meter("dsi-erp/http")),
		middleware.NewCORS(cfg.HTTP.CORSAllowOrigins, cfg.HTTP.CORSAllowMethods, cfg.HTTP.CORSAllowHeaders).Handler(),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	return engine
}
