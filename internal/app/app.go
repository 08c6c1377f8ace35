package app

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"time"

	"school-service/internal/class"
	"school-service/internal/config"
	"school-service/internal/db"
	"school-service/internal/health"
	"school-service/internal/logger"
	"school-service/internal/messaging"
	"school-service/internal/metrics"
	"school-service/internal/middleware"
	"school-service/internal/schema"
	"school-service/internal/stats"
	"school-service/internal/student"
	"school-service/internal/teacher"
	"school-service/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

type App struct {
	config    *config.Config
	router    *gin.Engine
	server    *http.Server
	db        *bun.DB
	producer  *messaging.Producer
	telemetry *telemetry.Telemetry
	logger    *slog.Logger
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "git_commit", GitCommit, "build_time", BuildTime)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	tel, err := telemetry.Init(ctx, cfg.Telemetry.OTLPEndpoint, ServiceName, Version, cfg.Env, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize telemetry, continuing with no-op metrics", "error", err)
		tel = &telemetry.Telemetry{Metrics: metrics.NewMock()}
	}
	appMetrics := tel.Metrics

	database := db.New(cfg.Database)
	database.AddQueryHook(appMetrics.Database)
	if err := appMetrics.Database.RegisterDB(database.DB, otel.Meter(ServiceName)); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}

	if err := db.RunMigrations(ctx, database, schema.Tables()...); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	app := &App{
		config:    cfg,
		router:    gin.New(),
		db:        database,
		telemetry: tel,
		logger:    slogLogger,
	}

	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.NATS.URL != "" {
		producer, err := messaging.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, slogLogger, appMetrics.Messaging)
		if err != nil {
			slogLogger.Warn("failed to initialize NATS producer, change events disabled", "error", err)
		} else {
			app.producer = producer
			publisher = producer
		}
	} else {
		slogLogger.Info("NATS not configured, change events disabled")
	}

	app.router.Use(
		middleware.Recovery(slogLogger),
		middleware.CORS(cfg.Server.CORSOrigins),
		middleware.RequestLogger(slogLogger),
	)

	teacherRepo := teacher.NewRepository(database)
	classRepo := class.NewRepository(database)
	studentRepo := student.NewRepository(database)

	health.NewHandler(database, ServiceName, Version, appMetrics, slogLogger).RegisterRoutes(app.router)
	stats.NewHandler(studentRepo, teacherRepo, classRepo, slogLogger).RegisterRoutes(app.router)

	studentService := student.NewService(studentRepo, classRepo, publisher, appMetrics, slogLogger)
	student.NewHandler(studentService, slogLogger).RegisterRoutes(app.router)

	teacherService := teacher.NewService(teacherRepo, publisher, appMetrics, slogLogger)
	teacher.NewHandler(teacherService, slogLogger).RegisterRoutes(app.router)

	classService := class.NewService(classRepo, teacherRepo, publisher, appMetrics, slogLogger)
	class.NewHandler(classService, slogLogger).RegisterRoutes(app.router)

	app.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	slogLogger.Info("application initialized successfully")

	return app
}

// Run blocks until the server stops. A server closed by Shutdown is not an
// error.
func (a *App) Run() error {
	a.logger.Info("server starting", "addr", a.server.Addr)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	errs := []error{a.server.Shutdown(ctx)}
	if a.producer != nil {
		errs = append(errs, a.producer.Close())
	}
	db.Close(a.db)
	errs = append(errs, a.telemetry.Shutdown(ctx))

	return errors.Join(errs...)
}
