package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/classfee-api/api/swagger"
	"github.com/noah-isme/classfee-api/internal/handler"
	"github.com/noah-isme/classfee-api/internal/middleware"
	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/internal/repository"
	"github.com/noah-isme/classfee-api/internal/repository/inmem"
	"github.com/noah-isme/classfee-api/internal/service"
	"github.com/noah-isme/classfee-api/internal/validation"
	"github.com/noah-isme/classfee-api/pkg/cache"
	"github.com/noah-isme/classfee-api/pkg/config"
	"github.com/noah-isme/classfee-api/pkg/database"
	"github.com/noah-isme/classfee-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/classfee-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/classfee-api/pkg/middleware/requestid"
)

// @title Class Fee Admin API
// @version 1.0.0
// @description Classes, students, monthly fees and payment tracking for a tutoring business
// @BasePath /api/v1
// @schemes http

type classStore interface {
	List(ctx context.Context) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
}

type studentStore interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

type paymentStore interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	CreateBatch(ctx context.Context, payments []models.Payment) error
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, at time.Time) (*models.Payment, error)
}

// stores is the driver-independent set of repositories plus their readiness checks.
type stores struct {
	classes  classStore
	students studentStore
	payments paymentStore
	checks   map[string]handler.ReadinessCheck
	close    func()
}

// application is the fully wired HTTP surface plus the resources it owns.
type application struct {
	router *gin.Engine
	close  func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := newApplication(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer app.close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newApplication opens the configured store and cache, builds the services and
// mounts every route on a new gin engine.
func newApplication(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*application, error) {
	st, err := openStores(ctx, cfg, logr)
	if err != nil {
		return nil, err
	}

	metrics := service.NewMetricsService()
	cacheSvc, closeCache := openCache(ctx, cfg, metrics, st.checks, logr)

	v := validation.New()
	classSvc := service.NewClassService(st.classes, st.students, v, cacheSvc, logr)
	studentSvc := service.NewStudentService(st.students, st.classes, v, cacheSvc, logr)
	paymentSvc := service.NewPaymentService(st.payments, st.classes, st.students, v, cacheSvc, metrics, logr)
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Classes:      st.classes,
		Students:     st.students,
		Payments:     st.payments,
		Validator:    v,
		CurrencyCode: cfg.Billing.CurrencyCode,
		Logger:       logr,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Classes:  st.classes,
		Students: st.students,
		Payments: st.payments,
		Cache:    cacheSvc,
		Logger:   logr,
		Config:   service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics, st.checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Classes:   handler.NewClassHandler(classSvc),
		Students:  handler.NewStudentHandler(studentSvc),
		Payments:  handler.NewPaymentHandler(paymentSvc, exportSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Metrics:   metricsHandler,
	})

	return &application{
		router: r,
		close: func() {
			closeCache()
			st.close()
		},
	}, nil
}

func openStores(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StorePostgres {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logr.Info("postgres store ready", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
		return &stores{
			classes:  repository.NewClassRepository(db),
			students: repository.NewStudentRepository(db),
			payments: repository.NewPaymentRepository(db),
			checks:   map[string]handler.ReadinessCheck{"database": pingDB(db)},
			close:    func() { _ = db.Close() },
		}, nil
	}

	db := inmem.Open()
	if cfg.Store.SeedDemoData {
		inmem.Seed(db, time.Now())
		logr.Info("demo data seeded")
	}
	return &stores{
		classes:  inmem.NewClassRepository(db),
		students: inmem.NewStudentRepository(db),
		payments: inmem.NewPaymentRepository(db),
		checks:   map[string]handler.ReadinessCheck{},
		close:    func() {},
	}, nil
}

// openCache connects the dashboard cache. A nil CacheService disables caching.
func openCache(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, checks map[string]handler.ReadinessCheck, logr *zap.Logger) (*service.CacheService, func()) {
	if !cfg.Dashboard.CacheEnabled {
		return nil, func() {}
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		return nil, func() {}
	}
	checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }

	repo := repository.NewCacheRepository(client)
	return service.NewCacheService(repo, metrics, cfg.Dashboard.CacheTTL, logr, true), func() { _ = repo.Close() }
}

func pingDB(db *sqlx.DB) handler.ReadinessCheck {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}
