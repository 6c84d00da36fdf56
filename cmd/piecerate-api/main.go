package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/minkhant-dev/piecerate-api/api/swagger"
	"github.com/minkhant-dev/piecerate-api/internal/audit"
	"github.com/minkhant-dev/piecerate-api/internal/handler"
	"github.com/minkhant-dev/piecerate-api/internal/ledger"
	"github.com/minkhant-dev/piecerate-api/internal/middleware"
	"github.com/minkhant-dev/piecerate-api/internal/models"
	"github.com/minkhant-dev/piecerate-api/internal/registry"
	"github.com/minkhant-dev/piecerate-api/internal/reports"
	"github.com/minkhant-dev/piecerate-api/internal/repository"
	"github.com/minkhant-dev/piecerate-api/internal/service"
	"github.com/minkhant-dev/piecerate-api/internal/store"
	"github.com/minkhant-dev/piecerate-api/pkg/cache"
	"github.com/minkhant-dev/piecerate-api/pkg/config"
	"github.com/minkhant-dev/piecerate-api/pkg/database"
	"github.com/minkhant-dev/piecerate-api/pkg/logger"
	corsmiddleware "github.com/minkhant-dev/piecerate-api/pkg/middleware/cors"
	reqidmiddleware "github.com/minkhant-dev/piecerate-api/pkg/middleware/requestid"
)

// @title Piece-Rate Ledger API
// @version 1.0.0
// @description Piece-rate production tracking: master data, append-only ledgers, reports and audit trail
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	provider, cleanup, err := buildProvider(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document store", "backend", cfg.Store.Backend, "error", err)
	}
	defer cleanup()

	controlDB, err := database.NewPostgres(cfg.ControlDB)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect control database", "error", err)
	}
	defer controlDB.Close()

	var cacheRepo service.CacheRepository
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close()
		cacheRepo = repo
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr)

	trail := audit.NewTrail(provider, logr)
	auditSvc := audit.NewService(provider, logr)
	reg := registry.New(provider, trail, validate, logr)

	productionSvc := ledger.NewProductionService(provider, reg, trail, validate, logr)
	paymentSvc := ledger.NewPaymentService(provider, trail, validate, logr)
	exportSvc := ledger.NewExportService(productionSvc)
	reportSvc := reports.NewService(productionSvc, paymentSvc, reg, cacheSvc, cfg.Reports.CacheTTL, logr)

	clientRepo := repository.NewClientRepository(controlDB)
	authSvc := service.NewAuthService(clientRepo, reg, cacheSvc, validate, logr, service.AuthConfig{
		TokenSecret:    cfg.JWT.Secret,
		TokenExpiry:    cfg.JWT.Expiration,
		Issuer:         cfg.JWT.Issuer,
		EntitlementTTL: cfg.Entitlement.CacheTTL,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	workerHandler := handler.NewWorkerHandler(reg)
	positionHandler := handler.NewJobPositionHandler(reg)
	rateCardHandler := handler.NewRateCardHandler(reg)
	productionHandler := handler.NewProductionHandler(productionSvc, exportSvc, reportSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, reportSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := controlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "control database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("", middleware.JWT(authSvc), middleware.Entitlement(authSvc))

	ownerOnly := middleware.RequireRoles(models.RoleOwner)
	anyRole := middleware.RequireRoles(models.RoleOwner, models.RoleSupervisor)

	secured.GET("/workers", anyRole, workerHandler.List)
	secured.POST("/workers", ownerOnly, workerHandler.Create)
	secured.PUT("/workers/:id", ownerOnly, workerHandler.Update)
	secured.DELETE("/workers/:id", ownerOnly, workerHandler.Delete)

	secured.GET("/job-positions", anyRole, positionHandler.List)
	secured.POST("/job-positions", ownerOnly, positionHandler.Create)
	secured.PUT("/job-positions/:id", ownerOnly, positionHandler.Update)
	secured.DELETE("/job-positions/:id", ownerOnly, positionHandler.Delete)

	secured.GET("/rate-card", anyRole, rateCardHandler.List)
	secured.POST("/rate-card", ownerOnly, rateCardHandler.Create)
	secured.PUT("/rate-card/:id", ownerOnly, rateCardHandler.Update)
	secured.DELETE("/rate-card/:id", ownerOnly, rateCardHandler.Delete)

	secured.GET("/production-entries", anyRole, productionHandler.List)
	secured.POST("/production-entries", anyRole, productionHandler.Create)
	secured.GET("/production-entries/export", anyRole, productionHandler.Export)

	secured.GET("/payments", anyRole, paymentHandler.List)
	secured.POST("/payments", anyRole, paymentHandler.Create)

	secured.GET("/reports/dashboard", anyRole, reportHandler.Dashboard)
	secured.GET("/reports/workers/:id/balance", anyRole, reportHandler.WorkerBalance)

	secured.GET("/audit-log", ownerOnly, auditHandler.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store_backend", cfg.Store.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// buildProvider selects the document store backend once at startup.
// Consumers only ever see the store.Provider interface.
func buildProvider(cfg *config.Config, logr *zap.Logger) (store.Provider, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		provider, err := store.NewMongoProvider(ctx, cfg.Store, logr)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			if err := provider.Close(closeCtx); err != nil {
				logr.Sugar().Warnw("failed to close mongo provider", "error", err)
			}
		}
		return provider, cleanup, nil
	case config.StoreBackendMemory:
		return store.NewMemoryProvider(store.SeedData), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
