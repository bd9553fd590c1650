package router

import (
	"time"

	"github.com/armencho53/JMSK-Backend/internal/config"
	"github.com/armencho53/JMSK-Backend/internal/handler"
	"github.com/armencho53/JMSK-Backend/internal/middleware"
	"github.com/armencho53/JMSK-Backend/internal/repository"
	"github.com/armencho53/JMSK-Backend/internal/service"
	"github.com/armencho53/JMSK-Backend/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	metalRepo := repository.NewMetalRepository(db)
	safeRepo := repository.NewSafeSupplyRepository(db)
	balanceRepo := repository.NewCompanyBalanceRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	cacheTTL := time.Duration(cfg.MetalCacheTTLSeconds) * time.Second
	metalSvc := service.NewMetalService(metalRepo, rdb, cacheTTL)
	supplySvc := service.NewSupplyService(metalRepo, safeRepo, balanceRepo, txnRepo, companyRepo, dispatcher)
	consumptionSvc := service.NewConsumptionService(orderRepo, metalRepo, safeRepo, balanceRepo, txnRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	metalsH := handler.NewMetalsHandler(metalSvc)
	suppliesH := handler.NewSuppliesHandler(supplySvc)
	manufacturingH := handler.NewManufacturingHandler(consumptionSvc)
	statementsH := handler.NewStatementsHandler(companyRepo, balanceRepo, txnRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected routes. Tokens come from the platform auth service; writes
	// need an elevated role, reads any authenticated tenant user.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	elevated := middleware.RequireRole("manager", "admin")
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/metals", metalsH.List)
		metals := v1.Group("/metals", elevated)
		{
			metals.POST("", metalsH.Create)
			metals.PUT("/:id", metalsH.Update)
			metals.DELETE("/:id", metalsH.Deactivate)
		}
		v1.POST("/metals/seed", middleware.RequireRole("admin"), metalsH.Seed)

		v1.POST("/companies/:id/metal-deposits", elevated, suppliesH.RecordDeposit)
		v1.GET("/companies/:id/metal-balances", suppliesH.ListCompanyBalances)
		v1.GET("/companies/:id/metal-statement", statementsH.Download)

		v1.POST("/safe/purchases", elevated, suppliesH.RecordPurchase)
		v1.POST("/safe/adjustments", middleware.RequireRole("admin"), suppliesH.RecordAdjustment)
		v1.GET("/safe/supplies", suppliesH.ListSafeSupplies)

		v1.GET("/metal-transactions", suppliesH.ListTransactions)

		v1.POST("/manufacturing/casting-completions", elevated, manufacturingH.CastingCompleted)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
