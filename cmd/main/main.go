package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"medsupply-service/internal/config"
	"medsupply-service/internal/events"
	"medsupply-service/internal/handlers"
	"medsupply-service/internal/jobs"
	"medsupply-service/internal/ledger"
	"medsupply-service/internal/metrics"
	"medsupply-service/internal/middleware"
	"medsupply-service/internal/models"
	"medsupply-service/internal/repository"
	"medsupply-service/internal/seeders"
	"medsupply-service/internal/services"
	"medsupply-service/internal/store"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/Tesseract-Nexus/go-shared/rbac"
	"github.com/Tesseract-Nexus/go-shared/tracing"
)

// @title Medical Supply Coordination API
// @version 1.0.0
// @description Hospital request prioritization, distributor recommendation and restock ordering

// @host localhost:8091
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.HospitalRequest{},
		&models.FulfillmentRecord{},
		&models.Distributor{},
		&models.StockLevel{},
		&models.LowStockItem{},
		&models.RestockOrder{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize logrus logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	if cfg.SeedSampleData {
		if err := seeders.SeedSampleData(db, cfg.SeedTenantID, logger); err != nil {
			log.Printf("WARNING: Failed to seed sample data: %v", err)
		} else {
			log.Println("✓ Sample data seeded")
		}
	}

	// Redis backs the distributor cache and saved filters when available
	redisClient := config.InitRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var filterStore store.StateStore[models.FilterCriteria]
	if redisClient != nil {
		filterStore = store.NewRedisStateStore[models.FilterCriteria](redisClient, "medsupply:filters:", 30*24*time.Hour)
	} else {
		filterStore = store.NewMemoryStateStore[models.FilterCriteria]()
	}

	// Initialize ledger
	ledgerClient, err := ledger.New(ledger.Config{
		Mode:              cfg.LedgerMode,
		GatewayURL:        cfg.LedgerGatewayURL,
		ConfirmationDelay: cfg.LedgerConfirmationDelay,
	}, logger)
	if err != nil {
		log.Fatal("Failed to initialize ledger:", err)
	}
	log.Printf("✓ Ledger initialized (mode: %s)", ledgerClient.Mode())

	weights, err := services.ParseScoringWeights(cfg.ScoringWeights)
	if err != nil {
		log.Printf("WARNING: Invalid SCORING_WEIGHTS: %v (using defaults)", err)
	}

	// Initialize NATS event publisher (optional - graceful degradation if NATS unavailable)
	var stockPublisher services.StockEventPublisher
	if cfg.NATSURL != "" {
		eventPublisher, err := events.NewSupplyEventPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("Warning: Failed to initialize NATS event publisher: %v", err)
			log.Println("Continuing without event publishing...")
		} else {
			log.Println("✓ Connected to NATS JetStream for event publishing")
			stockPublisher = eventPublisher
			defer eventPublisher.Close()
		}
	} else {
		log.Println("NATS_URL not configured, event publishing disabled")
	}

	supplyMetrics, err := metrics.NewSupplyCollector(prometheus.DefaultRegisterer)
	if err != nil {
		log.Printf("WARNING: Failed to register supply metrics: %v", err)
	}

	// Initialize repositories
	requestRepo := repository.NewHospitalRequestRepository(db)
	distributorRepo := repository.NewDistributorRepository(db, redisClient)
	restockRepo := repository.NewRestockRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Initialize services
	requestService := services.NewHospitalRequestService(
		requestRepo,
		filterStore,
		ledgerClient,
		services.NewReportExporter(cfg.ReportLocation()),
		supplyMetrics,
		logger,
	)
	restockService := services.NewRestockService(services.RestockDeps{
		Restock:      restockRepo,
		Distributors: distributorRepo,
		Activity:     activityRepo,
		Ledger:       ledgerClient,
		Publisher:    stockPublisher,
		Weights:      weights,
		Metrics:      supplyMetrics,
		Logger:       logger,
	})

	// Initialize handlers
	pagination := handlers.Pagination{DefaultPageSize: cfg.DefaultPageSize, MaxPageSize: cfg.MaxPageSize}
	requestHandler := handlers.NewHospitalRequestHandler(requestService)
	restockHandler := handlers.NewRestockHandler(restockService, pagination)
	distributorHandler := handlers.NewDistributorHandler(distributorRepo, pagination)
	importHandler := handlers.NewImportHandler(distributorRepo, activityRepo)
	activityHandler := handlers.NewActivityHandler(activityRepo, pagination)
	var cacheHealth handlers.CacheHealth
	if redisClient != nil {
		cacheHealth = distributorRepo
	}
	healthHandler := handlers.NewHealthHandler(db, cacheHealth)

	// Start background stock evaluation
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	evaluationJob := jobs.NewStockEvaluationJob(restockService, cfg.StockEvaluationInterval, logger)
	go evaluationJob.Start(jobCtx)
	log.Println("✓ Stock evaluation job started")

	// Initialize OpenTelemetry tracing
	var tracerProvider *tracing.TracerProvider
	if cfg.Environment == "production" {
		tracerProvider, err = tracing.InitTracer(tracing.ProductionConfig("medsupply-service"))
	} else {
		tracerProvider, err = tracing.InitTracer(tracing.DefaultConfig("medsupply-service"))
	}
	if err != nil {
		log.Printf("WARNING: Failed to initialize tracing: %v (continuing without tracing)", err)
	} else {
		log.Println("✓ OpenTelemetry tracing initialized")
	}

	// Initialize Prometheus metrics
	httpMetrics := gosharedmw.InitGlobalMetrics("tesseract", "medsupply_service")
	log.Println("✓ Prometheus metrics initialized")

	// Initialize RBAC middleware
	rbacMiddleware := rbac.NewMiddlewareWithURL(cfg.StaffServiceURL, nil)
	log.Println("✓ RBAC middleware initialized")

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Add observability middleware (metrics + tracing)
	router.Use(httpMetrics.Middleware())
	router.Use(tracing.GinMiddleware("medsupply-service"))

	router.Use(gosharedmw.SecurityHeaders())
	if redisClient != nil {
		router.Use(gosharedmw.RedisRateLimitMiddlewareWithProfile(redisClient, "standard"))
	} else {
		router.Use(gosharedmw.RateLimit())
	}

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/health/detailed", healthHandler.ExtendedHealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/metrics", gosharedmw.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected API routes
	api := router.Group("/api/v1")

	if cfg.Environment == "production" {
		// Istio validates JWT and injects x-jwt-claim-* headers
		api.Use(gosharedmw.IstioAuth(gosharedmw.IstioAuthConfig{
			RequireAuth:        true,
			AllowLegacyHeaders: false,
			SkipPaths:          []string{"/health", "/ready", "/metrics", "/swagger"},
		}))
	} else {
		api.Use(middleware.DevelopmentAuthMiddleware())
	}
	api.Use(middleware.TenantMiddleware())

	read := rbacMiddleware.RequirePermission(rbac.PermissionInventoryRead)
	update := rbacMiddleware.RequirePermission(rbac.PermissionInventoryUpdate)
	adjust := rbacMiddleware.RequirePermission(rbac.PermissionInventoryAdjust)

	hospitalRequests := api.Group("/hospital-requests")
	{
		hospitalRequests.GET("", read, requestHandler.ListHospitalRequests)
		hospitalRequests.POST("", update, requestHandler.CreateHospitalRequest)
		hospitalRequests.GET("/export", read, requestHandler.ExportHospitalRequests)
		hospitalRequests.POST("/:id/fulfill", adjust, requestHandler.FulfillHospitalRequest)

		// Saved filters per user
		hospitalRequests.GET("/filters", read, requestHandler.GetSavedFilters)
		hospitalRequests.PUT("/filters", read, requestHandler.SaveFilters)
		hospitalRequests.DELETE("/filters", read, requestHandler.ClearFilters)
	}

	lowStock := api.Group("/low-stock")
	{
		lowStock.GET("", read, restockHandler.ListLowStock)
		lowStock.POST("/evaluate", update, restockHandler.EvaluateStock)
		lowStock.POST("/:id/request", adjust, restockHandler.RequestFromDistributor)
	}

	api.GET("/restock-orders", read, restockHandler.ListRestockOrders)
	api.PUT("/stock-levels", adjust, restockHandler.UpsertStockLevel)

	distributors := api.Group("/distributors")
	{
		distributors.POST("", update, distributorHandler.CreateDistributor)
		distributors.GET("", read, distributorHandler.ListDistributors)
		distributors.GET("/import/template", read, importHandler.GetDistributorImportTemplate)
		distributors.POST("/import", update, importHandler.ImportDistributors)
		distributors.GET("/:id", read, distributorHandler.GetDistributor)
	}

	api.GET("/activity", read, activityHandler.ListActivity)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Medsupply service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down medsupply-service...")

	evaluationJob.Stop()
	cancelJobs()

	// Shutdown tracer provider
	if tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		} else {
			log.Println("✓ Tracer provider shut down")
		}
	}

	log.Println("Medsupply service stopped")
}
