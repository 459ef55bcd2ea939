package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/pulsetronic/backend/internal/application/catalog"
	contactapp "github.com/pulsetronic/backend/internal/application/contact"
	exportapp "github.com/pulsetronic/backend/internal/application/export"
	identityapp "github.com/pulsetronic/backend/internal/application/identity"
	notificationapp "github.com/pulsetronic/backend/internal/application/notification"
	reportapp "github.com/pulsetronic/backend/internal/application/report"
	salesapp "github.com/pulsetronic/backend/internal/application/sales"
	"github.com/pulsetronic/backend/internal/infrastructure/auth"
	"github.com/pulsetronic/backend/internal/infrastructure/config"
	"github.com/pulsetronic/backend/internal/infrastructure/export"
	"github.com/pulsetronic/backend/internal/infrastructure/logger"
	"github.com/pulsetronic/backend/internal/infrastructure/mail"
	"github.com/pulsetronic/backend/internal/infrastructure/persistence"
	"github.com/pulsetronic/backend/internal/infrastructure/storage"
	"github.com/pulsetronic/backend/internal/infrastructure/telemetry"
	"github.com/pulsetronic/backend/internal/interfaces/http/handler"
	"github.com/pulsetronic/backend/internal/interfaces/http/middleware"
	"github.com/pulsetronic/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Pulse Tronic Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize telemetry providers (no-op when disabled)
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing (otelgorm)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB, cfg.Database.DBName); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	serviceRepo := persistence.NewGormServiceRepository(db.DB)
	faqRepo := persistence.NewGormFAQRepository(db.DB)
	testimonialRepo := persistence.NewGormTestimonialRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Outbound email: SMTP when configured, otherwise a logging no-op
	var mailer notificationapp.Mailer
	if cfg.Mail.Enabled {
		mailer = mail.NewSMTPMailer(&cfg.Mail, log)
		log.Info("SMTP mailer enabled", zap.String("host", cfg.Mail.Host))
	} else {
		mailer = mail.NewNopMailer(log)
	}

	// Notification ledger and the side-effect dispatcher that feeds it
	notificationService := notificationapp.NewService(notificationRepo, log)
	dispatcher := notificationapp.NewDispatcher(notificationService, mailer, log)

	// Identity services (JWT auth with optional Redis token blacklist)
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)

	// Application services
	quoteService := salesapp.NewQuoteService(quoteRepo, customerRepo, serviceRepo, dispatcher, log)
	contactService := contactapp.NewService(contactRepo, dispatcher, log)
	serviceService := catalogapp.NewServiceService(serviceRepo, log)
	faqService := catalogapp.NewFAQService(faqRepo, log)
	testimonialService := catalogapp.NewTestimonialService(testimonialRepo, log)
	dashboardService := reportapp.NewDashboardService(quoteRepo, contactRepo, notificationRepo, log)

	// Report export: headless-browser PDF rendering plus optional S3 archival
	renderer, err := export.NewChromedpRenderer(&export.ChromedpConfig{
		DefaultTimeout: cfg.Export.PDFTimeout,
		NoSandbox:      true,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	var reportStorage exportapp.ReportStorage
	if cfg.Export.S3Enabled {
		s3Storage, err := storage.NewS3ReportStorage(&cfg.Export, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize S3 report storage", zap.Error(err))
		}
		reportStorage = s3Storage
		log.Info("S3 report storage enabled", zap.String("bucket", cfg.Export.S3Bucket))
	}
	exportService := exportapp.NewExportService(quoteRepo, customerRepo, serviceRepo, renderer, reportStorage, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	contactHandler := handler.NewContactHandler(contactService)
	serviceHandler := handler.NewServiceHandler(serviceService)
	faqHandler := handler.NewFAQHandler(faqService)
	testimonialHandler := handler.NewTestimonialHandler(testimonialService)
	exportHandler := handler.NewExportHandler(exportService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes.
	// Public website endpoints live under /api/v1/public and skip auth.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/public",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth domain (login, refresh, logout, profile)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.AuthRateLimit(authLimiter))
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}

	// Public website endpoints (no authentication)
	publicRoutes := router.NewDomainGroup("public", "/public")
	publicRoutes.POST("/quotes", quoteHandler.Submit)
	publicRoutes.POST("/contacts", contactHandler.Submit)
	publicRoutes.GET("/services", serviceHandler.ListPublic)
	publicRoutes.GET("/services/:slug", serviceHandler.GetBySlug)
	publicRoutes.GET("/faqs", faqHandler.ListPublic)
	publicRoutes.GET("/testimonials", testimonialHandler.ListPublic)
	publicRoutes.POST("/testimonials", testimonialHandler.Submit)

	// Staff notification ledger
	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/unread-count", notificationHandler.UnreadCount)
	notificationRoutes.PUT("/read-all", notificationHandler.MarkAllRead)
	notificationRoutes.PUT("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.DELETE("/:id", notificationHandler.Delete)
	notificationRoutes.POST("/broadcast", middleware.RequireAdmin(), notificationHandler.Broadcast)

	// Dashboard aggregates
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/stats", dashboardHandler.GetStats)
	dashboardRoutes.GET("/charts", dashboardHandler.GetCharts)

	// Quote processing (staff)
	quoteRoutes := router.NewDomainGroup("quotes", "/quotes")
	quoteRoutes.GET("", quoteHandler.List)
	quoteRoutes.GET("/:id", quoteHandler.Get)
	quoteRoutes.PUT("/:id", quoteHandler.Update)
	quoteRoutes.DELETE("/:id", middleware.RequireAdmin(), quoteHandler.Delete)

	// Contact inbox (staff)
	contactRoutes := router.NewDomainGroup("contacts", "/contacts")
	contactRoutes.GET("", contactHandler.List)
	contactRoutes.GET("/:id", contactHandler.Get)
	contactRoutes.POST("/:id/reply", contactHandler.Reply)
	contactRoutes.PUT("/:id/close", contactHandler.Close)
	contactRoutes.DELETE("/:id", middleware.RequireAdmin(), contactHandler.Delete)

	// Catalog management (staff reads, admin mutations)
	serviceRoutes := router.NewDomainGroup("services", "/services")
	serviceRoutes.GET("", serviceHandler.List)
	serviceRoutes.GET("/:id", serviceHandler.Get)
	serviceRoutes.POST("", middleware.RequireAdmin(), serviceHandler.Create)
	serviceRoutes.PUT("/:id", middleware.RequireAdmin(), serviceHandler.Update)
	serviceRoutes.DELETE("/:id", middleware.RequireAdmin(), serviceHandler.Delete)

	faqRoutes := router.NewDomainGroup("faqs", "/faqs")
	faqRoutes.GET("", faqHandler.List)
	faqRoutes.POST("", middleware.RequireAdmin(), faqHandler.Create)
	faqRoutes.PUT("/:id", middleware.RequireAdmin(), faqHandler.Update)
	faqRoutes.DELETE("/:id", middleware.RequireAdmin(), faqHandler.Delete)

	testimonialRoutes := router.NewDomainGroup("testimonials", "/testimonials")
	testimonialRoutes.GET("", testimonialHandler.List)
	testimonialRoutes.PUT("/:id/moderate", middleware.RequireAdmin(), testimonialHandler.Moderate)
	testimonialRoutes.DELETE("/:id", middleware.RequireAdmin(), testimonialHandler.Delete)

	// Report exports
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/quotes/export", exportHandler.ExportQuotes)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(authRoutes).
		Register(publicRoutes).
		Register(notificationRoutes).
		Register(dashboardRoutes).
		Register(quoteRoutes).
		Register(contactRoutes).
		Register(serviceRoutes).
		Register(faqRoutes).
		Register(testimonialRoutes).
		Register(reportRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		body := gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		}
		if stats, err := db.Stats(); err == nil {
			body["pool"] = stats
		}
		c.JSON(http.StatusOK, body)
	}
}
