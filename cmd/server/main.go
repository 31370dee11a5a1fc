package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/config"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/smartcafe/cafeteria-portal/internal/handlers"
	"github.com/smartcafe/cafeteria-portal/internal/middleware"
	"github.com/smartcafe/cafeteria-portal/internal/services"
	"github.com/smartcafe/cafeteria-portal/pkg/session"
	"github.com/smartcafe/cafeteria-portal/web"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Cafeteria Portal")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Apply pending migrations before serving
	if cfg.Server.AutoMigrate {
		if err := migrate(cfg.Database.URL, logger); err != nil {
			logger.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	// Initialize database connection
	logger.WithField("driver", cfg.Database.Driver).Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	staffRepository := database.NewStaffRepository(db)
	studentRepository := database.NewStudentRepository(db)
	roleRepository := database.NewRoleRepository(db)
	cafeteriaRepository := database.NewCafeteriaRepository(db)
	itemRepository := database.NewItemRepository(db)
	orderRepository := database.NewOrderRepository(db)
	permissionRepository := database.NewPermissionRepository(db)
	statsRepository := database.NewStatsRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	policy := services.DefaultPolicy()
	authorizationService := services.NewAuthorizationService(staffRepository, permissionRepository, policy, logger)
	permissionService := services.NewPermissionService(
		permissionRepository,
		roleRepository,
		staffRepository,
		statsRepository,
		policy,
		logger,
	)
	authService := services.NewAuthService(staffRepository, studentRepository, cfg.Security.BcryptCost, logger)
	catalogService := services.NewCatalogService(
		cafeteriaRepository,
		itemRepository,
		roleRepository,
		staffRepository,
		policy,
		logger,
	)
	checkoutService := services.NewCheckoutService(itemRepository, orderRepository, logger)
	dashboardService := services.NewDashboardService(
		statsRepository,
		orderRepository,
		staffRepository,
		authorizationService,
		cfg,
		cfg.ShowDebug(),
		logger,
	)
	logger.Info("Services initialized")

	// Initialize handlers
	pages := handlers.NewPages(handlers.Site{
		Name:                   cfg.Server.SiteName,
		Currency:               cfg.Shop.Currency,
		ReceiptRedirectSeconds: cfg.Shop.ReceiptRedirectSeconds,
		ShowDebug:              cfg.ShowDebug(),
	}, authorizationService, logger)

	routes := handlers.Handlers{
		Pages:       pages,
		Auth:        handlers.NewAuthHandler(pages, authService, logger),
		Orders:      handlers.NewOrderHandler(pages, checkoutService, logger),
		Dashboard:   handlers.NewDashboardHandler(pages, dashboardService),
		Catalog:     handlers.NewCatalogHandler(pages, catalogService, logger),
		Permissions: handlers.NewPermissionHandler(pages, permissionService, catalogService, logger),
		StaffOrders: handlers.NewStaffOrderHandler(pages, checkoutService, logger),
	}

	templates, err := web.Templates()
	if err != nil {
		logger.Fatalf("Failed to load templates: %v", err)
	}

	sessionStore := middleware.NewSessionStore(
		session.NewCodec(cfg.Session.Secret, cfg.Session.MaxAge),
		cfg.Session.CookieName,
		cfg.Session.SecureCookie,
		logger,
	)

	// Initialize Gin router
	router := gin.New()
	router.SetHTMLTemplate(templates)

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db, logger))

	router.Use(middleware.LoadSession(sessionStore))
	handlers.RegisterRoutes(router, routes, authorizationService)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// migrate applies the embedded migrations over a short-lived pgx pool
func migrate(url string, logger *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewMigrationPool(ctx, url)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := database.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	applied, err := migrator.Up(ctx)
	if err != nil {
		return err
	}
	logger.WithField("applied", len(applied)).Info("Migrations up to date")
	return nil
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		// Check database connection
		dbStatus := "healthy"
		if err := db.PingContext(ctx); err != nil {
			logger.WithError(err).Error("Health check database ping failed")
			dbStatus = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": dbStatus,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
