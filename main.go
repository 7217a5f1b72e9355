// Package main provides the main entry point for the BlogKit content management API
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogkit/blogkit/app/handlers"
	"github.com/blogkit/blogkit/app/middleware"
	"github.com/blogkit/blogkit/app/router"
	"github.com/blogkit/blogkit/app/services"
	businessflow "github.com/blogkit/blogkit/business_flow"
	"github.com/blogkit/blogkit/config"
	"github.com/blogkit/blogkit/models"
	"github.com/blogkit/blogkit/repository"
	"github.com/blogkit/blogkit/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting BlogKit application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if client == nil {
		return cancel
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
	stopFuncs = append(stopFuncs, cancel)

	// Seed a bootstrap workspace for non-production installs
	if err := ensureBootstrapWorkspace(db, cfg); err != nil {
		return nil, err
	}

	// Initialize repositories
	pageRepo := repository.NewPageRepository(db)
	postRepo := repository.NewBlogPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	authorRepo := repository.NewAuthorRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	submissionRepo := repository.NewFormSubmissionRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Resolution cache shared by the CTA and form flows
	resolutionCache := businessflow.NewResolutionCache(rc)

	// Initialize flows
	ctaFlow := businessflow.NewCtaFlow(
		pageRepo,
		postRepo,
		categoryRepo,
		tagRepo,
		auditRepo,
		resolutionCache,
		db,
	)

	formFlow := businessflow.NewFormFlow(
		pageRepo,
		postRepo,
		categoryRepo,
		tagRepo,
		auditRepo,
		resolutionCache,
		db,
	)

	bulkPostFlow := businessflow.NewBulkPostFlow(
		pageRepo,
		postRepo,
		categoryRepo,
		tagRepo,
		authorRepo,
		workspaceRepo,
		auditRepo,
		db,
	)

	taxonomyFlow := businessflow.NewTaxonomyFlow(
		pageRepo,
		categoryRepo,
		tagRepo,
		db,
	)

	submissionFlow := businessflow.NewSubmissionFlow(
		pageRepo,
		submissionRepo,
		auditRepo,
		db,
	)

	// Initialize handlers
	ctaHandler := handlers.NewCtaHandler(ctaFlow)
	formHandler := handlers.NewFormHandler(formFlow)
	submissionHandler := handlers.NewSubmissionHandler(submissionFlow)
	postHandler := handlers.NewPostHandler(bulkPostFlow)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		ctaHandler,
		formHandler,
		submissionHandler,
		postHandler,
		taxonomyHandler,
		authMiddleware,
	)

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureBootstrapWorkspace seeds an owner user, workspace, and blog page on
// fresh non-production installs so the API has something to serve.
func ensureBootstrapWorkspace(db *gorm.DB, cfg *config.ProductionConfig) error {
	if cfg.Deployment.Environment == "production" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	pageRepo := repository.NewPageRepository(db)

	email := os.Getenv("BOOTSTRAP_OWNER_EMAIL")
	if email == "" {
		email = "owner@" + cfg.Deployment.Domain
	}

	owner, err := userRepo.ByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up bootstrap owner: %w", err)
	}
	if owner != nil {
		return nil
	}

	password := os.Getenv("BOOTSTRAP_OWNER_PASSWORD")
	if password == "" {
		password = uuid.NewString()
		log.Printf("Bootstrap owner password generated: %s", password)
	}

	owner = &models.User{
		Email:       email,
		DisplayName: "Workspace Owner",
		IsActive:    utils.ToPtr(true),
	}
	if err := owner.SetPassword(password); err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}
	if err := userRepo.Save(ctx, owner); err != nil {
		return fmt.Errorf("failed to create bootstrap owner: %w", err)
	}

	workspace := &models.Workspace{
		Name:     "Default Workspace",
		Slug:     "default",
		IsActive: utils.ToPtr(true),
	}
	if err := workspaceRepo.Save(ctx, workspace); err != nil {
		return fmt.Errorf("failed to create bootstrap workspace: %w", err)
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      owner.ID,
		Role:        models.RoleOwner,
	}
	if err := workspaceRepo.SaveMember(ctx, member); err != nil {
		return fmt.Errorf("failed to create bootstrap membership: %w", err)
	}

	page := &models.Page{
		WorkspaceID: workspace.ID,
		Name:        "Blog",
		Slug:        "blog",
		Type:        models.PageTypeBlog,
		IsActive:    utils.ToPtr(true),
	}
	if err := pageRepo.Save(ctx, page); err != nil {
		return fmt.Errorf("failed to create bootstrap page: %w", err)
	}

	log.Printf("Bootstrap workspace %s created with page %s", workspace.UUID, page.UUID)
	return nil
}
