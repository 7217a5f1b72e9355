// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/blogkit/blogkit/app/dto"
	"github.com/blogkit/blogkit/app/handlers"
	appmiddleware "github.com/blogkit/blogkit/app/middleware"
	"github.com/blogkit/blogkit/config"
	"github.com/blogkit/blogkit/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cache"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app               *fiber.App
	cfg               *config.ProductionConfig
	ctaHandler        handlers.CtaHandlerInterface
	formHandler       handlers.FormHandlerInterface
	submissionHandler handlers.SubmissionHandlerInterface
	postHandler       handlers.PostHandlerInterface
	taxonomyHandler   handlers.TaxonomyHandlerInterface
	authMiddleware    *appmiddleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	ctaHandler handlers.CtaHandlerInterface,
	formHandler handlers.FormHandlerInterface,
	submissionHandler handlers.SubmissionHandlerInterface,
	postHandler handlers.PostHandlerInterface,
	taxonomyHandler handlers.TaxonomyHandlerInterface,
	authMiddleware *appmiddleware.AuthMiddleware,
) Router {
	// Configure Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BlogKit API",
		ServerHeader: "BlogKit",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ProxyHeader:  cfg.Server.ProxyHeader,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:               app,
		cfg:               cfg,
		ctaHandler:        ctaHandler,
		formHandler:       formHandler,
		submissionHandler: submissionHandler,
		postHandler:       postHandler,
		taxonomyHandler:   taxonomyHandler,
		authMiddleware:    authMiddleware,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Prometheus scrape endpoint (outside the /api/v1 rate limiter)
	if r.cfg.Metrics.Enabled {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// Apply general rate limiting to all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	auth := r.authMiddleware.Authenticate()
	pages := api.Group("/pages/:page_uuid")

	// CTA management endpoints
	pages.Post("/ctas", r.ctaHandler.CreateCta, auth)
	pages.Get("/ctas", r.ctaHandler.ListCtas, auth)
	pages.Get("/ctas/:cta_id", r.ctaHandler.GetCta, auth)
	pages.Put("/ctas/:cta_id", r.ctaHandler.UpdateCta, auth)
	pages.Delete("/ctas/:cta_id", r.ctaHandler.DeleteCta, auth)

	// Form management endpoints
	pages.Post("/forms", r.formHandler.CreateForm, auth)
	pages.Get("/forms", r.formHandler.ListForms, auth)
	pages.Get("/forms/:form_id", r.formHandler.GetForm, auth)
	pages.Put("/forms/:form_id", r.formHandler.UpdateForm, auth)
	pages.Delete("/forms/:form_id", r.formHandler.DeleteForm, auth)

	// Resolution endpoints are public: the rendering widget calls them anonymously
	pages.Get("/posts/:post_uuid/cta", r.ctaHandler.ResolveCta)
	pages.Get("/posts/:post_uuid/form", r.formHandler.ResolveForm)

	// Visitor form submissions with stricter per-IP rate limiting
	submissionLimiter := limiter.New(limiter.Config{
		Max:        r.cfg.Security.SubmissionRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	})
	pages.Post("/forms/:form_id/submissions", r.submissionHandler.SubmitForm, submissionLimiter, r.authMiddleware.OptionalAuth())
	pages.Get("/forms/:form_id/submissions", r.submissionHandler.ListSubmissions, auth)
	pages.Get("/forms/:form_id/submissions/export", r.submissionHandler.ExportSubmissions, auth)

	// Post listing and bulk actions
	pages.Get("/posts", r.postHandler.ListPosts, auth)
	pages.Post("/posts/bulk", r.postHandler.BulkApply, auth)

	// Taxonomy endpoints
	pages.Post("/categories", r.taxonomyHandler.CreateCategory, auth)
	pages.Get("/categories", r.taxonomyHandler.ListCategories, auth)
	pages.Post("/tags", r.taxonomyHandler.CreateTag, auth)
	pages.Get("/tags", r.taxonomyHandler.ListTags, auth)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             r.cfg.Security.XSSProtection,
		ContentTypeNosniff:        r.cfg.Security.XContentTypeOptions,
		XFrameOptions:             r.cfg.Security.XFrameOptions,
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     r.cfg.Security.CSPPolicy,
		ReferrerPolicy:            r.cfg.Security.ReferrerPolicy,
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.Security.AllowedOrigins,
		AllowMethods: r.cfg.Security.AllowedMethods,
		AllowHeaders: r.cfg.Security.AllowedHeaders,
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
		},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed,
			Next: func(c fiber.Ctx) bool {
				// Skip compression for certain content types
				contentType := c.Get("Content-Type")
				return contains(contentType, "image/") ||
					contains(contentType, "video/") ||
					contains(contentType, "audio/")
			},
		}))
	}

	// Cache middleware for static content
	r.app.Use(cache.New(cache.Config{
		Next: func(c fiber.Ctx) bool {
			// Only cache GET requests to the health endpoint
			return c.Method() != "GET" || !contains(c.Path(), "/health")
		},
		Expiration:          30 * time.Minute,
		DisableCacheControl: false,
	}))

	// Access logging middleware
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Stream:     r.accessLogWriter(),
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks in production
			return c.Path() == "/api/v1/health"
		},
	}))

	// Prometheus HTTP metrics
	if r.cfg.Server.EnableMetrics {
		r.app.Use(appmiddleware.Metrics())
	}

	// Custom security middleware
	r.app.Use(r.securityMiddleware)

	// API key validation middleware (optional)
	r.app.Use(r.apiKeyMiddleware)

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// accessLogWriter selects the access log destination. File output rotates
// through lumberjack so long-running deployments don't fill the disk.
func (r *FiberRouter) accessLogWriter() io.Writer {
	if !r.cfg.Logging.EnableAccessLog {
		return io.Discard
	}

	rotated := &lumberjack.Logger{
		Filename:   r.cfg.Logging.AccessLogPath,
		MaxSize:    r.cfg.Logging.MaxSize,
		MaxBackups: r.cfg.Logging.MaxBackups,
		MaxAge:     r.cfg.Logging.MaxAge,
		Compress:   r.cfg.Logging.Compress,
	}

	switch r.cfg.Logging.Output {
	case "file":
		return rotated
	case "both":
		return io.MultiWriter(os.Stdout, rotated)
	default:
		return os.Stdout
	}
}

// Custom security middleware
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	// Add security headers
	c.Set("X-Response-Time", utils.UTCNow().Format(time.RFC3339))
	c.Set("Server", "BlogKit")

	// IP blocking (if configured)
	clientIP := c.IP()
	for _, blockedIP := range r.cfg.Security.IPBlacklist {
		if clientIP == blockedIP {
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "Access denied from this IP address",
				Error: &dto.ErrorDetail{
					Code: "ACCESS_DENIED",
				},
			})
		}
	}

	return c.Next()
}

// API key validation middleware
func (r *FiberRouter) apiKeyMiddleware(c fiber.Ctx) error {
	// Skip API key validation for certain endpoints
	if c.Path() == "/api/v1/health" || c.Path() == r.cfg.Metrics.Path {
		return c.Next()
	}

	if !r.cfg.Security.RequireAPIKey {
		return c.Next()
	}

	apiKey := c.Get(r.cfg.Security.APIKeyHeader)
	if apiKey == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "API key is required",
			Error: &dto.ErrorDetail{
				Code: "MISSING_API_KEY",
			},
		})
	}

	for _, validKey := range r.cfg.Security.AllowedAPIKeys {
		if apiKey == validKey {
			return c.Next()
		}
	}

	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: "Invalid API key",
		Error: &dto.ErrorDetail{
			Code: "INVALID_API_KEY",
		},
	})
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   r.cfg.Deployment.Version,
			"service":   "blogkit-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: &dto.ErrorDetail{
			Code: "NOT_FOUND",
		},
	})
}

// Rate limit response shared by the general and submission limiters
func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: &dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: &dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
		},
	})
}

// Helper functions

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// contains checks if a string contains a substring
func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}
