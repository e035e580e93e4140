// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wayfarer/internal/cache"
	"wayfarer/internal/config"
	"wayfarer/internal/database"
	"wayfarer/internal/middleware"
	"wayfarer/internal/models"
	"wayfarer/internal/repository"
	"wayfarer/internal/service"
	"wayfarer/internal/token"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	tokens         *token.Service
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	postService    *service.PostService
	commentService *service.CommentService
	userService    *service.UserService
	uploadService  *service.UploadService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	uploadService, err := service.NewUploadService(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	// Prometheus collectors register globally; skip them under test where
	// many server instances share one process.
	var prom *fiberprometheus.FiberPrometheus
	if cfg.Env != "test" {
		prom = middleware.InitMetrics("wayfarer-api")
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		tokens:         token.NewService(cfg.JWTSecret, cfg.JWTRefreshSecret),
		promMiddleware: prom,
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		uploadService:  uploadService,
	}
	server.postService = service.NewPostService(postRepo)
	server.commentService = service.NewCommentService(commentRepo, postRepo)
	server.userService = service.NewUserService(userRepo)

	return server, nil
}

// Shutdown releases server-held resources. The HTTP listener itself is
// shut down by the caller before this runs.
func (s *Server) Shutdown(ctx context.Context) error {
	cache.Close()

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				return fmt.Errorf("close database: %w", err)
			}
		}
	}
	return nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for log correlation
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	app.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Uploaded files are served statically
	app.Static("/uploads", s.uploadService.Dir())

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", s.AuthRequired(), s.GetCurrentUser)
	auth.Post("/refresh-token", s.RefreshToken)

	// Post routes. Specific paths are declared before the generic /:id
	// routes so Fiber does not swallow them.
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/search", middleware.RateLimit(
		s.redis, 20, time.Minute, "search"), s.SearchPosts)
	posts.Get("/tags/popular", s.GetPopularTags)
	posts.Get("/user/:userId", s.GetUserPosts)
	posts.Post("/", s.AuthRequired(), s.CreatePost)
	posts.Post("/:id/like", s.AuthRequired(), s.LikePost)
	posts.Patch("/:id", s.AuthRequired(), s.UpdatePost)
	posts.Put("/:id", s.AuthRequired(), s.UpdatePost)
	posts.Delete("/:id", s.AuthRequired(), s.DeletePost)

	// Comment routes
	comments := api.Group("/comments")
	comments.Get("/:postId", s.GetComments)
	comments.Post("/:postId", s.AuthRequired(), s.CreateComment)
	comments.Delete("/:id", s.AuthRequired(), s.DeleteComment)

	// User routes
	users := api.Group("/users")
	users.Get("/:id", s.GetUserProfile)
	users.Patch("/:id", s.AuthRequired(), s.UpdateUser)

	// Upload route
	api.Post("/upload", s.AuthRequired(), s.UploadFile)
}

// AuthRequired enforces authentication on protected routes. Every failure
// mode (missing header, malformed header, bad signature, expiry) collapses
// to one public message so callers learn nothing about why a token was
// rejected. No account lookup happens here: a token stays valid until
// expiry even if its account has since been deleted.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Please authenticate"))
		}

		userID, err := s.tokens.VerifyAccessToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Please authenticate"))
		}

		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// HealthCheck handles GET /
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "Welcome to Wayfarer API",
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
