package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"splitkb-catalog/internal/config"
	custommiddleware "splitkb-catalog/internal/middleware"
	"splitkb-catalog/internal/repository"
	"splitkb-catalog/internal/service"
	"splitkb-catalog/internal/transport"
	"splitkb-catalog/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))
	router.Use(custommiddleware.LoggingMiddleware(logger, cfg.Upload.PublicPath))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Image store
	images, err := upload.NewStore(cfg.Upload.Dir, cfg.Upload.MaxSizeMB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	// Uploaded images are public, read-only static content.
	router.Handle(cfg.Upload.PublicPath+"/*", http.StripPrefix(
		cfg.Upload.PublicPath+"/",
		http.FileServer(http.Dir(images.Dir())),
	))

	// Initialize repositories
	keyboardRepo := repository.NewKeyboardRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Initialize services
	catalogService := service.NewCatalogService(keyboardRepo, images, logger)
	adminService := service.NewAdminService(adminRepo, cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Initialize handlers
	keyboardHandler := transport.NewKeyboardHandler(catalogService, cfg.Upload.PublicPath, logger)
	adminHandler := transport.NewAdminHandler(adminService, catalogService, keyboardHandler, logger)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	// Login rate limiting is optional; without Redis the endpoint is
	// unthrottled.
	var redisClient *redis.Client
	var loginLimiter func(http.Handler) http.Handler
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		loginLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 10,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit:login",
		}, logger)
	}

	// Register routes
	keyboardHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router, authMiddleware, loginLimiter)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
