// main.go
package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/vigneshnagarajan93/MoneyPrinter/auth"
	"github.com/vigneshnagarajan93/MoneyPrinter/internal/platform"
	"github.com/vigneshnagarajan93/MoneyPrinter/series"
	"github.com/vigneshnagarajan93/MoneyPrinter/videos"
	"gorm.io/gorm"
)

type Server struct {
	Config platform.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine
}

func NewServer(cfg platform.Config, db *gorm.DB, rdb *redis.Client) *Server {
	// Create Gin router with CORS middleware
	router := gin.Default()

	// Add CORS middleware for your frontend
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.FrontendURL)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	server := &Server{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Router: router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	// Health check (no auth required)
	s.Router.GET("/health", func(c *gin.Context) {
		// Check database connection
		sqlDB, err := s.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		if err := s.Redis.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"status":   "healthy",
			"database": "connected",
			"redis":    "connected",
		})
	})

	// Create handlers
	seriesHandler := series.NewHandler(s.DB, s.Redis)
	videoHandler := videos.NewHandler(s.DB, s.Redis)

	// Public routes
	// Root route - no auth needed
	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "MoneyPrinter API v1"})
	})

	// Protected routes that require authentication
	protected := s.Router.Group("")
	protected.Use(auth.AuthMiddleware(s.Config.JWTSecret))
	{
		// Video routes
		videoRoutes := protected.Group("/videos")
		{
			videoRoutes.POST("", videoHandler.CreateVideo)
			videoRoutes.GET("", videoHandler.GetUserVideos)
			videoRoutes.GET("/:id", videoHandler.GetVideo)
			videoRoutes.GET("/:id/file", videoHandler.GetVideoFile)
		}

		// Series routes
		seriesRoutes := protected.Group("/series")
		{
			seriesRoutes.POST("", seriesHandler.CreateSeries)
			seriesRoutes.GET("", seriesHandler.GetUserSeries)
			seriesRoutes.GET("/:id/videos", seriesHandler.GetSeriesVideos)
		}
	}
}

func (s *Server) Run() error {
	log.Printf("🚀 Server starting on port %s", s.Config.Port)
	return s.Router.Run(":" + s.Config.Port)
}

func main() {
	cfg := platform.LoadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Use the shared connection initializers
	db := platform.NewDBConnection(cfg)
	rdb := platform.NewRedisClient(cfg)

	if err := platform.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	server := NewServer(cfg, db, rdb)
	if err := server.Run(); err != nil {
		log.Fatal("Failed to run server:", err)
	}
}
