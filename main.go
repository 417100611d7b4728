package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"coverquest/config"
	"coverquest/game"
	"coverquest/handlers"
	"coverquest/logger"
	"coverquest/models"
	"coverquest/routes"
	"coverquest/services"
	"coverquest/tmdb"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", "error", err)
	}

	// Auto-migrate database models
	if err := db.AutoMigrate(&models.Score{}); err != nil {
		zlog.Fatal("failed to migrate database", "error", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	stateStore := services.NewRedisStateStore(redisClient)

	// TMDB client
	tmdbClient := tmdb.NewClient(tmdb.Config{
		BaseURL: cfg.TMDBBaseURL,
		APIKey:  cfg.TMDBAPIKey,
	})
	if cfg.TMDBAPIKey == "" {
		zlog.Warn("TMDB_API_KEY not set; game endpoints will fail until configured")
	}

	related := game.RelatednessConfig{
		GenreOverlapThreshold:    cfg.RelatedGenreThreshold,
		MatchProductionCompanies: cfg.RelatedMatchCompanies,
	}

	// Initialize services
	scoreService := services.NewScoreService(db, zlog)
	gameService := services.NewGameService(stateStore, tmdbClient, scoreService, zlog, related, cfg.AllowReseed)
	posterService := services.NewPosterService(zlog, cfg.ObfuscationMaxRetries)

	// Initialize handlers
	gameHandler := handlers.NewGameHandler(gameService, posterService)
	scoreHandler := handlers.NewScoreHandler(scoreService)
	searchHandler := handlers.NewSearchHandler(tmdbClient)
	identityHandler := handlers.NewIdentityHandler()

	// Setup Gin router
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	router.Use(cors.New(corsConfig))

	// Setup routes
	routes.SetupRoutes(router, gameHandler, scoreHandler, searchHandler, identityHandler)

	// Start server
	zlog.Info("server starting", "port", cfg.Port)
	if err := router.Run(cfg.BindAddress + ":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", "error", err)
	}
}
