package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayagent/internal/config"
	"stayagent/internal/handler"
	"stayagent/internal/repository"
	"stayagent/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("StayAgent Booking Assistant")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	loc := cfg.Location()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Load the listing catalog
	catalog, err := repository.NewCatalogRepository(cfg.Catalog.ListingsPath)
	if err != nil {
		log.Fatalf("Failed to load listing catalog: %v", err)
	}
	log.Printf("✅ Loaded %d listings from %s", catalog.Count(), cfg.Catalog.ListingsPath)

	logbook := repository.NewReservationLog(cfg.Catalog.ReservationsPath)

	// Optional analytics sidecar
	var analytics *repository.AnalyticsRepository
	if cfg.Analytics.Enabled {
		analytics, err = repository.NewAnalyticsRepository(
			cfg.Analytics.DSN,
			cfg.Analytics.MaxConnections,
			cfg.Analytics.MaxIdleConnections,
		)
		if err != nil {
			log.Fatalf("Failed to connect to analytics database: %v", err)
		}
		defer analytics.Close()
		log.Println("✅ Connected to analytics database")
	} else {
		log.Println("⚠️  Analytics is disabled - set DATABASE_URL to record turn and search logs")
	}

	// Initialize OpenAI client
	var openaiClient *service.OpenAIClient
	if cfg.OpenAI.Enabled {
		openaiClient = service.NewOpenAIClient(&cfg.OpenAI)
		log.Printf("✅ OpenAI client initialized")
		log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
		log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
		log.Printf("   - Chat Temperature: %.2f", cfg.OpenAI.ChatTemperature)
		log.Printf("   - Chat MaxTokens: %d", cfg.OpenAI.ChatMaxTokens)
	} else {
		log.Println("⚠️  OpenAI is disabled - slot extraction will fall back to canned questions")
		log.Println("   Set OPENAI_API_KEY environment variable to enable AI features")
	}

	// Initialize services
	extractor := service.NewOpenAIExtractor(openaiClient)
	extractTimeout := time.Duration(cfg.OpenAI.Timeout) * time.Second
	sessions := service.NewSessionManager(cfg.Session.IdleTimeout, func() *service.DialogueController {
		return service.NewDialogueController(service.NewSlotStore(loc), extractor, extractTimeout)
	})
	recommender := service.NewRecommender(catalog, cfg.Search.DefaultTopK, cfg.Search.MaxTopK)
	reserver := service.NewReservationService(catalog, logbook, loc)
	agent := service.NewAgentService(sessions, recommender, reserver, analytics, loc)

	log.Println("✅ Services initialized")

	// Initialize handlers
	chatHandler := handler.NewChatHandler(agent)
	searchHandler := handler.NewSearchHandler(recommender, catalog)
	reservationHandler := handler.NewReservationHandler(reserver, logbook, catalog)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "stayagent",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
			"listings":   catalog.Count(),
			"sessions":   sessions.Count(),
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Conversation endpoints
		apiV1.POST("/sessions", chatHandler.OpenSession)
		apiV1.POST("/sessions/:id/reset", chatHandler.ResetSession)
		apiV1.POST("/chat", chatHandler.Chat)

		// Recommendation endpoints
		apiV1.POST("/recommend", searchHandler.Recommend)
		apiV1.GET("/listings/:id", searchHandler.GetListing)

		// Reservation endpoints
		apiV1.POST("/reservations", reservationHandler.Reserve)
		apiV1.GET("/reservations", reservationHandler.List)

		// Administrative endpoints
		apiV1.GET("/admin/stats", reservationHandler.AdminStats)
		apiV1.POST("/admin/reset", reservationHandler.AdminReset)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API Documentation: http://localhost:%d/api/v1", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
