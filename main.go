package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"match-prediction-system/cache"
	"match-prediction-system/handlers"
	"match-prediction-system/middleware"
	"match-prediction-system/models"
	"match-prediction-system/realtime"
	"match-prediction-system/services"
	"match-prediction-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		ReadTimeout: 30 * time.Second,
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-Username, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Match{},
		&models.Prediction{},
		&models.Reward{},
		&models.League{},
		&models.LeagueMember{},
		&models.LeaderboardEntry{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Redis when configured, otherwise the in-process store. Both honor the
	// same glob invalidation patterns.
	var store cache.Store
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisStore, err := cache.NewRedis(redisURL)
		if err != nil {
			log.Fatal("failed to connect to redis:", err)
		}
		store = redisStore
		log.Println("✅ Redis cache connected")
	} else {
		memory := cache.NewMemory()
		defer memory.Close()
		store = memory
		log.Println("⚠️  REDIS_URL not set, using in-memory cache")
	}

	// R2 is optional; without it the season archive endpoint reports
	// unavailable instead of failing startup.
	if err := utils.InitR2(); err != nil {
		log.Printf("⚠️  R2 not configured, season archiving disabled: %v", err)
	}

	hub := realtime.NewHub()
	notifier := realtime.NewNotifier(hub)

	userService := services.NewUserService(db)
	predictionService := services.NewPredictionService(db, store, notifier)
	leaderboardService := services.NewLeaderboardService(db, store, notifier)
	matchService := services.NewMatchService(db, store, notifier, predictionService, leaderboardService)
	leagueService := services.NewLeagueService(db, store)
	rewardService := services.NewRewardService(db)
	archiveService := services.NewArchiveService(db)

	refreshInterval := 15 * time.Minute
	if raw := os.Getenv("LEADERBOARD_REFRESH_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal("invalid LEADERBOARD_REFRESH_INTERVAL:", err)
		}
		refreshInterval = parsed
	}
	leaderboardService.StartRefreshScheduler(refreshInterval)

	cacheMw := middleware.CacheMiddleware(store, 5*time.Minute)

	handlers.SetupUserRoutes(app, userService)
	handlers.SetupMatchRoutes(app, matchService, cacheMw)
	handlers.SetupPredictionRoutes(app, predictionService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService, archiveService, cacheMw)
	handlers.SetupLeagueRoutes(app, leagueService, cacheMw)
	handlers.SetupRewardRoutes(app, rewardService, cacheMw)
	handlers.SetupRealtimeRoutes(app, hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Leaderboard refresh scheduled every %s", refreshInterval)
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
