package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fitquest-platform/handlers"
	"fitquest-platform/middleware"
	"fitquest-platform/models"
	"fitquest-platform/services"
	"fitquest-platform/utils"
	"fitquest-platform/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐❗ GLOBAL: Only Gateway requests allowed, no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Session-Token, X-Service-Token, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// R2 is optional. Without it the service runs fine; analytics events just
	// stay in Postgres unarchived.
	if os.Getenv("R2_BUCKET_NAME") != "" {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
	} else {
		log.Println("⚠️  R2_BUCKET_NAME not set, analytics archive disabled")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.SkillTree{},
		&models.SkillNode{},
		&models.UserSkill{},
		&models.Quest{},
		&models.UserQuest{},
		&models.Notification{},
		&models.AnalyticsEvent{},
		&models.Workout{},
		&models.ForumPost{},
		&models.Guild{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := services.SeedAchievements(db); err != nil {
		log.Fatal("failed to seed achievements:", err)
	}

	analyticsService := services.NewAnalyticsService(db)
	notificationService := services.NewNotificationService(db)
	rewardService := services.NewRewardService(db, analyticsService)

	// Redis is optional. Without it the service runs fine; the XP leaderboard
	// endpoint is simply not registered.
	var leaderboardService *services.LeaderboardService
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL:", err)
		}
		rdb := redis.NewClient(opts)
		leaderboardService = services.NewLeaderboardService(db, rdb)
		rewardService.Leaderboard = leaderboardService
		leaderboardService.StartRebuildScheduler()
	} else {
		log.Println("⚠️  REDIS_URL not set, XP leaderboard disabled")
	}

	achievementService := services.NewAchievementService(db, rewardService, notificationService, analyticsService)
	skillService := services.NewSkillService(db, notificationService, analyticsService)
	questService := services.NewQuestService(db, rewardService, notificationService, analyticsService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if utils.R2Ready() {
		archiver := workers.NewAnalyticsArchiver(db)
		go workers.PollAnalyticsArchive(ctx, archiver, 5*time.Minute)
	}

	// ✅ Setup routes with enforced Gateway auth + consistent /s/ prefix
	handlers.SetupProgressionRoutes(app, rewardService, analyticsService)
	handlers.SetupAchievementRoutes(app, achievementService)
	handlers.SetupSkillRoutes(app, skillService)
	handlers.SetupQuestRoutes(app, questService)
	handlers.SetupNotificationRoutes(app, notificationService)
	if leaderboardService != nil {
		handlers.SetupLeaderboardRoutes(app, leaderboardService)
	}

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
	if utils.R2Ready() {
		log.Println("✅ Analytics archive worker running (every 5m)")
	}
	log.Println("✅ GatewayAuthMiddleware enforced globally")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
