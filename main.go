package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cp-mate-backend/handlers"
	"cp-mate-backend/models"
	"cp-mate-backend/services"
	"cp-mate-backend/utils"
	"cp-mate-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultRefreshInterval = 30 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.PlatformStats{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Avatar storage is optional; without it the upload endpoint reports
	// storage-not-configured instead of the service refusing to boot.
	if os.Getenv("R2_BUCKET_NAME") != "" {
		if err := utils.InitStorage(); err != nil {
			log.Fatal("failed to initialize object storage:", err)
		}
		log.Println("✅ Object storage configured for avatar uploads")
	} else {
		log.Println("⚠️  R2_BUCKET_NAME not set — avatar uploads disabled")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, avatars are the largest upload
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:5173")
		allowedOrigins = "http://localhost:5173"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	leetcodeClient := services.NewLeetCodeClient()
	codeforcesClient := services.NewCodeforcesClient()

	authService := services.NewAuthService(db, []byte(jwtSecret))
	userService := services.NewUserService(db)
	statsService := services.NewStatsService(db, leetcodeClient, codeforcesClient)
	contestService := services.NewContestService(leetcodeClient, codeforcesClient)
	leetcodeContestService := services.NewLeetCodeContestService(leetcodeClient)

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupUserRoutes(app, userService, []byte(jwtSecret))
	handlers.SetupStatsRoutes(app, statsService, []byte(jwtSecret))
	handlers.SetupContestRoutes(app, contestService, leetcodeContestService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": "CP Mate Backend Root"})
	})
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": "CP Mate Server is running"})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refreshInterval := defaultRefreshInterval
	if raw := os.Getenv("STATS_REFRESH_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("invalid STATS_REFRESH_INTERVAL %q: %v", raw, err)
		}
		refreshInterval = parsed
	}
	refreshWorker := workers.NewStatsRefreshWorker(db, statsService, refreshInterval)
	go refreshWorker.Start(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Stats refresh worker running (every %s)", refreshInterval)
	log.Printf("✅ CORS configured for origins: %s", strings.Join(origins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
