package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"hobbit-quiz-system/handlers"
	"hobbit-quiz-system/middleware"
	"hobbit-quiz-system/models"
	"hobbit-quiz-system/services"
	"hobbit-quiz-system/utils"
	"hobbit-quiz-system/workers"

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

	app := fiber.New()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Admin-Token, X-Profile-ID",
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
		&models.QuizEvent{},
		&models.ProgressEntry{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// A malformed catalog is a configuration error: halt before play begins.
	catalog, err := services.LoadDefaultCatalog()
	if err != nil {
		log.Fatal("failed to load riddle catalog:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := workers.NewTelemetryDispatcher(db, os.Getenv("WEBHOOK_URL"))
	go dispatcher.Start(ctx)

	progressStore := services.NewGormProgressStore(db)
	sessions := services.NewSessionManager(catalog, services.NewSelector(), progressStore, dispatcher)
	eventService := services.NewEventService(db)

	adminAuth := middleware.AdminAuthMiddleware(os.Getenv("ADMIN_PASSWORD"), os.Getenv("ADMIN_TOKEN"))

	handlers.SetupPlayRoutes(app, sessions)
	handlers.SetupAdminRoutes(app, eventService, adminAuth)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Event retention runs only when an archive bucket is configured.
	if os.Getenv("ARCHIVE_BUCKET_NAME") != "" {
		if err := utils.InitArchiveStore(); err != nil {
			log.Fatal("failed to initialize archive store:", err)
		}
		retentionDays := 90
		if raw := os.Getenv("EVENT_RETENTION_DAYS"); raw != "" {
			if days, err := strconv.Atoi(raw); err == nil && days > 0 {
				retentionDays = days
			}
		}
		eventService.StartRetentionScheduler(retentionDays)
		log.Printf("✅ Event retention enabled (%d days)", retentionDays)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Admin routes available at /api/admin/*")
	log.Printf("✅ Catalog loaded with %d riddles", catalog.Size())
	log.Printf("✅ CORS configured for origins: %s", strings.TrimSpace(allowedOrigins))

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
