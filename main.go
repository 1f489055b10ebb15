package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pingpong-bot/handlers"
	"pingpong-bot/middleware"
	"pingpong-bot/models"
	"pingpong-bot/services"
	"pingpong-bot/utils"
	"pingpong-bot/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// 🔐 GLOBAL: every webhook must carry a valid Slack signature
	app.Use(middleware.SlackVerifyMiddleware())

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	botToken := os.Getenv("SLACK_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("SLACK_BOT_TOKEN environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Match{},
		&models.Result{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	api := slack.New(botToken, slack.OptionHTTPClient(utils.HTTPClient))

	store := services.NewDBMatchStore(db)
	gateway := services.NewSlackGateway(api)
	matchService := services.NewMatchService(store, gateway)

	handlers.SetupSlackRoutes(app, matchService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup := workers.NewMatchCleanupWorker(db)
	go cleanup.Start(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Slack signature verification enforced on all webhooks")
	log.Println("✅ Match cleanup worker running")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
