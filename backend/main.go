package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/grandline-rpg/grandline/backend/handlers"
	"github.com/grandline-rpg/grandline/backend/middleware"
	"github.com/grandline-rpg/grandline/bot"
	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
	"github.com/grandline-rpg/grandline/bot/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := "../config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := bot.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))

	slog.Info("Starting Grand Line API",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	tables, err := content.Load(cfg.Content.Dir)
	if err != nil {
		slog.Error("Failed to load content", slog.Any("err", err))
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		AppName: "Grand Line API",
	})
	app.Use(recover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
	}))
	app.Use(middleware.Logging())

	webApp := &handlers.WebApp{
		Characters: repositories.NewCharacterRepository(db.BunDB()),
		Crews:      repositories.NewCrewRepository(db.BunDB()),
		Ships:      repositories.NewShipRepository(db.BunDB()),
		Tables:     tables,
		Version:    version,
	}
	setupRoutes(app, webApp)

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	slog.Info("Starting API server", slog.String("address", address))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			slog.Error("Server failed", slog.Any("err", err))
		}
	}()

	<-c
	slog.Info("Shutting down API server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Shutdown error", slog.Any("err", err))
	}
}

func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", handlers.HealthCheck(webApp))

	api := app.Group("/api")
	api.Get("/leaderboard/bounty", handlers.BountyLeaderboard(webApp))
	api.Get("/leaderboard/crews", handlers.CrewLeaderboard(webApp))
	api.Get("/characters/:user", handlers.CharactersByUser(webApp))
	api.Get("/crews/:id", handlers.CrewDetail(webApp))
	api.Get("/content/quests", handlers.ContentQuests(webApp))
	api.Get("/content/allies", handlers.ContentAllies(webApp))
}
