package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/printcraft/backend/internal/config"
	"github.com/printcraft/backend/internal/database"
	"github.com/printcraft/backend/internal/handlers"
	"github.com/printcraft/backend/internal/routes"
)

func main() {
	cfg := config.Load()

	zapLogger, err := buildLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:      "PrintCraft Backend",
		BodyLimit:    int(cfg.MaxUploadBytes) * 2,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Static("/uploads", cfg.UploadDir)

	routes.Register(app, db, cfg, zapLogger)

	zapLogger.Info("starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zapLogger.Fatal("fiber listen failed", zap.Error(err))
	}
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
