package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/printcraft/backend/internal/config"
	"github.com/printcraft/backend/internal/handlers"
	"github.com/printcraft/backend/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	uploadService := services.NewUploadService(cfg.UploadDir, cfg.MaxUploadBytes, cfg.MaxImageWidth, logger)

	systemHandler := handlers.NewSystemHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db, uploadService)
	productHandler := handlers.NewProductHandler(db, uploadService)
	orderHandler := handlers.NewOrderHandler(db)

	app.Get("/", systemHandler.Root)
	app.Get("/health", systemHandler.Health)

	api := app.Group("/api")

	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Put("/:id", catalogHandler.UpdateCategory)
	categories.Delete("/:id", catalogHandler.DeleteCategory)

	products := api.Group("/products")
	productHandler.RegisterProductRoutes(products)

	orders := api.Group("/orders")
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Post("/:id/approve-design", orderHandler.ApproveDesign)
	orders.Get("/:id/tracking", orderHandler.GetTracking)
	orders.Put("/:id/status", orderHandler.UpdateStatus)

	api.Get("/stats", systemHandler.Stats)
	api.Post("/dev/seed-categories", systemHandler.SeedCategories)
}
