package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/printcraft/backend/internal/models"
	"github.com/printcraft/backend/internal/utils"
)

// SystemHandler serves service metadata, health and stats endpoints.
type SystemHandler struct {
	db *gorm.DB
}

// NewSystemHandler constructs SystemHandler.
func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "PrintCraft API", "version": "1.0.0"})
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "timestamp": time.Now()})
}

// Stats returns basic catalog counts.
func (h *SystemHandler) Stats(c *fiber.Ctx) error {
	var totalCategories, totalProducts, featuredProducts int64

	if err := h.db.Model(&models.Category{}).Where("is_active = ?", true).
		Count(&totalCategories).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Product{}).Where("is_active = ?", true).
		Count(&totalProducts).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Product{}).
		Where("is_active = ? AND is_featured = ?", true, true).
		Count(&featuredProducts).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"total_categories":  totalCategories,
		"total_products":    totalProducts,
		"featured_products": featuredProducts,
		"timestamp":         time.Now(),
	})
}

var seedCategories = []models.Category{
	{Name: "Clothing & Apparel", Description: "Custom t-shirts, hoodies, uniforms, and more"},
	{Name: "Drinkware & Kitchen", Description: "Mugs, water bottles, and kitchen accessories"},
	{Name: "Home Decor", Description: "Wall art, cushions, and decorative items"},
	{Name: "Stationery", Description: "Business cards, notebooks, and office supplies"},
	{Name: "Office Ware", Description: "Professional items for your workplace"},
	{Name: "Phone Cases", Description: "Custom cases for all phone models"},
	{Name: "Accessories", Description: "Bags, keychains, and personal items"},
	{Name: "Sportswear", Description: "Athletic wear and sports equipment"},
	{Name: "Kids & Babies", Description: "Safe, fun items for little ones"},
}

// SeedCategories inserts the storefront's initial categories, skipping names
// that already exist. Development helper.
func (h *SystemHandler) SeedCategories(c *fiber.Ctx) error {
	var created []string

	for _, seed := range seedCategories {
		var count int64
		if err := h.db.Model(&models.Category{}).Where("name = ?", seed.Name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		category := models.Category{
			Name:        seed.Name,
			Slug:        utils.Slugify(seed.Name),
			Description: seed.Description,
			IsActive:    true,
		}
		if err := h.db.Create(&category).Error; err != nil {
			return translateDBError(err, "category")
		}
		created = append(created, seed.Name)
	}

	return c.JSON(fiber.Map{
		"message":    fmt.Sprintf("Seeded %d categories", len(created)),
		"categories": created,
	})
}
