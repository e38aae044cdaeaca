package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printcraft/backend/internal/apperrors"
	"github.com/printcraft/backend/internal/models"
	"github.com/printcraft/backend/internal/services"
	"github.com/printcraft/backend/internal/utils"
)

// CatalogHandler manages category resources.
type CatalogHandler struct {
	db      *gorm.DB
	uploads *services.UploadService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB, uploads *services.UploadService) *CatalogHandler {
	return &CatalogHandler{db: db, uploads: uploads}
}

// ListCategories returns categories filtered by is_active with skip/limit
// pagination.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	q := utils.ParseListQuery(c)

	query := h.db.Model(&models.Category{}).Where("is_active = ?", q.IsActive)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var categories []models.Category
	if err := query.Offset(q.Skip).Limit(q.Limit).Order("created_at desc").
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
		"pagination": fiber.Map{
			"skip":        q.Skip,
			"limit":       q.Limit,
			"total_items": total,
		},
	})
}

// GetCategory returns a single category by ID.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		return translateDBError(err, "category")
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// CreateCategory creates a category from a multipart form with an optional
// image. All validation happens before the image is stored; the stored image
// is removed best-effort when the commit fails.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	name, err := validateCategoryName(c.FormValue("name"))
	if err != nil {
		return err
	}

	if err := h.checkDuplicateName(name, uuid.Nil); err != nil {
		return err
	}

	slug, err := utils.ResolveSlug(name, h.slugTaken(uuid.Nil))
	if err != nil {
		return err
	}

	imageURL := ""
	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		imageURL, err = h.uploads.Store(file, services.UploadFolderCategories)
		if err != nil {
			return err
		}
	}

	category := models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(c.FormValue("description")),
		ImageURL:    imageURL,
		IsActive:    true,
	}

	if err := h.db.Create(&category).Error; err != nil {
		h.uploads.Remove(imageURL)
		return translateDBError(err, "category")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

// UpdateCategory updates name, description and image. The slug is only
// recomputed when the name changed case-insensitively; a replaced image is
// deleted only after the new row is durably stored.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		return translateDBError(err, "category")
	}

	name, err := validateCategoryName(c.FormValue("name"))
	if err != nil {
		return err
	}

	if err := h.checkDuplicateName(name, category.ID); err != nil {
		return err
	}

	slug := category.Slug
	if !strings.EqualFold(category.Name, name) {
		slug, err = utils.ResolveSlug(name, h.slugTaken(category.ID))
		if err != nil {
			return err
		}
	}

	oldImageURL := category.ImageURL
	newImageURL := oldImageURL
	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		newImageURL, err = h.uploads.Store(file, services.UploadFolderCategories)
		if err != nil {
			return err
		}
	}

	category.Name = name
	category.Slug = slug
	category.Description = strings.TrimSpace(c.FormValue("description"))
	category.ImageURL = newImageURL

	if err := h.db.Save(&category).Error; err != nil {
		if newImageURL != oldImageURL {
			h.uploads.Remove(newImageURL)
		}
		return translateDBError(err, "category")
	}

	if newImageURL != oldImageURL {
		h.uploads.Remove(oldImageURL)
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// DeleteCategory soft-deletes a category. Deletion is blocked while the
// category still owns active products.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		return translateDBError(err, "category")
	}

	var activeProducts int64
	if err := h.db.Model(&models.Product{}).
		Where("category_id = ? AND is_active = ?", id, true).
		Count(&activeProducts).Error; err != nil {
		return err
	}

	if activeProducts > 0 {
		return apperrors.Conflictf(
			"cannot delete category: it has %d active products, move or deactivate them first",
			activeProducts)
	}

	category.IsActive = false
	if err := h.db.Save(&category).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Category deleted successfully"})
}

func validateCategoryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperrors.Validationf("category name cannot be empty")
	}
	if len(name) < 2 {
		return "", apperrors.Validationf("category name must be at least 2 characters long")
	}
	if len(name) > 100 {
		return "", apperrors.Validationf("category name cannot exceed 100 characters")
	}
	return name, nil
}

func (h *CatalogHandler) checkDuplicateName(name string, excludeID uuid.UUID) error {
	query := h.db.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflictf("category %q already exists", name)
	}
	return nil
}

// slugTaken probes category slugs for the resolver, excluding the row being
// updated.
func (h *CatalogHandler) slugTaken(excludeID uuid.UUID) func(string) (bool, error) {
	return func(slug string) (bool, error) {
		query := h.db.Model(&models.Category{}).Where("slug = ?", slug)
		if excludeID != uuid.Nil {
			query = query.Where("id <> ?", excludeID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
}
