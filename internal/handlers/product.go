package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/printcraft/backend/internal/apperrors"
	"github.com/printcraft/backend/internal/models"
	"github.com/printcraft/backend/internal/services"
	"github.com/printcraft/backend/internal/utils"
)

// ProductHandler manages product CRUD and status toggles.
type ProductHandler struct {
	db      *gorm.DB
	uploads *services.UploadService
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, uploads *services.UploadService) *ProductHandler {
	return &ProductHandler{db: db, uploads: uploads}
}

type variantPayload struct {
	Color    string  `json:"color"`
	Size     string  `json:"size"`
	Material string  `json:"material"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	SKU      string  `json:"sku"`
	ImageURL string  `json:"image_url"`
}

// ListProducts returns products with variants and category preloaded,
// optionally filtered by category.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	q := utils.ParseListQuery(c)

	query := h.db.Model(&models.Product{}).Where("is_active = ?", q.IsActive)
	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return apperrors.Validationf("invalid category_id")
		}
		query = query.Where("category_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Variants").Preload("Category").
		Offset(q.Skip).Limit(q.Limit).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"skip":        q.Skip,
			"limit":       q.Limit,
			"total_items": total,
		},
	})
}

// GetProduct loads a product with its variants and category. Inactive
// products are still readable, variants included.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var product models.Product
	if err := h.db.Preload("Variants").Preload("Category").
		First(&product, "id = ?", id).Error; err != nil {
		return translateDBError(err, "product")
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// UploadProduct creates a product from a multipart form carrying JSON-encoded
// structured fields and the media files. Structured fields are parsed and
// validated before any file is stored; every stored file is removed
// best-effort when the transaction fails.
func (h *ProductHandler) UploadProduct(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return apperrors.Validationf("product name cannot be empty")
	}

	basePrice, err := strconv.ParseFloat(c.FormValue("base_price"), 64)
	if err != nil || basePrice < 0 {
		return apperrors.Validationf("invalid base_price")
	}

	minQty := 1
	if v := c.FormValue("min_order_quantity"); v != "" {
		minQty, err = strconv.Atoi(v)
		if err != nil || minQty < 1 {
			return apperrors.Validationf("invalid min_order_quantity")
		}
	}

	categoryID, err := uuid.Parse(c.FormValue("category_id"))
	if err != nil {
		return apperrors.Validationf("invalid category_id")
	}

	var (
		sizes         []string
		colors        []string
		materials     []string
		customization map[string]interface{}
		printAreas    []models.PrintArea
		variants      []variantPayload
	)
	if err := parseJSONField(c.FormValue("sizes", "[]"), "sizes", &sizes); err != nil {
		return err
	}
	if err := parseJSONField(c.FormValue("colors", "[]"), "colors", &colors); err != nil {
		return err
	}
	if err := parseJSONField(c.FormValue("materials", "[]"), "materials", &materials); err != nil {
		return err
	}
	if err := parseJSONField(c.FormValue("customization_options", "{}"), "customization_options", &customization); err != nil {
		return err
	}
	if err := parseJSONField(c.FormValue("print_areas", "[]"), "print_areas", &printAreas); err != nil {
		return err
	}
	if err := parseJSONField(c.FormValue("variants", "[]"), "variants", &variants); err != nil {
		return err
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", categoryID).Error; err != nil {
		return translateDBError(err, "category")
	}

	slug, err := utils.ResolveSlug(name, h.slugTaken())
	if err != nil {
		return err
	}

	// Validation is done; files are stored from here on and rolled back on
	// any later failure.
	var stored []string
	cleanup := func() {
		for _, ref := range stored {
			h.uploads.Remove(ref)
		}
	}

	mainImage, err := c.FormFile("main_image")
	if err != nil {
		return apperrors.Validationf("main_image is required")
	}
	mainImageURL, err := h.uploads.Store(mainImage, services.UploadFolderProducts)
	if err != nil {
		return err
	}
	stored = append(stored, mainImageURL)

	var galleryURLs []string
	if form, ferr := c.MultipartForm(); ferr == nil && form != nil {
		for _, file := range form.File["gallery_images"] {
			ref, err := h.uploads.Store(file, services.UploadFolderProducts)
			if err != nil {
				cleanup()
				return err
			}
			stored = append(stored, ref)
			galleryURLs = append(galleryURLs, ref)
		}
	}

	designTemplateURL := ""
	if file, ferr := c.FormFile("design_template"); ferr == nil && file != nil {
		designTemplateURL, err = h.uploads.Store(file, services.UploadFolderTemplates)
		if err != nil {
			cleanup()
			return err
		}
		stored = append(stored, designTemplateURL)
	}

	mockups := map[string]string{}
	for _, side := range []string{"front", "back"} {
		if file, ferr := c.FormFile("mockup_" + side); ferr == nil && file != nil {
			ref, err := h.uploads.Store(file, services.UploadFolderMockups)
			if err != nil {
				cleanup()
				return err
			}
			stored = append(stored, ref)
			mockups[side] = ref
		}
	}

	product := models.Product{
		Name:                 name,
		Slug:                 slug,
		Description:          c.FormValue("description"),
		BasePrice:            basePrice,
		MinOrderQuantity:     minQty,
		CategoryID:           categoryID,
		Sizes:                sizes,
		Colors:               colors,
		Materials:            materials,
		MainImageURL:         mainImageURL,
		GalleryImages:        galleryURLs,
		DesignTemplateURL:    designTemplateURL,
		MockupTemplates:      datatypes.NewJSONType(mockups),
		PrintAreas:           printAreas,
		CustomizationOptions: customization,
		IsActive:             true,
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		// Variant rows are bound to the new product id in a second pass.
		for _, v := range variants {
			variant := models.ProductVariant{
				ProductID:     product.ID,
				Color:         v.Color,
				Size:          v.Size,
				Material:      v.Material,
				Price:         v.Price,
				StockQuantity: v.Stock,
				ImageURL:      v.ImageURL,
			}
			if v.SKU != "" {
				sku := v.SKU
				variant.SKU = &sku
			}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		cleanup()
		return translateDBError(err, "product")
	}

	var created models.Product
	if err := h.db.Preload("Variants").Preload("Category").
		First(&created, "id = ?", product.ID).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

// ToggleActive flips a product's active flag.
func (h *ProductHandler) ToggleActive(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if err != nil {
		return err
	}

	product.IsActive = !product.IsActive
	if err := h.db.Save(product).Error; err != nil {
		return err
	}

	message := "Product deactivated successfully"
	if product.IsActive {
		message = "Product activated successfully"
	}

	return c.JSON(fiber.Map{"success": true, "message": message, "is_active": product.IsActive})
}

// ToggleFeatured flips a product's featured flag.
func (h *ProductHandler) ToggleFeatured(c *fiber.Ctx) error {
	product, err := h.findProduct(c)
	if err != nil {
		return err
	}

	product.IsFeatured = !product.IsFeatured
	if err := h.db.Save(product).Error; err != nil {
		return err
	}

	message := "Product unfeatured successfully"
	if product.IsFeatured {
		message = "Product featured successfully"
	}

	return c.JSON(fiber.Map{"success": true, "message": message, "is_featured": product.IsFeatured})
}

func (h *ProductHandler) findProduct(c *fiber.Ctx) (*models.Product, error) {
	id, err := parseIDParam(c)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err, "product")
	}
	return &product, nil
}

func (h *ProductHandler) slugTaken() func(string) (bool, error) {
	return func(slug string) (bool, error) {
		var count int64
		if err := h.db.Model(&models.Product{}).Where("slug = ?", slug).
			Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
}

func parseJSONField(raw, field string, dst interface{}) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return apperrors.Validationf("invalid JSON in field %q: %v", field, err)
	}
	return nil
}

// RegisterProductRoutes attaches product routes to the router group.
func (h *ProductHandler) RegisterProductRoutes(router fiber.Router) {
	router.Get("/", h.ListProducts)
	router.Post("/upload", h.UploadProduct)
	router.Get("/:id", h.GetProduct)
	router.Put("/:id/toggle-active", h.ToggleActive)
	router.Put("/:id/toggle-featured", h.ToggleFeatured)
}
