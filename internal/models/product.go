package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PrintArea is a named printable region on a product template,
// in template pixel coordinates.
type PrintArea struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Product struct {
	BaseModel
	Name             string                              `gorm:"size:200;index" json:"name"`
	Slug             string                              `gorm:"size:200;uniqueIndex" json:"slug"`
	Description      string                              `json:"description"`
	BasePrice        float64                             `json:"base_price"`
	MinOrderQuantity int                                 `gorm:"default:1" json:"min_order_quantity"`
	MaxOrderQuantity int                                 `gorm:"default:1000" json:"max_order_quantity"`
	CategoryID       uuid.UUID                           `gorm:"type:uuid;index" json:"category_id"`
	Category         *Category                           `json:"category,omitempty"`
	Sizes            datatypes.JSONSlice[string]         `json:"sizes"`
	Colors           datatypes.JSONSlice[string]         `json:"colors"`
	Materials        datatypes.JSONSlice[string]         `json:"materials"`
	MainImageURL     string                              `gorm:"size:500" json:"main_image_url"`
	GalleryImages    datatypes.JSONSlice[string]         `json:"gallery_images"`
	DesignTemplateURL string                             `gorm:"size:500" json:"design_template_url"`
	MockupTemplates  datatypes.JSONType[map[string]string] `json:"mockup_templates"`
	PrintAreas       datatypes.JSONSlice[PrintArea]      `json:"print_areas"`
	CustomizationOptions datatypes.JSONMap               `json:"customization_options"`
	IsActive         bool                                `gorm:"default:true" json:"is_active"`
	IsFeatured       bool                                `gorm:"default:false" json:"is_featured"`
	Variants         []ProductVariant                    `json:"variants,omitempty"`
}

// ProductVariant price is an absolute price, not a modifier on the
// product base price.
type ProductVariant struct {
	BaseModel
	ProductID     uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Color         string    `gorm:"size:50" json:"color"`
	Size          string    `gorm:"size:50" json:"size"`
	Material      string    `gorm:"size:100" json:"material"`
	Price         float64   `json:"price"`
	StockQuantity int       `gorm:"default:0" json:"stock_quantity"`
	SKU           *string   `gorm:"size:100;uniqueIndex" json:"sku"`
	ImageURL      string    `gorm:"size:500" json:"image_url"`
}
