package models

type Category struct {
	BaseModel
	Name        string    `gorm:"size:100;index" json:"name"`
	Slug        string    `gorm:"size:100;uniqueIndex" json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	Products    []Product `json:"products,omitempty"`
}
