package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Order status values. An order moves pending -> processing -> printing ->
// shipping -> delivered; cancelled is reachable from any non-terminal state.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusPrinting   = "printing"
	OrderStatusShipping   = "shipping"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	BaseModel
	OrderNumber       string         `gorm:"size:50;uniqueIndex" json:"order_number"`
	CustomerEmail     string         `gorm:"size:255" json:"customer_email"`
	CustomerName      string         `gorm:"size:200" json:"customer_name"`
	Status            string         `gorm:"size:20;default:pending" json:"status"`
	Subtotal          float64        `json:"subtotal"`
	TaxAmount         float64        `json:"tax_amount"`
	ShippingCost      float64        `json:"shipping_cost"`
	TotalAmount       float64        `json:"total_amount"`
	ShippingAddress   datatypes.JSON `json:"shipping_address"`
	BillingAddress    datatypes.JSON `json:"billing_address"`
	ShippingMethod    string         `gorm:"size:100" json:"shipping_method"`
	TrackingNumber    string         `gorm:"size:100" json:"tracking_number"`
	DesignApproved    bool           `gorm:"default:false" json:"design_approved"`
	ProductionStarted *time.Time     `json:"production_started"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery"`
	Items             []OrderItem    `json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID            uuid.UUID                   `gorm:"type:uuid;index" json:"order_id"`
	ProductID          uuid.UUID                   `gorm:"type:uuid;index" json:"product_id"`
	VariantID          *uuid.UUID                  `gorm:"type:uuid" json:"variant_id"`
	Quantity           int                         `json:"quantity"`
	UnitPrice          float64                     `json:"unit_price"`
	TotalPrice         float64                     `json:"total_price"`
	DesignData         datatypes.JSON              `json:"design_data"`
	DesignPreviewURL   string                      `gorm:"size:500" json:"design_preview_url"`
	PrintFiles         datatypes.JSONSlice[string] `json:"print_files"`
	ProductionNotes    string                      `json:"production_notes"`
	QualityCheckPassed bool                        `gorm:"default:false" json:"quality_check_passed"`
}
