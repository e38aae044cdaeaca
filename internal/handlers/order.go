package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printcraft/backend/internal/apperrors"
	"github.com/printcraft/backend/internal/models"
	"github.com/printcraft/backend/internal/services"
	"github.com/printcraft/backend/internal/utils"
)

// orderNumberAttempts bounds the retry loop on order number collisions.
const orderNumberAttempts = 3

// OrderHandler manages order creation and the order lifecycle.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type orderItemRequest struct {
	ProductID        string          `json:"product_id"`
	VariantID        string          `json:"variant_id"`
	Quantity         int             `json:"quantity"`
	UnitPrice        float64         `json:"unit_price"`
	DesignData       json.RawMessage `json:"design_data"`
	DesignPreviewURL string          `json:"design_preview_url"`
}

type createOrderRequest struct {
	CustomerEmail   string             `json:"customer_email"`
	CustomerName    string             `json:"customer_name"`
	ShippingAddress json.RawMessage    `json:"shipping_address"`
	BillingAddress  json.RawMessage    `json:"billing_address"`
	ShippingMethod  string             `json:"shipping_method"`
	Items           []orderItemRequest `json:"items"`
}

// CreateOrder creates an order with its items and computed totals. The order
// and its items commit in one transaction; creation retries with a fresh
// order number when the random suffix collides.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validationf("invalid request body: %v", err)
	}

	if req.CustomerEmail == "" {
		return apperrors.Validationf("customer_email is required")
	}
	if len(req.Items) == 0 {
		return apperrors.Validationf("order must contain at least one item")
	}

	lines := make([]services.OrderLine, 0, len(req.Items))
	items := make([]models.OrderItem, 0, len(req.Items))
	for i, it := range req.Items {
		if it.Quantity < 1 {
			return apperrors.Validationf("items[%d].quantity must be at least 1", i)
		}
		if it.UnitPrice < 0 {
			return apperrors.Validationf("items[%d].unit_price cannot be negative", i)
		}
		productID, err := uuid.Parse(it.ProductID)
		if err != nil {
			return apperrors.Validationf("items[%d].product_id is invalid", i)
		}

		item := models.OrderItem{
			ProductID:        productID,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			TotalPrice:       float64(it.Quantity) * it.UnitPrice,
			DesignData:       []byte(it.DesignData),
			DesignPreviewURL: it.DesignPreviewURL,
		}
		if it.VariantID != "" {
			variantID, err := uuid.Parse(it.VariantID)
			if err != nil {
				return apperrors.Validationf("items[%d].variant_id is invalid", i)
			}
			item.VariantID = &variantID
		}

		lines = append(lines, services.OrderLine{Quantity: it.Quantity, UnitPrice: it.UnitPrice})
		items = append(items, item)
	}

	now := time.Now()
	totals := services.ComputeOrderTotals(lines)
	estimatedDelivery := services.EstimatedDelivery(now)

	order := models.Order{
		CustomerEmail:     req.CustomerEmail,
		CustomerName:      req.CustomerName,
		Status:            models.OrderStatusPending,
		Subtotal:          totals.Subtotal,
		TaxAmount:         totals.TaxAmount,
		ShippingCost:      totals.ShippingCost,
		TotalAmount:       totals.TotalAmount,
		ShippingAddress:   []byte(req.ShippingAddress),
		BillingAddress:    []byte(req.BillingAddress),
		ShippingMethod:    req.ShippingMethod,
		EstimatedDelivery: &estimatedDelivery,
		Items:             items,
	}

	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = services.GenerateOrderNumber(now)
		err = h.db.Create(&order).Error
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return translateDBError(err, "order")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order_id":           order.ID,
			"order_number":       order.OrderNumber,
			"total_amount":       order.TotalAmount,
			"estimated_delivery": order.EstimatedDelivery,
		},
	})
}

// ApproveDesign sets the design approval flag. Approval moves the order into
// production; rejection clears the flag but deliberately leaves the status
// untouched.
func (h *OrderHandler) ApproveDesign(c *fiber.Ctx) error {
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		return apperrors.Validationf("approved must be true or false")
	}

	order, err := h.findOrder(c)
	if err != nil {
		return err
	}

	order.DesignApproved = approved
	if approved {
		now := time.Now()
		order.Status = models.OrderStatusProcessing
		order.ProductionStarted = &now
	}

	if err := h.db.Save(order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Design approval status updated"})
}

// GetTracking renders the derived order timeline.
func (h *OrderHandler) GetTracking(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order_number":       order.OrderNumber,
			"status":             order.Status,
			"estimated_delivery": order.EstimatedDelivery,
			"tracking_number":    order.TrackingNumber,
			"timeline":           services.OrderTimeline(order),
		},
	})
}

type updateStatusRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
}

// UpdateStatus moves an order through the production state machine. Illegal
// transitions are conflicts; a shipping transition may carry the tracking
// number.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validationf("invalid request body: %v", err)
	}

	if !services.IsOrderStatus(req.Status) {
		return apperrors.Validationf("unknown order status %q", req.Status)
	}

	order, err := h.findOrder(c)
	if err != nil {
		return err
	}

	if !services.CanTransition(order.Status, req.Status) {
		return apperrors.Conflictf("cannot transition order from %s to %s", order.Status, req.Status)
	}

	order.Status = req.Status
	if req.Status == models.OrderStatusShipping && req.TrackingNumber != "" {
		order.TrackingNumber = req.TrackingNumber
	}

	if err := h.db.Save(order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns orders newest first with an optional status filter.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	q := utils.ParseListQuery(c)

	query := h.db.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Offset(q.Skip).Limit(q.Limit).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"skip":        q.Skip,
			"limit":       q.Limit,
			"total_items": total,
		},
	})
}

// GetOrder returns a single order with its items.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return translateDBError(err, "order")
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

func (h *OrderHandler) findOrder(c *fiber.Ctx) (*models.Order, error) {
	id, err := parseIDParam(c)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err, "order")
	}
	return &order, nil
}
