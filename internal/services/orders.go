package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/printcraft/backend/internal/models"
)

// Pricing rules for order totals.
const (
	TaxRate               = 0.08
	FlatShippingCost      = 15.0
	FreeShippingThreshold = 50.0
	DeliveryLeadDays      = 10
)

// OrderLine is the quantity/price pair totals are computed from.
type OrderLine struct {
	Quantity  int
	UnitPrice float64
}

// OrderTotals holds the computed money amounts of an order.
type OrderTotals struct {
	Subtotal     float64
	TaxAmount    float64
	ShippingCost float64
	TotalAmount  float64
}

// ComputeOrderTotals applies the storefront pricing rules: 8% tax and a flat
// $15 shipping fee waived once the subtotal reaches $50.
func ComputeOrderTotals(lines []OrderLine) OrderTotals {
	var subtotal float64
	for _, line := range lines {
		subtotal += float64(line.Quantity) * line.UnitPrice
	}

	shipping := FlatShippingCost
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}

	tax := subtotal * TaxRate
	return OrderTotals{
		Subtotal:     subtotal,
		TaxAmount:    tax,
		ShippingCost: shipping,
		TotalAmount:  subtotal + tax + shipping,
	}
}

// GenerateOrderNumber builds a human-readable order number:
// "PC" + current date + 6 random uppercase hex characters. The random suffix
// is not a hard uniqueness guarantee; order creation retries on a duplicate.
func GenerateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("PC%s%s", now.Format("20060102"), suffix)
}

// EstimatedDelivery returns the promised delivery date for an order placed now.
func EstimatedDelivery(now time.Time) time.Time {
	return now.AddDate(0, 0, DeliveryLeadDays)
}

var orderStatusRank = map[string]int{
	models.OrderStatusPending:    0,
	models.OrderStatusProcessing: 1,
	models.OrderStatusPrinting:   2,
	models.OrderStatusShipping:   3,
	models.OrderStatusDelivered:  4,
}

// IsOrderStatus reports whether status is a known order status value.
func IsOrderStatus(status string) bool {
	if status == models.OrderStatusCancelled {
		return true
	}
	_, ok := orderStatusRank[status]
	return ok
}

// IsTerminalStatus reports whether no further transitions leave status.
func IsTerminalStatus(status string) bool {
	return status == models.OrderStatusDelivered || status == models.OrderStatusCancelled
}

// CanTransition reports whether an order may move from one status to the
// next. Forward moves advance one production stage at a time; cancellation is
// allowed from any non-terminal state.
func CanTransition(from, to string) bool {
	if !IsOrderStatus(from) || !IsOrderStatus(to) || IsTerminalStatus(from) {
		return false
	}
	if to == models.OrderStatusCancelled {
		return true
	}
	return orderStatusRank[to] == orderStatusRank[from]+1
}

// TrackingStage is one entry of the derived order timeline.
type TrackingStage struct {
	Stage     string     `json:"stage"`
	Date      *time.Time `json:"date"`
	Completed bool       `json:"completed"`
}

// OrderTimeline derives the fixed five-stage tracking view of an order.
func OrderTimeline(order *models.Order) []TrackingStage {
	placedAt := order.CreatedAt
	shipped := order.Status == models.OrderStatusShipping || order.Status == models.OrderStatusDelivered

	return []TrackingStage{
		{Stage: "Order Placed", Date: &placedAt, Completed: true},
		{Stage: "Design Approved", Date: &placedAt, Completed: order.DesignApproved},
		{Stage: "Production Started", Date: order.ProductionStarted, Completed: order.ProductionStarted != nil},
		{Stage: "Shipped", Date: nil, Completed: shipped},
		{Stage: "Delivered", Date: nil, Completed: order.Status == models.OrderStatusDelivered},
	}
}
