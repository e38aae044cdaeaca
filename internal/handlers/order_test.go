package handlers_test

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderPayload(productID string, items []map[string]any) map[string]any {
	if items == nil {
		items = []map[string]any{
			{"product_id": productID, "quantity": 2, "unit_price": 10.0},
			{"product_id": productID, "quantity": 1, "unit_price": 5.0},
		}
	}
	return map[string]any{
		"customer_email": "jordan@example.com",
		"customer_name":  "Jordan Lee",
		"shipping_address": map[string]any{
			"line1": "1 Print St",
			"city":  "Springfield",
			"zip":   "12345",
		},
		"shipping_method": "standard",
		"items":           items,
	}
}

func createTestOrder(t *testing.T, app *fiber.App, productID string, items []map[string]any) map[string]any {
	t.Helper()

	req := jsonRequest(t, http.MethodPost, "/api/orders/", orderPayload(productID, items))
	resp, body := doRequest(t, app, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create order: %v", body)
	return dataField(t, body)
}

func updateOrderStatus(t *testing.T, app *fiber.App, orderID, status, trackingNumber string) (*http.Response, map[string]any) {
	t.Helper()

	payload := map[string]any{"status": status}
	if trackingNumber != "" {
		payload["tracking_number"] = trackingNumber
	}
	return doRequest(t, app, jsonRequest(t, http.MethodPut, "/api/orders/"+orderID+"/status", payload))
}

func TestCreateOrder(t *testing.T) {
	app, _, _ := newTestApp(t)
	productID := createSimpleProduct(t, app, "Tee")

	data := createTestOrder(t, app, productID, nil)

	// 25.00 subtotal + 2.00 tax + 15.00 flat shipping.
	assert.Equal(t, 42.0, data["total_amount"])
	assert.Regexp(t, regexp.MustCompile(`^PC\d{8}[0-9A-F]{6}$`), data["order_number"])
	assert.NotEmpty(t, data["estimated_delivery"])

	orderID := data["order_id"].(string)
	resp, body := doRequest(t, app, plainRequest(t, http.MethodGet, "/api/orders/"+orderID))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	order := dataField(t, body)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, 25.0, order["subtotal"])
	assert.Equal(t, 2.0, order["tax_amount"])
	assert.Equal(t, 15.0, order["shipping_cost"])
	assert.Equal(t, "jordan@example.com", order["customer_email"])
	assert.Equal(t, false, order["design_approved"])
	assert.Nil(t, order["production_started"])

	items, ok := order["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	address, ok := order["shipping_address"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Springfield", address["city"])
}

func TestCreateOrderFreeShipping(t *testing.T) {
	app, _, _ := newTestApp(t)
	productID := createSimpleProduct(t, app, "Hoodie")

	data := createTestOrder(t, app, productID, []map[string]any{
		{"product_id": productID, "quantity": 3, "unit_price": 20.0},
	})

	// 60.00 subtotal clears the free shipping threshold: 60 + 4.80 tax.
	assert.Equal(t, 64.8, data["total_amount"])
}

func TestCreateOrderValidation(t *testing.T) {
	app, _, _ := newTestApp(t)
	productID := createSimpleProduct(t, app, "Tee")

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantMsg string
	}{
		{
			name:    "missing email",
			mutate:  func(p map[string]any) { p["customer_email"] = "" },
			wantMsg: "customer_email is required",
		},
		{
			name:    "no items",
			mutate:  func(p map[string]any) { p["items"] = []map[string]any{} },
			wantMsg: "at least one item",
		},
		{
			name: "zero quantity",
			mutate: func(p map[string]any) {
				p["items"] = []map[string]any{{"product_id": productID, "quantity": 0, "unit_price": 10.0}}
			},
			wantMsg: "items[0].quantity",
		},
		{
			name: "negative unit price",
			mutate: func(p map[string]any) {
				p["items"] = []map[string]any{
					{"product_id": productID, "quantity": 1, "unit_price": 10.0},
					{"product_id": productID, "quantity": 1, "unit_price": -1.0},
				}
			},
			wantMsg: "items[1].unit_price",
		},
		{
			name: "bad product id",
			mutate: func(p map[string]any) {
				p["items"] = []map[string]any{{"product_id": "nope", "quantity": 1, "unit_price": 10.0}}
			},
			wantMsg: "items[0].product_id",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := orderPayload(productID, nil)
			tc.mutate(payload)

			resp, body := doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/orders/", payload))
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, "%v", body)
			assert.Equal(t, false, body["success"])
			assert.Contains(t, body["error"], tc.wantMsg)
		})
	}
}

func TestApproveDesign(t *testing.T) {
	app, _, _ := newTestApp(t)
	productID := createSimpleProduct(t, app, "Tee")
	orderID := createTestOrder(t, app, productID, nil)["order_id"].(string)

	resp, body := doRequest(t, app, plainRequest(t, http.MethodPost, "/api/orders/"+orderID+"/approve-design?approved=true"))
	require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)

	resp, body = doRequest(t, app, plainRequest(t, http.MethodGet, "/api/orders/"+orderID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := dataField(t, body)
	assert.Equal(t, "processing", order["status"])
	assert.Equal(t, true, order["design_approved"])
	assert.NotEmpty(t, order["production_started"])
}

func TestRejectDesignKeepsStatus(t *testing.T) {
	app, _, _ := newTestApp(t)
	productID := createSimpleProduct(t, app, "Tee")
	orderID := createTestOrder(t, app, productID, nil)["order_id"].(string)

	resp, _ := doRequest(t, app, plainRequest(t, http.MethodPost, "/api/orders/"+orderID+"/approve-design?approved=false"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, app, plainRequest(t, http.MethodGet, "/api/orders/"+orderID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := dataField(t, body)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, false, order["design_approved"])
	assert.Nil(t, order["production_started"])

	resp, body = doRequest(t, app, plainRequest(t, http.MethodPost, "/api/orders/"+orderID+"/approve-design?approved=maybe"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "approved must be true or false")
}

func TestOrderStatusLifecycle(t *testing.T) {
	app, _, _ := newTestApp(t)
	productID := createSimpleProduct(t, app, "Tee")
	orderID := createTestOrder(t, app, productID, nil)["order_id"].(string)

	// Skipping straight to shipping is not allowed.
	resp, body := updateOrderStatus(t, app, orderID, "shipping", "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["error"], "cannot transition order from pending to shipping")

	resp, body = updateOrderStatus(t, app, orderID, "not-a-status", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "unknown order status")

	for _, status := range []string{"processing", "printing"} {
		resp, body = updateOrderStatus(t, app, orderID, status, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)
		assert.Equal(t, status, dataField(t, body)["status"])
	}

	resp, body = updateOrderStatus(t, app, orderID, "shipping", "TRACK-123")
	require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)
	shipped := dataField(t, body)
	assert.Equal(t, "shipping", shipped["status"])
	assert.Equal(t, "TRACK-123", shipped["tracking_number"])

	resp, body = updateOrderStatus(t, app, orderID, "delivered", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)

	// Delivered is terminal.
	resp, body = updateOrderStatus(t, app, orderID, "cancelled", "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["error"], "cannot transition")
}

func TestCancelOrderFromPending(t *testing.T) {
	app, _, _ := newTestApp(t)
	productID := createSimpleProduct(t, app, "Tee")
	orderID := createTestOrder(t, app, productID, nil)["order_id"].(string)

	resp, body := updateOrderStatus(t, app, orderID, "cancelled", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)
	assert.Equal(t, "cancelled", dataField(t, body)["status"])

	resp, body = updateOrderStatus(t, app, orderID, "processing", "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["error"], "cannot transition")
}

func TestOrderTracking(t *testing.T) {
	app, _, _ := newTestApp(t)
	productID := createSimpleProduct(t, app, "Tee")
	created := createTestOrder(t, app, productID, nil)
	orderID := created["order_id"].(string)

	resp, body := doRequest(t, app, plainRequest(t, http.MethodGet, "/api/orders/"+orderID+"/tracking"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := dataField(t, body)
	assert.Equal(t, created["order_number"], data["order_number"])
	assert.Equal(t, "pending", data["status"])

	timeline, ok := data["timeline"].([]any)
	require.True(t, ok)
	require.Len(t, timeline, 5)

	placed := timeline[0].(map[string]any)
	assert.Equal(t, "Order Placed", placed["stage"])
	assert.Equal(t, true, placed["completed"])
	assert.NotEmpty(t, placed["date"])

	production := timeline[2].(map[string]any)
	assert.Equal(t, false, production["completed"])
	assert.Nil(t, production["date"])

	resp, _ = doRequest(t, app, plainRequest(t, http.MethodPost, "/api/orders/"+orderID+"/approve-design?approved=true"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, app, plainRequest(t, http.MethodGet, "/api/orders/"+orderID+"/tracking"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	timeline = dataField(t, body)["timeline"].([]any)
	production = timeline[2].(map[string]any)
	assert.Equal(t, true, production["completed"])
	assert.NotEmpty(t, production["date"])
	shipped := timeline[3].(map[string]any)
	assert.Equal(t, false, shipped["completed"])

	resp, body = doRequest(t, app, plainRequest(t, http.MethodGet, "/api/orders/0b2d8bc3-62c5-4af5-9f0b-9dd7f2f1f000/tracking"))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "order not found")
}

func TestListOrders(t *testing.T) {
	app, _, _ := newTestApp(t)
	productID := createSimpleProduct(t, app, "Tee")

	first := createTestOrder(t, app, productID, nil)
	createTestOrder(t, app, productID, nil)

	resp, body := doRequest(t, app, plainRequest(t, http.MethodGet, "/api/orders/"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 2)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, 2.0, pagination["total_items"])

	resp, body = updateOrderStatus(t, app, first["order_id"].(string), "processing", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "%v", body)

	resp, body = doRequest(t, app, plainRequest(t, http.MethodGet, "/api/orders/?status=processing"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orders, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, orders, 1)
	assert.Equal(t, first["order_number"], orders[0].(map[string]any)["order_number"])
}
