package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alhurwear/alhurwear-api/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
)

const (
	selectProductSQL = "SELECT (.+) FROM `products` WHERE `products`.`id` = (.+)"
	selectPromoSQL   = "SELECT (.+) FROM `promo_codes` WHERE code = (.+)"
	insertOrderSQL   = "INSERT INTO `orders` (.+)"
	insertItemSQL    = "INSERT INTO `order_items` (.+)"
	updateStockSQL   = "UPDATE `products` SET (.+)"
	updatePromoSQL   = "UPDATE `promo_codes` SET (.+)"
	selectOrderSQL   = "SELECT (.+) FROM `orders` WHERE `orders`.`id` = (.+)"
	updateOrderSQL   = "UPDATE `orders` SET (.+)"
)

func productRow(id int, name string, price float64, stock int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "category", "price", "stock", "status"}).
		AddRow(id, name, "clothes", price, stock, models.ProductStatusActive)
}

func promoRow(code, discountType string, value float64, usageLimit, usageCount int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "discount_type", "discount_value", "max_discount",
		"min_purchase", "usage_limit", "usage_count", "expiry_date", "status",
	}).AddRow(1, code, discountType, value, nil, nil, usageLimit, usageCount, nil, models.PromoStatusActive)
}

func orderBody(t *testing.T, promoCode string) []byte {
	t.Helper()
	body, err := json.Marshal(CreateOrderInput{
		CustomerName:    "Test Customer",
		Email:           "customer@mail.com",
		Phone:           "0700000000",
		ShippingAddress: "1 Test Street",
		PaymentMethod:   "cod",
		PromoCode:       promoCode,
		Items:           []OrderItemInput{{ProductId: 3, Quantity: 3}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestCreateOrderSuccess(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(selectProductSQL).WillReturnRows(productRow(3, "Premium Cotton T-Shirt", 29.99, 5))
	mock.ExpectExec(insertOrderSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertItemSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(updateStockSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPost, "/order", orderBody(t, ""))
	CreateOrder(ctx)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		OrderId     int     `json:"orderId"`
		OrderNumber string  `json:"orderNumber"`
		Subtotal    float64 `json:"subtotal"`
		Total       float64 `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.OrderId)
	assert.NotEmpty(t, resp.OrderNumber)
	assert.InDelta(t, 3*29.99, resp.Subtotal, 0.001)
	assert.InDelta(t, 3*29.99, resp.Total, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderProductMissing(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(selectProductSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "stock", "status"}))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPost, "/order", orderBody(t, ""))
	CreateOrder(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "product 3 is unavailable")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	// Stock reads 5 but the conditional decrement affects zero rows, as it
	// would when a concurrent order drained the stock first.
	mock.ExpectBegin()
	mock.ExpectQuery(selectProductSQL).WillReturnRows(productRow(3, "Premium Cotton T-Shirt", 29.99, 5))
	mock.ExpectExec(insertOrderSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertItemSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(updateStockSQL).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPost, "/order", orderBody(t, ""))
	CreateOrder(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderWithPromo(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(selectProductSQL).WillReturnRows(productRow(3, "Premium Cotton T-Shirt", 50, 10))
	mock.ExpectQuery(selectPromoSQL).WillReturnRows(promoRow("SAVE10", models.DiscountTypeFixed, 10, 100, 0))
	mock.ExpectExec(insertOrderSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertItemSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(updateStockSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updatePromoSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPost, "/order", orderBody(t, "save10"))
	CreateOrder(ctx)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Subtotal float64 `json:"subtotal"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 150.0, resp.Subtotal)
	assert.Equal(t, 10.0, resp.Discount)
	assert.Equal(t, 140.0, resp.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderPromoLimitExceeded(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(selectProductSQL).WillReturnRows(productRow(3, "Premium Cotton T-Shirt", 50, 10))
	mock.ExpectQuery(selectPromoSQL).WillReturnRows(promoRow("SAVE10", models.DiscountTypeFixed, 10, 3, 3))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPost, "/order", orderBody(t, "SAVE10"))
	CreateOrder(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "usage limit exceeded")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderEmptyItems(t *testing.T) {
	sqlDB, _ := dbMock(t)
	defer sqlDB.Close()

	body, _ := json.Marshal(CreateOrderInput{
		CustomerName:    "Test Customer",
		Email:           "customer@mail.com",
		ShippingAddress: "1 Test Street",
		Items:           []OrderItemInput{},
	})

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPost, "/order", body)
	CreateOrder(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func orderRow(id int, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_number", "customer_name", "email", "total", "status"}).
		AddRow(id, "ORD-20250101-ABCDEF", "Test Customer", "customer@mail.com", 100.0, status)
}

func TestUpdateOrderStatusValidTransition(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery(selectOrderSQL).WillReturnRows(orderRow(1, models.OrderStatusPending))
	mock.ExpectBegin()
	mock.ExpectExec(updateOrderSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body, _ := json.Marshal(map[string]string{"status": models.OrderStatusProcessing})
	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPatch, "/order/1", body)
	ctx.Params = gin.Params{{Key: "orderId", Value: "1"}}
	UpdateOrderStatus(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusInvalidTransition(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery(selectOrderSQL).WillReturnRows(orderRow(1, models.OrderStatusDelivered))

	body, _ := json.Marshal(map[string]string{"status": models.OrderStatusPending})
	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPatch, "/order/1", body)
	ctx.Params = gin.Params{{Key: "orderId", Value: "1"}}
	UpdateOrderStatus(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid status transition")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusUnknownStatus(t *testing.T) {
	sqlDB, _ := dbMock(t)
	defer sqlDB.Close()

	body, _ := json.Marshal(map[string]string{"status": "Refunded"})
	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodPatch, "/order/1", body)
	ctx.Params = gin.Params{{Key: "orderId", Value: "1"}}
	UpdateOrderStatus(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown order status")
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery(selectOrderSQL).WillReturnRows(orderRow(1, models.OrderStatusDelivered))

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodDelete, "/order/1", nil)
	ctx.Params = gin.Params{{Key: "orderId", Value: "1"}}
	CancelOrder(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid status transition")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOrderSoftCancels(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery(selectOrderSQL).WillReturnRows(orderRow(1, models.OrderStatusPending))
	mock.ExpectBegin()
	mock.ExpectExec(updateOrderSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodDelete, "/order/1", nil)
	ctx.Params = gin.Params{{Key: "orderId", Value: "1"}}
	CancelOrder(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cancelled")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrdersByCustomerIdRejectsOtherCustomer(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	// Customer 7 asking for customer 8's history must be refused before any
	// query runs.
	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodGet, "/user/8/orders", nil)
	ctx.Params = gin.Params{{Key: "userId", Value: "8"}}
	ctx.Set("user", jwt.MapClaims{"role": "customer", "user_id": float64(7)})
	GetOrdersByCustomerId(ctx)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "your own orders")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrdersByCustomerIdAllowsOwner(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT (.+) FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "status", "total"}))

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodGet, "/user/7/orders", nil)
	ctx.Params = gin.Params{{Key: "userId", Value: "7"}}
	ctx.Set("user", jwt.MapClaims{"role": "customer", "user_id": float64(7)})
	GetOrdersByCustomerId(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrdersByCustomerIdAllowsAdmin(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT (.+) FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "status", "total"}))

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodGet, "/user/8/orders", nil)
	ctx.Params = gin.Params{{Key: "userId", Value: "8"}}
	ctx.Set("user", jwt.MapClaims{"role": "admin", "username": "admin"})
	GetOrdersByCustomerId(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrdersByCustomerIdRequiresClaims(t *testing.T) {
	sqlDB, _ := dbMock(t)
	defer sqlDB.Close()

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodGet, "/user/7/orders", nil)
	ctx.Params = gin.Params{{Key: "userId", Value: "7"}}
	GetOrdersByCustomerId(ctx)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCancelOrderNotFound(t *testing.T) {
	sqlDB, mock := dbMock(t)
	defer sqlDB.Close()

	mock.ExpectQuery(selectOrderSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))

	w := httptest.NewRecorder()
	ctx := testContext(w, http.MethodDelete, "/order/99", nil)
	ctx.Params = gin.Params{{Key: "orderId", Value: "99"}}
	CancelOrder(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
