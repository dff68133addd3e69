package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/alhurwear/alhurwear-api/initializers"
	"github.com/alhurwear/alhurwear-api/models"
	"github.com/alhurwear/alhurwear-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

type OrderItemInput struct {
	ProductId int `json:"productId" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}

type CreateOrderInput struct {
	CustomerID      *int             `json:"customerId"`
	CustomerName    string           `json:"customerName" binding:"required"`
	Email           string           `json:"email" binding:"required,email"`
	Phone           string           `json:"phone"`
	ShippingAddress string           `json:"shippingAddress" binding:"required"`
	PaymentMethod   string           `json:"paymentMethod"`
	PromoCode       string           `json:"promoCode"`
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder places an order. Prices are resolved from the catalog rather
// than trusted from the client, the total is computed server-side, and the
// order row, its items, the stock decrements and the promo usage increment
// all commit in one transaction or not at all.
func CreateOrder(ctx *gin.Context) {
	var input CreateOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		log.Printf("JSON binding error: %v", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	orderNumber, err := utils.GenerateOrderNumber()
	if err != nil {
		log.Println("Order number generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
		return
	}

	var order models.Order

	errDb := initializers.DB.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		items := make([]models.OrderItem, 0, len(input.Items))

		for _, line := range input.Items {
			var product models.Product
			if err := tx.First(&product, line.ProductId).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d is unavailable: %w", line.ProductId, ErrProductUnavailable)
				}
				return err
			}
			if product.Status == models.ProductStatusInactive {
				return fmt.Errorf("product %d is unavailable: %w", line.ProductId, ErrProductUnavailable)
			}

			items = append(items, models.OrderItem{
				ProductId: line.ProductId,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  line.Quantity,
			})
			subtotal += product.Price * float64(line.Quantity)
		}

		var discount float64
		var promo *models.PromoCode
		if input.PromoCode != "" {
			code := models.NormalizePromoCode(input.PromoCode)
			var p models.PromoCode
			if err := tx.Where("code = ?", code).First(&p).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrPromoExpired
				}
				return err
			}
			if err := p.Validate(subtotal); err != nil {
				return err
			}
			discount = p.DiscountFor(subtotal)
			promo = &p
		}

		order = models.Order{
			OrderNumber:     orderNumber,
			CustomerID:      input.CustomerID,
			CustomerName:    input.CustomerName,
			Email:           input.Email,
			Phone:           input.Phone,
			Subtotal:        subtotal,
			Discount:        discount,
			Total:           subtotal - discount,
			Status:          models.OrderStatusPending,
			ShippingAddress: input.ShippingAddress,
			PaymentMethod:   input.PaymentMethod,
		}
		if promo != nil {
			order.PromoCode = promo.Code
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = int(order.ID)
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		order.OrderItems = items

		// Conditional decrement so two concurrent orders cannot both drain
		// the same stock.
		for _, line := range input.Items {
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.ProductId, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("product %d: %w", line.ProductId, ErrInsufficientStock)
			}
		}

		if promo != nil {
			query := tx.Model(&models.PromoCode{}).Where("id = ?", promo.ID)
			if promo.UsageLimit != nil {
				query = query.Where("usage_count < ?", *promo.UsageLimit)
			}
			result := query.Update("usage_count", gorm.Expr("usage_count + 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return models.ErrPromoLimitExceeded
			}
		}

		return nil
	})

	if errDb != nil {
		switch {
		case errors.Is(errDb, ErrProductUnavailable),
			errors.Is(errDb, ErrInsufficientStock),
			errors.Is(errDb, models.ErrPromoExpired),
			errors.Is(errDb, models.ErrPromoLimitExceeded),
			errors.Is(errDb, models.ErrPromoBelowMinimum):
			sendErrorResponse(ctx, http.StatusBadRequest, errDb.Error())
		default:
			log.Println("Order creation error:", errDb)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
		}
		return
	}

	if err := sendOrderConfirmationEmail(order); err != nil {
		log.Println("Error sending order confirmation email:", err)
	}

	if err := utils.NotifyOrderCreated(utils.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Email:       order.Email,
		Total:       order.Total,
		Status:      order.Status,
	}); err != nil {
		log.Println("Order webhook error:", err)
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message":     "Order placed successfully.",
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"subtotal":    order.Subtotal,
		"discount":    order.Discount,
		"total":       order.Total,
	})
}

func sendOrderConfirmationEmail(order models.Order) error {
	emailData := utils.EmailData{
		Name:    order.CustomerName,
		Message: fmt.Sprintf("Thank you for your order %s. We will let you know once it ships.", order.OrderNumber),
	}
	templatePath := "templates/order_confirmation.html"
	return utils.SendEmail(order.Email, "Order Confirmation "+order.OrderNumber, emailData, templatePath)
}

func GetOrders(ctx *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 15
	}
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Preload("OrderItems")
	countQuery := initializers.DB.Model(&models.Order{})

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
		countQuery = countQuery.Where("status = ?", status)
	}
	if search := ctx.Query("search"); search != "" {
		query = query.Where("order_number LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
		countQuery = countQuery.Where("order_number LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	result := query.Order("created_at " + sortOrder).Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		log.Println("Error fetching orders:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}

	var count int64
	countQuery.Count(&count)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

// GetOrdersByCustomerId returns a customer's own order history. The token
// must belong to that customer; admins may look up anyone.
func GetOrdersByCustomerId(ctx *gin.Context) {
	userId, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse userId")
		return
	}

	userClaims, exists := ctx.Get("user")
	if !exists {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Invalid token claims")
		return
	}
	if role, _ := claims["role"].(string); role != "admin" {
		claimUserId, ok := claims["user_id"].(float64)
		if !ok || int(claimUserId) != userId {
			sendErrorResponse(ctx, http.StatusForbidden, "You can only view your own orders")
			return
		}
	}

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	var orders []models.Order
	result := initializers.DB.Preload("OrderItems").
		Where("customer_id = ?", userId).
		Order("created_at " + sortOrder).
		Find(&orders)
	if result.Error != nil {
		log.Println("Error fetching customer orders:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func GetOrderById(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var order models.Order
	result := initializers.DB.Preload("OrderItems").First(&order, orderId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Error fetching order:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order.")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus moves an order along the Pending -> Processing ->
// Shipped -> Delivered flow. Delivered orders cannot change state.
func UpdateOrderStatus(ctx *gin.Context) {
	var orderStatusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&orderStatusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	if !models.IsValidOrderStatus(orderStatusData.Status) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Unknown order status")
		return
	}

	var order models.Order
	if result := initializers.DB.First(&order, orderId); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Error fetching order:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		}
		return
	}

	if !models.CanTransitionOrderStatus(order.Status, orderStatusData.Status) {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid status transition")
		return
	}

	if result := initializers.DB.Model(&order).Update("status", orderStatusData.Status); result.Error != nil {
		log.Println("Error updating order status:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully."})
}

// CancelOrder soft-cancels an order. The row is kept; only the status flips.
func CancelOrder(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id.")
		return
	}

	var order models.Order
	if result := initializers.DB.First(&order, orderId); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Error fetching order:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to cancel order.")
		}
		return
	}

	if !models.CanTransitionOrderStatus(order.Status, models.OrderStatusCancelled) {
		sendErrorResponse(ctx, http.StatusBadRequest, "invalid status transition")
		return
	}

	if result := initializers.DB.Model(&order).Update("status", models.OrderStatusCancelled); result.Error != nil {
		log.Println("Error cancelling order:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to cancel order.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order cancelled successfully."})
}

// GetOrderStats backs the admin dashboard counters.
func GetOrderStats(ctx *gin.Context) {
	var orderCount, productCount, customerCount, undelivered int64
	var revenue float64

	db := initializers.DB
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		log.Println("Error counting orders:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	db.Model(&models.Product{}).Where("status = ?", models.ProductStatusActive).Count(&productCount)
	db.Model(&models.Customer{}).Count(&customerCount)
	db.Model(&models.Order{}).
		Where("status NOT IN ?", []string{models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Count(&undelivered)
	db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue)

	ctx.JSON(http.StatusOK, gin.H{
		"orderCount":            orderCount,
		"productCount":          productCount,
		"customerCount":         customerCount,
		"undeliveredOrderCount": undelivered,
		"totalRevenue":          revenue,
	})
}
