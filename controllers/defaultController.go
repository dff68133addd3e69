package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Alhurwear API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create customer account
- POST "/auth/login" - Customer login
- POST "/auth/admin/login" - Admin login
- POST "/auth/forgot-password" - Request password reset
- POST "/auth/reset-password/:resetToken" - Reset customer password

PRODUCT
- GET "/product" - Browse the catalog (category, search, page, limit)
- GET "/product/:id" - Get product by ID
- POST "/product" - Create new product (admin)
- PUT "/product/:id" - Update product (admin)
- DELETE "/product/:id" - Retire product (admin)
- POST "/product-images" - Upload product images (admin)

ORDER
- POST "/order" - Place an order
- GET "/order" - Retrieve all orders (admin)
- GET "/order-stats" - Dashboard counters (admin)
- GET "/order/:orderId" - Get order by ID
- GET "/user/:userId/orders" - Get orders for a specific customer
- PATCH "/order/:orderId" - Update order status (admin)
- DELETE "/order/:orderId" - Cancel order (admin)

PROMO CODE
- GET "/promo-code?code=&subtotal=" - Validate a promo code
- GET "/promo-codes" - List promo codes (admin)
- POST "/promo-code" - Create promo code (admin)
- PUT "/promo-code/:id" - Update promo code (admin)
- DELETE "/promo-code/:id" - Delete promo code (admin)

CUSTOMER
- GET "/customer" - List customers (admin)
- GET "/customer/:id" - Customer detail with order history (admin)
- PUT "/customer/:id" - Update customer (admin)
- DELETE "/customer/:id" - Delete customer (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
