package routes

import (
	"github.com/alhurwear/alhurwear-api/controllers"
	"github.com/alhurwear/alhurwear-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	server.POST("/order", controllers.CreateOrder)
	server.GET("/user/:userId/orders", middlewares.RequireAuth(), controllers.GetOrdersByCustomerId)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/order", controllers.GetOrders)
		admin.GET("/order-stats", controllers.GetOrderStats)
		admin.GET("/order/:orderId", controllers.GetOrderById)
		admin.PATCH("/order/:orderId", controllers.UpdateOrderStatus)
		admin.DELETE("/order/:orderId", controllers.CancelOrder)
	}
}
