package routes

import (
	"github.com/alhurwear/alhurwear-api/controllers"
	"github.com/alhurwear/alhurwear-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CustomerRoutes(server *gin.Engine) {
	admin := server.Group("/customer", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("", controllers.GetCustomers)
		admin.GET("/:id", controllers.GetCustomerById)
		admin.PUT("/:id", controllers.UpdateCustomer)
		admin.DELETE("/:id", controllers.DeleteCustomer)
	}
}
