package routes

import (
	"github.com/alhurwear/alhurwear-api/controllers"
	"github.com/alhurwear/alhurwear-api/middlewares"
	"github.com/gin-gonic/gin"
)

func PromoRoutes(server *gin.Engine) {
	server.GET("/promo-code", controllers.ValidatePromoCode)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/promo-codes", controllers.GetPromoCodes)
		admin.POST("/promo-code", controllers.CreatePromoCode)
		admin.PUT("/promo-code/:id", controllers.UpdatePromoCode)
		admin.DELETE("/promo-code/:id", controllers.DeletePromoCode)
	}
}
