package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/alhurwear/alhurwear-api/initializers"
	"github.com/alhurwear/alhurwear-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ValidatePromoCode checks a code against the promo rules and returns its
// discount parameters. It never increments the usage count; only order
// placement does, so repeated validation calls cannot burn the limit.
func ValidatePromoCode(ctx *gin.Context) {
	code := ctx.Query("code")
	if code == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Missing promo code")
		return
	}

	subtotal, err := strconv.ParseFloat(ctx.DefaultQuery("subtotal", "0"), 64)
	if err != nil || subtotal < 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid subtotal")
		return
	}

	var promo models.PromoCode
	result := initializers.DB.Where("code = ?", models.NormalizePromoCode(code)).First(&promo)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, models.ErrPromoExpired.Error())
		} else {
			log.Println("Error fetching promo code:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to validate promo code")
		}
		return
	}

	if err := promo.Validate(subtotal); err != nil {
		switch {
		case errors.Is(err, models.ErrPromoExpired):
			sendErrorResponse(ctx, http.StatusNotFound, err.Error())
		default:
			sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"code":          promo.Code,
		"discountType":  promo.DiscountType,
		"discountValue": promo.DiscountValue,
		"maxDiscount":   promo.MaxDiscount,
		"minPurchase":   promo.MinPurchase,
		"discount":      promo.DiscountFor(subtotal),
	})
}

func GetPromoCodes(ctx *gin.Context) {
	var promos []models.PromoCode
	result := initializers.DB.Order("created_at DESC").Find(&promos)
	if result.Error != nil {
		log.Println("Error fetching promo codes:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch promo codes")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"promoCodes": promos})
}

func CreatePromoCode(ctx *gin.Context) {
	var promo models.PromoCode
	if err := ctx.ShouldBindJSON(&promo); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if promo.DiscountType != models.DiscountTypePercentage && promo.DiscountType != models.DiscountTypeFixed {
		sendErrorResponse(ctx, http.StatusBadRequest, "discountType must be percentage or fixed")
		return
	}
	if promo.DiscountValue <= 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "discountValue must be positive")
		return
	}

	promo.Code = models.NormalizePromoCode(promo.Code)
	promo.UsageCount = 0
	if promo.Status == "" {
		promo.Status = models.PromoStatusActive
	}

	var existing models.PromoCode
	result := initializers.DB.Where("code = ?", promo.Code).Find(&existing)
	if result.Error != nil {
		log.Println("Error checking promo code:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if result.RowsAffected > 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Promo code already exists")
		return
	}

	if result := initializers.DB.Create(&promo); result.Error != nil {
		log.Println("Error creating promo code:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create promo code")
		return
	}

	ctx.JSON(http.StatusCreated, promo)
}

func UpdatePromoCode(ctx *gin.Context) {
	promoId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid promo code ID")
		return
	}

	var promo models.PromoCode
	if result := initializers.DB.First(&promo, promoId); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Promo code not found")
		} else {
			log.Println("Error fetching promo code:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	var update struct {
		DiscountValue *float64 `json:"discountValue"`
		MaxDiscount   *float64 `json:"maxDiscount"`
		MinPurchase   *float64 `json:"minPurchase"`
		UsageLimit    *int     `json:"usageLimit"`
		Status        *string  `json:"status"`
		Description   *string  `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&update); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	updates := map[string]any{}
	if update.DiscountValue != nil {
		updates["discount_value"] = *update.DiscountValue
	}
	if update.MaxDiscount != nil {
		updates["max_discount"] = *update.MaxDiscount
	}
	if update.MinPurchase != nil {
		updates["min_purchase"] = *update.MinPurchase
	}
	if update.UsageLimit != nil {
		updates["usage_limit"] = *update.UsageLimit
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}

	if len(updates) > 0 {
		if result := initializers.DB.Model(&promo).Updates(updates); result.Error != nil {
			log.Println("Error updating promo code:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update promo code")
			return
		}
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Promo code updated successfully", "id": promo.ID})
}

func DeletePromoCode(ctx *gin.Context) {
	promoId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid promo code ID")
		return
	}

	result := initializers.DB.Delete(&models.PromoCode{}, promoId)
	if result.Error != nil {
		log.Println("Error deleting promo code:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete promo code")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Promo code not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Promo code deleted successfully"})
}
