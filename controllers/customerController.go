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

// customerAggregates selects customer rows with their order aggregates. The
// totals are always computed here, never stored on the customer.
func customerAggregates(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Customer{}).
		Select("customers.*, " +
			"COUNT(orders.id) AS total_orders, " +
			"COALESCE(SUM(orders.total), 0) AS total_spent, " +
			"MAX(orders.created_at) AS last_order_date").
		Joins("LEFT JOIN orders ON orders.customer_id = customers.id").
		Group("customers.id")
}

func GetCustomers(ctx *gin.Context) {
	var customers []models.CustomerSummary

	query := customerAggregates(initializers.DB)
	if search := ctx.Query("search"); search != "" {
		query = query.Where("customers.name LIKE ? OR customers.email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Order("customers.created_at DESC").Scan(&customers).Error; err != nil {
		log.Println("Error fetching customers:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"customers": customers})
}

func GetCustomerById(ctx *gin.Context) {
	customerId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	var customer models.CustomerSummary
	result := customerAggregates(initializers.DB).
		Where("customers.id = ?", customerId).
		Scan(&customer)
	if result.Error != nil {
		log.Println("Error fetching customer:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch customer")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Customer not found")
		return
	}

	var orders []models.Order
	if err := initializers.DB.
		Where("customer_id = ?", customerId).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		log.Println("Error fetching customer orders:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch customer")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"customer": customer,
		"orders":   orders,
	})
}

func UpdateCustomer(ctx *gin.Context) {
	customerId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	var customer models.Customer
	if result := initializers.DB.First(&customer, customerId); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Customer not found")
		} else {
			log.Println("Error fetching customer:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	var update struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := ctx.ShouldBindJSON(&update); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if update.Email != nil && *update.Email != customer.Email {
		var existing models.Customer
		result := initializers.DB.Where("email = ? AND id != ?", *update.Email, customerId).Find(&existing)
		if result.Error != nil {
			log.Println("Error checking email:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		if result.RowsAffected > 0 {
			sendErrorResponse(ctx, http.StatusBadRequest, "Email already exists")
			return
		}
	}

	updates := map[string]any{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.Address != nil {
		updates["address"] = *update.Address
	}

	if len(updates) > 0 {
		if result := initializers.DB.Model(&customer).Updates(updates); result.Error != nil {
			log.Println("Error updating customer:", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update customer")
			return
		}
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Customer updated successfully", "id": customer.ID})
}

// DeleteCustomer removes the account. Orders keep their captured contact
// snapshot, so history survives the delete.
func DeleteCustomer(ctx *gin.Context) {
	customerId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	result := initializers.DB.Delete(&models.Customer{}, customerId)
	if result.Error != nil {
		log.Println("Error deleting customer:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Customer not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
