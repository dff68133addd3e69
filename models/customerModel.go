package models

import (
	"time"

	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model
	Name               string `json:"name"`
	Email              string `json:"email" gorm:"uniqueIndex;size:191"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	Password           string `json:"-"`
	PasswordResetToken string `json:"-"`
}

// CustomerSummary carries a customer row with its order aggregates, computed
// by join rather than stored.
type CustomerSummary struct {
	Customer
	TotalOrders   int        `json:"totalOrders"`
	TotalSpent    float64    `json:"totalSpent"`
	LastOrderDate *time.Time `json:"lastOrderDate,omitempty"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
