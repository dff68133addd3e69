package models

import "gorm.io/gorm"

type AdminUser struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;size:64"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

type AdminLoginData struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
