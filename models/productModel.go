package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"

	CategoryClothes    = "clothes"
	CategorySunglasses = "sunglasses"
)

type ProductImage struct {
	gorm.Model
	Url       string `json:"url" binding:"required"`
	Position  int    `json:"position"`
	ProductID int    `json:"productId" binding:"required"`
}

type Product struct {
	gorm.Model
	Name          string         `json:"name" binding:"required"`
	Category      string         `json:"category" binding:"required"`
	Price         float64        `json:"price" binding:"required"`
	OriginalPrice *float64       `json:"originalPrice,omitempty"`
	Description   string         `json:"description"`
	Stock         int            `json:"stock"`
	Colors        datatypes.JSON `json:"colors"`
	Status        string         `json:"status"`
	Images        []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
