package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"

	PromoStatusActive  = "active"
	PromoStatusExpired = "expired"
)

var (
	ErrPromoExpired       = errors.New("invalid or expired promo code")
	ErrPromoLimitExceeded = errors.New("promo code usage limit exceeded")
	ErrPromoBelowMinimum  = errors.New("order total is below the promo code minimum")
)

type PromoCode struct {
	gorm.Model
	Code          string     `json:"code" binding:"required" gorm:"uniqueIndex;size:32"`
	DiscountType  string     `json:"discountType" binding:"required"`
	DiscountValue float64    `json:"discountValue" binding:"required"`
	MaxDiscount   *float64   `json:"maxDiscount,omitempty"`
	MinPurchase   *float64   `json:"minPurchase,omitempty"`
	UsageLimit    *int       `json:"usageLimit,omitempty"`
	UsageCount    int        `json:"usageCount"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	Status        string     `json:"status"`
	Description   string     `json:"description"`
}

// NormalizePromoCode upper-cases and trims a client-supplied code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks whether the promo code may be applied to the given
// subtotal. It does not touch the usage count; only order placement does.
func (p *PromoCode) Validate(subtotal float64) error {
	if p.Status != PromoStatusActive {
		return ErrPromoExpired
	}
	if p.ExpiryDate != nil && p.ExpiryDate.Before(time.Now()) {
		return ErrPromoExpired
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return ErrPromoLimitExceeded
	}
	if p.MinPurchase != nil && subtotal < *p.MinPurchase {
		return ErrPromoBelowMinimum
	}
	return nil
}

// DiscountFor computes the discount amount for a subtotal. Percentage
// discounts honor the max-discount cap; the result never exceeds the
// subtotal so totals cannot go negative.
func (p *PromoCode) DiscountFor(subtotal float64) float64 {
	var discount float64
	switch p.DiscountType {
	case DiscountTypePercentage:
		discount = subtotal * p.DiscountValue / 100
		if p.MaxDiscount != nil && discount > *p.MaxDiscount {
			discount = *p.MaxDiscount
		}
	case DiscountTypeFixed:
		discount = p.DiscountValue
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
