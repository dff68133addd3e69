package models

import "gorm.io/gorm"

// Order states
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// orderStatusFlow lists the states reachable from each state. Delivered and
// Cancelled are terminal.
var orderStatusFlow = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// IsValidOrderStatus reports whether status is one of the known order states.
func IsValidOrderStatus(status string) bool {
	_, ok := orderStatusFlow[status]
	return ok
}

// CanTransitionOrderStatus reports whether an order may move from one state
// to another.
func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusFlow[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	gorm.Model
	OrderNumber     string      `json:"orderNumber" gorm:"uniqueIndex;size:32"`
	CustomerID      *int        `json:"customerId,omitempty"`
	CustomerName    string      `json:"customerName"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	Subtotal        float64     `json:"subtotal"`
	Discount        float64     `json:"discount"`
	Total           float64     `json:"total"`
	PromoCode       string      `json:"promoCode,omitempty"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	OrderItems      []OrderItem `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem snapshots the product name and unit price at order time so later
// catalog edits do not rewrite order history.
type OrderItem struct {
	gorm.Model
	OrderID   int     `json:"orderId"`
	ProductId int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
