package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is managed by admins after the order is placed
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Contact holds the checkout form fields
type Contact struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	PostOffice string `json:"post_office"`
}

// OrderItem is a copy of a cart line taken at checkout. It does not
// follow later catalog edits.
type OrderItem struct {
	ProductID string          `bson:"product_id" json:"product_id"`
	Name      string          `bson:"name" json:"name"`
	Price     decimal.Decimal `bson:"price" json:"price"`
	Quantity  int             `bson:"quantity" json:"quantity"`
}

// Order represents a placed order
type Order struct {
	ID              string          `bson:"_id" json:"id"`
	UserID          string          `bson:"user_id" json:"user_id"`
	CustomerName    string          `bson:"customer_name" json:"customer_name"`
	CustomerPhone   string          `bson:"customer_phone" json:"customer_phone"`
	CustomerEmail   string          `bson:"customer_email,omitempty" json:"customer_email,omitempty"`
	DeliveryAddress string          `bson:"delivery_address" json:"delivery_address"`
	DeliveryMethod  DeliveryMethod  `bson:"delivery_method" json:"delivery_method"`
	PaymentMethod   PaymentMethod   `bson:"payment_method" json:"payment_method"`
	Items           []OrderItem     `bson:"items" json:"items"`
	Subtotal        decimal.Decimal `bson:"subtotal" json:"subtotal"`
	DeliveryFee     decimal.Decimal `bson:"delivery_fee" json:"delivery_fee"`
	Discount        decimal.Decimal `bson:"discount" json:"discount"`
	Total           decimal.Decimal `bson:"total" json:"total"`
	PointsRedeemed  int64           `bson:"points_redeemed" json:"points_redeemed"`
	PointsEarned    int64           `bson:"points_earned" json:"points_earned"`
	LoyaltySettled  bool            `bson:"loyalty_settled" json:"loyalty_settled"`
	Status          OrderStatus     `bson:"status" json:"status"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
}
