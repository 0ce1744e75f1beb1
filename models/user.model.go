package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user in the system
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password,omitempty" json:"-"`
	Phone             string             `bson:"phone" json:"phone"`
	Address           string             `bson:"address" json:"address"`
	Role              string             `bson:"role" json:"role"` // "user" or "admin"
	IsVerified        bool               `bson:"is_verified" json:"is_verified"`
	VerificationToken string             `bson:"verification_token" json:"-"`
	LoyaltyPoints     int64              `bson:"loyalty_points" json:"loyalty_points"`
	SettledOrders     []string           `bson:"settled_orders,omitempty" json:"-"` // last store.SettledOrdersKept ids
}

// Session identifies the signed-in customer of a request
type Session struct {
	UserID string
	Email  string
	Role   string
}
