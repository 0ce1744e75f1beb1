package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DeliveryMethod is how an order reaches the customer
type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPostal  DeliveryMethod = "postal"
	DeliveryPickup  DeliveryMethod = "pickup"
)

// DeliveryOption describes a delivery method for display
type DeliveryOption struct {
	Method      DeliveryMethod  `json:"id"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Fee         decimal.Decimal `json:"fee"`
}

// ParseDeliveryMethod accepts the method ids, including the legacy "europost" id for postal
func ParseDeliveryMethod(s string) (DeliveryMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "courier":
		return DeliveryCourier, true
	case "postal", "europost":
		return DeliveryPostal, true
	case "pickup":
		return DeliveryPickup, true
	}
	return "", false
}

// PaymentMethod is purely descriptive; it does not affect pricing
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentCard           PaymentMethod = "card"
	PaymentERIP           PaymentMethod = "erip"
	PaymentOnline         PaymentMethod = "online"
)

// PaymentOption describes a payment method for display
type PaymentOption struct {
	Method      PaymentMethod `json:"id"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
}

// PaymentOptions lists the accepted payment methods in display order
var PaymentOptions = []PaymentOption{
	{PaymentCashOnDelivery, "Cash on delivery", "Pay when you receive the order"},
	{PaymentCard, "Bank card", "Visa, Mastercard"},
	{PaymentERIP, "ERIP", "Settlement system \"Raschet\""},
	{PaymentOnline, "Online payment", "Fast online checkout"},
}

// ParsePaymentMethod validates a payment method id
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, o := range PaymentOptions {
		if o.Method == m {
			return m, true
		}
	}
	return "", false
}
