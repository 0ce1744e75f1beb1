package checkout

import (
	"strings"

	"cosmetics-storefront/models"
)

const (
	maxNameLen    = 200
	maxPhoneLen   = 50
	maxEmailLen   = 255
	maxAddressLen = 500

	postalPrefix = "Europost: "
)

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// normalize trims the contact fields and cuts them to their stored length
func normalize(c models.Contact) models.Contact {
	return models.Contact{
		Name:       truncate(c.Name, maxNameLen),
		Phone:      truncate(c.Phone, maxPhoneLen),
		Email:      truncate(c.Email, maxEmailLen),
		Address:    strings.TrimSpace(c.Address),
		PostOffice: strings.TrimSpace(c.PostOffice),
	}
}

// Validate checks the fields required for a delivery method. Courier
// needs a street address, postal needs a post office, pickup neither.
func Validate(c models.Contact, method models.DeliveryMethod, payment models.PaymentMethod) error {
	c = normalize(c)
	verr := &ValidationError{}
	if c.Name == "" {
		verr.add("name", "required")
	}
	if c.Phone == "" {
		verr.add("phone", "required")
	}
	switch method {
	case models.DeliveryCourier:
		if c.Address == "" {
			verr.add("address", "required for courier delivery")
		}
	case models.DeliveryPostal:
		if c.PostOffice == "" {
			verr.add("post_office", "required for postal delivery")
		}
	case models.DeliveryPickup:
	default:
		verr.add("delivery_method", "unknown delivery method")
	}
	if _, ok := models.ParsePaymentMethod(string(payment)); !ok {
		verr.add("payment_method", "unknown payment method")
	}
	return verr.orNil()
}

// deliveryAddress derives the stored address from the delivery method
func deliveryAddress(c models.Contact, method models.DeliveryMethod, pickupAddress string) string {
	var addr string
	switch method {
	case models.DeliveryCourier:
		addr = c.Address
	case models.DeliveryPostal:
		addr = postalPrefix + c.PostOffice
	default:
		addr = pickupAddress
	}
	return truncate(addr, maxAddressLen)
}
