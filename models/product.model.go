package models

import (
	"github.com/shopspring/decimal"
)

// Category is a catalog section
type Category struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
	Icon string `bson:"icon" json:"icon"`
}

// Product represents an item of the catalog
type Product struct {
	ID          string           `bson:"_id,omitempty" json:"id"`
	Name        string           `bson:"name" json:"name"`
	Brand       string           `bson:"brand" json:"brand"`
	Category    string           `bson:"category" json:"category"`
	Price       decimal.Decimal  `bson:"price" json:"price"`
	OldPrice    *decimal.Decimal `bson:"old_price,omitempty" json:"old_price,omitempty"`
	Description string           `bson:"description" json:"description"`
	Image       string           `bson:"image" json:"image"`
	Rating      float64          `bson:"rating" json:"rating"`
	InStock     bool             `bson:"in_stock" json:"in_stock"`
	Volume      string           `bson:"volume,omitempty" json:"volume,omitempty"`
	Tags        []string         `bson:"tags,omitempty" json:"tags,omitempty"`
}

// HasTag reports whether the product carries the given tag
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CartLine is a product together with the quantity put in the cart.
// Quantity is always at least 1.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Total returns unit price × quantity
func (l CartLine) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
