package catalog

import (
	"slices"

	"cosmetics-storefront/models"
)

const (
	TagHit     = "хит"
	TagPremium = "премиум"
	TagNew     = "новинка"
)

const (
	featuredLimit     = 4
	professionalLimit = 8
)

var professionalCategories = []string{"styling", "beard", "shampoo"}

// Sections are the product groups shown on the landing and barber pages
type Sections struct {
	Featured     []models.Product `json:"featured"`
	New          []models.Product `json:"new"`
	Professional []models.Product `json:"professional"`
}

func classify(products []models.Product) Sections {
	var s Sections
	for _, p := range products {
		if len(s.Featured) < featuredLimit && (p.HasTag(TagHit) || p.HasTag(TagPremium)) {
			s.Featured = append(s.Featured, p)
		}
		if p.HasTag(TagNew) {
			s.New = append(s.New, p)
		}
		if len(s.Professional) < professionalLimit && slices.Contains(professionalCategories, p.Category) {
			s.Professional = append(s.Professional, p)
		}
	}
	return s
}
