// Package catalog is the in-memory product listing with its filters,
// sort orders and storefront sections.
package catalog

import (
	"iter"
	"slices"
	"strings"

	"cosmetics-storefront/models"
)

// SortKey orders a filtered listing
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
)

// ParseSortKey maps unknown keys to SortDefault
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceAsc, SortPriceDesc, SortRating:
		return k
	}
	return SortDefault
}

// Query selects products. Empty fields do not filter.
type Query struct {
	Category string
	Brand    string
	Search   string
	Sort     SortKey
}

// Index is an immutable product listing
type Index struct {
	products   []models.Product
	byID       map[string]int
	categories []models.Category
	brands     []string
	sections   Sections
}

// NewIndex builds an index over products. When brands is empty the
// brands are collected from the products in order of appearance.
func NewIndex(products []models.Product, categories []models.Category, brands []string) *Index {
	ix := &Index{
		products:   slices.Clone(products),
		byID:       make(map[string]int, len(products)),
		categories: slices.Clone(categories),
		brands:     slices.Clone(brands),
	}
	for i, p := range ix.products {
		ix.byID[p.ID] = i
	}
	if len(ix.brands) == 0 {
		for _, p := range ix.products {
			if p.Brand != "" && !slices.Contains(ix.brands, p.Brand) {
				ix.brands = append(ix.brands, p.Brand)
			}
		}
	}
	ix.sections = classify(ix.products)
	return ix
}

// Get returns the product with the given id
func (ix *Index) Get(id string) (models.Product, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return ix.products[i], true
}

// Len is the number of products
func (ix *Index) Len() int { return len(ix.products) }

func (ix *Index) Categories() []models.Category { return slices.Clone(ix.categories) }

func (ix *Index) Brands() []string { return slices.Clone(ix.brands) }

// Sections returns the storefront sections computed when the index was built
func (ix *Index) Sections() Sections { return ix.sections }

// Matches reports whether p satisfies every filter of q
func (q Query) Matches(p models.Product) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Brand != "" && p.Brand != q.Brand {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Brand), needle) {
			return false
		}
	}
	return true
}

// Filter returns the products matching q in q.Sort order. The sequence
// can be ranged over any number of times; each range re-runs the query.
// With the default order it is evaluated lazily.
func (ix *Index) Filter(q Query) iter.Seq[models.Product] {
	matching := func(yield func(models.Product) bool) {
		for _, p := range ix.products {
			if q.Matches(p) && !yield(p) {
				return
			}
		}
	}
	cmp := compareFor(q.Sort)
	if cmp == nil {
		return matching
	}
	return func(yield func(models.Product) bool) {
		for _, p := range slices.SortedStableFunc(matching, cmp) {
			if !yield(p) {
				return
			}
		}
	}
}

// List collects Filter(q)
func (ix *Index) List(q Query) []models.Product {
	return slices.Collect(ix.Filter(q))
}

func compareFor(key SortKey) func(a, b models.Product) int {
	switch key {
	case SortPriceAsc:
		return func(a, b models.Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceDesc:
		return func(a, b models.Product) int { return b.Price.Cmp(a.Price) }
	case SortRating:
		return func(a, b models.Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		}
	}
	return nil
}
