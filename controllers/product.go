package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cosmetics-storefront/catalog"
	"cosmetics-storefront/models"
	"cosmetics-storefront/pricing"
	"cosmetics-storefront/store"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const maxImageSize = 10 << 20

// ProductController serves the catalog and the admin product editor
type ProductController struct {
	records   Records
	live      *catalog.Live
	uploadDir string
}

// NewProductController serves live and writes product edits to records
func NewProductController(records Records, live *catalog.Live, uploadDir string) *ProductController {
	return &ProductController{records: records, live: live, uploadDir: uploadDir}
}

// productView adds the badge percentage shown on product cards
type productView struct {
	models.Product
	DiscountPercent int64 `json:"discount_percent,omitempty"`
}

func viewOf(p models.Product) productView {
	return productView{Product: p, DiscountPercent: pricing.DiscountPercent(p.Price, p.OldPrice)}
}

func viewsOf(products []models.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, viewOf(p))
	}
	return views
}

// Reload rebuilds the served index from the products collection. An
// empty collection is filled with the seed catalog.
func (pc *ProductController) Reload(ctx context.Context) error {
	var products []models.Product
	if err := pc.records.Read(ctx, store.ProductsCollection, nil, &products); err != nil {
		return err
	}
	if len(products) == 0 {
		for _, p := range catalog.SeedProducts {
			if _, err := pc.records.Create(ctx, store.ProductsCollection, p); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
		}
		products = catalog.SeedProducts
		log.Info().Int("products", len(products)).Msg("seeded product catalog")
	}
	pc.live.Swap(catalog.NewIndex(products, catalog.SeedCategories, nil))
	return nil
}

func (pc *ProductController) reloadAfterEdit(ctx context.Context) {
	if err := pc.Reload(ctx); err != nil {
		log.Error().Err(err).Msg("failed to reload catalog")
	}
}

// GetProducts lists products filtered by cat, brand and q, ordered by sort
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	products := pc.live.Index().List(catalog.Query{
		Category: qs.Get("cat"),
		Brand:    qs.Get("brand"),
		Search:   strings.TrimSpace(qs.Get("q")),
		Sort:     catalog.ParseSortKey(qs.Get("sort")),
	})
	writeJSON(w, http.StatusOK, viewsOf(products))
}

// GetSections returns the featured, new and professional product groups
func (pc *ProductController) GetSections(w http.ResponseWriter, r *http.Request) {
	s := pc.live.Index().Sections()
	writeJSON(w, http.StatusOK, map[string][]productView{
		"featured":     viewsOf(s.Featured),
		"new":          viewsOf(s.New),
		"professional": viewsOf(s.Professional),
	})
}

// GetCategories returns the categories and brands used by the filters
func (pc *ProductController) GetCategories(w http.ResponseWriter, r *http.Request) {
	ix := pc.live.Index()
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": ix.Categories(),
		"brands":     ix.Brands(),
	})
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	p, ok := pc.live.Index().Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(p))
}

func validateProduct(p models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if !p.Price.IsPositive() {
		return errors.New("price must be positive")
	}
	if p.OldPrice != nil && p.OldPrice.LessThanOrEqual(p.Price) {
		return errors.New("old price must be above price")
	}
	return nil
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if err := validateProduct(product); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if _, err := pc.records.Create(ctx, store.ProductsCollection, product); err != nil {
		log.Error().Err(err).Msg("failed to create product")
		http.Error(w, "Error creating product", http.StatusInternalServerError)
		return
	}
	pc.reloadAfterEdit(ctx)

	writeJSON(w, http.StatusCreated, viewOf(product))
}

// UpdateProduct replaces the editable fields of a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if err := validateProduct(product); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	product.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err := pc.records.Update(ctx, store.ProductsCollection, id, map[string]any{
		"name":        product.Name,
		"brand":       product.Brand,
		"category":    product.Category,
		"price":       product.Price,
		"old_price":   product.OldPrice,
		"description": product.Description,
		"image":       product.Image,
		"rating":      product.Rating,
		"in_stock":    product.InStock,
		"volume":      product.Volume,
		"tags":        product.Tags,
	})
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		http.Error(w, "Error updating product", http.StatusInternalServerError)
		return
	}
	pc.reloadAfterEdit(ctx)

	writeJSON(w, http.StatusOK, viewOf(product))
}

// DeleteProduct handles deleting a product (Admin only). Carts and
// orders holding the product keep their copy.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err := pc.records.Delete(ctx, store.ProductsCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		http.Error(w, "Error deleting product", http.StatusInternalServerError)
		return
	}
	pc.reloadAfterEdit(ctx)

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage stores a product photo under the upload directory and
// points the product at it (Admin only)
func (pc *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := pc.live.Index().Get(id); !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		http.Error(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}
	file, handler, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Failed to retrieve file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		http.Error(w, "Unsupported image type", http.StatusBadRequest)
		return
	}

	dir := filepath.Join(pc.uploadDir, "products")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		http.Error(w, "Failed to create upload directory", http.StatusInternalServerError)
		return
	}
	filename := fmt.Sprintf("%s_%s%s", id, uuid.NewString()[:8], ext)
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		http.Error(w, "Failed to create file on server", http.StatusInternalServerError)
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	image := "/uploads/products/" + filename
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := pc.records.Update(ctx, store.ProductsCollection, id, map[string]any{"image": image}); err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("failed to update product image")
		http.Error(w, "Failed to update product image", http.StatusInternalServerError)
		return
	}
	pc.reloadAfterEdit(ctx)

	writeJSON(w, http.StatusOK, map[string]string{"image": image})
}
