package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"cosmetics-storefront/cart"
	"cosmetics-storefront/catalog"
	"cosmetics-storefront/middleware"
	"cosmetics-storefront/pricing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// CartController handles the cart of the browsing session
type CartController struct {
	sessions *cart.Sessions
	live     *catalog.Live
	tiers    pricing.TierTable
}

// NewCartController creates a new CartController
func NewCartController(sessions *cart.Sessions, live *catalog.Live, tiers pricing.TierTable) *CartController {
	return &CartController{sessions: sessions, live: live, tiers: tiers}
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// update applies fn to the session cart and writes the new snapshot
func (cc *CartController) update(w http.ResponseWriter, r *http.Request, fn func(*cart.Store)) (cart.Snapshot, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	sid := middleware.CartSessionID(r.Context())
	snap, err := cc.sessions.Update(ctx, sid, fn)
	if err != nil {
		log.Error().Err(err).Str("cart_session", sid).Msg("failed to update cart")
		http.Error(w, "Cart unavailable", http.StatusBadGateway)
		return cart.Snapshot{}, false
	}
	return snap, true
}

// GetCart returns the session cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	store, err := cc.sessions.Open(ctx, middleware.CartSessionID(r.Context()))
	if err != nil {
		log.Error().Err(err).Msg("failed to load cart")
		http.Error(w, "Cart unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, store.Snapshot())
}

func (cc *CartController) decodeItem(w http.ResponseWriter, r *http.Request) (cartItemRequest, bool) {
	var item cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return item, false
	}
	return item, true
}

// AddToCart adds units of a product. A missing quantity adds one.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	item, ok := cc.decodeItem(w, r)
	if !ok {
		return
	}
	product, found := cc.live.Index().Get(item.ProductID)
	if !found {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if !product.InStock {
		http.Error(w, "Product is out of stock", http.StatusConflict)
		return
	}
	snap, ok := cc.update(w, r, func(s *cart.Store) { s.AddN(product, item.Quantity) })
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// UpdateQuantity sets the quantity of a line; zero or less removes it
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	item, ok := cc.decodeItem(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["product_id"]
	snap, ok := cc.update(w, r, func(s *cart.Store) { s.SetQuantity(id, item.Quantity) })
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// RemoveFromCart drops a line
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["product_id"]
	snap, ok := cc.update(w, r, func(s *cart.Store) { s.Remove(id) })
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ClearCart empties the cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	snap, ok := cc.update(w, r, func(s *cart.Store) { s.Clear() })
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// AddBulk adds a wholesale quantity from the barber page. The cart keeps
// the regular price; the response carries the tier quote for display.
func (cc *CartController) AddBulk(w http.ResponseWriter, r *http.Request) {
	item, ok := cc.decodeItem(w, r)
	if !ok {
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	product, found := cc.live.Index().Get(item.ProductID)
	if !found {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if !product.InStock {
		http.Error(w, "Product is out of stock", http.StatusConflict)
		return
	}
	snap, ok := cc.update(w, r, func(s *cart.Store) { s.AddN(product, item.Quantity) })
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cart":      snap,
		"wholesale": cc.tiers.Quote(product.Price, item.Quantity),
	})
}

// GetTiers lists the wholesale tiers
func (cc *CartController) GetTiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cc.tiers)
}

// GetWholesaleQuote prices a quantity of one product at its tier
func (cc *CartController) GetWholesaleQuote(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	product, found := cc.live.Index().Get(qs.Get("product_id"))
	if !found {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	quantity := atoiOr(qs.Get("quantity"), 1)
	if quantity < 1 {
		quantity = 1
	}
	writeJSON(w, http.StatusOK, cc.tiers.Quote(product.Price, quantity))
}
