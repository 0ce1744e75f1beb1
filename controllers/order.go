package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"cosmetics-storefront/cart"
	"cosmetics-storefront/checkout"
	"cosmetics-storefront/middleware"
	"cosmetics-storefront/models"
	"cosmetics-storefront/pricing"
	"cosmetics-storefront/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// StatusNotifier is told when an admin moves an order to a new status
type StatusNotifier interface {
	OrderStatusChanged(order models.Order) error
}

// OrderController handles checkout and order history
type OrderController struct {
	records       Records
	sessions      *cart.Sessions
	checkout      *checkout.Service
	notifier      StatusNotifier
	submitTimeout time.Duration

	mu       sync.Mutex
	inflight map[string]*submission
}

// submission is the checkout running for one cart session. A second
// POST for the same session joins it instead of ordering the cart again.
type submission struct {
	userID string
	ready  chan struct{} // closed once task or err is set
	task   *checkout.Task
	err    error
}

// NewOrderController creates a new OrderController
func NewOrderController(records Records, sessions *cart.Sessions, svc *checkout.Service, notifier StatusNotifier, submitTimeout time.Duration) *OrderController {
	return &OrderController{
		records:       records,
		sessions:      sessions,
		checkout:      svc,
		notifier:      notifier,
		submitTimeout: submitTimeout,
		inflight:      make(map[string]*submission),
	}
}

// claim returns the submission of a cart session and whether it was
// already running. A new submission must be started by the caller.
func (oc *OrderController) claim(sid, userID string) (*submission, bool) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if sub, ok := oc.inflight[sid]; ok {
		return sub, true
	}
	sub := &submission{userID: userID, ready: make(chan struct{})}
	oc.inflight[sid] = sub
	return sub, false
}

func (oc *OrderController) release(sid string, sub *submission) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if oc.inflight[sid] == sub {
		delete(oc.inflight, sid)
	}
}

type orderRequest struct {
	models.Contact
	DeliveryMethod string `json:"delivery_method"`
	PaymentMethod  string `json:"payment_method"`
	Redeem         int64  `json:"redeem"`
}

// DeliveryMethods lists the delivery options with their fees
func (oc *OrderController) DeliveryMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pricing.DeliveryOptions)
}

// PaymentMethods lists the accepted payment options
func (oc *OrderController) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.PaymentOptions)
}

// GetQuote prices the session cart for ?delivery= and ?redeem=. Signed
// out visitors are quoted without loyalty points.
func (oc *OrderController) GetQuote(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	method, ok := models.ParseDeliveryMethod(qs.Get("delivery"))
	if !ok {
		method = models.DeliveryCourier
	}
	redeem, _ := strconv.ParseInt(qs.Get("redeem"), 10, 64)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	c, err := oc.sessions.Open(ctx, middleware.CartSessionID(r.Context()))
	if err != nil {
		log.Error().Err(err).Msg("failed to load cart")
		http.Error(w, "Cart unavailable", http.StatusBadGateway)
		return
	}
	sess, _ := middleware.CurrentSession(r.Context())
	quote, err := oc.checkout.Quote(ctx, sess, c, method, redeem)
	if err != nil {
		log.Error().Err(err).Msg("failed to quote cart")
		http.Error(w, "Loyalty balance unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// CreateOrder places an order from the session cart. The submission
// runs detached from the request; if it outlasts the submit timeout the
// client gets 202 and the order still completes. A repeated POST for the
// same cart session while it runs waits for the same order.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.CurrentSession(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var body orderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req := checkout.Request{
		Contact:  body.Contact,
		Delivery: models.DeliveryMethod(body.DeliveryMethod),
		Payment:  models.PaymentMethod(body.PaymentMethod),
		Redeem:   body.Redeem,
	}
	// unknown ids are passed through so validation can name them
	if m, ok := models.ParseDeliveryMethod(body.DeliveryMethod); ok {
		req.Delivery = m
	}
	if p, ok := models.ParsePaymentMethod(body.PaymentMethod); ok {
		req.Payment = p
	}

	sid := middleware.CartSessionID(r.Context())
	sub, running := oc.claim(sid, sess.UserID)
	if running && sub.userID != sess.UserID {
		http.Error(w, "Another order is being placed from this cart", http.StatusConflict)
		return
	}
	if !running {
		sub.task, sub.err = oc.start(r.Context(), sid, sess, req, sub)
		close(sub.ready)
	}

	waitCtx, cancel := context.WithTimeout(r.Context(), oc.submitTimeout)
	defer cancel()
	select {
	case <-sub.ready:
	case <-waitCtx.Done():
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
		return
	}
	if sub.err != nil {
		log.Error().Err(sub.err).Msg("failed to load cart")
		http.Error(w, "Cart unavailable", http.StatusBadGateway)
		return
	}
	order, err := sub.task.Wait(waitCtx)
	if order == nil && waitCtx.Err() != nil && errors.Is(err, waitCtx.Err()) {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
		return
	}
	writeSubmitResult(w, order, err)
}

// start opens the session cart and runs the submission detached from the
// request. The ordered units leave the session cart once the order is
// written; the session is released when the submission ends.
func (oc *OrderController) start(ctx context.Context, sid string, sess *models.Session, req checkout.Request, sub *submission) (*checkout.Task, error) {
	openCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	c, err := oc.sessions.Open(openCtx, sid)
	cancel()
	if err != nil {
		oc.release(sid, sub)
		return nil, err
	}

	background := context.WithoutCancel(ctx)
	return oc.checkout.Start(background, sess, c, req, func(order *models.Order, _ error) {
		defer oc.release(sid, sub)
		if order == nil {
			return
		}
		ordered := make(map[string]int, len(order.Items))
		for _, item := range order.Items {
			ordered[item.ProductID] += item.Quantity
		}
		if _, err := oc.sessions.Deduct(background, sid, ordered); err != nil {
			log.Error().Err(err).Str("order_id", order.ID).Msg("failed to remove ordered items from cart")
		}
	}), nil
}

func writeSubmitResult(w http.ResponseWriter, order *models.Order, err error) {
	var verr *checkout.ValidationError
	switch {
	case order != nil && errors.Is(err, checkout.ErrLoyaltyNotSettled):
		writeJSON(w, http.StatusCreated, map[string]any{
			"order":   order,
			"warning": "loyalty points will be credited later",
		})
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{"order": order})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid checkout", "fields": verr.Fields})
	case errors.Is(err, checkout.ErrNotSignedIn):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrRedemptionExceedsCap):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, checkout.ErrPersistence):
		http.Error(w, "Order could not be saved, please try again", http.StatusBadGateway)
	default:
		log.Error().Err(err).Msg("order submission failed")
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
	}
}

func newestFirst(orders []models.Order) {
	slices.SortStableFunc(orders, func(a, b models.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// GetOrders retrieves the orders of the signed-in customer, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.CurrentSession(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orders := []models.Order{}
	if err := oc.records.Read(ctx, store.OrdersCollection, map[string]any{"user_id": sess.UserID}, &orders); err != nil {
		log.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to retrieve orders")
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	newestFirst(orders)
	writeJSON(w, http.StatusOK, orders)
}

// ListOrders returns every order, optionally filtered by ?status= (Admin only)
func (oc *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := map[string]any{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.OrderStatus(status).Valid() {
			http.Error(w, "Invalid order status", http.StatusBadRequest)
			return
		}
		filter["status"] = status
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orders := []models.Order{}
	if err := oc.records.Read(ctx, store.OrdersCollection, filter, &orders); err != nil {
		log.Error().Err(err).Msg("failed to retrieve orders")
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	newestFirst(orders)
	writeJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus moves an order to a new status (Admin only)
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !body.Status.Valid() {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err := oc.records.Update(ctx, store.OrdersCollection, id, map[string]any{"status": body.Status})
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("failed to update order status")
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}

	var orders []models.Order
	if err := oc.records.Read(ctx, store.OrdersCollection, map[string]any{"_id": id}, &orders); err == nil && len(orders) == 1 && oc.notifier != nil {
		go func(order models.Order) {
			if err := oc.notifier.OrderStatusChanged(order); err != nil {
				log.Error().Err(err).Str("order_id", order.ID).Msg("failed to send status email")
			}
		}(orders[0])
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Order status updated successfully"})
}
