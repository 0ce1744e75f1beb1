// Package checkout turns a session cart into a placed order and settles
// the customer's loyalty points.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cosmetics-storefront/cart"
	"cosmetics-storefront/models"
	"cosmetics-storefront/pricing"
	"cosmetics-storefront/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultPickupAddress is the store used for pickup orders
const DefaultPickupAddress = "Pickup: Minsk, Nemiga st. 3"

// OrderStore persists orders
type OrderStore interface {
	Create(ctx context.Context, collection string, record any) (string, error)
	Update(ctx context.Context, collection, id string, partial map[string]any) error
}

// Ledger reads and settles loyalty balances
type Ledger interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Settle(ctx context.Context, s store.Settlement) (int64, error)
}

// Notifier is told about placed orders, e.g. to email a confirmation
type Notifier interface {
	OrderPlaced(ctx context.Context, order models.Order) error
}

// Request carries the checkout form. Redeem is the loyalty discount in
// whole currency units.
type Request struct {
	Contact  models.Contact
	Delivery models.DeliveryMethod
	Payment  models.PaymentMethod
	Redeem   int64
}

type Service struct {
	orders        OrderStore
	ledger        Ledger
	notifier      Notifier
	pickupAddress string
	now           func() time.Time
	newID         func() string
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithPickupAddress(addr string) Option {
	return func(s *Service) {
		if addr != "" {
			s.pickupAddress = addr
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(orders OrderStore, ledger Ledger, opts ...Option) *Service {
	s := &Service{
		orders:        orders,
		ledger:        ledger,
		pickupAddress: DefaultPickupAddress,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Balance returns the loyalty balance of a session, zero when signed out
func (s *Service) Balance(ctx context.Context, sess *models.Session) (int64, error) {
	if sess == nil || sess.UserID == "" {
		return 0, nil
	}
	balance, err := s.ledger.Balance(ctx, sess.UserID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return balance, nil
}

// Quote prices the cart for the checkout summary. The requested discount
// is clamped to what the balance allows.
func (s *Service) Quote(ctx context.Context, sess *models.Session, c *cart.Store, method models.DeliveryMethod, redeem int64) (pricing.Quote, error) {
	balance, err := s.Balance(ctx, sess)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.QuoteOrder(c.Lines(), method, balance, redeem), nil
}

// Submit places the order held in c.
//
// The order is written first. Only when that write succeeds are the
// loyalty points settled and the cart cleared; a failed write leaves
// both untouched. Cancelling ctx stops the submission only before the
// order is written.
func (s *Service) Submit(ctx context.Context, sess *models.Session, c *cart.Store, req Request) (*models.Order, error) {
	if sess == nil || sess.UserID == "" {
		return nil, ErrNotSignedIn
	}
	if err := Validate(req.Contact, req.Delivery, req.Payment); err != nil {
		return nil, err
	}
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if req.Redeem < 0 {
		return nil, &ValidationError{Fields: map[string]string{"redeem": "must not be negative"}}
	}

	balance, err := s.Balance(ctx, sess)
	if err != nil {
		return nil, err
	}
	quote := pricing.QuoteOrder(lines, req.Delivery, balance, req.Redeem)
	if req.Redeem > quote.RedemptionCap {
		return nil, fmt.Errorf("%w: requested %d, cap %d", ErrRedemptionExceedsCap, req.Redeem, quote.RedemptionCap)
	}

	order := s.buildOrder(sess, lines, req, quote)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.orders.Create(ctx, store.OrdersCollection, order); err != nil {
		log.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to save order")
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	// The order exists from here on; finish the work even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	c.Clear()

	settleErr := s.settle(ctx, order)
	if settleErr == nil {
		order.LoyaltySettled = true
	}
	s.notify(ctx, *order)

	log.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Str("total", order.Total.StringFixed(2)).
		Int64("points_redeemed", order.PointsRedeemed).
		Int64("points_earned", order.PointsEarned).
		Msg("order placed")

	if settleErr != nil {
		return order, settleErr
	}
	return order, nil
}

func (s *Service) buildOrder(sess *models.Session, lines []models.CartLine, req Request, quote pricing.Quote) *models.Order {
	contact := normalize(req.Contact)
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
		})
	}
	return &models.Order{
		ID:              s.newID(),
		UserID:          sess.UserID,
		CustomerName:    contact.Name,
		CustomerPhone:   contact.Phone,
		CustomerEmail:   contact.Email,
		DeliveryAddress: deliveryAddress(contact, req.Delivery, s.pickupAddress),
		DeliveryMethod:  req.Delivery,
		PaymentMethod:   req.Payment,
		Items:           items,
		Subtotal:        quote.Subtotal,
		DeliveryFee:     quote.DeliveryFee,
		Discount:        decimal.NewFromInt(quote.Redeemed),
		Total:           quote.Total,
		PointsRedeemed:  quote.PointsDebited,
		PointsEarned:    quote.PointsEarned,
		Status:          models.StatusPending,
		CreatedAt:       s.now().UTC(),
	}
}

// settle moves the loyalty points of a stored order and marks the order
// as settled.
func (s *Service) settle(ctx context.Context, order *models.Order) error {
	if order.PointsRedeemed == 0 && order.PointsEarned == 0 {
		s.markSettled(ctx, order.ID)
		return nil
	}
	balance, err := s.ledger.Settle(ctx, store.Settlement{
		UserID:  order.UserID,
		OrderID: order.ID,
		Debit:   order.PointsRedeemed,
		Credit:  order.PointsEarned,
	})
	if err != nil && !errors.Is(err, store.ErrAlreadySettled) {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to settle loyalty points")
		return fmt.Errorf("%w: %w", ErrLoyaltyNotSettled, err)
	}
	log.Debug().Str("order_id", order.ID).Int64("balance", balance).Msg("loyalty settled")
	s.markSettled(ctx, order.ID)
	return nil
}

func (s *Service) markSettled(ctx context.Context, orderID string) {
	if err := s.orders.Update(ctx, store.OrdersCollection, orderID, map[string]any{"loyalty_settled": true}); err != nil {
		// the points moved; only the flag on the order is stale
		log.Warn().Err(err).Str("order_id", orderID).Msg("failed to flag order as settled")
	}
}

func (s *Service) notify(ctx context.Context, order models.Order) {
	if s.notifier == nil {
		return
	}
	go func() {
		if err := s.notifier.OrderPlaced(ctx, order); err != nil {
			log.Error().Err(err).Str("order_id", order.ID).Msg("failed to send order notification")
		}
	}()
}
