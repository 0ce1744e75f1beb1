package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cosmetics-storefront/cart"
	"cosmetics-storefront/catalog"
	"cosmetics-storefront/checkout"
	"cosmetics-storefront/middleware"
	"cosmetics-storefront/models"
	"cosmetics-storefront/pricing"
	"cosmetics-storefront/store"
	"cosmetics-storefront/utils"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// fakeRecords keeps products and orders in memory. When orderGate is set,
// order inserts signal orderWriting and wait for the gate to close.
type fakeRecords struct {
	mu       sync.Mutex
	products []models.Product
	orders   []models.Order

	orderGate    chan struct{}
	orderWriting chan struct{}
}

func (f *fakeRecords) Create(_ context.Context, collection string, record any) (string, error) {
	if _, ok := record.(*models.Order); ok && f.orderGate != nil {
		select {
		case f.orderWriting <- struct{}{}:
		default:
		}
		<-f.orderGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	switch rec := record.(type) {
	case models.Product:
		f.products = append(f.products, rec)
		return rec.ID, nil
	case *models.Order:
		f.orders = append(f.orders, *rec)
		return rec.ID, nil
	}
	return "", store.ErrNotFound
}

func (f *fakeRecords) Read(_ context.Context, collection string, filter map[string]any, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch dst := out.(type) {
	case *[]models.Product:
		*dst = append((*dst)[:0], f.products...)
	case *[]models.Order:
		*dst = (*dst)[:0]
		for _, o := range f.orders {
			if uid, ok := filter["user_id"]; ok && o.UserID != uid {
				continue
			}
			if id, ok := filter["_id"]; ok && o.ID != id {
				continue
			}
			if st, ok := filter["status"]; ok && string(o.Status) != st {
				continue
			}
			*dst = append(*dst, o)
		}
	}
	return nil
}

func (f *fakeRecords) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeRecords) Update(_ context.Context, collection, id string, partial map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if collection == store.OrdersCollection {
		for i := range f.orders {
			if f.orders[i].ID != id {
				continue
			}
			if st, ok := partial["status"].(models.OrderStatus); ok {
				f.orders[i].Status = st
			}
			if settled, ok := partial["loyalty_settled"].(bool); ok {
				f.orders[i].LoyaltySettled = settled
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeRecords) Delete(_ context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeLedger struct {
	mu       sync.Mutex
	balances map[string]int64
}

func (f *fakeLedger) Balance(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID], nil
}

func (f *fakeLedger) balance(userID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID]
}

func (f *fakeLedger) Settle(_ context.Context, s store.Settlement) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[s.UserID] += s.Credit - s.Debit
	return f.balances[s.UserID], nil
}

type StorefrontTestSuite struct {
	suite.Suite
	records *fakeRecords
	ledger  *fakeLedger
	orders  *OrderController
	router  *mux.Router
	cookie  *http.Cookie
}

func TestStorefrontTestSuite(t *testing.T) {
	suite.Run(t, new(StorefrontTestSuite))
}

func (s *StorefrontTestSuite) SetupTest() {
	utils.JwtKey = []byte("test-secret")
	s.records = &fakeRecords{}
	s.ledger = &fakeLedger{balances: map[string]int64{"u1": 200}}
	s.cookie = nil

	live := catalog.NewLive(catalog.NewSeedIndex())
	products := NewProductController(s.records, live, s.T().TempDir())
	s.Require().NoError(products.Reload(context.Background()))

	sessions := cart.NewSessions(cart.NewMemoryRepository())
	svc := checkout.NewService(s.records, s.ledger)
	carts := NewCartController(sessions, live, pricing.DefaultTiers)
	orders := NewOrderController(s.records, sessions, svc, nil, time.Second)
	s.orders = orders

	// routes are mounted here as in the routes package, which imports this one
	s.router = mux.NewRouter()
	s.router.HandleFunc("/products", products.GetProducts).Methods(http.MethodGet)
	s.router.HandleFunc("/products/featured", products.GetSections).Methods(http.MethodGet)
	s.router.HandleFunc("/products/{id}", products.GetProductByID).Methods(http.MethodGet)
	s.router.HandleFunc("/wholesale/quote", carts.GetWholesaleQuote).Methods(http.MethodGet)
	withCart := s.router.NewRoute().Subrouter()
	withCart.Use(middleware.CartSessionMiddleware, middleware.OptionalAuthMiddleware)
	withCart.HandleFunc("/cart", carts.GetCart).Methods(http.MethodGet)
	withCart.HandleFunc("/cart/items", carts.AddToCart).Methods(http.MethodPost)
	withCart.HandleFunc("/cart/items/{product_id}", carts.UpdateQuantity).Methods(http.MethodPut)
	withCart.HandleFunc("/wholesale/cart", carts.AddBulk).Methods(http.MethodPost)
	withCart.HandleFunc("/checkout/quote", orders.GetQuote).Methods(http.MethodGet)
	signedIn := s.router.NewRoute().Subrouter()
	signedIn.Use(middleware.CartSessionMiddleware, middleware.AuthMiddleware)
	signedIn.HandleFunc("/orders", orders.CreateOrder).Methods(http.MethodPost)
	signedIn.HandleFunc("/orders", orders.GetOrders).Methods(http.MethodGet)
	admin := s.router.NewRoute().Subrouter()
	admin.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	admin.HandleFunc("/admin/orders/{id}/status", orders.UpdateOrderStatus).Methods(http.MethodPut)
}

func (s *StorefrontTestSuite) request(method, path, body, role string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	if role != "" {
		tok, err := utils.GenerateJWT("u1", "client@example.com", role)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req
}

func (s *StorefrontTestSuite) do(method, path, body, role string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, s.request(method, path, body, role))
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.CartCookieName {
			s.cookie = c
		}
	}
	return rr
}

func (s *StorefrontTestSuite) decode(rr *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.NewDecoder(rr.Body).Decode(v))
}

func (s *StorefrontTestSuite) fillCart() {
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/cart/items", `{"product_id":"1","quantity":2}`, "").Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/cart/items", `{"product_id":"2"}`, "").Code)
}

func (s *StorefrontTestSuite) TestReloadSeedsEmptyCatalog() {
	s.Len(s.records.products, len(catalog.SeedProducts))
}

func (s *StorefrontTestSuite) TestProductListing() {
	rr := s.do(http.MethodGet, "/products?cat=perfume&sort=price-asc", "", "")
	s.Require().Equal(http.StatusOK, rr.Code)

	var products []productView
	s.decode(rr, &products)
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	s.Equal([]string{"3", "7", "9"}, ids)
}

func (s *StorefrontTestSuite) TestProductByID() {
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/products/nope", "", "").Code)

	rr := s.do(http.MethodGet, "/products/1", "", "")
	s.Require().Equal(http.StatusOK, rr.Code)
	var p productView
	s.decode(rr, &p)
	s.Equal("1", p.ID)
}

func (s *StorefrontTestSuite) TestCartLifecycle() {
	s.fillCart()

	rr := s.do(http.MethodGet, "/cart", "", "")
	var snap cart.Snapshot
	s.decode(rr, &snap)
	s.Equal(3, snap.TotalItems)
	s.Equal("124.30", snap.TotalPrice.StringFixed(2))

	rr = s.do(http.MethodPut, "/cart/items/1", `{"quantity":0}`, "")
	s.decode(rr, &snap)
	s.Equal(1, snap.TotalItems)
	s.Require().Len(snap.Lines, 1)
	s.Equal("2", snap.Lines[0].Product.ID)
}

func (s *StorefrontTestSuite) TestAddUnknownProduct() {
	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/cart/items", `{"product_id":"404"}`, "").Code)
}

func (s *StorefrontTestSuite) TestQuoteSignedOutHasNoDiscount() {
	s.fillCart()

	rr := s.do(http.MethodGet, "/checkout/quote?delivery=courier&redeem=5", "", "")
	var q pricing.Quote
	s.decode(rr, &q)
	s.Equal(int64(0), q.Redeemed)
	s.Equal("134.30", q.Total.StringFixed(2))

	rr = s.do(http.MethodGet, "/checkout/quote?delivery=courier&redeem=5", "", "user")
	s.decode(rr, &q)
	s.Equal(int64(5), q.Redeemed)
	s.Equal("129.30", q.Total.StringFixed(2))
}

func (s *StorefrontTestSuite) TestPlaceOrder() {
	s.fillCart()

	body := `{"name":"Ivan","phone":"+375291112233","address":"Nemiga 5","delivery_method":"courier","payment_method":"card","redeem":5}`
	rr := s.do(http.MethodPost, "/orders", body, "user")
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	var res struct {
		Order models.Order `json:"order"`
	}
	s.decode(rr, &res)
	s.Equal("129.30", res.Order.Total.StringFixed(2))
	s.Equal(int64(224), s.ledger.balances["u1"])

	var snap cart.Snapshot
	s.decode(s.do(http.MethodGet, "/cart", "", ""), &snap)
	s.Equal(0, snap.TotalItems)

	var orders []models.Order
	s.decode(s.do(http.MethodGet, "/orders", "", "user"), &orders)
	s.Require().Len(orders, 1)
	s.Equal(res.Order.ID, orders[0].ID)
}

func (s *StorefrontTestSuite) TestPlaceOrderValidation() {
	s.fillCart()

	rr := s.do(http.MethodPost, "/orders", `{"name":"Ivan","phone":"1","delivery_method":"europost","payment_method":"cod"}`, "user")
	s.Require().Equal(http.StatusBadRequest, rr.Code)

	var res struct {
		Fields map[string]string `json:"fields"`
	}
	s.decode(rr, &res)
	s.Contains(res.Fields, "post_office")
	s.Empty(s.records.orders)
}

func (s *StorefrontTestSuite) TestPlaceOrderRequiresSignIn() {
	s.fillCart()
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/orders", `{}`, "").Code)
}

func (s *StorefrontTestSuite) TestOrdersNewestFirst() {
	s.records.orders = []models.Order{
		{ID: "old", UserID: "u1", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "other", UserID: "u2", CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "new", UserID: "u1", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	var orders []models.Order
	s.decode(s.do(http.MethodGet, "/orders", "", "user"), &orders)
	s.Require().Len(orders, 2)
	s.Equal("new", orders[0].ID)
	s.Equal("old", orders[1].ID)
}

func (s *StorefrontTestSuite) TestUpdateOrderStatus() {
	s.records.orders = []models.Order{{ID: "o1", UserID: "u1", Status: models.StatusPending}}

	s.Equal(http.StatusForbidden, s.do(http.MethodPut, "/admin/orders/o1/status", `{"status":"shipped"}`, "user").Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPut, "/admin/orders/o1/status", `{"status":"lost"}`, "admin").Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodPut, "/admin/orders/o2/status", `{"status":"shipped"}`, "admin").Code)
	s.Equal(http.StatusOK, s.do(http.MethodPut, "/admin/orders/o1/status", `{"status":"shipped"}`, "admin").Code)
	s.Equal(models.StatusShipped, s.records.orders[0].Status)
}

func (s *StorefrontTestSuite) TestWholesale() {
	rr := s.do(http.MethodGet, "/wholesale/quote?product_id=1&quantity=15", "", "")
	var q pricing.WholesaleQuote
	s.decode(rr, &q)
	s.Equal(int64(15), q.Percent)
	s.True(decimal.RequireFromString("39.015").Equal(q.FinalUnit))

	rr = s.do(http.MethodPost, "/wholesale/cart", `{"product_id":"1","quantity":5}`, "")
	var res struct {
		Cart cart.Snapshot `json:"cart"`
	}
	s.decode(rr, &res)
	s.Equal(5, res.Cart.TotalItems)
}

const courierOrder = `{"name":"Ivan","phone":"+375291112233","address":"Nemiga 5","delivery_method":"courier","payment_method":"card"}`

// holdOrderWrites makes order inserts block until the returned func is called
func (s *StorefrontTestSuite) holdOrderWrites() (release func()) {
	s.records.orderGate = make(chan struct{})
	s.records.orderWriting = make(chan struct{}, 1)
	var once sync.Once
	release = func() { once.Do(func() { close(s.records.orderGate) }) }
	s.T().Cleanup(release)
	return release
}

func (s *StorefrontTestSuite) orderID(rr *httptest.ResponseRecorder) string {
	var res struct {
		Order models.Order `json:"order"`
	}
	s.decode(rr, &res)
	return res.Order.ID
}

func (s *StorefrontTestSuite) TestOverlappingSubmissionsPlaceOneOrder() {
	s.fillCart()
	release := s.holdOrderWrites()

	first := httptest.NewRecorder()
	firstReq := s.request(http.MethodPost, "/orders", courierOrder, "user")
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.router.ServeHTTP(first, firstReq)
	}()
	<-s.records.orderWriting

	time.AfterFunc(50*time.Millisecond, release)
	second := s.do(http.MethodPost, "/orders", courierOrder, "user")
	<-done

	s.Require().Equal(http.StatusCreated, first.Code, first.Body.String())
	s.Require().Equal(http.StatusCreated, second.Code, second.Body.String())
	s.Equal(s.orderID(first), s.orderID(second))
	s.Equal(1, s.records.orderCount())
	s.Equal(int64(324), s.ledger.balance("u1"))
}

func (s *StorefrontTestSuite) TestRetryAfterTimeoutJoinsRunningOrder() {
	s.fillCart()
	release := s.holdOrderWrites()

	s.orders.submitTimeout = 20 * time.Millisecond
	rr := s.do(http.MethodPost, "/orders", courierOrder, "user")
	s.Require().Equal(http.StatusAccepted, rr.Code)

	s.orders.submitTimeout = time.Second
	time.AfterFunc(50*time.Millisecond, release)
	rr = s.do(http.MethodPost, "/orders", courierOrder, "user")
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	// the cart was emptied by the order, so a late retry has nothing to order
	rr = s.do(http.MethodPost, "/orders", courierOrder, "user")
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Equal(1, s.records.orderCount())
	s.Equal(int64(324), s.ledger.balance("u1"))
}

func (s *StorefrontTestSuite) TestCartEditsDuringSubmissionSurvive() {
	s.fillCart()
	release := s.holdOrderWrites()

	first := httptest.NewRecorder()
	firstReq := s.request(http.MethodPost, "/orders", courierOrder, "user")
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.router.ServeHTTP(first, firstReq)
	}()
	<-s.records.orderWriting

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/cart/items", `{"product_id":"1"}`, "").Code)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/cart/items", `{"product_id":"3"}`, "").Code)
	release()
	<-done
	s.Require().Equal(http.StatusCreated, first.Code, first.Body.String())

	var snap cart.Snapshot
	s.decode(s.do(http.MethodGet, "/cart", "", ""), &snap)
	s.Require().Len(snap.Lines, 2)
	s.Equal("1", snap.Lines[0].Product.ID)
	s.Equal(1, snap.Lines[0].Quantity)
	s.Equal("3", snap.Lines[1].Product.ID)
}
