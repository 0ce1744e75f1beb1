package routes

import (
	"net/http"

	"cosmetics-storefront/controllers"
	"cosmetics-storefront/middleware"

	"github.com/gorilla/mux"
)

// Controllers groups the handlers mounted by RegisterRoutes
type Controllers struct {
	User    *controllers.UserController
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, uploadDir string) {
	router.Use(middleware.LoggerMiddleware)

	// Public routes
	router.HandleFunc("/register", c.User.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", c.User.Login).Methods(http.MethodPost)
	router.HandleFunc("/verify", c.User.VerifyEmail).Methods(http.MethodGet)

	// Catalog
	router.HandleFunc("/products", c.Product.GetProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/featured", c.Product.GetSections).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}", c.Product.GetProductByID).Methods(http.MethodGet)
	router.HandleFunc("/categories", c.Product.GetCategories).Methods(http.MethodGet)
	router.HandleFunc("/delivery-methods", c.Order.DeliveryMethods).Methods(http.MethodGet)
	router.HandleFunc("/payment-methods", c.Order.PaymentMethods).Methods(http.MethodGet)
	router.HandleFunc("/wholesale/tiers", c.Cart.GetTiers).Methods(http.MethodGet)
	router.HandleFunc("/wholesale/quote", c.Cart.GetWholesaleQuote).Methods(http.MethodGet)
	router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	// Cart routes, keyed by the cart session cookie
	cart := router.NewRoute().Subrouter()
	cart.Use(middleware.CartSessionMiddleware)
	cart.HandleFunc("/cart", c.Cart.GetCart).Methods(http.MethodGet)
	cart.HandleFunc("/cart", c.Cart.ClearCart).Methods(http.MethodDelete)
	cart.HandleFunc("/cart/items", c.Cart.AddToCart).Methods(http.MethodPost)
	cart.HandleFunc("/cart/items/{product_id}", c.Cart.UpdateQuantity).Methods(http.MethodPut)
	cart.HandleFunc("/cart/items/{product_id}", c.Cart.RemoveFromCart).Methods(http.MethodDelete)
	cart.HandleFunc("/wholesale/cart", c.Cart.AddBulk).Methods(http.MethodPost)

	quote := router.NewRoute().Subrouter()
	quote.Use(middleware.CartSessionMiddleware, middleware.OptionalAuthMiddleware)
	quote.HandleFunc("/checkout/quote", c.Order.GetQuote).Methods(http.MethodGet)

	// Protected routes
	protected := router.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", c.User.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", c.User.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/loyalty", c.User.GetLoyalty).Methods(http.MethodGet)
	protected.HandleFunc("/orders", c.Order.GetOrders).Methods(http.MethodGet)

	checkout := router.NewRoute().Subrouter()
	checkout.Use(middleware.CartSessionMiddleware, middleware.AuthMiddleware)
	checkout.HandleFunc("/orders", c.Order.CreateOrder).Methods(http.MethodPost)

	// Admin routes
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	admin.HandleFunc("/products", c.Product.CreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}", c.Product.UpdateProduct).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}", c.Product.DeleteProduct).Methods(http.MethodDelete)
	admin.HandleFunc("/products/{id}/image", c.Product.UploadImage).Methods(http.MethodPost)
	admin.HandleFunc("/admin/orders", c.Order.ListOrders).Methods(http.MethodGet)
	admin.HandleFunc("/admin/orders/{id}/status", c.Order.UpdateOrderStatus).Methods(http.MethodPut)
}
