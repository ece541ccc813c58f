package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"storefront/internal/cart"
	catalogctrl "storefront/internal/catalog/controller"
	"storefront/internal/order"
)

func NewRouter(
	products *catalogctrl.ProductsController,
	orders *order.Module,
	carts *cart.Controller,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", products.HandleListProducts)
		r.Get("/products/{productID}", products.HandleGetProduct)

		r.Post("/orders", orders.Checkout.HandlePlaceOrder)
		r.Get("/orders/{orderID}", orders.Orders.HandleGetOrder)
		r.Put("/orders/{orderID}/status", orders.Orders.HandleUpdateStatus)
		r.Put("/orders/{orderID}/cancel", orders.Orders.HandleCancelOrder)

		r.Get("/users/{userID}/orders", orders.Orders.HandleListUserOrders)
		r.Get("/users/{userID}/cart", carts.HandleGetCart)
		r.Put("/users/{userID}/cart", carts.HandleSaveCart)

		r.Post("/payments/webhook", orders.Webhook.HandlePaymentEvent)
	})

	logger.Info("router configured")
	return r
}
