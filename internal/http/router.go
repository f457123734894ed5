package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/auth"
)

func NewRouter(orders *OrderHandler, carts *CartHandler, products *ProductHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/{productId}", products.GetProduct)
		r.With(auth.RequireUser, auth.RequireElevated).Post("/{productId}/stock", products.SetStock)
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/", carts.GetCart)
		r.Post("/", carts.AddItem)
		r.Delete("/", carts.ClearCart)
		r.Put("/{itemId}", carts.UpdateItem)
		r.Delete("/{itemId}", carts.RemoveItem)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Post("/", orders.CreateOrder)
		r.Get("/myorders", orders.ListMyOrders)
		r.Get("/{orderId}", orders.GetOrder)
		r.Put("/{orderId}/cancel", orders.CancelOrder)
		r.Put("/{orderId}/pay", orders.MarkPaid)

		r.With(auth.RequireElevated).Get("/", orders.ListAllOrders)
		r.With(auth.RequireElevated).Put("/{orderId}/status", orders.UpdateStatus)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "smartshop-backend",
	})
}
