package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/auth"
	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/order"
)

// OrderService is what the handler needs from the order lifecycle.
type OrderService interface {
	Create(ctx context.Context, userID string, in order.CreateInput) (*order.Order, error)
	Get(ctx context.Context, p auth.Principal, orderID string) (*order.Order, error)
	ListMine(ctx context.Context, p auth.Principal) ([]order.Order, error)
	ListAll(ctx context.Context, p auth.Principal) (*order.ListSummary, error)
	UpdateStatus(ctx context.Context, p auth.Principal, orderID, status, cancelReason string) (*order.Order, error)
	Cancel(ctx context.Context, p auth.Principal, orderID, reason string) (*order.Order, error)
	MarkPaid(ctx context.Context, p auth.Principal, orderID, paymentID, paymentStatus string) (*order.Order, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var in order.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.Create(ctx, p.UserID, in)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	orderID := chi.URLParam(r, "orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.orders.Get(ctx, p, orderID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.ListMine(ctx, p)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sum, err := h.orders.ListAll(ctx, p)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	orderID := chi.URLParam(r, "orderId")
	var body struct {
		Status       string `json:"status"`
		CancelReason string `json:"cancelReason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.UpdateStatus(ctx, p, orderID, body.Status, body.CancelReason)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	orderID := chi.URLParam(r, "orderId")
	var body struct {
		Reason string `json:"reason"`
	}
	// body is optional on cancel
	_ = json.NewDecoder(r.Body).Decode(&body)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.Cancel(ctx, p, orderID, body.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order cancelled successfully",
		"order":   o,
	})
}

func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	orderID := chi.URLParam(r, "orderId")
	var body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.orders.MarkPaid(ctx, p, orderID, body.ID, body.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
