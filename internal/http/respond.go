package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is a storage failure and surfaces as an opaque 500.
func respondError(w http.ResponseWriter, err error) {
	var stockErr *apperr.InsufficientStockError
	var valErr *apperr.ValidationError

	switch {
	case errors.As(err, &stockErr):
		writeError(w, http.StatusBadRequest, stockMessage(stockErr))
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, valErr.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrEmptyOrder):
		writeError(w, http.StatusBadRequest, "no order items")
	case errors.Is(err, apperr.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid status")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, "cannot change order status from its current status")
	case errors.Is(err, apperr.ErrForbidden):
		writeError(w, http.StatusForbidden, "not authorized")
	case errors.Is(err, apperr.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "not authenticated")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// stockMessage keeps the sentence casing clients already parse, which the
// lowercase Error() string deliberately does not.
func stockMessage(e *apperr.InsufficientStockError) string {
	name := e.Name
	if name == "" {
		name = "product " + e.ProductID
	}
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", name, e.Available)
}
