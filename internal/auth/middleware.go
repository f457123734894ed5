package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"
)

// RequireUser enforces an authenticated principal on the request and stores
// it in context. Requests without an identity get 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if uid == "" {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		role := Role(strings.TrimSpace(r.Header.Get(HeaderRole)))
		switch role {
		case RoleCustomer, RoleSeller, RoleAdmin:
		default:
			role = RoleCustomer
		}

		ctx := WithPrincipal(r.Context(), Principal{UserID: uid, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireElevated gates a route to seller and admin principals. Must be
// mounted inside RequireUser.
func RequireElevated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		if !p.Role.Elevated() {
			writeError(w, http.StatusForbidden, "not authorized as seller")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
