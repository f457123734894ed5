package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func principalEcho(t *testing.T, got *Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		if !ok {
			t.Fatal("principal missing from context")
		}
		*got = p
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUser(t *testing.T) {
	t.Run("missing identity is rejected", func(t *testing.T) {
		h := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("identity lands in context", func(t *testing.T) {
		var got Principal
		h := RequireUser(principalEcho(t, &got))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderUserID, "user-1")
		req.Header.Set(HeaderRole, "seller")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if got.UserID != "user-1" || got.Role != RoleSeller {
			t.Fatalf("principal = %+v", got)
		}
	})

	t.Run("unknown role falls back to customer", func(t *testing.T) {
		var got Principal
		h := RequireUser(principalEcho(t, &got))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderUserID, "user-1")
		req.Header.Set(HeaderRole, "superuser")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if got.Role != RoleCustomer {
			t.Fatalf("role = %q, want customer", got.Role)
		}
	})
}

func TestRequireElevated(t *testing.T) {
	cases := []struct {
		role Role
		want int
	}{
		{RoleCustomer, http.StatusForbidden},
		{RoleSeller, http.StatusOK},
		{RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			h := RequireUser(RequireElevated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(HeaderUserID, "user-1")
			req.Header.Set(HeaderRole, string(tc.role))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestRequireElevatedWithoutPrincipal(t *testing.T) {
	h := RequireElevated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}
