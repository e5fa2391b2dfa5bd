package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/amas-erp/supplier-portal/pkg/composables"
	"github.com/amas-erp/supplier-portal/pkg/configuration"
	"github.com/amas-erp/supplier-portal/pkg/httpapi"
	"github.com/amas-erp/supplier-portal/pkg/repo"
)

// SupplierResolver maps the e-mail asserted by the auth proxy to a supplier id,
// creating the supplier on first sign-in.
type SupplierResolver interface {
	ResolveSupplierID(ctx context.Context, email string) (int64, error)
}

// ProvideSupplier trusts the identity header set by the fronting auth proxy.
func ProvideSupplier(resolver SupplierResolver) mux.MiddlewareFunc {
	header := configuration.Use().Auth.EmailHeader
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := strings.ToLower(strings.TrimSpace(r.Header.Get(header)))
			if email == "" {
				_ = httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "sign-in required")
				return
			}
			id, err := resolver.ResolveSupplierID(r.Context(), email)
			if err != nil {
				composables.TryUseLogger(r.Context()).WithError(err).WithField("email", email).Error("resolve supplier")
				var transient *repo.TransientStoreError
				if errors.As(err, &transient) {
					_ = httpapi.WriteError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "the store is unavailable, try again shortly")
					return
				}
				_ = httpapi.WriteError(w, r, http.StatusInternalServerError, "SUPPLIER_UNRESOLVED", "supplier could not be resolved")
				return
			}
			ctx := composables.WithSupplier(r.Context(), composables.Supplier{ID: id, Email: email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProvideSession issues a view-session cookie on first visit.
func ProvideSession() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(conf.SidCookieKey); err == nil {
				sid = strings.TrimSpace(c.Value)
			}
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     conf.SidCookieKey,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   conf.Scheme() == "https",
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(composables.WithSessionID(r.Context(), sid)))
		})
	}
}
