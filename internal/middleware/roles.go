package middleware

import (
	"net/http"

	"github.com/BasanLidzhiev/bank-rest/internal/api/httpx"
)

// RequireRole wraps a handler and allows only principals with the given
// role.
func RequireRole(need string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
				return
			}
			if p.Role != need {
				httpx.WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
