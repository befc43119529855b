package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/BasanLidzhiev/bank-rest/internal/api/httpx"
	"github.com/BasanLidzhiev/bank-rest/internal/auth"
)

type principalKey struct{}

// Principal is the authenticated caller, passed explicitly through the
// request context. Core operations take the username as an argument;
// nothing reads ambient security state.
type Principal struct {
	UserID   string
	Username string
	Role     string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

type AuthMiddleware struct {
	tm *auth.TokenManager
}

func NewAuthMiddleware(tm *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tm: tm}
}

// Auth validates the bearer access token and stores the principal in
// the request context. Refresh tokens are rejected here; they are only
// good for the refresh endpoint.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		claims, isRefresh, err := m.tm.ParseAny(token)
		if err != nil || isRefresh {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token")
			return
		}
		ctx := WithPrincipal(r.Context(), Principal{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
