package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tonythefreedom/noble-back/internal/ctxkeys"
	"github.com/tonythefreedom/noble-back/internal/service"
)

// AuthMiddleware resolves a bearer token into claims and the backing user
// account, adding both to the request context when valid. Requests without a
// usable token continue unauthenticated; the Require* guards decide access.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.ResolveUser(claims)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithClaims(r.Context(), claims)
			ctx = ctxkeys.WithUser(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards admin-only endpoints: 401 without a valid token, 403
// for authenticated non-admin accounts.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			writeDetail(w, http.StatusUnauthorized, "인증이 필요합니다.")
			return
		}

		if !user.IsAdmin() {
			writeDetail(w, http.StatusForbidden, "관리자 권한이 필요합니다.")
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequireAuth guards endpoints that only need a valid token, admin or not.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Claims(r.Context()) == nil {
			writeDetail(w, http.StatusUnauthorized, "인증이 필요합니다.")
			return
		}

		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"detail":  detail,
	})
}
