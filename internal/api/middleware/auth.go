package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "qualifier/internal/api/context"
	"qualifier/internal/pkg/errors"
	"qualifier/internal/platform/auth"
)

type AuthMiddleware struct {
	tokenSvc *auth.TokenService
}

func NewAuthMiddleware(tokenSvc *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Handle expects the access token as the whole Authorization header value,
// with no scheme in front of it.
func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing authorization header", nil)
			return
		}

		if strings.ContainsAny(authHeader, " \t") {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Authorization header must contain only the access token", nil)
			return
		}

		claims, err := m.tokenSvc.ValidateToken(authHeader)
		if err != nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Claims, claims)
		next(w, r.WithContext(ctx))
	}
}
