package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"edutube/pkg/auth"
	pkgerrors "edutube/pkg/errors"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Authenticate requires a valid bearer token. A missing token is rejected
// with 401 and an invalid or expired one with 403.
func Authenticate(validator TokenValidator, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError(""))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Debug("Invalid token",
					zap.Error(err),
					zap.String("ip", getClientIP(r)),
					zap.String("path", r.URL.Path),
				)
				errs.Handle(w, r, pkgerrors.NewForbiddenError("Invalid token"))
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				ID:       claims.ID,
				Username: claims.Username,
				Email:    claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken returns the bearer token of the Authorization header.
func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
