package middleware

import (
	"net/http"

	"edutube/pkg/auth"
	pkgerrors "edutube/pkg/errors"
)

// RateLimit rejects clients that exceed their per-IP budget with 429.
func RateLimit(limiter *auth.IPRateLimiter, perMinute int, errs *pkgerrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), getClientIP(r))
			if err != nil {
				errs.Handle(w, r, err)
				return
			}
			if !allowed {
				errs.Handle(w, r, pkgerrors.NewRateLimitError(perMinute, "minute"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
