package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// probePaths are logged at debug level so load balancer checks stay quiet.
var probePaths = map[string]bool{
	"/":        true,
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// Logger logs one line per request. Server errors are logged as warnings.
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			level := zapcore.InfoLevel
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				level = zapcore.WarnLevel
			case probePaths[r.URL.Path]:
				level = zapcore.DebugLevel
			}

			if ce := logger.Check(level, "request served"); ce != nil {
				ce.Write(
					zap.String("method", r.Method),
					zap.String("route", routePattern(r)),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}
		})
	}
}
