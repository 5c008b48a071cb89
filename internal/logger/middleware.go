package logger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// MiddlewareLogger logs one line per request once the handler has returned.
func MiddlewareLogger(log *zap.Logger, config *Config) func(next http.Handler) http.Handler {
	if !config.HTTPRequests {
		return func(next http.Handler) http.Handler { return next }
	}

	log = log.Named("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				}

				switch {
				case ww.Status() >= http.StatusInternalServerError:
					log.Error("request completed", fields...)
				case ww.Status() >= http.StatusBadRequest:
					log.Warn("request completed", fields...)
				default:
					log.Info("request completed", fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
