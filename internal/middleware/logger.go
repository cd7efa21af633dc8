// File: internal/middleware/logger.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/moddin/kichat/internal/metrics"
)

// LoggingMiddleware tags each request with an ID, logs it and records HTTP metrics.
func LoggingMiddleware(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)

			wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r.WithContext(ctx))

			route := routeTemplate(r)
			elapsed := time.Since(start)
			metrics.RequestCount.WithLabelValues(r.Method, route, strconv.Itoa(wrapper.statusCode)).Inc()
			metrics.RequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

			logger.Info("request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapper.statusCode,
				"remote", r.RemoteAddr,
				"duration_ms", elapsed.Milliseconds())
		})
	}
}

// routeTemplate keeps metric labels bounded by using the mux path template.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
