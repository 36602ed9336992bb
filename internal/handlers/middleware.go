package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dictee/internal/logger"
	"dictee/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const DeviceContextKey ContextKey = "device"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	limiter *security.RateLimiter
	log     *logger.Logger
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(limiter *security.RateLimiter, log *logger.Logger) *Middleware {
	return &Middleware{limiter: limiter, log: log}
}

// Device makes sure every request carries a device id, issuing a new
// cookie when it is missing or malformed
func (m *Middleware) Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var deviceID string
		if cookie, err := r.Cookie(DeviceCookieName); err == nil {
			if id, err := uuid.Parse(cookie.Value); err == nil {
				deviceID = id.String()
			}
		}

		if deviceID == "" {
			deviceID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     DeviceCookieName,
				Value:    deviceID,
				Path:     "/",
				MaxAge:   deviceCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   r.TLS != nil,
			})
		}

		ctx := context.WithValue(r.Context(), DeviceContextKey, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimit refuses clients that exceed the configured request rate
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, m.log, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// GetDeviceID retrieves the device id from the request context
func GetDeviceID(ctx context.Context) string {
	id, _ := ctx.Value(DeviceContextKey).(string)
	return id
}
