package http

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"bilancio/internal/log"
)

// ContextKey type for context keys
type ContextKey string

// RequestIDKey is the context key for the request ID
const RequestIDKey ContextKey = "request_id"

// contentSecurityPolicy allows htmx from unpkg and nothing else off-site.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' https://unpkg.com; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data:; " +
	"connect-src 'self'; " +
	"object-src 'none'; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'"

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// Metrics tracks request counters for /readyz
type Metrics struct {
	TotalRequests int64
	ServerErrors  int64
	RateLimited   int64
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
	}
	return rw.ResponseWriter.Write(b)
}

// isWrite reports whether r can create a session or change a ledger.
func isWrite(r *http.Request) bool {
	return r.Method == http.MethodPost || r.Method == http.MethodDelete
}

// withRequestContext assigns a request ID, attaches the request logger to the
// context, applies security headers, rate limits writes per client IP and
// logs the completed request.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	withLogger := log.Middleware(s.logger)(
		log.RequestIDMiddleware(func(r *http.Request) string {
			return GetRequestID(r.Context())
		})(next),
	)

	limited := withLogger
	if s.limiter != nil {
		limited = s.limiter.Middleware(clientIP, s.rejectRateLimited)(withLogger)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		ip := clientIP(r)

		r = r.WithContext(context.WithValue(r.Context(), RequestIDKey, requestID))

		setSecurityHeaders(w, r)
		w.Header().Set("X-Request-ID", requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if isWrite(r) {
			limited.ServeHTTP(rw, r)
		} else {
			withLogger.ServeHTTP(rw, r)
		}

		atomic.AddInt64(&s.metrics.TotalRequests, 1)
		if rw.statusCode >= 500 {
			atomic.AddInt64(&s.metrics.ServerErrors, 1)
		}
		log.NewStructuredLogger(s.logger.With(log.FieldRequestID, requestID)).
			LogHTTPEnd(r.Context(), r, rw.statusCode, time.Since(start).Milliseconds(), ip)
	})
}

func setSecurityHeaders(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Content-Security-Policy", contentSecurityPolicy)
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	if r.TLS != nil {
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}
}

// GetMetrics returns a snapshot of the request counters
func (s *Server) GetMetrics() Metrics {
	return Metrics{
		TotalRequests: atomic.LoadInt64(&s.metrics.TotalRequests),
		ServerErrors:  atomic.LoadInt64(&s.metrics.ServerErrors),
		RateLimited:   atomic.LoadInt64(&s.metrics.RateLimited),
	}
}

func (s *Server) rejectRateLimited(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.metrics.RateLimited, 1)
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, clientIP(r),
		log.FieldRequestID, GetRequestID(r.Context()),
		log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
	TooManyRequestsError("Too many requests, please wait a minute and try again.").
		TriggerErrorNotification("Too many requests, please slow down.").
		Write(w)
}
