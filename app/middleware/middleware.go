package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"quote-configurator/ratelimit"
)

type contextKey string

// RequestIDKey holds the request id in the request context
const RequestIDKey contextKey = "request_id"

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// APIError is the JSON body of every error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   string            `json:"details,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"` // Per-field validation messages
	RequestID string            `json:"requestId"`
}

// Chain wraps a handler with request id, logging and panic recovery
func Chain(next http.HandlerFunc) http.HandlerFunc {
	return RequestID(Logging(ErrorHandling(next)))
}

// RequestID adds a unique request ID to each request
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// Logging logs method, path, client IP, status and duration of every request
func Logging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := GetRequestID(r.Context())
		log.Printf("📥 %s %s from %s (request_id=%s)", r.Method, r.URL.Path, GetClientIP(r), requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		marker := "✅"
		if rw.statusCode >= http.StatusBadRequest {
			marker = "❌"
		}
		log.Printf("%s %s %s -> %d in %s (request_id=%s)", marker, r.Method, r.URL.Path, rw.statusCode, time.Since(start), requestID)
	}
}

// ErrorHandling recovers panics into a 500 JSON response
func ErrorHandling(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("❌ panic in %s %s (request_id=%s): %v", r.Method, r.URL.Path, GetRequestID(r.Context()), err)
				WriteAPIError(w, r, http.StatusInternalServerError, "internal_error", "An internal error occurred", "")
			}
		}()
		next.ServeHTTP(w, r)
	}
}

// Throttle admits one request per client IP per limiter cool-down for the named route. The key
// ignores the request path, so ids in the path do not open new buckets.
func Throttle(limiter ratelimit.Limiter, route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := GetClientIP(r)
		if !limiter.Allow(route + "|" + ip) {
			log.Printf("⚠️ Throttle: %s rejected for %s", route, ip)
			WriteAPIError(w, r, http.StatusTooManyRequests, "rate_limit_exceeded",
				"Too many requests. Please wait before trying again.", "")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// AdminAuth requires the X-Admin-Token header to match token. An empty token disables the admin routes.
func AdminAuth(token string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token == "" {
			WriteAPIError(w, r, http.StatusForbidden, "admin_disabled", "Admin access is not configured", "")
			return
		}
		got := r.Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			WriteAPIError(w, r, http.StatusUnauthorized, "invalid_token", "Admin token is missing or invalid", "")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// GetRequestID returns the request id stored by RequestID
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetClientIP prefers proxy headers over the socket address
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// WriteAPIError writes a standardized error response
func WriteAPIError(w http.ResponseWriter, r *http.Request, statusCode int, code, message, details string) {
	writeError(w, statusCode, APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: GetRequestID(r.Context()),
	})
}

// WriteValidationError writes a 400 response listing the invalid fields
func WriteValidationError(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	writeError(w, http.StatusBadRequest, APIError{
		Code:      "validation_failed",
		Message:   "Some fields are invalid",
		Fields:    fields,
		RequestID: GetRequestID(r.Context()),
	})
}

func writeError(w http.ResponseWriter, statusCode int, body APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ writeError: failed to encode response: %v", err)
	}
}

// WriteJSON writes v with the given status
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ WriteJSON: failed to encode response: %v", err)
	}
}

// ParseJSONRequest decodes a JSON body into v, rejecting unknown fields
func ParseJSONRequest(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		return fmt.Errorf("content-type must be application/json")
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// responseWriter captures the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
