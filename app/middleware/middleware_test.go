package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-configurator/ratelimit"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestChainSetsRequestIDAndRecovers(t *testing.T) {
	h := Chain(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	requestID := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, requestID)

	body := decodeError(t, rec)
	assert.Equal(t, "internal_error", body.Code)
	assert.Equal(t, requestID, body.RequestID)
}

func TestThrottle(t *testing.T) {
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewMemoryLimiter(30*time.Second, func() time.Time { return now })
	h := Throttle(limiter, "submit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	sendPath := func(path, ip string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec.Code
	}
	send := func(ip string) int { return sendPath("/api/sessions/a/submit", ip) }

	assert.Equal(t, http.StatusNoContent, send("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, sendPath("/api/sessions/b/submit", "203.0.113.7"),
		"a different path on the same route shares the bucket")
	assert.Equal(t, http.StatusNoContent, send("203.0.113.8"))

	now = now.Add(31 * time.Second)
	assert.Equal(t, http.StatusNoContent, send("203.0.113.7"))
}

func TestAdminAuth(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"disabled", "", "anything", http.StatusForbidden},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"wrong header", "s3cret", "guess", http.StatusUnauthorized},
		{"valid", "s3cret", "s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
			if tt.header != "" {
				req.Header.Set("X-Admin-Token", tt.header)
			}
			rec := httptest.NewRecorder()
			AdminAuth(tt.token, ok)(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", GetClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", GetClientIP(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	assert.Equal(t, "203.0.113.9", GetClientIP(req))
}

func TestParseJSONRequest(t *testing.T) {
	var body struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Anna"}`))
	req.Header.Set("Content-Type", "application/json")
	require.NoError(t, ParseJSONRequest(httptest.NewRecorder(), req, &body))
	assert.Equal(t, "Anna", body.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Anna","admin":true}`))
	assert.Error(t, ParseJSONRequest(httptest.NewRecorder(), req, &body))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`name=Anna`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Error(t, ParseJSONRequest(httptest.NewRecorder(), req, &body))
}

func TestWriteValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"email": "is invalid"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "validation_failed", body.Code)
	assert.Equal(t, "is invalid", body.Fields["email"])
}
