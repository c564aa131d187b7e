package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_Burst_Then_Reject(t *testing.T) {
	limiter := NewRateLimiter(1, 3)
	h := limiter.Handler(okHandler())

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{200, 200, 200, 429}, codes)
}

func TestRateLimiter_Per_IP(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	now := time.Now()

	assert.True(t, limiter.allow("10.0.0.1", now))
	assert.False(t, limiter.allow("10.0.0.1", now))
	assert.True(t, limiter.allow("10.0.0.2", now), "a second client has its own bucket")
}

func TestRateLimiter_Evicts_Idle_Visitors(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	now := time.Now()

	limiter.allow("10.0.0.1", now.Add(-10*time.Minute))
	limiter.allow("10.0.0.2", now)
	limiter.evict(now)

	_, stale := limiter.visitors.Load("10.0.0.1")
	_, fresh := limiter.visitors.Load("10.0.0.2")
	assert.False(t, stale)
	assert.True(t, fresh)
}

func TestMaxBytes(t *testing.T) {
	var readErr error
	h := MaxBytes(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is too long"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Error(t, readErr)
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/crypto/exchange", strings.NewReader(`{"public_key":[1,2,3]}`))
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, `"status":418`)
	assert.Contains(t, line, `"path":"/api/crypto/exchange"`)
	assert.NotContains(t, line, "public_key", "request bodies must never be logged")
}
