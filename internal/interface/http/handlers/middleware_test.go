package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func TestETagMiddleware(t *testing.T) {
	h := ETagMiddleware("v1")(okHandler)

	tests := []struct {
		name        string
		ifNoneMatch string
		want        int
	}{
		{"no header", "", http.StatusOK},
		{"strong match", `"v1"`, http.StatusNotModified},
		{"weak match", `W/"v1"`, http.StatusNotModified},
		{"list", `"v0", "v1"`, http.StatusNotModified},
		{"wildcard", "*", http.StatusNotModified},
		{"stale", `"v0"`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.ifNoneMatch != "" {
				req.Header.Set("If-None-Match", tt.ifNoneMatch)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, `"v1"`, rec.Header().Get("ETag"))
		})
	}
}

func TestETagMiddleware_EmptyVersion(t *testing.T) {
	rec := httptest.NewRecorder()
	ETagMiddleware("")(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, rec.Header().Get("ETag"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCacheControlMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	CacheControlMiddleware(5*time.Minute, true)(okHandler).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "private, max-age=300", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	CacheControlMiddleware(time.Minute, false)(okHandler).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) MiddlewareFunc {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	ChainHandler(okHandler, mw("outer"), mw("inner")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

type sizedDataset int

func (s sizedDataset) Len() int { return int(s) }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestCompositeHealthChecker(t *testing.T) {
	ctx := context.Background()

	c := NewCompositeHealthChecker("test")
	assert.True(t, c.Check(ctx).Healthy)

	c.AddCheck("dataset", NewDatasetCheck(sizedDataset(3)))
	c.AddOptionalCheck("cache", NewCacheCheck(pinger{}))
	status := c.Check(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Ready)
	assert.Len(t, status.Checks, 2)
	assert.Equal(t, "all checks passed", status.Message)

	c.AddOptionalCheck("cache", NewCacheCheck(pinger{err: errors.New("connection refused")}))
	status = c.Check(ctx)
	assert.False(t, status.Healthy)
	assert.True(t, status.Ready)
	assert.Equal(t, []string{"cache"}, status.Degraded)
	assert.Equal(t, "connection refused", status.Checks["cache"].Message)
	assert.False(t, status.Checks["cache"].Critical)
	assert.Equal(t, "degraded: cache", status.Message)

	c.AddCheck("dataset", NewDatasetCheck(sizedDataset(0)))
	status = c.Check(ctx)
	assert.False(t, status.Ready)
	assert.True(t, status.Checks["dataset"].Critical)
	assert.Equal(t, "failing: cache, dataset", status.Message)
}

func TestCompositeHealthChecker_Timeout(t *testing.T) {
	c := NewCompositeHealthChecker("test")
	c.SetTimeout(10 * time.Millisecond)
	c.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := c.Check(context.Background())
	assert.False(t, status.Ready)
	assert.Equal(t, context.DeadlineExceeded.Error(), status.Checks["slow"].Message)
}

func TestDatasetCheck_Empty(t *testing.T) {
	assert.Error(t, NewDatasetCheck(sizedDataset(0))(context.Background()))
	assert.Error(t, NewDatasetCheck(nil)(context.Background()))
}
