package nethttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog"
)

func TestRequestAdapterReads(t *testing.T) {
	a := RequestAdapter{}
	req := httptest.NewRequest(http.MethodPut, "/items/9?x=1", nil)
	req.SetBasicAuth("alice", "secret")
	req.Header.Set("Content-Length", "512")

	assert.Equal(t, "alice", a.RemoteUser(req))
	assert.Equal(t, "/items/9", a.Path(req))
	assert.Equal(t, "PUT", a.Method(req))
	assert.Equal(t, "512", a.ContentLength(req))
	assert.Equal(t, pkglog.EmptyValue, a.Header(req, "X-Missing"))
	assert.True(t, a.InRequestContext(req))
}

func TestRequestAdapterOddRemoteAddr(t *testing.T) {
	a := RequestAdapter{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "@unix"

	assert.Equal(t, "@unix", a.RemoteIP(req))
	assert.Equal(t, pkglog.EmptyValue, a.RemotePort(req))
	assert.Equal(t, pkglog.EmptyValue, a.RemoteUser(req))
}

func TestRequestAdapterOutsideRequest(t *testing.T) {
	a := RequestAdapter{}

	assert.False(t, a.InRequestContext(nil))
	assert.Equal(t, pkglog.EmptyValue, a.Path(nil))
	assert.Equal(t, pkglog.EmptyValue, a.CorrelationID("nope"))
	a.SetCorrelationID(nil, "ignored")
}

func TestRequestAdapterCorrelationStorage(t *testing.T) {
	a := RequestAdapter{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	a.SetCorrelationID(req, "cid-1")
	assert.Equal(t, "cid-1", req.Header.Get(pkglog.HeaderCorrelationID))

	req = req.WithContext(pkglog.SetCorrelationID(req.Context(), "cid-2"))
	assert.Equal(t, "cid-2", a.CorrelationID(req))
}

func TestRequestAdapterFromContext(t *testing.T) {
	a := RequestAdapter{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := a.RequestFromContext(context.Background())
	assert.False(t, ok)

	_, ok = a.RequestFromContext(pkglog.ContextWithRequest(context.Background(), "not a request"))
	assert.False(t, ok)

	got, ok := a.RequestFromContext(pkglog.ContextWithRequest(context.Background(), req))
	assert.True(t, ok)
	assert.Same(t, req, got)
}

func TestResponseAdapter(t *testing.T) {
	a := ResponseAdapter{}

	rec := NewResponseRecorder(httptest.NewRecorder())
	rec.Header().Set("Content-Type", "text/plain")
	_, _ = rec.Write([]byte("hello"))
	assert.Equal(t, http.StatusOK, a.StatusCode(rec))
	assert.Equal(t, int64(5), a.Size(rec))
	assert.Equal(t, "text/plain", a.ContentType(rec))

	explicit := NewResponseRecorder(httptest.NewRecorder())
	explicit.Header().Set("Content-Length", "10")
	assert.Equal(t, int64(10), a.Size(explicit))

	assert.Equal(t, int64(-1), a.Size("not a writer"))
	assert.Equal(t, pkglog.EmptyValue, a.ContentType(42))
}
