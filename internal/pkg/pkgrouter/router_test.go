package pkgrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
)

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestRouterEndpointSuccess(t *testing.T) {
	r := NewRouter()
	r.GET("/orders/:id", func(ctx context.Context, _ *http.Request) (any, error) {
		return map[string]string{"id": Param(ctx, "id")}, nil
	})

	rec := serve(t, r, http.MethodGet, "/orders/42")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{
		"message": "request has been successfully",
		"data":    map[string]any{"id": "42"},
	}, body(t, rec))
}

func TestRouterEndpointNoContent(t *testing.T) {
	r := NewRouter()
	r.POST("/ping", func(context.Context, *http.Request) (any, error) { return nil, nil })

	rec := serve(t, r, http.MethodPost, "/ping")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRouterEndpointErrors(t *testing.T) {
	r := NewRouter()
	r.GET("/missing", func(context.Context, *http.Request) (any, error) {
		return nil, pkgerror.NewBusiness("order not found", pkgerror.CodeNotFound)
	})
	r.GET("/broken", func(context.Context, *http.Request) (any, error) {
		return nil, errors.New("db down")
	})

	rec := serve(t, r, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "order not found", body(t, rec)["message"])

	rec = serve(t, r, http.MethodGet, "/broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body(t, rec)["message"])
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	r := NewRouter()
	r.GET("/only-get", func(context.Context, *http.Request) (any, error) { return "ok", nil })

	rec := serve(t, r, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "endpoint not found", body(t, rec)["message"])

	rec = serve(t, r, http.MethodDelete, "/only-get")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterWrapSeesEveryRequest(t *testing.T) {
	r := NewRouter()
	r.GET("/a", func(context.Context, *http.Request) (any, error) { return "a", nil })

	var seen []string
	r.Wrap(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			seen = append(seen, req.URL.Path)
			next.ServeHTTP(w, req)
		})
	})

	serve(t, r, http.MethodGet, "/a")
	serve(t, r, http.MethodGet, "/unknown")

	assert.Equal(t, []string{"/a", "/unknown"}, seen)
}

func TestRouterUseAppliesToLaterRoutes(t *testing.T) {
	r := NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Route-MW", "yes")
			next.ServeHTTP(w, req)
		})
	})
	r.Handle(http.MethodGet, "/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := serve(t, r, http.MethodGet, "/raw")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Route-MW"))
}

func TestRecovererLogsStack(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r := NewRouter()
	r.GET("/panic", func(context.Context, *http.Request) (any, error) { panic("kaboom") })

	rec := serve(t, r, http.MethodGet, "/panic")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body(t, rec)["message"])
	out := buf.String()
	assert.Contains(t, out, "panic on the server")
	assert.Contains(t, out, "because=kaboom")
	assert.True(t, strings.Contains(out, "exc_text="), "stack attached: %s", out)
}

func TestRecovererRepanicsAbort(t *testing.T) {
	h := middlewareRecoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		serve(t, h, http.MethodGet, "/")
	})
}
