package nethttp

import (
	"context"
	"net"
	"net/http"
	"reflect"
	"strconv"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog"
)

//nolint:gochecknoglobals // immutable type descriptor
var requestType = reflect.TypeOf((*http.Request)(nil))

func asRequest(req any) *http.Request {
	r, _ := req.(*http.Request)
	return r
}

func orEmpty(v string) string {
	if v == "" {
		return pkglog.EmptyValue
	}
	return v
}

// RequestAdapter reads facts from an *http.Request.
type RequestAdapter struct{}

func (RequestAdapter) RequestType() reflect.Type { return requestType }

func (RequestAdapter) Header(req any, name string) string {
	r := asRequest(req)
	if r == nil {
		return pkglog.EmptyValue
	}
	return orEmpty(r.Header.Get(name))
}

// RemoteUser returns the basic-auth user name, or the user of the request URL.
func (RequestAdapter) RemoteUser(req any) string {
	r := asRequest(req)
	if r == nil {
		return pkglog.EmptyValue
	}
	if user, _, ok := r.BasicAuth(); ok && user != "" {
		return user
	}
	if r.URL != nil && r.URL.User != nil {
		return orEmpty(r.URL.User.Username())
	}
	return pkglog.EmptyValue
}

func (RequestAdapter) RemoteIP(req any) string {
	r := asRequest(req)
	if r == nil {
		return pkglog.EmptyValue
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return orEmpty(r.RemoteAddr)
	}
	return orEmpty(host)
}

func (RequestAdapter) RemotePort(req any) string {
	r := asRequest(req)
	if r == nil {
		return pkglog.EmptyValue
	}
	_, port, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return pkglog.EmptyValue
	}
	return orEmpty(port)
}

func (RequestAdapter) Protocol(req any) string {
	r := asRequest(req)
	if r == nil {
		return pkglog.EmptyValue
	}
	return orEmpty(r.Proto)
}

func (RequestAdapter) Path(req any) string {
	r := asRequest(req)
	if r == nil || r.URL == nil {
		return pkglog.EmptyValue
	}
	return orEmpty(r.URL.Path)
}

func (RequestAdapter) Method(req any) string {
	r := asRequest(req)
	if r == nil {
		return pkglog.EmptyValue
	}
	return orEmpty(r.Method)
}

// ContentLength returns the Content-Length header as sent, falling back to
// the length parsed by net/http.
func (RequestAdapter) ContentLength(req any) string {
	r := asRequest(req)
	if r == nil {
		return pkglog.EmptyValue
	}
	if v := r.Header.Get("Content-Length"); v != "" {
		return v
	}
	if r.ContentLength > 0 {
		return strconv.FormatInt(r.ContentLength, 10)
	}
	return pkglog.EmptyValue
}

func (RequestAdapter) InRequestContext(req any) bool {
	return asRequest(req) != nil
}

// SetCorrelationID sets the X-Correlation-ID header of the request.
func (RequestAdapter) SetCorrelationID(req any, id string) {
	if r := asRequest(req); r != nil {
		r.Header.Set(pkglog.HeaderCorrelationID, id)
	}
}

// CorrelationID returns the id Middleware stored in the request context.
func (RequestAdapter) CorrelationID(req any) string {
	r := asRequest(req)
	if r == nil {
		return pkglog.EmptyValue
	}
	return pkglog.GetCorrelationID(r.Context())
}

// RequestFromContext returns the request Middleware stored in ctx.
func (RequestAdapter) RequestFromContext(ctx context.Context) (any, bool) {
	req, ok := pkglog.RequestFromContext(ctx)
	if !ok {
		return nil, false
	}
	r, ok := req.(*http.Request)
	return r, ok
}

// ResponseAdapter reads facts from the writer Middleware hands to handlers.
// It accepts any http.ResponseWriter; status and size need a *ResponseRecorder.
type ResponseAdapter struct{}

func (ResponseAdapter) StatusCode(resp any) int {
	if rec, ok := resp.(*ResponseRecorder); ok {
		return rec.Status()
	}
	return http.StatusOK
}

// Size prefers the explicit Content-Length header and falls back to the
// number of bytes written through the recorder.
func (ResponseAdapter) Size(resp any) int64 {
	w, ok := resp.(http.ResponseWriter)
	if !ok {
		return -1
	}
	if v := w.Header().Get("Content-Length"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	if rec, ok := resp.(*ResponseRecorder); ok {
		return rec.BytesWritten()
	}
	return -1
}

func (ResponseAdapter) ContentType(resp any) string {
	w, ok := resp.(http.ResponseWriter)
	if !ok {
		return pkglog.EmptyValue
	}
	return orEmpty(w.Header().Get("Content-Type"))
}

var (
	_ pkglog.AmbientRequestAdapter = RequestAdapter{}
	_ pkglog.ResponseAdapter       = ResponseAdapter{}
)
