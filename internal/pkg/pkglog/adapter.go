package pkglog

import (
	"context"
	"reflect"
)

// RequestAdapter extracts the facts needed for logging from one framework's
// request type. Every read returns EmptyValue instead of failing when the
// framework does not expose a fact.
type RequestAdapter interface {
	// RequestType is the dynamic type of the requests this adapter accepts.
	RequestType() reflect.Type
	Header(req any, name string) string
	RemoteUser(req any) string
	RemoteIP(req any) string
	RemotePort(req any) string
	Protocol(req any) string
	Path(req any) string
	Method(req any) string
	// ContentLength returns the raw request content length, unparsed.
	ContentLength(req any) string
	InRequestContext(req any) bool
	// SetCorrelationID stores id on the request so later handlers see it.
	SetCorrelationID(req any, id string)
	// CorrelationID returns an id previously stored on the request, or EmptyValue.
	CorrelationID(req any) string
}

// AmbientRequestAdapter is implemented by request adapters whose framework
// can hand out the request currently being served from a context.
type AmbientRequestAdapter interface {
	RequestAdapter
	RequestFromContext(ctx context.Context) (any, bool)
}

// ResponseAdapter extracts response facts for the access log.
type ResponseAdapter interface {
	StatusCode(resp any) int
	// Size is the response body size in bytes: the explicit Content-Length
	// when set, otherwise the number of bytes written, otherwise -1.
	Size(resp any) int64
	ContentType(resp any) string
}

// Instrumentor installs request instrumentation on a framework application.
// The installed middleware creates a RequestInfo when a request arrives and
// finalizes and logs it through rl when the response is complete.
type Instrumentor interface {
	Instrument(app any, rl *RequestLogger) error
}

// InstrumentorFunc adapts a function to the Instrumentor interface.
type InstrumentorFunc func(app any, rl *RequestLogger) error

// Instrument calls f(app, rl).
func (f InstrumentorFunc) Instrument(app any, rl *RequestLogger) error {
	return f(app, rl)
}

// AppConfigurator prepares a framework for JSON logging when Init runs with
// JSON output enabled, for example by routing the framework's own log lines
// through rt's loggers.
type AppConfigurator interface {
	Configure(rt *Runtime) error
}

type requestContextKey struct{}

// ContextWithRequest stores the request being served in ctx. Framework
// middleware calls it so AmbientRequestAdapter implementations can find the
// request again deep inside business code.
func ContextWithRequest(ctx context.Context, req any) context.Context {
	return context.WithValue(ctx, requestContextKey{}, req)
}

// RequestFromContext returns the request stored by ContextWithRequest.
func RequestFromContext(ctx context.Context) (any, bool) {
	if ctx == nil {
		return nil, false
	}
	req := ctx.Value(requestContextKey{})
	return req, req != nil
}
