package pkglog

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkguid"
)

// EmptyValue is written in place of any fact that is not available.
const EmptyValue = "-"

const (
	// HeaderCorrelationID is the canonical header used to track requests end-to-end.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is an accepted alternative header name used by some proxies.
	HeaderRequestID = "X-Request-ID"
)

const maxCorrelationIDLen = 128

type chainIDContextKey struct{}

// GetCorrelationID returns the correlation ID stored in the context, or
// EmptyValue when there is none.
//
// Middleware is expected to set this value early in the request lifecycle so
// it can be attached to logs and propagated to downstream calls.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return EmptyValue
	}
	cid, ok := ctx.Value(chainIDContextKey{}).(string)
	if !ok || cid == "" {
		return EmptyValue
	}
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, chainIDContextKey{}, cid)
}

// DefaultCorrelationHeaders returns the header names searched when none are configured.
func DefaultCorrelationHeaders() []string {
	return []string{HeaderCorrelationID, HeaderRequestID}
}

// CorrelationPolicy extracts or mints the correlation id of a request.
type CorrelationPolicy struct {
	// Headers are searched in order; the first non-empty value wins.
	Headers []string
	// CreateIfMissing mints a new id with Generator when no header is present.
	CreateIfMissing bool
	// Generator mints new ids. It must be safe for concurrent use.
	Generator pkguid.StringID
}

// NewCorrelationPolicy returns the default policy: both standard headers,
// creation enabled, time-ordered UUIDs.
func NewCorrelationPolicy() *CorrelationPolicy {
	return &CorrelationPolicy{
		Headers:         DefaultCorrelationHeaders(),
		CreateIfMissing: true,
		Generator:       pkguid.NewUUID(),
	}
}

// Resolve returns the correlation id of req.
//
// An id already stored on the request wins, then the configured headers are
// searched. When nothing is found and creation is enabled a new id is minted
// and stored back on the request so later lookups return the same value.
// Otherwise, or outside a request, EmptyValue is returned.
func (p *CorrelationPolicy) Resolve(adapter RequestAdapter, req any) string {
	if req == nil || !adapter.InRequestContext(req) {
		return EmptyValue
	}

	if cid := normalizeCID(adapter.CorrelationID(req)); cid != "" {
		return cid
	}

	for _, name := range p.Headers {
		if cid := normalizeCID(adapter.Header(req, name)); cid != "" {
			return cid
		}
	}

	if !p.CreateIfMissing || p.Generator == nil {
		return EmptyValue
	}

	cid := p.Generator.Generate()
	adapter.SetCorrelationID(req, cid)

	return cid
}

func normalizeCID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == EmptyValue {
		return ""
	}
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}
	if len(v) > maxCorrelationIDLen {
		n := maxCorrelationIDLen
		for n > 0 && !utf8.RuneStart(v[n]) {
			n--
		}
		v = v[:n]
	}
	return v
}
