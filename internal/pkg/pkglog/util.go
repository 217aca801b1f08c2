package pkglog

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
)

// RequestUtil combines the active adapters with the correlation policy. It
// is shared by the formatters and by application code.
type RequestUtil struct {
	requests  RequestAdapter
	responses ResponseAdapter
	policy    *CorrelationPolicy
	now       func() time.Time
}

// NewRequestUtil returns a RequestUtil. A nil policy selects
// NewCorrelationPolicy and a nil clock selects time.Now.
func NewRequestUtil(ra RequestAdapter, rsa ResponseAdapter, policy *CorrelationPolicy, now func() time.Time) *RequestUtil {
	if policy == nil {
		policy = NewCorrelationPolicy()
	}
	if now == nil {
		now = time.Now
	}
	return &RequestUtil{requests: ra, responses: rsa, policy: policy, now: now}
}

// Requests returns the active request adapter.
func (u *RequestUtil) Requests() RequestAdapter { return u.requests }

// Responses returns the active response adapter.
func (u *RequestUtil) Responses() ResponseAdapter { return u.responses }

// SupportsAmbientRequest reports whether the request adapter can find the
// current request from a context.
func (u *RequestUtil) SupportsAmbientRequest() bool {
	_, ok := u.requests.(AmbientRequestAdapter)
	return ok
}

// CorrelationID resolves the correlation id of req.
func (u *RequestUtil) CorrelationID(req any) string {
	return u.policy.Resolve(u.requests, req)
}

// CorrelationIDFromContext resolves the correlation id of the request being
// served in ctx. It fails with a usage error when the framework cannot look
// the request up from a context, and returns EmptyValue when ctx carries no
// request.
func (u *RequestUtil) CorrelationIDFromContext(ctx context.Context) (string, error) {
	ambient, ok := u.requests.(AmbientRequestAdapter)
	if !ok {
		return "", pkgerror.NewUsage(ErrNoAmbientRequest)
	}

	req, ok := ambient.RequestFromContext(ctx)
	if !ok {
		return EmptyValue, nil
	}
	return u.CorrelationID(req), nil
}

// NewRequestInfo starts tracking req. It fails with a usage error when req
// does not have the request adapter's type.
func (u *RequestUtil) NewRequestInfo(req any) (*RequestInfo, error) {
	if want := u.requests.RequestType(); reflect.TypeOf(req) != want {
		return nil, pkgerror.NewUsage(fmt.Errorf("%w: got %T, want %s", ErrRequestType, req, want))
	}

	return &RequestInfo{
		request:    req,
		receivedAt: u.now(),
		responses:  u.responses,
		now:        u.now,
		size:       -1,
	}, nil
}
