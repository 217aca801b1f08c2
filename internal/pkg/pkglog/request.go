package pkglog

import (
	"time"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
)

// RequestInfo accumulates the facts of one HTTP exchange for the access log.
//
// It is created when the request arrives and finalized exactly once when the
// response is complete. A RequestInfo belongs to a single request and is not
// safe for concurrent use.
type RequestInfo struct {
	request    any
	receivedAt time.Time

	responses ResponseAdapter
	now       func() time.Time

	finalized    bool
	responseTime time.Duration
	status       int
	size         int64
	contentType  string
	sentAt       time.Time
}

// Request returns the framework request this info was created for.
func (ri *RequestInfo) Request() any { return ri.request }

// ReceivedAt returns the arrival time of the request.
func (ri *RequestInfo) ReceivedAt() time.Time { return ri.receivedAt }

// Finalized reports whether Finalize has been called.
func (ri *RequestInfo) Finalized() bool { return ri.finalized }

// Finalize captures the response facts and the elapsed time. It returns an
// invariant error when called more than once.
func (ri *RequestInfo) Finalize(resp any) error {
	if ri.finalized {
		return pkgerror.NewInvariant(ErrAlreadyFinalized)
	}

	sentAt := ri.now()
	ri.responseTime = sentAt.Sub(ri.receivedAt)
	ri.status = ri.responses.StatusCode(resp)
	ri.size = ri.responses.Size(resp)
	ri.contentType = ri.responses.ContentType(resp)
	ri.sentAt = sentAt
	ri.finalized = true

	return nil
}

// ResponseTimeMS returns the elapsed time in whole milliseconds.
func (ri *RequestInfo) ResponseTimeMS() int64 { return ri.responseTime.Milliseconds() }

// Status returns the response status code.
func (ri *RequestInfo) Status() int { return ri.status }

// Size returns the response size in bytes, -1 when unknown.
func (ri *RequestInfo) Size() int64 { return ri.size }

// ContentType returns the response content type, EmptyValue when unknown.
func (ri *RequestInfo) ContentType() string { return ri.contentType }

// SentAt returns the time the response was finalized.
func (ri *RequestInfo) SentAt() time.Time { return ri.sentAt }
