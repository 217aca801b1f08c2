package pkglog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
)

const timeLayout = "2006-01-02T15:04:05.000Z"

// Formatter renders a record as one JSON document, without a trailing newline.
type Formatter interface {
	Format(ctx context.Context, rec *Record) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(ctx context.Context, rec *Record) ([]byte, error)

// Format calls f(ctx, rec).
func (f FormatterFunc) Format(ctx context.Context, rec *Record) ([]byte, error) {
	return f(ctx, rec)
}

// MarshalFunc serializes a document built by a formatter.
type MarshalFunc func(v any) ([]byte, error)

// LogFormatter renders application log records outside of a web context.
type LogFormatter struct {
	Component Component
	Marshal   MarshalFunc
}

// NewLogFormatter returns a LogFormatter for the given component.
func NewLogFormatter(c Component) *LogFormatter {
	return &LogFormatter{Component: c, Marshal: json.Marshal}
}

// Format implements Formatter.
func (f *LogFormatter) Format(_ context.Context, rec *Record) ([]byte, error) {
	doc := logDocument(f.Component, rec)
	doc.set("msg", rec.Message)
	finishLogDocument(doc, rec)

	return marshal(f.Marshal, doc)
}

// WebFormatter renders application log records emitted while serving
// requests. It adds the correlation id of the request found in the context.
type WebFormatter struct {
	Component Component
	Util      *RequestUtil
	Marshal   MarshalFunc
}

// NewWebFormatter returns a WebFormatter. The util's request adapter must be
// able to find the current request from a context.
func NewWebFormatter(c Component, util *RequestUtil) (*WebFormatter, error) {
	if !util.SupportsAmbientRequest() {
		return nil, pkgerror.NewConfiguration(ErrNoAmbientRequest)
	}
	return &WebFormatter{Component: c, Util: util, Marshal: json.Marshal}, nil
}

// Format implements Formatter.
func (f *WebFormatter) Format(ctx context.Context, rec *Record) ([]byte, error) {
	cid, err := f.Util.CorrelationIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	doc := logDocument(f.Component, rec)
	doc.set("correlation_id", cid)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		doc.set("trace_id", sc.TraceID().String())
		doc.set("span_id", sc.SpanID().String())
	}
	doc.set("msg", rec.Message)
	finishLogDocument(doc, rec)

	return marshal(f.Marshal, doc)
}

// AccessFormatter renders one finalized HTTP exchange.
type AccessFormatter struct {
	Component Component
	Util      *RequestUtil
	Marshal   MarshalFunc
}

// NewAccessFormatter returns an AccessFormatter.
func NewAccessFormatter(c Component, util *RequestUtil) *AccessFormatter {
	return &AccessFormatter{Component: c, Util: util, Marshal: json.Marshal}
}

// Format implements Formatter. The record must carry a finalized RequestInfo.
func (f *AccessFormatter) Format(_ context.Context, rec *Record) ([]byte, error) {
	doc, err := f.document(rec)
	if err != nil {
		return nil, err
	}
	return marshal(f.Marshal, doc)
}

func (f *AccessFormatter) document(rec *Record) (*document, error) {
	info := rec.Request
	if info == nil || !info.Finalized() {
		return nil, pkgerror.NewInvariant(ErrNotFinalized)
	}

	req := info.Request()
	ra := f.Util.Requests()

	doc := newDocument(24)
	doc.set("type", "request")
	setHeader(doc, f.Component, rec.Time)
	doc.set("correlation_id", f.Util.CorrelationID(req))
	doc.set("remote_user", ra.RemoteUser(req))
	doc.set("request", ra.Path(req))
	doc.set("referer", ra.Header(req, "Referer"))
	doc.set("x_forwarded_for", ra.Header(req, "X-Forwarded-For"))
	doc.set("protocol", ra.Protocol(req))
	doc.set("method", ra.Method(req))
	doc.set("remote_ip", ra.RemoteIP(req))
	doc.set("request_size_b", parseInt(ra.ContentLength(req), -1))
	doc.set("remote_host", ra.RemoteIP(req))
	doc.set("remote_port", ra.RemotePort(req))
	doc.set("request_received_at", isoTime(info.ReceivedAt()))
	doc.set("response_time_ms", info.ResponseTimeMS())
	doc.set("response_status", info.Status())
	doc.set("response_size_b", info.Size())
	doc.set("response_content_type", info.ContentType())
	doc.set("response_sent_at", isoTime(info.SentAt()))

	return doc, nil
}

func setHeader(doc *document, c Component, t time.Time) {
	doc.set("written_at", isoTime(t))
	doc.set("written_ts", t.UnixNano())
	doc.set("component_id", c.ID)
	doc.set("component_name", c.Name)
	doc.set("component_instance", c.Instance)
}

func logDocument(c Component, rec *Record) *document {
	_, module, line := rec.Source()

	doc := newDocument(16 + len(rec.Props))
	doc.set("type", "log")
	setHeader(doc, c, rec.Time)
	doc.set("logger", rec.Logger)
	doc.set("thread", rec.Thread)
	doc.set("level", rec.Level.String())
	doc.set("line_no", line)
	doc.set("module", module)

	return doc
}

// finishLogDocument merges the props after the fixed fields, then the
// exception fields.
func finishLogDocument(doc *document, rec *Record) {
	for _, a := range rec.Props {
		doc.addAttr(a)
	}

	if !rec.HasException() {
		return
	}
	file, _, _ := rec.Source()
	doc.set("exc_info", formatException(rec))
	doc.set("filename", file)
}

func formatException(rec *Record) string {
	if rec.Err != nil {
		return fmt.Sprintf("%+v", rec.Err)
	}
	return rec.ExcText
}

func marshal(fn MarshalFunc, doc *document) ([]byte, error) {
	if fn == nil {
		fn = json.Marshal
	}
	return fn(doc)
}

func isoTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseInt(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
