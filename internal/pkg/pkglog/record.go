package pkglog

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Attribute keys with a special meaning for the formatters.
const (
	// ExcInfoKey marks an error attribute rendered as the record's exception.
	ExcInfoKey = "exc_info"
	// ExcTextKey marks a pre-rendered exception text, used verbatim.
	ExcTextKey = "exc_text"
)

// Record is one log event handed to a Formatter.
//
// Time is captured once when the record is created; formatting the same
// record again reuses it, so output is stable across format calls.
type Record struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Logger  string
	Thread  string
	// PC is the program counter of the log call site, 0 when unknown.
	PC    uintptr
	Props []slog.Attr

	// Err is the exception attached with Exception.
	Err error
	// ExcText is a pre-rendered exception, used when Err is nil.
	ExcText string

	// Request is set on access records only.
	Request *RequestInfo
}

// HasException reports whether the record carries exception data.
func (r *Record) HasException() bool {
	return r.Err != nil || r.ExcText != ""
}

// Source returns the file base name, module name (file name without
// extension) and line of the call site.
func (r *Record) Source() (file, module string, line int) {
	if r.PC == 0 {
		return EmptyValue, EmptyValue, 0
	}
	frames := runtime.CallersFrames([]uintptr{r.PC})
	f, _ := frames.Next()
	if f.File == "" {
		return EmptyValue, EmptyValue, f.Line
	}
	file = filepath.Base(f.File)
	return file, strings.TrimSuffix(file, filepath.Ext(file)), f.Line
}

// Component identifies the process emitting records.
type Component struct {
	ID       string
	Name     string
	Instance int
}

// DefaultComponent returns a Component with every field unset.
func DefaultComponent() Component {
	return Component{ID: EmptyValue, Name: EmptyValue}
}

// Exception returns an attribute that attaches err as the record's exception.
func Exception(err error) slog.Attr {
	return slog.Any(ExcInfoKey, err)
}

// ExcText returns an attribute carrying already rendered exception text, for
// example a stack captured while recovering from a panic.
func ExcText(text string) slog.Attr {
	return slog.String(ExcTextKey, text)
}

type threadContextKey struct{}

// ContextWithThread names the goroutine serving ctx; records logged with
// ctx report it in the thread field.
func ContextWithThread(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, threadContextKey{}, name)
}

// ThreadFromContext returns the name stored by ContextWithThread, or EmptyValue.
func ThreadFromContext(ctx context.Context) string {
	if ctx == nil {
		return EmptyValue
	}
	if name, ok := ctx.Value(threadContextKey{}).(string); ok && name != "" {
		return name
	}
	return EmptyValue
}
