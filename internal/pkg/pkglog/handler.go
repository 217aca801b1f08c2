package pkglog

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// lockedWriter serializes writes so every record lands as one line.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func (lw *lockedWriter) setWriter(w io.Writer) {
	lw.mu.Lock()
	lw.w = w
	lw.mu.Unlock()
}

type formatterBox struct {
	f Formatter
}

// sink is the state shared by every handler of a Runtime. While no formatter
// is installed records go to the slog text handler on the same writer.
type sink struct {
	out       *lockedWriter
	level     *slog.LevelVar
	formatter atomic.Pointer[formatterBox]
	text      slog.Handler
}

func newSink(w io.Writer) *sink {
	s := &sink{out: &lockedWriter{w: w}, level: new(slog.LevelVar)}
	s.text = slog.NewTextHandler(s.out, &slog.HandlerOptions{Level: slog.LevelDebug})
	return s
}

func (s *sink) writeLine(b []byte) error {
	line := make([]byte, 0, len(b)+1)
	line = append(line, b...)
	line = append(line, '\n')
	_, err := s.out.Write(line)
	return err
}

// Handler is a slog.Handler that turns slog records into Records and renders
// them with the runtime's current formatter.
type Handler struct {
	sink   *sink
	name   string
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
	text   slog.Handler

	// exception attached through WithAttrs, overridden per record
	err     error
	excText string
}

func newHandler(s *sink, name string, level slog.Leveler) *Handler {
	return &Handler{
		sink:  s,
		name:  name,
		level: level,
		text:  s.text.WithAttrs([]slog.Attr{slog.String("logger", name)}),
	}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	minLevel := h.sink.level.Level()
	if h.level != nil {
		minLevel = h.level.Level()
	}
	return l >= minLevel
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	own := attrs
	if len(h.groups) == 0 {
		own = make([]slog.Attr, 0, len(attrs))
		for _, a := range attrs {
			var exc Record
			if !h.exception(&exc, a) {
				own = append(own, a)
				continue
			}
			if exc.Err != nil {
				h2.err = exc.Err
			}
			if exc.ExcText != "" {
				h2.excText = exc.ExcText
			}
		}
	}
	h2.attrs = append(slices.Clip(h.attrs), wrapGroups(h.groups, own)...)
	h2.text = h.text.WithAttrs(attrs)
	return &h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(slices.Clip(h.groups), name)
	h2.text = h.text.WithGroup(name)
	return &h2
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	box := h.sink.formatter.Load()
	if box == nil {
		return h.text.Handle(ctx, r)
	}

	b, err := box.f.Format(ctx, h.record(ctx, r))
	if err != nil {
		return err
	}
	return h.sink.writeLine(b)
}

func (h *Handler) record(ctx context.Context, r slog.Record) *Record {
	rec := &Record{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Logger:  h.name,
		Thread:  ThreadFromContext(ctx),
		PC:      r.PC,
		Err:     h.err,
		ExcText: h.excText,
	}

	own := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if len(h.groups) == 0 && h.exception(rec, a) {
			return true
		}
		own = append(own, a)
		return true
	})

	rec.Props = make([]slog.Attr, 0, len(h.attrs)+len(own))
	rec.Props = append(rec.Props, h.attrs...)
	rec.Props = append(rec.Props, wrapGroups(h.groups, own)...)

	return rec
}

// exception moves exception attributes from the props onto rec.
func (h *Handler) exception(rec *Record, a slog.Attr) bool {
	switch a.Key {
	case ExcInfoKey:
		if a.Value.Kind() != slog.KindAny {
			return false
		}
		switch v := a.Value.Any().(type) {
		case nil:
			return true
		case error:
			rec.Err = v
			return true
		}
	case ExcTextKey:
		if a.Value.Kind() == slog.KindString && a.Value.String() != "" {
			rec.ExcText = a.Value.String()
			return true
		}
	}
	return false
}

func wrapGroups(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(groups) == 0 || len(attrs) == 0 {
		return attrs
	}
	a := slog.Attr{Key: groups[len(groups)-1], Value: slog.GroupValue(attrs...)}
	for i := len(groups) - 2; i >= 0; i-- {
		a = slog.Attr{Key: groups[i], Value: slog.GroupValue(a)}
	}
	return []slog.Attr{a}
}

// RequestLogger emits access records. Framework middleware receives one from
// Runtime.InitRequestInstrument.
type RequestLogger struct {
	name   string
	sink   *sink
	util   *RequestUtil
	access *AccessFormatter
	json   bool
	text   *slog.Logger
}

// Util returns the RequestUtil of the active framework.
func (l *RequestLogger) Util() *RequestUtil { return l.util }

// Begin starts tracking req. Middleware calls it when a request arrives.
func (l *RequestLogger) Begin(req any) (*RequestInfo, error) {
	return l.util.NewRequestInfo(req)
}

// Log writes the access record of a finalized request.
func (l *RequestLogger) Log(ctx context.Context, info *RequestInfo) error {
	rec := &Record{
		Time:    l.util.now(),
		Level:   slog.LevelInfo,
		Logger:  l.name,
		Thread:  ThreadFromContext(ctx),
		Request: info,
	}

	if !l.json {
		doc, err := l.access.document(rec)
		if err != nil {
			return err
		}
		l.text.LogAttrs(ctx, slog.LevelInfo, "request", doc.slogAttrs()...)
		return nil
	}

	b, err := l.access.Format(ctx, rec)
	if err != nil {
		return err
	}
	return l.sink.writeLine(b)
}
