// Package logrusfmt lets logrus loggers write through the pkglog formatters.
//
//	logger := logrus.New()
//	logger.SetFormatter(logrusfmt.New("billing", pkglog.Default()))
//
// Entry fields become record properties; logrus.ErrorKey is treated as the
// exception. Until the runtime has a formatter, entries use logrus' own text
// format.
package logrusfmt

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog"
)

// Formatter is a logrus.Formatter backed by a pkglog.Runtime.
type Formatter struct {
	name     string
	rt       *pkglog.Runtime
	fallback logrus.Formatter
}

// New returns a Formatter writing records for the named logger.
func New(name string, rt *pkglog.Runtime) *Formatter {
	return &Formatter{
		name:     name,
		rt:       rt,
		fallback: &logrus.TextFormatter{DisableColors: true, FullTimestamp: true},
	}
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	pf := f.rt.Formatter()
	if pf == nil {
		return f.fallback.Format(entry)
	}

	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := pf.Format(ctx, record(ctx, f.name, entry))
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func record(ctx context.Context, name string, entry *logrus.Entry) *pkglog.Record {
	rec := &pkglog.Record{
		Time:    entry.Time,
		Level:   level(entry.Level),
		Message: entry.Message,
		Logger:  name,
		Thread:  pkglog.ThreadFromContext(ctx),
	}
	if entry.Caller != nil {
		rec.PC = entry.Caller.PC
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rec.Props = make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		v := entry.Data[k]
		if k == logrus.ErrorKey {
			if err, ok := v.(error); ok && err != nil {
				rec.Err = err
				continue
			}
		}
		rec.Props = append(rec.Props, slog.Any(k, v))
	}

	return rec
}

func level(l logrus.Level) slog.Level {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel:
		return slog.LevelError + 4
	case logrus.ErrorLevel:
		return slog.LevelError
	case logrus.WarnLevel:
		return slog.LevelWarn
	case logrus.InfoLevel:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

var _ logrus.Formatter = (*Formatter)(nil)
