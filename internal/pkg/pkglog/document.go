package pkglog

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

// document is a JSON object that keeps keys in insertion order. Setting an
// existing key replaces its value in place.
type document struct {
	keys []string
	vals map[string]any
}

func newDocument(size int) *document {
	return &document{
		keys: make([]string, 0, size),
		vals: make(map[string]any, size),
	}
}

func (d *document) set(key string, v any) {
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
}

func (d *document) get(key string) (any, bool) {
	v, ok := d.vals[key]
	return v, ok
}

// MarshalJSON implements json.Marshaler.
func (d *document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(d.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// addAttr merges a into d following slog's rules: empty attributes are
// dropped, groups become nested objects and groups with an empty key are
// inlined.
func (d *document) addAttr(a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() != slog.KindGroup {
		d.set(a.Key, attrValue(a.Value))
		return
	}

	attrs := a.Value.Group()
	if len(attrs) == 0 {
		return
	}
	if a.Key == "" {
		for _, ga := range attrs {
			d.addAttr(ga)
		}
		return
	}

	sub, ok := d.vals[a.Key].(*document)
	if !ok {
		sub = newDocument(len(attrs))
		d.set(a.Key, sub)
	}
	for _, ga := range attrs {
		sub.addAttr(ga)
	}
}

// slogAttrs converts d into attributes for a slog text fallback.
func (d *document) slogAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(d.keys))
	for _, k := range d.keys {
		if sub, ok := d.vals[k].(*document); ok {
			attrs = append(attrs, slog.Attr{Key: k, Value: slog.GroupValue(sub.slogAttrs()...)})
			continue
		}
		attrs = append(attrs, slog.Any(k, d.vals[k]))
	}
	return attrs
}

func attrValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return int64(v.Duration())
	case slog.KindTime:
		return v.Time()
	default:
		x := v.Any()
		if _, ok := x.(json.Marshaler); ok {
			return x
		}
		if err, ok := x.(error); ok {
			return err.Error()
		}
		return x
	}
}
