package pkglog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeRequest struct {
	headers map[string]string
	cid     string
	user    string
	addr    [2]string
	proto   string
	path    string
	method  string
	length  string
}

func newFakeRequest(headers map[string]string) *fakeRequest {
	if headers == nil {
		headers = map[string]string{}
	}
	return &fakeRequest{
		headers: headers,
		addr:    [2]string{"10.0.0.7", "52314"},
		proto:   "HTTP/1.1",
		path:    "/orders/42",
		method:  "POST",
	}
}

func orDash(v string) string {
	if v == "" {
		return EmptyValue
	}
	return v
}

//nolint:gochecknoglobals // test fixture
var fakeRequestType = reflect.TypeOf((*fakeRequest)(nil))

// fakeAdapter serves *fakeRequest without ambient lookup.
type fakeAdapter struct{}

func fr(req any) *fakeRequest {
	r, _ := req.(*fakeRequest)
	return r
}

func (fakeAdapter) RequestType() reflect.Type { return fakeRequestType }
func (fakeAdapter) Header(req any, name string) string {
	return orDash(fr(req).headers[name])
}
func (fakeAdapter) RemoteUser(req any) string    { return orDash(fr(req).user) }
func (fakeAdapter) RemoteIP(req any) string      { return orDash(fr(req).addr[0]) }
func (fakeAdapter) RemotePort(req any) string    { return orDash(fr(req).addr[1]) }
func (fakeAdapter) Protocol(req any) string      { return orDash(fr(req).proto) }
func (fakeAdapter) Path(req any) string          { return orDash(fr(req).path) }
func (fakeAdapter) Method(req any) string        { return orDash(fr(req).method) }
func (fakeAdapter) ContentLength(req any) string { return orDash(fr(req).length) }
func (fakeAdapter) InRequestContext(req any) bool {
	return fr(req) != nil
}
func (fakeAdapter) SetCorrelationID(req any, id string) { fr(req).cid = id }
func (fakeAdapter) CorrelationID(req any) string       { return orDash(fr(req).cid) }

// ambientAdapter finds the request stored with ContextWithRequest.
type ambientAdapter struct{ fakeAdapter }

func (ambientAdapter) RequestFromContext(ctx context.Context) (any, bool) {
	req, ok := RequestFromContext(ctx)
	if !ok {
		return nil, false
	}
	r, ok := req.(*fakeRequest)
	return r, ok
}

type fakeResponse struct {
	status      int
	size        int64
	contentType string
}

type fakeResponses struct{ tag string }

func (fakeResponses) StatusCode(resp any) int {
	return resp.(*fakeResponse).status
}
func (fakeResponses) Size(resp any) int64 {
	return resp.(*fakeResponse).size
}
func (fakeResponses) ContentType(resp any) string {
	return orDash(resp.(*fakeResponse).contentType)
}

var (
	_ AmbientRequestAdapter = ambientAdapter{}
	_ ResponseAdapter       = fakeResponses{}
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type staticID string

func (s staticID) Generate() string { return string(s) }

func fakeBinding(name string, instr Instrumentor) Binding {
	if instr == nil {
		instr = InstrumentorFunc(func(any, *RequestLogger) error { return nil })
	}
	return Binding{
		Name:            name,
		Instrumentor:    instr,
		RequestAdapter:  ambientAdapter{},
		ResponseAdapter: fakeResponses{},
	}
}

// decode unmarshals one JSON document, keeping numbers exact.
func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
	return m
}

// topKeys returns the top-level keys of a JSON object in document order.
func topKeys(t *testing.T, b []byte) []string {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		t.Fatalf("token: %v", err)
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			t.Fatalf("value: %v", err)
		}
	}
	return keys
}

// jsonLines returns the JSON records written to buf, skipping text lines.
func jsonLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "{") {
			out = append(out, decode(t, []byte(line)))
		}
	}
	return out
}
