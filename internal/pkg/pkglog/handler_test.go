package pkglog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(buf *bytes.Buffer) *Runtime {
	rt := New()
	rt.sink.out.setWriter(buf)
	return rt
}

func TestLoggerUsesTextBeforeInit(t *testing.T) {
	var buf bytes.Buffer
	rt := newTestRuntime(&buf)

	rt.Logger("app").Info("hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "logger=app")
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "k=v")
	assert.False(t, strings.HasPrefix(out, "{"))
}

func TestInitSwitchesExistingLoggers(t *testing.T) {
	var buf bytes.Buffer
	rt := newTestRuntime(&buf)
	early := rt.Logger("app")

	require.NoError(t, rt.Init(WithEnabled(true), WithRegistry(NewRegistry(nil))))
	buf.Reset()

	early.Info("after init")

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "after init", lines[0]["msg"])
	assert.Equal(t, "app", lines[0]["logger"])
	assert.Equal(t, "handler_test", lines[0]["module"])
	assert.Same(t, early, rt.Logger("app"))
}

func TestHandlerAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	rt := newTestRuntime(&buf)
	require.NoError(t, rt.Init(WithEnabled(true), WithRegistry(NewRegistry(nil))))
	buf.Reset()

	rt.Logger("app").With("service", "orders").WithGroup("db").With("table", "items").
		Info("query", "rows", 3)

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "orders", lines[0]["service"])
	assert.Equal(t, map[string]any{"table": "items", "rows": jsonNumber(3)}, lines[0]["db"])
}

func TestHandlerException(t *testing.T) {
	var buf bytes.Buffer
	rt := newTestRuntime(&buf)
	require.NoError(t, rt.Init(WithEnabled(true), WithRegistry(NewRegistry(nil))))
	buf.Reset()

	log := rt.Logger("app")
	log.Error("failed", Exception(errors.New("boom")), "order", 7)
	log.Error("no exception", Exception(nil))

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "boom", lines[0]["exc_info"])
	assert.Equal(t, "handler_test.go", lines[0]["filename"])
	assert.Equal(t, jsonNumber(7), lines[0]["order"])
	assert.NotContains(t, lines[1], "filename")
	assert.NotContains(t, lines[1], ExcInfoKey)
}

func TestHandlerExceptionFromWith(t *testing.T) {
	var buf bytes.Buffer
	rt := newTestRuntime(&buf)
	require.NoError(t, rt.Init(WithEnabled(true), WithRegistry(NewRegistry(nil))))
	buf.Reset()

	log := rt.Logger("app").With(Exception(errors.New("bound")), "order", 7)
	log.Error("first")
	log.Error("second", Exception(errors.New("own")))
	rt.Logger("app").With(ExcText("trace"), Exception(nil)).Error("third")

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "bound", lines[0]["exc_info"])
	assert.Equal(t, "handler_test.go", lines[0]["filename"])
	assert.Equal(t, jsonNumber(7), lines[0]["order"])
	assert.Equal(t, "own", lines[1]["exc_info"])
	assert.Equal(t, "trace", lines[2]["exc_info"])
	assert.Equal(t, "handler_test.go", lines[2]["filename"])
}

func TestHandlerLevelAndThread(t *testing.T) {
	var buf bytes.Buffer
	rt := newTestRuntime(&buf)
	require.NoError(t, rt.Init(WithEnabled(true), WithLevel(slog.LevelWarn), WithRegistry(NewRegistry(nil))))
	buf.Reset()

	log := rt.Logger("app")
	log.Info("dropped")
	log.WarnContext(ContextWithThread(context.Background(), "worker-1"), "kept")

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, "worker-1", lines[0]["thread"])
}

func TestLibraryLoggerDebugOverride(t *testing.T) {
	var buf bytes.Buffer
	rt := newTestRuntime(&buf)
	rt.lib = slog.New(newHandler(rt.sink, libraryLoggerName, slog.LevelDebug))

	require.NoError(t, rt.Init(WithEnabled(true), WithLevel(slog.LevelError), WithRegistry(NewRegistry(nil))))

	rt.lib.Debug("library detail")
	rt.Logger("app").Debug("app detail")

	out := buf.String()
	assert.Contains(t, out, "library detail")
	assert.NotContains(t, out, "app detail")
}

func jsonNumber(n int) json.Number {
	return json.Number(strconv.Itoa(n))
}
