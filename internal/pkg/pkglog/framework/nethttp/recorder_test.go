package nethttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseRecorderStatus(t *testing.T) {
	rec := NewResponseRecorder(httptest.NewRecorder())
	assert.Equal(t, http.StatusOK, rec.Status())

	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusInternalServerError)
	n, err := rec.Write([]byte("abc"))

	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusTeapot, rec.Status())
	assert.Equal(t, int64(3), rec.BytesWritten())
}

func TestResponseRecorderOptionalInterfaces(t *testing.T) {
	inner := httptest.NewRecorder()
	rec := NewResponseRecorder(inner)

	rec.Flush()
	assert.True(t, inner.Flushed)
	assert.Same(t, inner, rec.Unwrap())

	_, _, err := rec.Hijack()
	assert.Error(t, err)
	assert.ErrorIs(t, rec.Push("/style.css", nil), http.ErrNotSupported)
}
