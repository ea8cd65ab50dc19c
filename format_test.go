package sharedlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorParts(t *testing.T) {
	tests := []struct {
		name   string
		evt    map[string]interface{}
		suffix string
		stack  string
	}{
		{
			name: "nothing attached",
			evt:  map[string]interface{}{"message": "m"},
		},
		{
			name:   "nested error with stack",
			evt:    map[string]interface{}{"error": map[string]interface{}{"message": "boom", "stack": "s1"}},
			suffix: " | boom",
			stack:  "s1",
		},
		{
			name:  "nested error without message",
			evt:   map[string]interface{}{"error": map[string]interface{}{"stack": "s1"}},
			stack: "s1",
		},
		{
			name:   "own stack preferred",
			evt:    map[string]interface{}{"stack": "own", "error": map[string]interface{}{"message": "boom", "stack": "nested"}},
			suffix: " | boom",
			stack:  "own",
		},
		{
			name:   "string error",
			evt:    map[string]interface{}{"error": "flat"},
			suffix: " | flat",
		},
		{
			name:  "stack only",
			evt:   map[string]interface{}{"stack": "own"},
			stack: "own",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suffix, stack := errorParts(tt.evt)
			assert.Equal(t, tt.suffix, suffix)
			assert.Equal(t, tt.stack, stack)
		})
	}
}

func TestFileFormat(t *testing.T) {
	t.Run("error with stack", func(t *testing.T) {
		var buf bytes.Buffer
		w := newFileFormat(&buf)
		_, err := w.Write([]byte(`{"level":"error","time":"2026-01-02 03:04:05","message":"failed","error":{"message":"boom","stack":"line1\nline2"}}`))
		require.NoError(t, err)
		assert.Equal(t, "2026-01-02 03:04:05 error: failed | boom\nline1\nline2\n", buf.String())
	})

	t.Run("plain record", func(t *testing.T) {
		var buf bytes.Buffer
		w := newFileFormat(&buf)
		_, err := w.Write([]byte(`{"level":"info","time":"2026-01-02 03:04:05","message":"hello"}`))
		require.NoError(t, err)
		assert.Equal(t, "2026-01-02 03:04:05 info: hello\n", buf.String())
	})

	t.Run("fields follow the message", func(t *testing.T) {
		var buf bytes.Buffer
		w := newFileFormat(&buf)
		_, err := w.Write([]byte(`{"level":"warn","time":"2026-01-02 03:04:05","message":"slow","path":"/test"}`))
		require.NoError(t, err)
		assert.Equal(t, "2026-01-02 03:04:05 warn: slow path=/test\n", buf.String())
	})
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	w := newConsoleFormat(&buf, false)
	_, err := w.Write([]byte(`{"level":"info","time":"2026-01-02 03:04:05","message":"hello"}`))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\x1b[32minfo:\x1b[0m hello")

	buf.Reset()
	_, err = w.Write([]byte(`{"level":"debug","time":"2026-01-02 03:04:05","message":"quiet"}`))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "2026-01-02 03:04:05 debug: quiet")
}
