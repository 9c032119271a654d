package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_StampsTraceID(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var buf bytes.Buffer
	InitWithWriter(&buf, "production")

	ctx := WithTraceID(context.Background(), "abc123")
	log.InfoContext(ctx, "hello", "k", "v")
	log.DebugContext(ctx, "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "abc123", rec[TraceIDKey])
	assert.Equal(t, "v", rec["k"])
}

func TestTraceID(t *testing.T) {
	assert.Equal(t, "", TraceID(context.Background()))
	assert.Equal(t, "x", TraceID(WithTraceID(context.Background(), "x")))
}
