package logger

import (
	"context"
	"io"
	log "log/slog"
	"os"
)

// TraceIDKey is the attribute name stamped on records logged with a traced context.
const TraceIDKey = "trace_id"

type traceKey struct{}

// Init installs a JSON logger on stdout as the slog default.
func Init(environment string) {
	InitWithWriter(os.Stdout, environment)
}

func InitWithWriter(w io.Writer, environment string) {
	level := log.LevelInfo
	if environment == "development" {
		level = log.LevelDebug
	}
	h := log.NewJSONHandler(w, &log.HandlerOptions{Level: level})
	log.SetDefault(log.New(&ContextHandler{h}))
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// ContextHandler adds the trace id carried by ctx to each record.
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if traceID := TraceID(ctx); traceID != "" {
		r.AddAttrs(log.String(TraceIDKey, traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}
