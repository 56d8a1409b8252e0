package spec

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasbind/internal/testutil"
)

type contextKey string

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	l.Debug("debug", "key", "value")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	_, ok := l.With("key", "value").(NopLogger)
	assert.True(t, ok, "With should return NopLogger")
}

func newBufferedAdapter(buf *bytes.Buffer) *SlogAdapter {
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogAdapter(slog.New(handler))
}

func TestSlogAdapter(t *testing.T) {
	assert.NotNil(t, NewSlogAdapter(nil).logger)

	tests := []struct {
		name  string
		log   func(Logger)
		level string
	}{
		{"debug", func(l Logger) { l.Debug("test debug", "foo", "bar") }, "level=DEBUG"},
		{"info", func(l Logger) { l.Info("test info", "foo", "bar") }, "level=INFO"},
		{"warn", func(l Logger) { l.Warn("test warn", "foo", "bar") }, "level=WARN"},
		{"error", func(l Logger) { l.Error("test error", "foo", "bar") }, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newBufferedAdapter(&buf))
			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, "test "+tt.name)
			assert.Contains(t, out, "foo=bar")
		})
	}

	t.Run("With prepends attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := newBufferedAdapter(&buf).With("component", "resolver")
		l.Info("hello")
		assert.Contains(t, buf.String(), "component=resolver")
	})
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.WithValue(context.Background(), contextKey("request"), "r-1")
	l := NewContextLogger(ctx, newBufferedAdapter(&buf))

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"))

	child, ok := l.With("k", "v").(*ContextLogger)
	require.True(t, ok)
	assert.Equal(t, "r-1", child.Context().Value(contextKey("request")))

	child.Info("child")
	assert.Contains(t, buf.String(), "k=v")

	// A nil logger falls back to NopLogger.
	NewContextLogger(ctx, nil).Info("dropped")
}

// ctxValueHandler records the request value of each record's context.
type ctxValueHandler struct {
	slog.Handler
	seen *[]any
}

func (h ctxValueHandler) Handle(ctx context.Context, r slog.Record) error {
	*h.seen = append(*h.seen, ctx.Value(contextKey("request")))
	return h.Handler.Handle(ctx, r)
}

func TestContextLoggerPassesContext(t *testing.T) {
	var (
		buf  bytes.Buffer
		seen []any
	)
	handler := ctxValueHandler{
		Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		seen:    &seen,
	}
	ctx := context.WithValue(context.Background(), contextKey("request"), "r-1")
	l := NewContextLogger(ctx, NewSlogAdapter(slog.New(handler)))

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")
	assert.Equal(t, []any{"r-1", "r-1", "r-1", "r-1"}, seen)
}

func TestResolverLogsMerges(t *testing.T) {
	var buf bytes.Buffer
	store := testutil.NewSingleStore(t, "", testutil.PathItemYAML)
	r, err := NewResolver(store, WithLogger(newBufferedAdapter(&buf)))
	require.NoError(t, err)

	_, err = r.Resolve("#/paths/~1a")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "merged path item template")
	assert.Contains(t, buf.String(), "resolving node")
}
