package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithStage(ctx, "discover")
	ctx = WithRequestID(ctx, "req-1")

	lc := GetContext(ctx)
	assert.Equal(t, "run-1", lc.RunID)
	assert.Equal(t, "discover", lc.Stage)
	assert.Equal(t, "req-1", lc.RequestID)
}

func TestStageOverwrite(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithStage(ctx, "discover")
	ctx = WithStage(ctx, "assemble")

	lc := GetContext(ctx)
	assert.Equal(t, "run-1", lc.RunID)
	assert.Equal(t, "assemble", lc.Stage)
}

func TestAttrsOmitsEmpty(t *testing.T) {
	assert.Empty(t, Attrs(context.Background()))

	attrs := Attrs(WithStage(context.Background(), "page"))
	require.Len(t, attrs, 1)
	assert.Equal(t, "stage", attrs[0].Key)
	assert.Equal(t, "page", attrs[0].Value.String())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithStage(WithRunID(context.Background(), "run-42"), "render")
	Logger(ctx, base).Info("stage done")

	out := buf.String()
	assert.Contains(t, out, "run_id=run-42")
	assert.Contains(t, out, "stage=render")
	assert.Contains(t, out, "stage done")
}

func TestLoggerWithoutContext(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	assert.Same(t, base, Logger(context.Background(), base))
	assert.NotNil(t, Logger(context.Background(), nil))
}
