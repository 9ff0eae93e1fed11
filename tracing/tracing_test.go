package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "span_test.txt")

	require.NoError(t, Init("mvplanning", "0.0.1", fname))

	ctx, span := StartSpan(context.Background(), "allocate", "INTERNAL")
	span.WithAttributes(map[string]string{"plan": "p1"})
	span.AddEvent("delivery.failed", map[string]string{"vehicle": "v1"})
	current, ok := SpanFromContext(ctx)
	assert.True(t, ok)
	assert.NotNil(t, current)
	EndSpan(span, nil)

	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
