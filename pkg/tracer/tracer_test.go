package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/dmehra2102/prod-golang-projects/storefront/config"
)

func TestInit_DisabledInstallsLocalProvider(t *testing.T) {
	ctx := context.Background()

	tp, err := Init(ctx, config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	assert.Same(t, tp, otel.GetTracerProvider())
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())

	_, span := otel.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestInit_EnabledBuildsExporter(t *testing.T) {
	ctx := context.Background()

	tp, err := Init(ctx, config.TracingConfig{
		Enabled:     true,
		ServiceName: "storefront-test",
		Endpoint:    "localhost:4318",
		SampleRate:  1,
	}, "1.2.3")
	require.NoError(t, err)
	// Nothing is exported, so shutdown does not need a collector.
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceID(ctx))

	tp, err := Init(ctx, config.TracingConfig{}, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	ctx, span := tp.Tracer("test").Start(ctx, "op")
	defer span.End()
	assert.Equal(t, span.SpanContext().TraceID().String(), TraceID(ctx))
	assert.Len(t, TraceID(ctx), 32)
}
