package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTelemetryDisabled(t *testing.T) {
	shutdown, err := InitTelemetry(context.Background(), "voxel-test", false)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	// no-op провайдер всё равно выдаёт рабочие спаны
	_, span := Tracer().Start(context.Background(), "test")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
}
