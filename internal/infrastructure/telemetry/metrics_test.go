package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/dsi-erp/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestCatalogMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewCatalogMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordAllocation(ctx, "RA", 2*time.Millisecond)
	m.RecordAllocation(ctx, "RA", time.Millisecond)
	m.RecordAllocation(ctx, "TO", time.Millisecond)
	m.RecordRename(ctx, "renamed")

	metrics := collect(t, reader)

	allocated, ok := metrics["erp_item_code_allocated_total"]
	require.True(t, ok)
	sum, ok := allocated.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
	assert.Len(t, sum.DataPoints, 2, "one series per prefix")

	duration, ok := metrics["erp_item_code_allocation_duration_seconds"]
	require.True(t, ok)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)

	renames, ok := metrics["erp_item_rename_total"]
	require.True(t, ok)
	renameSum := renames.Data.(metricdata.Sum[int64])
	require.Len(t, renameSum.DataPoints, 1)
	assert.Equal(t, int64(1), renameSum.DataPoints[0].Value)
}

func TestNewCatalogMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewCatalogMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:     false,
		ServiceName: "dsi-erp-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
