package xmetrics

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMeterProvider 创建用于测试的 MeterProvider
func newTestMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

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

func TestOTelRecorder_Signals(t *testing.T) {
	mp, reader := newTestMeterProvider()
	rec, err := NewOTelRecorder(WithMeterProvider(mp))
	require.NoError(t, err)

	ctx := context.Background()
	tags := []string{"result", "success", "kind", "rpc_in"}
	require.NoError(t, rec.Record(ctx, "monilog.rpc_in", tags, 12))
	require.NoError(t, rec.Cumulative(ctx, "monilog.rpc_in", tags, 1))
	require.NoError(t, rec.Cumulative(ctx, "monilog.rpc_in", tags, 1))
	require.NoError(t, rec.Timer(ctx, "monilog.rpc_in", tags, 12))

	ms := collect(t, reader)

	gauge, ok := ms["monilog.rpc_in.last"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(12), gauge.DataPoints[0].Value)
	v, _ := gauge.DataPoints[0].Attributes.Value(attribute.Key("result"))
	assert.Equal(t, "success", v.AsString())

	sum, ok := ms["monilog.rpc_in.total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)

	hist, ok := ms["monilog.rpc_in.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.Equal(t, 12.0, hist.DataPoints[0].Sum)
	assert.Equal(t, "ms", ms["monilog.rpc_in.duration"].Unit)
}

func TestOTelRecorder_CanceledContextStillRecords(t *testing.T) {
	mp, reader := newTestMeterProvider()
	rec, err := NewOTelRecorder(WithMeterProvider(mp))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, rec.Cumulative(ctx, "monilog.web_in", nil, 1))
	require.NoError(t, rec.Cumulative(nil, "monilog.web_in", nil, 1)) //nolint:staticcheck // nil ctx 容错

	sum := collect(t, reader)["monilog.web_in.total"].Data.(metricdata.Sum[int64])
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func TestOTelRecorder_OddTags(t *testing.T) {
	rec, err := NewOTelRecorder(WithMeterProvider(sdkmetric.NewMeterProvider()))
	require.NoError(t, err)

	ctx := context.Background()
	assert.ErrorIs(t, rec.Record(ctx, "m", []string{"k"}, 1), ErrOddTags)
	assert.ErrorIs(t, rec.Cumulative(ctx, "m", []string{"k"}, 1), ErrOddTags)
	assert.ErrorIs(t, rec.Timer(ctx, "m", []string{"k"}, 1), ErrOddTags)
}

func TestOTelRecorder_InvalidInstrumentName(t *testing.T) {
	rec, err := NewOTelRecorder(WithMeterProvider(sdkmetric.NewMeterProvider()))
	require.NoError(t, err)

	err = rec.Cumulative(context.Background(), "1-invalid name", nil, 1)
	assert.ErrorIs(t, err, ErrCreateInstrument)
}

func TestNewOTelRecorder_InvalidBuckets(t *testing.T) {
	_, err := NewOTelRecorder(WithBuckets(10, 5))
	assert.ErrorIs(t, err, ErrInvalidBuckets)

	rec, err := NewOTelRecorder(nil, WithInstrumentationName("custom"))
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestOTelRecorder_Concurrent(t *testing.T) {
	mp, reader := newTestMeterProvider()
	rec, err := NewOTelRecorder(WithMeterProvider(mp))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, rec.Cumulative(context.Background(), "monilog.job_in", []string{"a", "b"}, 1))
		}()
	}
	wg.Wait()

	sum := collect(t, reader)["monilog.job_in.total"].Data.(metricdata.Sum[int64])
	assert.Equal(t, int64(50), sum.DataPoints[0].Value)
}

func TestOTelRecorder_AttributeAllowlist(t *testing.T) {
	tags := []string{"result", "error", "code", "SERVICE_TIMEOUT", "cost", "1234", "exception_msg", "read timed out", "region", "eu"}

	mp, reader := newTestMeterProvider()
	rec, err := NewOTelRecorder(WithMeterProvider(mp))
	require.NoError(t, err)
	require.NoError(t, rec.Cumulative(context.Background(), "monilog.client_out", tags, 1))

	sum := collect(t, reader)["monilog.client_out.total"].Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	attrs := sum.DataPoints[0].Attributes
	assert.Equal(t, 2, attrs.Len(), "only default label keys are exported")
	v, ok := attrs.Value(attribute.Key("code"))
	require.True(t, ok)
	assert.Equal(t, "SERVICE_TIMEOUT", v.AsString())
	for _, dropped := range []attribute.Key{"cost", "exception_msg", "region"} {
		_, ok := attrs.Value(dropped)
		assert.False(t, ok, "%s must not be exported", dropped)
	}

	mp, reader = newTestMeterProvider()
	rec, err = NewOTelRecorder(WithMeterProvider(mp), WithAttributeKeys("region"))
	require.NoError(t, err)
	require.NoError(t, rec.Timer(context.Background(), "monilog.client_out", tags, 7))

	hist := collect(t, reader)["monilog.client_out.duration"].Data.(metricdata.Histogram[float64])
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, 1, hist.DataPoints[0].Attributes.Len())
	v, _ = hist.DataPoints[0].Attributes.Value(attribute.Key("region"))
	assert.Equal(t, "eu", v.AsString())

	mp, reader = newTestMeterProvider()
	rec, err = NewOTelRecorder(WithMeterProvider(mp), WithAttributeKeys())
	require.NoError(t, err)
	require.NoError(t, rec.Record(context.Background(), "monilog.client_out", tags, 7))

	gauge := collect(t, reader)["monilog.client_out.last"].Data.(metricdata.Gauge[int64])
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, 5, gauge.DataPoints[0].Attributes.Len(), "no keys exports every tag")
}
