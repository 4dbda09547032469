package xmetrics

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultInstrumentationName = "github.com/xixiU/monilog-sub001/pkg/observability/xmetrics"

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
	buckets             []float64
	attributeKeys       []string
}

// Option 定义 OTel Recorder 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认使用全局 provider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// WithBuckets 设置耗时 Histogram 的桶边界（毫秒）。
func WithBuckets(buckets ...float64) Option {
	return func(cfg *otelConfig) {
		cfg.buckets = buckets
	}
}

// WithAttributeKeys 设置导出为 OTel attribute 的标签 key，默认 DefaultLabelKeys，
// 与 PrometheusRecorder 的标签集合一致。不传 key 表示导出全部标签。
func WithAttributeKeys(keys ...string) Option {
	return func(cfg *otelConfig) {
		cfg.attributeKeys = keys
	}
}

// DefaultBucketsMillis 默认耗时桶边界（毫秒）。
var DefaultBucketsMillis = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// OTelRecorder 基于 OpenTelemetry metric API 的 Recorder。
//
// 只导出允许列表中的标签，cost、exception_msg 等高基数标签默认丢弃。
// instrument 按指标名惰性创建并缓存；并发首次创建时可能重复调用 Meter，
// OTel SDK 对同名同类型 instrument 返回同一实例。
type OTelRecorder struct {
	meter   metric.Meter
	buckets []float64
	// allow 为 nil 时导出全部标签。
	allow map[string]struct{}

	gauges     sync.Map // name -> metric.Int64Gauge
	counters   sync.Map // name -> metric.Int64Counter
	histograms sync.Map // name -> metric.Float64Histogram
}

// NewOTelRecorder 创建 OTel Recorder。桶边界必须严格递增。
func NewOTelRecorder(opts ...Option) (*OTelRecorder, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
		buckets:             DefaultBucketsMillis,
		attributeKeys:       DefaultLabelKeys,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if err := validateBuckets(cfg.buckets); err != nil {
		return nil, err
	}
	r := &OTelRecorder{
		meter:   cfg.meterProvider.Meter(cfg.instrumentationName),
		buckets: cfg.buckets,
	}
	if len(cfg.attributeKeys) > 0 {
		r.allow = make(map[string]struct{}, len(cfg.attributeKeys))
		for _, k := range cfg.attributeKeys {
			r.allow[k] = struct{}{}
		}
	}
	return r, nil
}

// Record 写入 <name>.last gauge。
func (r *OTelRecorder) Record(ctx context.Context, name string, tags []string, value int64) error {
	attrs, err := r.tagsToAttrs(tags)
	if err != nil {
		return err
	}
	g, err := loadOrCreate(&r.gauges, name+SuffixLast, func(n string) (metric.Int64Gauge, error) {
		return r.meter.Int64Gauge(n, metric.WithDescription("last call cost"), metric.WithUnit("ms"))
	})
	if err != nil {
		return err
	}
	g.Record(metricsContext(ctx), value, metric.WithAttributes(attrs...))
	return nil
}

// Cumulative 累加 <name>.total counter。
func (r *OTelRecorder) Cumulative(ctx context.Context, name string, tags []string, delta int64) error {
	attrs, err := r.tagsToAttrs(tags)
	if err != nil {
		return err
	}
	c, err := loadOrCreate(&r.counters, name+SuffixTotal, func(n string) (metric.Int64Counter, error) {
		return r.meter.Int64Counter(n, metric.WithDescription("total calls"), metric.WithUnit("1"))
	})
	if err != nil {
		return err
	}
	c.Add(metricsContext(ctx), delta, metric.WithAttributes(attrs...))
	return nil
}

// Timer 记录 <name>.duration histogram。
func (r *OTelRecorder) Timer(ctx context.Context, name string, tags []string, costMillis int64) error {
	attrs, err := r.tagsToAttrs(tags)
	if err != nil {
		return err
	}
	h, err := loadOrCreate(&r.histograms, name+SuffixDuration, func(n string) (metric.Float64Histogram, error) {
		return r.meter.Float64Histogram(n,
			metric.WithDescription("call duration"),
			metric.WithUnit("ms"),
			metric.WithExplicitBucketBoundaries(r.buckets...),
		)
	})
	if err != nil {
		return err
	}
	h.Record(metricsContext(ctx), float64(costMillis), metric.WithAttributes(attrs...))
	return nil
}

func loadOrCreate[T any](m *sync.Map, name string, create func(string) (T, error)) (T, error) {
	if v, ok := m.Load(name); ok {
		return v.(T), nil
	}
	inst, err := create(name)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, name, err)
	}
	v, _ := m.LoadOrStore(name, inst)
	return v.(T), nil
}

// metricsContext 使用不可取消的 context 写入指标，
// 请求 context 已超时或取消时指标仍能记录。
func metricsContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}

func (r *OTelRecorder) tagsToAttrs(tags []string) ([]attribute.KeyValue, error) {
	if len(tags)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d items", ErrOddTags, len(tags))
	}
	attrs := make([]attribute.KeyValue, 0, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		if r.allow != nil {
			if _, ok := r.allow[tags[i]]; !ok {
				continue
			}
		}
		attrs = append(attrs, attribute.String(tags[i], tags[i+1]))
	}
	return attrs, nil
}

func validateBuckets(buckets []float64) error {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return fmt.Errorf("%w: %v", ErrInvalidBuckets, buckets)
		}
	}
	return nil
}

var _ Recorder = (*OTelRecorder)(nil)
