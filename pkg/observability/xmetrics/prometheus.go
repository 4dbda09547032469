package xmetrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultLabelKeys Prometheus 标签集合的默认值。
//
// Prometheus 要求同名指标的标签名集合固定，因此只导出这里列出的 key，
// 其余标签被忽略，缺失的标签取空字符串。cost 与 exception_msg 基数过高，默认不导出。
var DefaultLabelKeys = []string{"result", "app", "env", "kind", "service", "action", "code", "exception"}

type promConfig struct {
	registerer prometheus.Registerer
	labelKeys  []string
	buckets    []float64
}

// PromOption 定义 Prometheus Recorder 的配置选项。
type PromOption func(*promConfig)

// WithRegisterer 设置注册器，默认 prometheus.DefaultRegisterer。
func WithRegisterer(reg prometheus.Registerer) PromOption {
	return func(cfg *promConfig) {
		if reg != nil {
			cfg.registerer = reg
		}
	}
}

// WithLabelKeys 设置导出的标签 key 集合。
func WithLabelKeys(keys ...string) PromOption {
	return func(cfg *promConfig) {
		if len(keys) > 0 {
			cfg.labelKeys = keys
		}
	}
}

// WithPromBuckets 设置耗时 Histogram 的桶边界（毫秒）。
func WithPromBuckets(buckets ...float64) PromOption {
	return func(cfg *promConfig) {
		cfg.buckets = buckets
	}
}

// PrometheusRecorder 基于 client_golang 的 Recorder。
//
// 指标名中 Prometheus 不允许的字符替换为 _：
// monilog.rpc_in 对应 monilog_rpc_in_last、monilog_rpc_in_total、
// monilog_rpc_in_duration_ms。
type PrometheusRecorder struct {
	registerer prometheus.Registerer
	labelKeys  []string
	labelNames []string
	buckets    []float64

	mu         sync.Mutex
	gauges     map[string]*prometheus.GaugeVec
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusRecorder 创建 Prometheus Recorder。
func NewPrometheusRecorder(opts ...PromOption) (*PrometheusRecorder, error) {
	cfg := &promConfig{
		registerer: prometheus.DefaultRegisterer,
		labelKeys:  DefaultLabelKeys,
		buckets:    DefaultBucketsMillis,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if len(cfg.buckets) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidBuckets)
	}
	if err := validateBuckets(cfg.buckets); err != nil {
		return nil, err
	}
	names := make([]string, len(cfg.labelKeys))
	for i, k := range cfg.labelKeys {
		names[i] = SanitizeName(k)
	}
	return &PrometheusRecorder{
		registerer: cfg.registerer,
		labelKeys:  append([]string(nil), cfg.labelKeys...),
		labelNames: names,
		buckets:    cfg.buckets,
		gauges:     make(map[string]*prometheus.GaugeVec),
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}, nil
}

// Record 设置 <name>_last gauge。
func (r *PrometheusRecorder) Record(_ context.Context, name string, tags []string, value int64) error {
	values, err := r.labelValues(tags)
	if err != nil {
		return err
	}
	vec, err := r.gauge(name)
	if err != nil {
		return err
	}
	vec.WithLabelValues(values...).Set(float64(value))
	return nil
}

// Cumulative 累加 <name>_total counter。
func (r *PrometheusRecorder) Cumulative(_ context.Context, name string, tags []string, delta int64) error {
	values, err := r.labelValues(tags)
	if err != nil {
		return err
	}
	vec, err := r.counter(name)
	if err != nil {
		return err
	}
	vec.WithLabelValues(values...).Add(float64(delta))
	return nil
}

// Timer 观测 <name>_duration_ms histogram。
func (r *PrometheusRecorder) Timer(_ context.Context, name string, tags []string, costMillis int64) error {
	values, err := r.labelValues(tags)
	if err != nil {
		return err
	}
	vec, err := r.histogram(name)
	if err != nil {
		return err
	}
	vec.WithLabelValues(values...).Observe(float64(costMillis))
	return nil
}

// labelValues 将 key/value 标签映射为固定顺序的标签值。同一 key 出现多次时取第一个。
func (r *PrometheusRecorder) labelValues(tags []string) ([]string, error) {
	if len(tags)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d items", ErrOddTags, len(tags))
	}
	values := make([]string, len(r.labelKeys))
	set := make([]bool, len(r.labelKeys))
	for i := 0; i < len(tags); i += 2 {
		for j, k := range r.labelKeys {
			if !set[j] && tags[i] == k {
				values[j] = tags[i+1]
				set[j] = true
				break
			}
		}
	}
	return values, nil
}

func (r *PrometheusRecorder) gauge(name string) (*prometheus.GaugeVec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.gauges[name]; ok {
		return vec, nil
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: SanitizeName(name + "_last"),
		Help: "Cost in milliseconds of the last call.",
	}, r.labelNames)
	registered, err := register(r.registerer, vec)
	if err != nil {
		return nil, err
	}
	r.gauges[name] = registered
	return registered, nil
}

func (r *PrometheusRecorder) counter(name string) (*prometheus.CounterVec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.counters[name]; ok {
		return vec, nil
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: SanitizeName(name + "_total"),
		Help: "Total number of calls.",
	}, r.labelNames)
	registered, err := register(r.registerer, vec)
	if err != nil {
		return nil, err
	}
	r.counters[name] = registered
	return registered, nil
}

func (r *PrometheusRecorder) histogram(name string) (*prometheus.HistogramVec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.histograms[name]; ok {
		return vec, nil
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    SanitizeName(name + "_duration_ms"),
		Help:    "Call duration in milliseconds.",
		Buckets: r.buckets,
	}, r.labelNames)
	registered, err := register(r.registerer, vec)
	if err != nil {
		return nil, err
	}
	r.histograms[name] = registered
	return registered, nil
}

// register 注册 collector；同名同描述的 collector 已存在时复用已有实例。
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("%w: %w", ErrRegister, err)
	}
	return c, nil
}

// SanitizeName 将任意字符串转换为合法的 Prometheus 指标名/标签名：
// 非 [a-zA-Z0-9_] 字符替换为 _，以数字开头时补前缀 _。
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			b.WriteRune(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

var _ Recorder = (*PrometheusRecorder)(nil)
