package xhttp

import (
	"net/http"

	"go.opentelemetry.io/otel/propagation"
)

// DefaultServiceType 默认的 service_type。
const DefaultServiceType = "http"

// Option 配置中间件与 Transport。
type Option func(*options)

type options struct {
	serviceType string
	service     string
	actionFunc  func(*http.Request) string
	skipFunc    func(*http.Request) bool
	tagFunc     func(*http.Request) []string
	input       bool
	propagator  propagation.TextMapPropagator
}

func defaultOptions() *options {
	return &options{
		serviceType: DefaultServiceType,
		input:       true,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithServiceType 设置 service_type，空字符串被忽略。
func WithServiceType(t string) Option {
	return func(o *options) {
		if t != "" {
			o.serviceType = t
		}
	}
}

// WithService 设置固定的 service 名。
// 未设置时服务端使用 Request.Host，客户端使用目标 URL 的 Host。
func WithService(name string) Option {
	return func(o *options) { o.service = name }
}

// WithActionFunc 自定义 action 的提取方式。
//
// 默认服务端优先使用 ServeMux 匹配到的路由模式（如 "GET /users/{id}"），
// 未匹配时使用 "METHOD path"；客户端使用 "METHOD path"。
func WithActionFunc(fn func(*http.Request) string) Option {
	return func(o *options) { o.actionFunc = fn }
}

// WithSkipFunc 设置跳过函数，返回 true 的请求不做观测。
func WithSkipFunc(fn func(*http.Request) bool) Option {
	return func(o *options) { o.skipFunc = fn }
}

// WithTagFunc 为每个请求追加 key/value 交替的自定义标签。
func WithTagFunc(fn func(*http.Request) []string) Option {
	return func(o *options) { o.tagFunc = fn }
}

// WithInputSnapshot 控制是否把请求 URI 记为入参快照，默认开启。
func WithInputSnapshot(enabled bool) Option {
	return func(o *options) { o.input = enabled }
}

// WithPropagator 设置链路上下文传播器，默认 W3C TraceContext + Baggage。
// 服务端在 context 中没有有效 span 时从请求头提取，客户端向请求头注入。
// nil 表示不做传播。
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(o *options) { o.propagator = p }
}

func (o *options) skip(r *http.Request) bool {
	return o.skipFunc != nil && o.skipFunc(r)
}

func (o *options) tags(r *http.Request) []string {
	if o.tagFunc == nil {
		return nil
	}
	return o.tagFunc(r)
}
