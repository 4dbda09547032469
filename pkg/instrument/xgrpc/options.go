package xgrpc

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/propagation"
	"google.golang.org/grpc/metadata"

	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

// DefaultServiceType 默认的 service_type。
const DefaultServiceType = "grpc"

// Option 配置拦截器。
type Option func(*options)

type options struct {
	serviceType  string
	service      string
	skipFunc     func(ctx context.Context, fullMethod string) bool
	tagFunc      func(ctx context.Context, fullMethod string) []string
	metadataKeys []string
	input        bool
	propagator   propagation.TextMapPropagator
}

func applyOptions(opts []Option) *options {
	o := &options{
		serviceType: DefaultServiceType,
		input:       true,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
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

// WithService 设置固定的 service 名，替代从方法名拆出的服务名。
func WithService(name string) Option {
	return func(o *options) { o.service = name }
}

// WithSkipFunc 设置跳过函数，返回 true 的调用不做观测。
func WithSkipFunc(fn func(ctx context.Context, fullMethod string) bool) Option {
	return func(o *options) { o.skipFunc = fn }
}

// WithTagFunc 为每次调用追加 key/value 交替的自定义标签。
func WithTagFunc(fn func(ctx context.Context, fullMethod string) []string) Option {
	return func(o *options) { o.tagFunc = fn }
}

// WithMetadataTags 把 metadata 中的值作为标签，标签 key 与 metadata key 相同。
// 服务端读取入站 metadata，客户端读取出站 metadata；缺失时取占位符。
func WithMetadataTags(keys ...string) Option {
	return func(o *options) {
		for _, k := range keys {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				o.metadataKeys = append(o.metadataKeys, k)
			}
		}
	}
}

// WithInputSnapshot 控制是否把请求消息记为入参快照，默认开启。
func WithInputSnapshot(enabled bool) Option {
	return func(o *options) { o.input = enabled }
}

// WithPropagator 设置链路上下文传播器，默认 W3C TraceContext + Baggage。
// 服务端在 context 中没有有效 span 时从入站 metadata 提取，客户端向出站 metadata 注入。
// nil 表示不做传播。
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(o *options) { o.propagator = p }
}

func (o *options) skip(ctx context.Context, fullMethod string) bool {
	return o.skipFunc != nil && o.skipFunc(ctx, fullMethod)
}

// begin 按方法名创建调用记录并追加标签。
func (o *options) begin(ctx context.Context, kind xoutcome.EntryKind, fullMethod string, md metadata.MD) *xoutcome.CallOutcome {
	service, action := SplitMethod(fullMethod)
	if o.service != "" {
		service = o.service
	}
	outcome := xoutcome.Begin(kind, o.serviceType, service, action)
	for _, k := range o.metadataKeys {
		v := xoutcome.Placeholder
		if vals := md.Get(k); len(vals) > 0 && vals[0] != "" {
			v = vals[0]
		}
		outcome.AddTags(k, v)
	}
	if o.tagFunc != nil {
		outcome.AddTags(o.tagFunc(ctx, fullMethod)...)
	}
	return outcome
}

// SplitMethod 把 "/pkg.Service/Method" 拆分为服务名与方法名。
// 格式不符时服务名为空，方法名为原值。
func SplitMethod(fullMethod string) (service, method string) {
	name := strings.TrimPrefix(fullMethod, "/")
	if i := strings.LastIndex(name, "/"); i > 0 {
		return name[:i], name[i+1:]
	}
	return "", fullMethod
}
