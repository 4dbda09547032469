package xgrpc

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/metadata"
)

// metadataCarrier 让 metadata.MD 满足 propagation.TextMapCarrier。
type metadataCarrier metadata.MD

func (c metadataCarrier) Get(key string) string {
	if vals := metadata.MD(c).Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func (c metadataCarrier) Set(key, value string) {
	metadata.MD(c).Set(key, value)
}

func (c metadataCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

var _ propagation.TextMapCarrier = metadataCarrier(nil)

// extract 在上游未建立 span 时从入站 metadata 恢复远端链路上下文。
// 第二个返回值报告 context 是否被替换。
func (o *options) extract(ctx context.Context, md metadata.MD) (context.Context, bool) {
	if o.propagator == nil || md == nil || trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, false
	}
	return o.propagator.Extract(ctx, metadataCarrier(md)), true
}

// inject 把当前链路上下文写入出站 metadata，不修改调用方持有的 MD。
func (o *options) inject(ctx context.Context) context.Context {
	if o.propagator == nil || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	o.propagator.Inject(ctx, metadataCarrier(md))
	return metadata.NewOutgoingContext(ctx, md)
}
