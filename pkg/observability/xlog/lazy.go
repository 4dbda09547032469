package xlog

import (
	"log/slog"
)

// 延迟求值：级别被禁用时不执行 fn。
// 接口装箱的 1 次分配仍然存在。

type lazyValue struct {
	fn func() any
}

func (l lazyValue) LogValue() slog.Value {
	return slog.AnyValue(l.fn())
}

// Lazy 创建延迟求值属性。
func Lazy(key string, fn func() any) slog.Attr {
	if fn == nil {
		return slog.Any(key, nil)
	}
	return slog.Any(key, lazyValue{fn: fn})
}

type lazyStringValue struct {
	fn func() string
}

func (l lazyStringValue) LogValue() slog.Value {
	return slog.StringValue(l.fn())
}

// LazyString 创建延迟求值的字符串属性，常用于序列化入参/出参。
func LazyString(key string, fn func() string) slog.Attr {
	if fn == nil {
		return slog.String(key, "")
	}
	return slog.Any(key, lazyStringValue{fn: fn})
}
