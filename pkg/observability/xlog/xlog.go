package xlog

import (
	"context"
	"log/slog"
)

// Logger 是引擎与适配器写结构化日志的唯一入口。
//
// 每条记录都带 ctx：EnrichHandler 从中取出 span context 写入 trace_id/span_id，
// 成功日志的采样也以该 trace_id 为 key。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// Stack 以 Error 级别输出，并附带当前 goroutine 的调用栈。
	Stack(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带固定属性的派生 Logger，与父级共享级别。
	With(attrs ...slog.Attr) Logger
}

// Leveler 支持运行时调整级别。
type Leveler interface {
	SetLevel(level Level)
	GetLevel() Level
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel 是 Builder.Build 与 Default 的返回类型。
type LoggerWithLevel interface {
	Logger
	Leveler
}
