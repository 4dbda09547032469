package xlog

import (
	"context"
	"log/slog"
	"sync/atomic"
)

var globalLogger atomic.Pointer[LoggerWithLevel]

// Default 返回全局 Logger，首次调用时惰性创建（stderr、Info、text）。
//
// 并发首次调用可能各自构建一个 Logger，只有一个会被保存。
func Default() LoggerWithLevel {
	if l := globalLogger.Load(); l != nil {
		return *l
	}
	logger, _, err := New().Build()
	if err != nil {
		// 默认配置不会出错
		panic(err)
	}
	globalLogger.CompareAndSwap(nil, &logger)
	return *globalLogger.Load()
}

// SetDefault 替换全局 Logger，nil 被忽略。
func SetDefault(l LoggerWithLevel) {
	if l == nil {
		return
	}
	globalLogger.Store(&l)
}

// ResetDefault 重置为未初始化状态，仅用于测试。
func ResetDefault() {
	globalLogger.Store(nil)
}

// Debug 使用全局 Logger 输出。
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) { Default().Debug(ctx, msg, attrs...) }

// Info 使用全局 Logger 输出。
func Info(ctx context.Context, msg string, attrs ...slog.Attr) { Default().Info(ctx, msg, attrs...) }

// Warn 使用全局 Logger 输出。
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) { Default().Warn(ctx, msg, attrs...) }

// Error 使用全局 Logger 输出。
func Error(ctx context.Context, msg string, attrs ...slog.Attr) { Default().Error(ctx, msg, attrs...) }
