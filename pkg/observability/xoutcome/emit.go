package xoutcome

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xixiU/monilog-sub001/pkg/observability/xlog"
	"github.com/xixiU/monilog-sub001/pkg/observability/xmetrics"
)

// Emitter 将一次调用写成三个独立的指标信号：
// 时点记录、累计计数 +1、耗时观测（仅 cost > 0）。
//
// 每次写入相互隔离：错误或 panic 只记录日志，不传播、不重试。
type Emitter struct {
	recorder xmetrics.Recorder
	logger   xlog.Logger
}

// NewEmitter 创建 Emitter。recorder 为 nil 时使用 xmetrics.Noop，logger 为 nil 时使用 xlog.Default()。
func NewEmitter(recorder xmetrics.Recorder, logger xlog.Logger) *Emitter {
	if recorder == nil {
		recorder = xmetrics.Noop{}
	}
	if logger == nil {
		logger = xlog.Default()
	}
	return &Emitter{recorder: recorder, logger: logger}
}

// Emit 写出指标。tags 为 key/value 交替序列。
func (e *Emitter) Emit(ctx context.Context, name string, tags []string, costMillis int64) {
	e.write(ctx, "record", name, func() error {
		return e.recorder.Record(ctx, name, tags, costMillis)
	})
	e.write(ctx, "cumulative", name, func() error {
		return e.recorder.Cumulative(ctx, name, tags, 1)
	})
	if costMillis > 0 {
		e.write(ctx, "timer", name, func() error {
			return e.recorder.Timer(ctx, name, tags, costMillis)
		})
	}
}

func (e *Emitter) write(ctx context.Context, signal, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn(ctx, "monilog: metric write panicked",
				slog.String("signal", signal),
				slog.String("metric", name),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	err := fn()
	switch {
	case err == nil:
	case errors.Is(err, xmetrics.ErrSinkOpen):
		// 熔断期间每次调用都会失败，降级为 Debug 避免刷屏
		e.logger.Debug(ctx, "monilog: metric sink open",
			slog.String("signal", signal), slog.String("metric", name))
	default:
		e.logger.Warn(ctx, "monilog: metric write failed",
			slog.String("signal", signal), slog.String("metric", name), xlog.Err(err))
	}
}
