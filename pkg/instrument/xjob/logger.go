package xjob

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/xixiU/monilog-sub001/pkg/observability/xlog"
)

// Logger 把 xlog.Logger 适配为 cron.Logger，调度器自身的日志与调用日志走同一出口。
// l 为 nil 时使用 xlog.Default()。
func Logger(l xlog.Logger) cron.Logger {
	return cronLogger{l: l}
}

type cronLogger struct {
	l xlog.Logger
}

func (c cronLogger) logger() xlog.Logger {
	if c.l == nil {
		return xlog.Default()
	}
	return c.l
}

// Info 对应调度器的常规事件，按 Debug 级别输出。
func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.logger().Debug(context.Background(), "cron: "+msg, pairs(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	attrs := append(pairs(keysAndValues), xlog.Err(err))
	c.logger().Error(context.Background(), "cron: "+msg, attrs...)
}

// pairs 把 key/value 交替的参数转成 slog.Attr，缺值的 key 记为 "!MISSING"。
func pairs(kv []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			attrs = append(attrs, slog.String(key, "!MISSING"))
			break
		}
		attrs = append(attrs, slog.Any(key, kv[i+1]))
	}
	return attrs
}
