package xlog

import (
	"log/slog"
)

// 调用结果日志的字段名。
const (
	KeyError       = "error"
	KeyStack       = "stack"
	KeyKind        = "kind"
	KeyServiceType = "service_type"
	KeyService     = "service"
	KeyAction      = "action"
	KeySuccess     = "success"
	KeyCode        = "code"
	KeyMessage     = "message"
	KeyCostMillis  = "cost_ms"
	KeyTags        = "tags"
	KeyInput       = "input"
	KeyOutput      = "output"
	KeyApp         = "app"
	KeyEnv         = "env"
)

// Err 创建错误属性，err 为 nil 时返回空属性（被 slog 忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// 调用记录的领域属性。

func Kind(kind string) slog.Attr     { return slog.String(KeyKind, kind) }
func ServiceType(t string) slog.Attr { return slog.String(KeyServiceType, t) }
func Service(name string) slog.Attr  { return slog.String(KeyService, name) }
func Action(name string) slog.Attr   { return slog.String(KeyAction, name) }
func Success(ok bool) slog.Attr      { return slog.Bool(KeySuccess, ok) }
func Code(code string) slog.Attr     { return slog.String(KeyCode, code) }
func Message(msg string) slog.Attr   { return slog.String(KeyMessage, msg) }
func CostMillis(ms int64) slog.Attr  { return slog.Int64(KeyCostMillis, ms) }
func App(name string) slog.Attr      { return slog.String(KeyApp, name) }
func Env(name string) slog.Attr      { return slog.String(KeyEnv, name) }

// Tags 将 key/value 交替的标签列表转为分组属性，落单的 key 被忽略。
func Tags(kv []string) slog.Attr {
	attrs := make([]slog.Attr, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, slog.String(kv[i], kv[i+1]))
	}
	return slog.Attr{Key: KeyTags, Value: slog.GroupValue(attrs...)}
}
