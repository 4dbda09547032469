package xoutcome

import (
	"time"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
)

// Placeholder 替代动态标签的空值，保持同一调用点的标签 key 集合稳定。
const Placeholder = "-"

// CallOutcome 是一次调用的完整记录。
//
// 由创建它的适配器独占，不跨调用、不跨 goroutine 共享，因此不加锁。
// 标识字段（类型、服务、动作）在创建时设定后不可修改；
// 耗时只设置一次；结论一经设置即为最终结果。
type CallOutcome struct {
	kind        EntryKind
	serviceType string
	service     string
	action      string

	input  []any
	output any
	result any
	err    error

	start    time.Time
	cost     int64
	costSet  bool
	tags     []string
	verdict  xclassify.Verdict
	decided  bool
	finished bool
}

// NewOutcome 创建不计时的调用记录，耗时需通过 SetCost 提供。
func NewOutcome(kind EntryKind, serviceType, service, action string) *CallOutcome {
	return &CallOutcome{kind: kind, serviceType: serviceType, service: service, action: action}
}

// Begin 创建调用记录并以当前时间作为起点。
func Begin(kind EntryKind, serviceType, service, action string) *CallOutcome {
	o := NewOutcome(kind, serviceType, service, action)
	o.start = time.Now()
	return o
}

// Kind 返回入口类型。
func (o *CallOutcome) Kind() EntryKind { return o.kind }

// ServiceType 返回服务类型，如 http、grpc、cron。
func (o *CallOutcome) ServiceType() string { return o.serviceType }

// Service 返回服务名。
func (o *CallOutcome) Service() string { return o.service }

// Action 返回动作名（方法、路由或任务名）。
func (o *CallOutcome) Action() string { return o.action }

// Input 返回入参快照，只在写日志时序列化。
func (o *CallOutcome) Input() []any { return o.input }

// Output 返回出参快照。
func (o *CallOutcome) Output() any { return o.output }

// Err 返回调用抛出的错误，没有时为 nil。
func (o *CallOutcome) Err() error { return o.err }

// CostMillis 返回调用耗时（毫秒），0 表示未计时。
func (o *CallOutcome) CostMillis() int64 { return o.cost }

// StartTime 返回 Begin 记录的开始时间，NewOutcome 创建的记录为零值。
func (o *CallOutcome) StartTime() time.Time { return o.start }

// ReturnValue 返回参与分类的返回值，仅在未抛出错误时使用。
func (o *CallOutcome) ReturnValue() any { return o.result }

// SetInput 记录入参快照。
func (o *CallOutcome) SetInput(args ...any) *CallOutcome {
	o.input = args
	return o
}

// SetReturnValue 设置参与分类的返回值，用于输出快照与分类对象不同的场景
// （例如 HTTP 响应体已被写出，只能用状态码分类）。
func (o *CallOutcome) SetReturnValue(v any) *CallOutcome {
	o.result = v
	return o
}

// SetCost 设置耗时（毫秒），负数按 0 处理。只有第一次调用生效。
func (o *CallOutcome) SetCost(ms int64) *CallOutcome {
	if o.costSet {
		return o
	}
	o.cost = max(ms, 0)
	o.costSet = true
	return o
}

// Finish 记录调用结束：输出、返回值与错误。
//
// 未通过 SetCost 设置耗时且由 Begin 创建时，按起点计算耗时。
// 重复调用只有第一次生效。
func (o *CallOutcome) Finish(ret any, err error) *CallOutcome {
	if o.finished {
		return o
	}
	o.finished = true
	o.output = ret
	if o.result == nil {
		o.result = ret
	}
	o.err = err
	if !o.costSet && !o.start.IsZero() {
		o.SetCost(time.Since(o.start).Milliseconds())
	}
	return o
}

// AddTags 追加 key/value 交替的标签。奇数个参数时最后一个 key 的值为 Placeholder。
func (o *CallOutcome) AddTags(kv ...string) *CallOutcome {
	o.tags = append(o.tags, kv...)
	if len(kv)%2 != 0 {
		o.tags = append(o.tags, Placeholder)
	}
	return o
}

// Tags 返回调用方追加的标签副本。
func (o *CallOutcome) Tags() []string {
	return append([]string(nil), o.tags...)
}

// SetVerdict 设置结论，只有第一次调用生效。
// 记录中存在错误时 Success 强制为 false。
func (o *CallOutcome) SetVerdict(v xclassify.Verdict) xclassify.Verdict {
	if o.decided {
		return o.verdict
	}
	if o.err != nil {
		v.Success = false
	}
	o.verdict = v
	o.decided = true
	return v
}

// Verdict 返回结论，尚未分类时 ok 为 false。
func (o *CallOutcome) Verdict() (v xclassify.Verdict, ok bool) {
	return o.verdict, o.decided
}
