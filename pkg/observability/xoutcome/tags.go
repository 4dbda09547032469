package xoutcome

import (
	"strconv"
	"strings"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
)

// 内置标签 key。
const (
	TagResult       = "result"
	TagApp          = "app"
	TagEnv          = "env"
	TagKind         = "kind"
	TagService      = "service"
	TagAction       = "action"
	TagCode         = "code"
	TagCost         = "cost"
	TagException    = "exception"
	TagExceptionMsg = "exception_msg"
)

// TagBuilder 将调用记录转换为有序、去重的 key/value 标签序列。
//
// 顺序固定：result、app、env、kind、service、action、code、cost、
// 失败时的 exception 与 exception_msg，最后是调用方追加的标签。
// 内置标签 key 或 value 为空时整对跳过；追加标签 value 为空时替换为 Placeholder。
// key 重复时保留第一次出现的值。
//
// Build 是纯函数，对同一记录多次调用结果相同。
type TagBuilder struct {
	App string
	Env string
}

// Build 生成标签序列，长度恒为偶数。
//
// 记录尚未分类时，按是否存在错误推断 result。
func (b TagBuilder) Build(o *CallOutcome) []string {
	if o == nil {
		return nil
	}
	v, ok := o.Verdict()
	if !ok {
		v = xclassify.Verdict{Success: o.Err() == nil}
	}

	t := tagSet{out: make([]string, 0, 20+len(o.tags))}
	t.builtin(TagResult, v.Result())
	t.builtin(TagApp, b.App)
	t.builtin(TagEnv, b.Env)
	t.builtin(TagKind, o.Kind().String())
	t.builtin(TagService, o.Service())
	t.builtin(TagAction, o.Action())
	t.builtin(TagCode, v.Code)
	if cost := o.CostMillis(); cost > 0 {
		t.builtin(TagCost, strconv.FormatInt(cost, 10))
	}
	if !v.Success {
		if err := o.Err(); err != nil {
			t.builtin(TagException, xclassify.TypeName(xclassify.UnwrapInvocation(err)))
		}
		t.builtin(TagExceptionMsg, v.Message)
	}
	for i := 0; i+1 < len(o.tags); i += 2 {
		t.extra(o.tags[i], o.tags[i+1])
	}
	return t.out
}

type tagSet struct {
	out []string
}

func (t *tagSet) has(key string) bool {
	for i := 0; i < len(t.out); i += 2 {
		if t.out[i] == key {
			return true
		}
	}
	return false
}

func (t *tagSet) builtin(key, value string) {
	if isBlank(key) || isBlank(value) || t.has(key) {
		return
	}
	t.out = append(t.out, key, value)
}

func (t *tagSet) extra(key, value string) {
	if isBlank(key) || t.has(key) {
		return
	}
	if isBlank(value) {
		value = Placeholder
	}
	t.out = append(t.out, key, value)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
