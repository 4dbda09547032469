package xclassify

import (
	"reflect"
	"strings"

	"github.com/xixiU/monilog-sub001/pkg/observability/xpath"
)

// IsEmpty 是 IfNotEmpty 策略使用的空值判定。
//
//   - nil（含 nil 指针、nil map、nil slice）为空
//   - 字符串仅含空白时为空
//   - map、slice、数组、通道长度为 0 时为空
//   - 实现 Len() int 的集合类型长度为 0 时为空
//   - 其他类型永不为空
//
// 指针会被解引用后再判定。
func IsEmpty(v any) bool {
	if xv, ok := v.(xpath.Value); ok {
		v = xv.Raw()
	}
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	case interface{ Len() int }:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return true
		}
		return x.Len() == 0
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Chan:
		return rv.Len() == 0
	case reflect.Struct:
		if !rv.CanAddr() {
			ptr := reflect.New(rv.Type())
			ptr.Elem().Set(rv)
			rv = ptr.Elem()
		}
		if l, ok := rv.Addr().Interface().(interface{ Len() int }); ok {
			return l.Len() == 0
		}
	}
	return false
}

// isNull 判断返回值是否为 nil（含带类型的 nil）。
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
