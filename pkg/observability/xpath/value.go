package xpath

import (
	"fmt"
	"reflect"
	"strconv"
)

// Kind 表示 Value 的类型分类。
//
// 取值集合是封闭的，下游的类型转换逻辑只对这几种情况做分支，
// 不再对原始值做运行时类型探测。
type Kind int

const (
	// KindNull 空值。
	KindNull Kind = iota
	// KindBool 布尔值。
	KindBool
	// KindNumber 数值（整数、无符号整数、浮点数）。
	KindNumber
	// KindString 字符串。
	KindString
	// KindSequence 切片或数组。
	KindSequence
	// KindMapping map。
	KindMapping
	// KindObject 其他值（结构体、函数、通道等）。
	KindObject
)

// String 返回 Kind 的可读名称。
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value 是路径求值得到的带类型标记的值。
type Value struct {
	kind Kind
	raw  any
}

// Null 空值常量。
var Null = Value{kind: KindNull}

// ValueOf 将任意值包装为 Value。
// nil、nil 指针、nil 接口都归为 KindNull；指针会被解引用一层后再分类。
func ValueOf(v any) Value {
	if v == nil {
		return Null
	}
	switch x := v.(type) {
	case Value:
		return x
	case bool:
		return Value{kind: KindBool, raw: x}
	case string:
		return Value{kind: KindString, raw: x}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return Value{kind: KindNumber, raw: x}
	}

	// 具名类型（如 type Code int）按底层种类分类
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Null
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Bool:
		return Value{kind: KindBool, raw: rv.Bool()}
	case reflect.String:
		return Value{kind: KindString, raw: rv.String()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Value{kind: KindNumber, raw: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Value{kind: KindNumber, raw: rv.Uint()}
	case reflect.Float32, reflect.Float64:
		return Value{kind: KindNumber, raw: rv.Float()}
	case reflect.Slice:
		if rv.IsNil() {
			return Null
		}
		return Value{kind: KindSequence, raw: rv.Interface()}
	case reflect.Array:
		return Value{kind: KindSequence, raw: rv.Interface()}
	case reflect.Map:
		if rv.IsNil() {
			return Null
		}
		return Value{kind: KindMapping, raw: rv.Interface()}
	case reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return Null
		}
	}
	return Value{kind: KindObject, raw: rv.Interface()}
}

// Kind 返回值的类型分类。
func (v Value) Kind() Kind { return v.kind }

// Raw 返回原始值。KindNull 返回 nil。
func (v Value) Raw() any { return v.raw }

// IsNull 判断是否为空值。
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsContainer 判断是否为容器（序列、map 或对象）。
func (v Value) IsContainer() bool {
	return v.kind == KindSequence || v.kind == KindMapping || v.kind == KindObject
}

// Bool 返回布尔值，非 KindBool 时 ok 为 false。
func (v Value) Bool() (b, ok bool) {
	b, ok = v.raw.(bool)
	return b, ok && v.kind == KindBool
}

// Float 返回数值的 float64 形式，非 KindNumber 时 ok 为 false。
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	switch n := v.raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	rv := reflect.ValueOf(v.raw)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	}
	return 0, false
}

// String 返回值的规范字符串形式。
//
// 整数不带小数点，浮点数使用最短表示（JSON 解码出的 0 输出 "0"），
// 布尔值输出 true/false，空值输出空字符串。
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		s, _ := v.raw.(string)
		return s
	case KindBool:
		return strconv.FormatBool(v.raw.(bool))
	case KindNumber:
		switch n := v.raw.(type) {
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64)
		case float32:
			return strconv.FormatFloat(float64(n), 'f', -1, 32)
		}
		return fmt.Sprint(v.raw)
	default:
		return fmt.Sprint(v.raw)
	}
}

// Len 返回序列/map 的长度，其他类型返回 -1。
func (v Value) Len() int {
	if v.kind != KindSequence && v.kind != KindMapping {
		return -1
	}
	return reflect.ValueOf(v.raw).Len()
}
