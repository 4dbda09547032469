package xpath

import (
	"reflect"
)

// Evaluator 对任意值执行路径求值。
//
// 零值可用（不缓存访问器解析结果）。Evaluator 无可变状态，可并发使用。
type Evaluator struct {
	cache *AccessorCache
}

// NewEvaluator 创建使用指定访问器缓存的求值器。cache 可以为 nil。
func NewEvaluator(cache *AccessorCache) Evaluator {
	return Evaluator{cache: cache}
}

// Evaluate 使用不带缓存的求值器对 root 执行路径求值。
func Evaluate(root any, p Path) (Value, bool) {
	return Evaluator{}.Evaluate(root, p)
}

// EvaluateString 解析并求值，路径格式错误视为无值。
func EvaluateString(root any, expr string) (Value, bool) {
	p, err := ParsePath(expr)
	if err != nil {
		return Null, false
	}
	return Evaluate(root, p)
}

// Evaluate 对 root 执行路径求值。
//
// 求值从不 panic、从不返回错误：字段缺失、类型不符、访问器调用失败
// 都返回 (Null, false)。合法的 nil 字段值同样返回 false，
// 调用方应将其视为"尝试下一条路径"。
func (e Evaluator) Evaluate(root any, p Path) (v Value, ok bool) {
	if p.IsZero() {
		return Null, false
	}
	defer func() {
		if r := recover(); r != nil {
			v, ok = Null, false
		}
	}()

	cur := root
	for _, seg := range p.segs {
		var found bool
		switch seg.kind {
		case segMethod:
			cur, found = e.invoke(cur, seg.name)
		case segIndex:
			cur, found = index(cur, seg.index)
		default:
			cur, found = e.field(cur, seg.name)
		}
		if !found || cur == nil {
			return Null, false
		}
	}

	v = ValueOf(cur)
	if v.IsNull() {
		return Null, false
	}
	return v, true
}

// invoke 处理方法段：先尝试访问器调用，不存在该访问器时退化为字段访问。
// 访问器存在但调用失败（返回非 nil error 或 panic）时返回无值，不再退化。
func (e Evaluator) invoke(cur any, name string) (any, bool) {
	if cur == nil {
		return nil, false
	}
	if na, ok := cur.(NamedAccessor); ok {
		if v, found := na.Invoke(name); found {
			return v, true
		}
	}

	rv := reflect.ValueOf(cur)
	recv := addressable(rv)
	if recv.IsValid() {
		plan := e.cache.resolve(accessorKey{typ: recv.Type(), name: name, method: true})
		if plan.found {
			out := recv.Method(plan.method).Call(nil)
			if len(out) == 2 && !out[1].IsNil() {
				return nil, false
			}
			return out[0].Interface(), true
		}
	}
	return e.field(cur, name)
}

// addressable 返回可调用完整方法集的接收者：指针原样返回，值类型复制到新指针。
func addressable(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}
		}
		return rv
	}
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	return ptr
}

// field 处理字段段：NamedAccessor 优先，Invoke 未找到时再做 map/结构体查找。
func (e Evaluator) field(cur any, name string) (any, bool) {
	if na, ok := cur.(NamedAccessor); ok {
		if v, found := na.Invoke(name); found {
			return v, true
		}
	}
	switch m := cur.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := m[name]
		return v, ok
	case map[string]string:
		v, ok := m[name]
		return v, ok
	}

	rv := indirect(reflect.ValueOf(cur))
	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		if kt.Kind() != reflect.String {
			break
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(kt))
		if mv.IsValid() {
			return mv.Interface(), true
		}
	case reflect.Struct:
		plan := e.cache.resolve(accessorKey{typ: rv.Type(), name: name})
		if plan.found {
			fv, err := rv.FieldByIndexErr(plan.field)
			if err != nil {
				return nil, false
			}
			return fv.Interface(), true
		}
	}
	return nil, false
}

func index(cur any, i int) (any, bool) {
	if s, ok := cur.([]any); ok {
		if i < 0 {
			i += len(s)
		}
		if i < 0 || i >= len(s) {
			return nil, false
		}
		return s[i], true
	}

	rv := indirect(reflect.ValueOf(cur))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if i < 0 {
		i += rv.Len()
	}
	if i < 0 || i >= rv.Len() {
		return nil, false
	}
	return rv.Index(i).Interface(), true
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
