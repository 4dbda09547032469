package xpath

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// NamedAccessor 按名称提供值的能力接口。
//
// 实现方可以是结构化数据（按 key 查找），也可以是带类型的 getter 分发。
// 求值器对方法段 name() 与字段段都优先调用 Invoke；found 为 false 表示
// 不存在该访问器，此时退化为反射方法查找或 map/结构体字段查找。
type NamedAccessor interface {
	Invoke(name string) (value any, found bool)
}

// DefaultAccessorCacheSize 访问器缓存默认容量（按 类型×名称 计）。
const DefaultAccessorCacheSize = 4096

type accessorKey struct {
	typ    reflect.Type
	name   string
	method bool
}

// accessorPlan 是一次解析的结果，未找到也会缓存，避免重复反射扫描。
type accessorPlan struct {
	found  bool
	field  []int
	method int
}

// AccessorCache 缓存 类型+名称 到字段下标/方法下标的解析结果。
//
// 读多写少、惰性填充。并发首次写入时允许重复计算：
// 解析是幂等的，后写覆盖先写结果相同。
// nil *AccessorCache 可用，表示不做缓存。
type AccessorCache struct {
	lru *lru.Cache[accessorKey, accessorPlan]
}

// NewAccessorCache 创建访问器缓存。size <= 0 返回 ErrInvalidCacheSize。
func NewAccessorCache(size int) (*AccessorCache, error) {
	if size <= 0 {
		return nil, ErrInvalidCacheSize
	}
	c, err := lru.New[accessorKey, accessorPlan](size)
	if err != nil {
		return nil, err
	}
	return &AccessorCache{lru: c}, nil
}

// Len 返回已缓存的解析结果数量。
func (c *AccessorCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge 清空缓存。
func (c *AccessorCache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

func (c *AccessorCache) resolve(key accessorKey) accessorPlan {
	if c != nil {
		if plan, ok := c.lru.Get(key); ok {
			return plan
		}
	}
	var plan accessorPlan
	if key.method {
		plan = resolveMethod(key.typ, key.name)
	} else {
		plan = resolveField(key.typ, key.name)
	}
	if c != nil {
		c.lru.Add(key, plan)
	}
	return plan
}

// resolveField 在结构体上按 json tag、精确名、忽略大小写名的顺序查找导出字段。
func resolveField(t reflect.Type, name string) accessorPlan {
	var exact, fold []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == name && tagName != "-" {
				return accessorPlan{found: true, field: f.Index}
			}
		}
		if f.Name == name && exact == nil {
			exact = f.Index
		}
		if fold == nil && strings.EqualFold(f.Name, name) {
			fold = f.Index
		}
	}
	switch {
	case exact != nil:
		return accessorPlan{found: true, field: exact}
	case fold != nil:
		return accessorPlan{found: true, field: fold}
	}
	return accessorPlan{}
}

// resolveMethod 在指针类型的方法集上查找零参数访问器。
//
// 候选名按顺序：原名、首字母大写、Get 前缀（protobuf 风格）、
// 去掉 get/is 前缀后首字母大写，最后做忽略大小写匹配。
// 返回值须为 1 个，或 2 个且第二个为 error。
func resolveMethod(t reflect.Type, name string) accessorPlan {
	candidates := []string{name, upperFirst(name), "Get" + upperFirst(name)}
	for _, prefix := range []string{"get", "is"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
			candidates = append(candidates, upperFirst(rest))
		}
	}
	for _, c := range candidates {
		if m, ok := t.MethodByName(c); ok && isAccessor(m.Type) {
			return accessorPlan{found: true, method: m.Index}
		}
	}
	for i := range t.NumMethod() {
		m := t.Method(i)
		if strings.EqualFold(m.Name, name) && isAccessor(m.Type) {
			return accessorPlan{found: true, method: m.Index}
		}
	}
	return accessorPlan{}
}

var errorType = reflect.TypeFor[error]()

// isAccessor 判断方法签名（含接收者）是否为零参数访问器。
func isAccessor(mt reflect.Type) bool {
	if mt.NumIn() != 1 {
		return false
	}
	switch mt.NumOut() {
	case 1:
		return true
	case 2:
		return mt.Out(1) == errorType
	default:
		return false
	}
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
