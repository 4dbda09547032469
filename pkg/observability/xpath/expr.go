package xpath

import (
	"strconv"
	"strings"
)

// Target 表示期望从表达式集合得到的目标类型。
type Target int

const (
	// TargetAny 接受路径返回的任意值。
	TargetAny Target = iota
	// TargetBool 布尔目标。
	TargetBool
	// TargetString 字符串目标。
	TargetString
	// TargetNumber 数值目标。
	TargetNumber
	// TargetSequence 序列目标。
	TargetSequence
)

// String 返回 Target 的可读名称。
func (t Target) String() string {
	switch t {
	case TargetAny:
		return "any"
	case TargetBool:
		return "bool"
	case TargetString:
		return "string"
	case TargetNumber:
		return "number"
	case TargetSequence:
		return "sequence"
	default:
		return "Target(" + strconv.Itoa(int(t)) + ")"
	}
}

// Candidate 是表达式集合中的一条候选：路径加可选的期望值。
type Candidate struct {
	Path Path
	// Expect 期望值字面量，HasExpect 为 false 时无意义。
	Expect    string
	HasExpect bool
}

// String 还原候选的文本形式。
func (c Candidate) String() string {
	if !c.HasExpect {
		return c.Path.String()
	}
	return c.Path.String() + "==" + c.Expect
}

// ExpressionSet 是有序的候选路径列表，按顺序求值，第一个有值的候选胜出。
//
// 零值是空集合，求值总是返回无值。
type ExpressionSet struct {
	candidates []Candidate
}

// ParseExpressionSet 解析逗号分隔的候选列表。
//
// 每项形如 path、path==literal 或 path=literal；先找 ==，找不到再找 =，
// 以第一次出现处拆分。括号与引号内的逗号和等号不参与拆分。
// 空项被忽略；任何一项格式错误整体失败。
func ParseExpressionSet(list string) (ExpressionSet, error) {
	var set ExpressionSet
	for _, item := range splitTopLevel(list, ',') {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		c, err := parseCandidate(item)
		if err != nil {
			return ExpressionSet{}, err
		}
		set.candidates = append(set.candidates, c)
	}
	return set, nil
}

// MustParseExpressionSet 与 ParseExpressionSet 相同，但失败时 panic。
func MustParseExpressionSet(list string) ExpressionSet {
	set, err := ParseExpressionSet(list)
	if err != nil {
		panic(err)
	}
	return set
}

// NewExpressionSet 由已编译的候选构造集合。
func NewExpressionSet(candidates ...Candidate) ExpressionSet {
	return ExpressionSet{candidates: append([]Candidate(nil), candidates...)}
}

func parseCandidate(item string) (Candidate, error) {
	pathPart, expect, hasExpect := cutExpect(item)
	p, err := ParsePath(pathPart)
	if err != nil {
		return Candidate{}, err
	}
	c := Candidate{Path: p}
	if hasExpect {
		c.Expect = unquote(strings.TrimSpace(expect))
		c.HasExpect = true
	}
	return c, nil
}

// cutExpect 在顶层位置按 == 或 = 拆分。
func cutExpect(item string) (path, expect string, ok bool) {
	if i := indexTopLevel(item, "=="); i >= 0 {
		return item[:i], item[i+2:], true
	}
	if i := indexTopLevel(item, "="); i >= 0 {
		return item[:i], item[i+1:], true
	}
	return item, "", false
}

func unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '\'' || q == '"') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// indexTopLevel 返回 sep 在方括号和引号之外第一次出现的位置。
func indexTopLevel(s, sep string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0 && strings.HasPrefix(s[i:], sep):
			return i
		}
	}
	return -1
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	for {
		i := indexTopLevel(s, string(sep))
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i])
		s = s[i+1:]
	}
}

// Len 返回候选数量。
func (s ExpressionSet) Len() int { return len(s.candidates) }

// IsEmpty 判断集合是否为空。
func (s ExpressionSet) IsEmpty() bool { return len(s.candidates) == 0 }

// Candidates 返回候选的副本。
func (s ExpressionSet) Candidates() []Candidate {
	return append([]Candidate(nil), s.candidates...)
}

// String 还原集合的文本形式。
func (s ExpressionSet) String() string {
	parts := make([]string, len(s.candidates))
	for i, c := range s.candidates {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// Evaluate 使用不带缓存的求值器按顺序求值。
func (s ExpressionSet) Evaluate(root any, target Target) (Value, bool) {
	return s.EvaluateWith(Evaluator{}, root, target)
}

// EvaluateWith 按顺序对每个候选求值并转换为目标类型，返回第一个成功的结果。
//
// 这是全序而非"最佳匹配"：靠前的候选一旦有值即返回。
func (s ExpressionSet) EvaluateWith(e Evaluator, root any, target Target) (Value, bool) {
	for _, c := range s.candidates {
		raw, ok := e.Evaluate(root, c.Path)
		if !ok {
			continue
		}
		if v, ok := coerce(c, raw, target); ok {
			return v, true
		}
	}
	return Null, false
}

// coerce 将路径结果按候选的期望值和目标类型转换。
func coerce(c Candidate, raw Value, target Target) (Value, bool) {
	if !isExpectValid(c, raw, target) {
		return Null, false
	}

	if c.HasExpect {
		matched := strings.EqualFold(raw.String(), c.Expect)
		if target == TargetBool {
			return Value{kind: KindBool, raw: matched}, true
		}
		if !matched {
			return Null, false
		}
	}

	switch target {
	case TargetAny:
		return raw, true
	case TargetSequence:
		if raw.Kind() != KindSequence {
			return Null, false
		}
		return raw, true
	}

	// 标量目标：容器值视为无值，避免把整个对象当成 code/message
	if raw.IsContainer() {
		return Null, false
	}

	switch target {
	case TargetBool:
		if b, ok := raw.Bool(); ok {
			return Value{kind: KindBool, raw: b}, true
		}
		if raw.Kind() == KindString {
			switch strings.ToLower(strings.TrimSpace(raw.String())) {
			case "true":
				return Value{kind: KindBool, raw: true}, true
			case "false":
				return Value{kind: KindBool, raw: false}, true
			}
		}
		return Null, false
	case TargetNumber:
		if raw.Kind() == KindNumber {
			return raw, true
		}
		if raw.Kind() == KindString {
			if f, err := strconv.ParseFloat(strings.TrimSpace(raw.String()), 64); err == nil {
				return Value{kind: KindNumber, raw: f}, true
			}
		}
		return Null, false
	case TargetString:
		return Value{kind: KindString, raw: raw.String()}, true
	default:
		return Null, false
	}
}

// isExpectValid 判断候选声明的期望值与目标类型是否相容，不相容的候选被丢弃。
//
//   - 布尔目标：期望值须为 true/false（忽略大小写），或等于原始值的字符串形式
//   - 数值目标：期望值须可解析为数值
//   - 其他目标：总是相容
func isExpectValid(c Candidate, raw Value, target Target) bool {
	if !c.HasExpect {
		return true
	}
	switch target {
	case TargetBool:
		e := strings.ToLower(c.Expect)
		return e == "true" || e == "false" || strings.EqualFold(c.Expect, raw.String())
	case TargetNumber:
		_, err := strconv.ParseFloat(strings.TrimSpace(c.Expect), 64)
		return err == nil
	default:
		return true
	}
}
