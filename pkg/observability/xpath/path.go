package xpath

import (
	"fmt"
	"strconv"
	"strings"
)

type segKind uint8

const (
	segField segKind = iota
	segMethod
	segIndex
)

type segment struct {
	kind  segKind
	name  string
	index int
}

// Path 是编译后的提取路径。
//
// 语法（刻意保持精简）：
//
//	$.name        字段 / map key
//	$.name()      零参数访问器调用，找不到访问器时退化为同名字段访问
//	$[0] $[-1]    下标，负数从末尾计
//	$['a.b']      带引号的 key，可包含任意字符
//
// 各段可以任意串联，例如 $.data.items[0].getCode()。
type Path struct {
	raw  string
	segs []segment
}

// ParsePath 解析路径表达式。
// 格式错误在此处立即失败，求值阶段不再出错。
func ParsePath(expr string) (Path, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return Path{}, ErrEmptyPath
	}
	if s[0] != '$' {
		return Path{}, fmt.Errorf("%w: %q", ErrMissingRoot, expr)
	}

	var segs []segment
	i := 1
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			start := i
			for i < len(s) && isIdentByte(s[i]) {
				i++
			}
			if i == start {
				return Path{}, fmt.Errorf("%w: empty segment at offset %d in %q", ErrSyntax, start, expr)
			}
			seg := segment{kind: segField, name: s[start:i]}
			if i < len(s) && s[i] == '(' {
				if i+1 >= len(s) || s[i+1] != ')' {
					return Path{}, fmt.Errorf("%w: accessor call takes no arguments in %q", ErrSyntax, expr)
				}
				seg.kind = segMethod
				i += 2
			}
			segs = append(segs, seg)
		case '[':
			seg, next, err := parseBracket(s, i)
			if err != nil {
				return Path{}, fmt.Errorf("%w in %q", err, expr)
			}
			segs = append(segs, seg)
			i = next
		default:
			return Path{}, fmt.Errorf("%w: unexpected %q at offset %d in %q", ErrSyntax, s[i], i, expr)
		}
	}

	if len(segs) == 0 {
		return Path{}, fmt.Errorf("%w: %q", ErrEmptyTraversal, expr)
	}
	return Path{raw: s, segs: segs}, nil
}

// MustParsePath 与 ParsePath 相同，但失败时 panic。
// 仅用于包级默认值等编译期确定的路径。
func MustParsePath(expr string) Path {
	p, err := ParsePath(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// parseBracket 解析从 s[i]=='[' 开始的下标或带引号 key，返回下一个读取位置。
func parseBracket(s string, i int) (segment, int, error) {
	i++ // 跳过 '['
	if i >= len(s) {
		return segment{}, 0, fmt.Errorf("%w: unterminated bracket", ErrSyntax)
	}
	if q := s[i]; q == '\'' || q == '"' {
		end := strings.IndexByte(s[i+1:], q)
		if end < 0 {
			return segment{}, 0, fmt.Errorf("%w: unterminated quoted key", ErrSyntax)
		}
		key := s[i+1 : i+1+end]
		i = i + 1 + end + 1
		if i >= len(s) || s[i] != ']' {
			return segment{}, 0, fmt.Errorf("%w: expected ] after quoted key", ErrSyntax)
		}
		return segment{kind: segField, name: key}, i + 1, nil
	}

	end := strings.IndexByte(s[i:], ']')
	if end < 0 {
		return segment{}, 0, fmt.Errorf("%w: unterminated bracket", ErrSyntax)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s[i : i+end]))
	if err != nil {
		return segment{}, 0, fmt.Errorf("%w: invalid index %q", ErrSyntax, s[i:i+end])
	}
	return segment{kind: segIndex, index: n}, i + end + 1, nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// String 返回路径的原始文本。
func (p Path) String() string { return p.raw }

// IsZero 判断是否为未初始化的路径。
func (p Path) IsZero() bool { return len(p.segs) == 0 }

// HasAccessorCall 判断路径中是否包含访问器调用段。
func (p Path) HasAccessorCall() bool {
	for _, seg := range p.segs {
		if seg.kind == segMethod {
			return true
		}
	}
	return false
}
