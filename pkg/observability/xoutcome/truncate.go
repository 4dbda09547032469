package xoutcome

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// TruncationMarker 截断后追加的标记。
const TruncationMarker = "...(truncated)"

// Truncate 将 s 截断到 maxRunes 个字符并追加 TruncationMarker。
// maxRunes <= 0 表示不截断。
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + TruncationMarker
		}
		n++
	}
	return s
}

// Snapshot 将入参/出参序列化为 JSON 并截断，不修改原值。
// 无法序列化时退化为 %+v。
func Snapshot(v any, maxRunes int) string {
	if v == nil {
		return ""
	}
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	case error:
		s = x.Error()
	case []any:
		if len(x) == 0 {
			return ""
		}
		s = marshal(x)
	default:
		s = marshal(v)
	}
	return Truncate(s, maxRunes)
}

func marshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
