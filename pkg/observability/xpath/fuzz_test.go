package xpath

import (
	"testing"
)

func FuzzParsePath(f *testing.F) {
	f.Add("$.a.b[0].c()")
	f.Add("$['x-y']")
	f.Add("$[")
	f.Add("")
	f.Add("$.a==1,$.b")

	root := map[string]any{"a": map[string]any{"b": []any{map[string]any{"c": true}}}}

	f.Fuzz(func(t *testing.T, expr string) {
		p, err := ParsePath(expr)
		if err != nil {
			// 不变量: 解析失败时返回零值路径
			if !p.IsZero() {
				t.Errorf("ParsePath(%q) failed but returned non-zero path", expr)
			}
			return
		}
		// 不变量: 规范形式可以再次解析，求值从不 panic
		if _, err := ParsePath(p.String()); err != nil {
			t.Errorf("round trip of %q failed: %v", p.String(), err)
		}
		Evaluate(root, p)
	})
}

func FuzzParseExpressionSet(f *testing.F) {
	f.Add("$.success,$.code==0,$.status=ok")
	f.Add("$['a,b']=='x'")
	f.Add(",,,")

	f.Fuzz(func(t *testing.T, list string) {
		set, err := ParseExpressionSet(list)
		if err != nil {
			return
		}
		for _, target := range []Target{TargetAny, TargetBool, TargetString, TargetNumber, TargetSequence} {
			set.Evaluate(map[string]any{"success": "true", "code": 0}, target)
		}
	})
}
