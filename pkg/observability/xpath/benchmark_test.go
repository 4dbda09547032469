package xpath

import (
	"testing"
)

var (
	benchValue Value
	benchOK    bool
)

func BenchmarkEvaluate_Map(b *testing.B) {
	root := map[string]any{"data": map[string]any{"code": "0"}}
	p := MustParsePath("$.data.code")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchValue, benchOK = Evaluate(root, p)
	}
}

func BenchmarkEvaluate_StructCached(b *testing.B) {
	cache, err := NewAccessorCache(DefaultAccessorCacheSize)
	if err != nil {
		b.Fatal(err)
	}
	e := NewEvaluator(cache)
	root := &response{Success: true, Data: &inner{Code: "0"}}
	p := MustParsePath("$.data.code")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchValue, benchOK = e.Evaluate(root, p)
	}
}

func BenchmarkEvaluate_StructUncached(b *testing.B) {
	root := &response{Success: true, Data: &inner{Code: "0"}}
	p := MustParsePath("$.data.code")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchValue, benchOK = Evaluate(root, p)
	}
}

func BenchmarkExpressionSet_DefaultSuccess(b *testing.B) {
	set := MustParseExpressionSet("$.success,$.isSuccess(),$.succeed,$.ok,$.code==0,$.code==200,$.status==success")
	root := map[string]any{"code": 0}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchValue, benchOK = set.Evaluate(root, TargetBool)
	}
}
