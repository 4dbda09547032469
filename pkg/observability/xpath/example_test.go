package xpath_test

import (
	"fmt"

	"github.com/xixiU/monilog-sub001/pkg/observability/xpath"
)

func ExampleEvaluateString() {
	resp := map[string]any{
		"data": map[string]any{
			"items": []any{map[string]any{"code": "A1"}},
		},
	}

	v, ok := xpath.EvaluateString(resp, "$.data.items[0].code")
	fmt.Println(v, ok)

	_, ok = xpath.EvaluateString(resp, "$.data.missing")
	fmt.Println(ok)
	// Output:
	// A1 true
	// false
}

type order struct {
	status string
}

func (o *order) IsPaid() bool { return o.status == "paid" }

func ExampleExpressionSet_Evaluate() {
	set := xpath.MustParseExpressionSet("$.success,$.isPaid(),$.code==0")

	v, _ := set.Evaluate(&order{status: "paid"}, xpath.TargetBool)
	fmt.Println(v)

	v, _ = set.Evaluate(map[string]any{"code": 0}, xpath.TargetBool)
	fmt.Println(v)
	// Output:
	// true
	// true
}
