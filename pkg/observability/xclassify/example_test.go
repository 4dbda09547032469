package xclassify_test

import (
	"errors"
	"fmt"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
)

func ExampleResultClassifier_Classify() {
	c := xclassify.NewResultClassifier()
	rules := xclassify.DefaultRules()

	v := c.Classify(map[string]any{"success": false, "code": "E42", "msg": "stock exhausted"}, nil, rules, xclassify.DefaultPolicy())
	fmt.Println(v.Success, v.Code, v.Message)

	v = c.Classify(map[string]any{"items": []any{}}, nil, rules, xclassify.DefaultPolicy())
	fmt.Println(v.Success, v.Code)

	v = c.Classify(nil, errors.New("dial tcp: i/o timeout"), rules, xclassify.DefaultPolicy())
	fmt.Println(v.Success, v.Code)
	// Output:
	// false E42 stock exhausted
	// true SUCCESS
	// false SERVICE_TIMEOUT
}
