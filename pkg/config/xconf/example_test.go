package xconf_test

import (
	"fmt"

	"github.com/xixiU/monilog-sub001/pkg/config/xconf"
)

func ExampleParse() {
	data := []byte(`
app: order
log:
  success_sample_rate: 0.5
sites:
  - service: pay
    strategy: if_not_null
`)
	s, err := xconf.Parse(data, xconf.FormatYAML, xconf.WithLookupEnv(nil))
	if err != nil {
		panic(err)
	}
	fmt.Println(s.App, s.Metrics.Prefix, s.Log.SuccessSampleRate, s.Sites[0].Strategy)
	// Output: order monilog. 0.5 if_not_null
}
