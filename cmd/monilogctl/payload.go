package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"
)

// readPayload 解析 --payload 参数：JSON 字面量、@文件、- 表示 stdin。
// 空参数返回 nil。
func readPayload(arg string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case arg == "":
		return nil, nil
	case arg == "-":
		data, err = io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		data, err = os.ReadFile(arg[1:])
	default:
		data = []byte(arg)
	}
	if err != nil {
		return nil, usageErrorf("read payload: %v", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, usageErrorf("payload is not valid JSON: %v", err)
	}
	return v, nil
}
