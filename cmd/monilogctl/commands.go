package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/xixiU/monilog-sub001/pkg/config/xconf"
	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
	"github.com/xixiU/monilog-sub001/pkg/observability/xpath"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var targets = map[string]xpath.Target{
	"any":      xpath.TargetAny,
	"bool":     xpath.TargetBool,
	"string":   xpath.TargetString,
	"number":   xpath.TargetNumber,
	"sequence": xpath.TargetSequence,
}

func payloadFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "payload",
		Aliases: []string{"p"},
		Usage:   "JSON 载荷：字面量、@文件 或 -（标准输入）",
	}
}

// outputFormat 返回全局 --output 的取值。
func outputFormat(cmd *cli.Command) (string, error) {
	f := cmd.Root().String("output")
	if f != formatText && f != formatJSON {
		return "", usageErrorf("unknown output format %q", f)
	}
	return f, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// createEvalCommand 创建 eval 子命令。
func createEvalCommand() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Aliases:   []string{"e"},
		Usage:     "在 JSON 载荷上求值路径表达式",
		ArgsUsage: "<expr> [expr...]",
		Flags: []cli.Flag{
			payloadFlag(),
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "目标类型 any|bool|string|number|sequence",
				Value:   "any",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			target, ok := targets[strings.ToLower(cmd.String("target"))]
			if !ok {
				return usageErrorf("unknown target %q", cmd.String("target"))
			}
			if cmd.Args().Len() == 0 {
				return usageErrorf("eval requires at least one expression")
			}
			root, err := readPayload(cmd.String("payload"), cmd.Root().Reader)
			if err != nil {
				return err
			}
			results, err := evalExpressions(root, cmd.Args().Slice(), target)
			if err != nil {
				return err
			}
			return printEval(cmd.Root().Writer, format, results)
		},
	}
}

type evalResult struct {
	Expr  string `json:"expr"`
	Found bool   `json:"found"`
	Kind  string `json:"kind,omitempty"`
	Value any    `json:"value,omitempty"`
}

func evalExpressions(root any, exprs []string, target xpath.Target) ([]evalResult, error) {
	results := make([]evalResult, 0, len(exprs))
	for _, expr := range exprs {
		set, err := xpath.ParseExpressionSet(expr)
		if err != nil {
			return nil, usageErrorf("%v", err)
		}
		r := evalResult{Expr: set.String()}
		if v, ok := set.Evaluate(root, target); ok {
			r.Found, r.Kind, r.Value = true, v.Kind().String(), v.Raw()
		}
		results = append(results, r)
	}
	return results, nil
}

func printEval(w io.Writer, format string, results []evalResult) error {
	if format == formatJSON {
		return writeJSON(w, results)
	}
	for _, r := range results {
		if !r.Found {
			fmt.Fprintf(w, "%s\t(no value)\n", r.Expr)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Expr, r.Kind, textValue(r.Value))
	}
	return nil
}

// textValue 容器输出紧凑 JSON，标量输出规范字符串。
func textValue(v any) string {
	val := xpath.ValueOf(v)
	if !val.IsContainer() {
		return val.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return val.String()
	}
	return string(data)
}

// createClassifyCommand 创建 classify 子命令。
func createClassifyCommand() *cli.Command {
	return &cli.Command{
		Name:    "classify",
		Aliases: []string{"c"},
		Usage:   "按策略与路径规则对载荷分类",
		Flags: []cli.Flag{
			payloadFlag(),
			&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "if_success|if_not_null|if_not_empty|if_not_exception，留空表示未显式配置"},
			&cli.StringFlag{Name: "success", Usage: "成功标志路径列表", Value: xclassify.DefaultSuccessPaths},
			&cli.StringFlag{Name: "code", Usage: "code 路径列表", Value: xclassify.DefaultCodePaths},
			&cli.StringFlag{Name: "message", Usage: "message 路径列表", Value: xclassify.DefaultMessagePaths},
			&cli.StringFlag{Name: "error", Aliases: []string{"e"}, Usage: "模拟调用抛出的错误消息"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			policy, err := xclassify.ParsePolicy(cmd.String("strategy"))
			if err != nil {
				return usageErrorf("%v", err)
			}
			rules, err := xclassify.ParseRules(xclassify.DefaultRules(), cmd.String("success"), cmd.String("code"), cmd.String("message"))
			if err != nil {
				return usageErrorf("%v", err)
			}
			ret, err := readPayload(cmd.String("payload"), cmd.Root().Reader)
			if err != nil {
				return err
			}
			var callErr error
			if msg := cmd.String("error"); msg != "" {
				callErr = errors.New(msg)
			}

			v := xclassify.NewResultClassifier().Classify(ret, callErr, rules, policy)
			return printVerdict(cmd.Root().Writer, format, policy, v)
		},
	}
}

type verdictOutput struct {
	Policy  string `json:"policy"`
	Result  string `json:"result"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func printVerdict(w io.Writer, format string, p xclassify.Policy, v xclassify.Verdict) error {
	out := verdictOutput{Policy: p.String(), Result: v.Result(), Success: v.Success, Code: v.Code, Message: v.Message}
	if format == formatJSON {
		return writeJSON(w, out)
	}
	_, err := fmt.Fprintf(w, "policy=%s result=%s code=%s message=%q\n", out.Policy, out.Result, out.Code, out.Message)
	return err
}

// createCheckConfigCommand 创建 check-config 子命令。
func createCheckConfigCommand() *cli.Command {
	return &cli.Command{
		Name:      "check-config",
		Usage:     "加载并校验配置文件（YAML/JSON）",
		ArgsUsage: "<file>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if cmd.Args().Len() != 1 {
				return usageErrorf("check-config requires exactly one file")
			}
			s, err := xconf.Load(cmd.Args().First())
			if err != nil {
				if errors.Is(err, xconf.ErrEmptyPath) || errors.Is(err, xconf.ErrUnsupportedFormat) {
					return usageErrorf("%v", err)
				}
				return err
			}
			return printSettings(cmd.Root().Writer, format, s)
		},
	}
}

func printSettings(w io.Writer, format string, s xoutcome.Settings) error {
	if format == formatJSON {
		return writeJSON(w, s)
	}
	strategy := s.Strategy
	if strategy == "" {
		strategy = "(default)"
	}
	_, err := fmt.Fprintf(w, "ok app=%s env=%s strategy=%s sites=%d metrics=%t log=%t\n",
		s.App, s.Env, strategy, len(s.Sites), !s.Metrics.Disabled, !s.Log.Disabled)
	return err
}
