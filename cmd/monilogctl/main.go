// monilogctl 是调用结果分类引擎的命令行工具，用于离线调试路径表达式、
// 分类规则与配置文件。
//
// 用法:
//
//	monilogctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-o, --output   输出格式 text|json (默认: text)
//
// 命令:
//
//	eval           在 JSON 载荷上求值路径表达式
//	classify       按策略与路径规则对载荷分类
//	check-config   加载并校验配置文件
//	watch          监听配置文件，打印每次重新加载的结果
//
// 载荷参数 --payload 支持三种形式：JSON 字面量、@文件路径、- 表示标准输入。
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（如配置非法）
//	2: 参数错误
//
// 示例:
//
//	monilogctl eval -p '{"code":0,"data":{"items":[1,2]}}' '$.code==0' '$.data.items'
//	monilogctl classify -p @resp.json --strategy if_success --code '$.errCode'
//	monilogctl classify --error "read tcp: i/o timeout"
//	monilogctl -o json check-config monilog.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// createApp 创建 CLI 应用。
func createApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "monilogctl",
		Usage:     "调用结果分类引擎调试工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "输出格式 text|json",
				Value:   formatText,
			},
		},
		Commands: []*cli.Command{
			createEvalCommand(),
			createClassifyCommand(),
			createCheckConfigCommand(),
			createWatchCommand(),
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := createApp(stdin, stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		if isCLIUsageError(err) {
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
