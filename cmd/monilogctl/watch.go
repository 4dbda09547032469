package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/xixiU/monilog-sub001/pkg/config/xconf"
	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

// createWatchCommand 创建 watch 子命令。
func createWatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "监听配置文件，打印每次重新加载的结果（Ctrl+C 退出）",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "debounce", Usage: "事件去抖间隔", Value: 100 * time.Millisecond},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if cmd.Args().Len() != 1 {
				return usageErrorf("watch requires exactly one file")
			}
			return watchConfig(ctx, cmd.Args().First(), format, cmd.Duration("debounce"), cmd.Root().Writer)
		},
	}
}

// watchConfig 先打印当前配置，之后每次文件变更打印一次，直到 ctx 取消。
func watchConfig(ctx context.Context, path, format string, debounce time.Duration, w io.Writer) error {
	s, err := xconf.Load(path)
	if err != nil {
		return err
	}
	var mu sync.Mutex
	if err := printSettings(w, format, s); err != nil {
		return err
	}

	watcher, err := xconf.Watch(path, func(s xoutcome.Settings, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fmt.Fprintf(w, "invalid %v\n", err)
			return
		}
		_ = printSettings(w, format, s)
	}, xconf.WithDebounce(debounce))
	if err != nil {
		return err
	}
	watcher.StartAsync()

	<-ctx.Done()
	return watcher.Stop()
}
