// Package xconf 从 YAML/JSON 加载 monilog 配置，基于 koanf 实现。
//
// # 加载
//
//	s, err := xconf.Load("/etc/app/monilog.yaml")
//	engine, err := xoutcome.New(xoutcome.WithSettings(s))
//
// 文件中未出现的字段使用 xoutcome.DefaultSettings() 的值。
// 环境变量 MONILOG_APP、MONILOG_ENV 覆盖 app、env。
// 结构校验使用 go-playground/validator（validate 标签），
// 之后编译全部路径与调用点规则，任何错误都以 ErrInvalidConfig 返回。
//
// # 热重载
//
// Watch 基于 fsnotify 监视配置文件所在目录，内置防抖，支持 vim/emacs 的原子写入：
//
//	w, err := xconf.Watch(path, xconf.ApplyTo(engine, func(err error) {
//		xlog.Warn(ctx, "monilog: reload failed", xlog.Err(err))
//	}))
//	w.StartAsync()
//	defer w.Stop()
//
// 重载失败时引擎继续使用旧配置。
//
// # 配置示例
//
//	app: order
//	strategy: ""            # 为空允许 IfSuccess 自动退化
//	paths:
//	  success: $.success,$.code==0
//	metrics:
//	  prefix: monilog.
//	log:
//	  max_text_length: 1024
//	  success_sample_rate: 0.1
//	  exclude:
//	    services: [health]
//	sites:
//	  - kind: client_out
//	    service: pay
//	    strategy: if_not_null
//	    tags:
//	      channel: $.args[0].channel
package xconf
