// Package xjob 记录 robfig/cron 定时任务的执行结果（job_in）。
//
// [Wrapper] 是 cron.JobWrapper，可放入 cron.WithChain 观测所有任务；
// 普通 cron.Job 没有返回值，只有 panic 会判为失败。
// 需要把任务错误纳入分类时使用 [NewJob]。
//
//	c := cron.New(
//	    cron.WithLogger(xjob.Logger(xlog.Default())),
//	    cron.WithChain(cron.Recover(xjob.Logger(xlog.Default()))),
//	)
//	_, _ = c.AddJob("@every 1m", xjob.NewJob(engine, "sync-stock", syncStock))
//
// action 取任务名：NewJob 的 name，或实现了 [Named] 的任务的 JobName()，
// 都没有时使用任务的类型名。
package xjob
