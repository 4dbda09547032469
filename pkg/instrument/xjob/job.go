package xjob

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

// Named 由可提供任务名的 cron.Job 实现。
type Named interface {
	JobName() string
}

// Func 是可返回错误的任务函数。
type Func func(ctx context.Context) error

// Wrapper 返回记录每次执行的 cron.JobWrapper。
func Wrapper(c xoutcome.Completer, opts ...Option) cron.JobWrapper {
	if c == nil {
		panic("xjob: Wrapper requires a non-nil Completer")
	}
	o := applyOptions(opts)
	return func(j cron.Job) cron.Job {
		name := jobName(j)
		return cron.FuncJob(func() {
			ctx := context.Background()
			outcome := o.begin(name)
			defer func() {
				if rec := recover(); rec != nil {
					outcome.Finish(nil, xclassify.NewPanicError(rec))
					c.Complete(ctx, outcome)
					panic(rec)
				}
			}()
			j.Run()
			outcome.Finish(nil, nil)
			c.Complete(ctx, outcome)
		})
	}
}

// Job 是带名称、错误会被记录的任务。
type Job struct {
	name      string
	fn        Func
	completer xoutcome.Completer
	opts      *options
}

// NewJob 创建任务。fn 返回的错误参与错误分类。
func NewJob(c xoutcome.Completer, name string, fn Func, opts ...Option) *Job {
	if c == nil {
		panic("xjob: NewJob requires a non-nil Completer")
	}
	if fn == nil {
		panic("xjob: NewJob requires a non-nil Func")
	}
	return &Job{name: name, fn: fn, completer: c, opts: applyOptions(opts)}
}

// JobName 实现 Named。
func (j *Job) JobName() string { return j.name }

// Run 实现 cron.Job。
func (j *Job) Run() {
	_ = j.RunContext(context.Background())
}

// RunContext 执行一次任务并返回其错误。fn panic 时记录后重新 panic。
func (j *Job) RunContext(ctx context.Context) (err error) {
	outcome := j.opts.begin(j.name)
	if j.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.opts.timeout)
		defer cancel()
	}
	defer func() {
		if rec := recover(); rec != nil {
			outcome.Finish(nil, xclassify.NewPanicError(rec))
			j.completer.Complete(ctx, outcome)
			panic(rec)
		}
	}()

	err = j.fn(ctx)
	outcome.Finish(nil, err)
	j.completer.Complete(ctx, outcome)
	return err
}

func (o *options) begin(name string) *xoutcome.CallOutcome {
	return xoutcome.Begin(xoutcome.KindJobIn, o.serviceType, o.service, name).AddTags(o.tags...)
}

func jobName(j cron.Job) string {
	if n, ok := j.(Named); ok && n.JobName() != "" {
		return n.JobName()
	}
	name := fmt.Sprintf("%T", j)
	return strings.TrimLeft(name[strings.LastIndex(name, ".")+1:], "*")
}

var (
	_ cron.Job = (*Job)(nil)
	_ Named    = (*Job)(nil)
)
