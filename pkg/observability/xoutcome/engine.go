package xoutcome

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
	"github.com/xixiU/monilog-sub001/pkg/observability/xlog"
	"github.com/xixiU/monilog-sub001/pkg/observability/xmetrics"
	"github.com/xixiU/monilog-sub001/pkg/observability/xpath"
	"github.com/xixiU/monilog-sub001/pkg/observability/xsampling"
)

// Completer 结算一次已结束的调用。适配器只依赖该接口，*Engine 实现了它。
type Completer interface {
	Complete(ctx context.Context, o *CallOutcome) xclassify.Verdict
}

// Option 配置 Engine。
type Option func(*engineOptions)

type engineOptions struct {
	settings   Settings
	recorder   xmetrics.Recorder
	logger     xlog.Logger
	cache      *ResolutionCache
	exceptions *xclassify.ExceptionClassifier
}

// WithSettings 设置初始配置，默认 DefaultSettings()。
func WithSettings(s Settings) Option {
	return func(o *engineOptions) { o.settings = s }
}

// WithRecorder 设置指标输出，默认 xmetrics.Noop。
func WithRecorder(r xmetrics.Recorder) Option {
	return func(o *engineOptions) { o.recorder = r }
}

// WithLogger 设置调用日志与内部错误日志的输出，默认 xlog.Default()。
func WithLogger(l xlog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithCache 注入解析缓存。注入的缓存由调用方负责 Close。
func WithCache(c *ResolutionCache) Option {
	return func(o *engineOptions) { o.cache = c }
}

// WithExceptionClassifier 替换错误分类器。
func WithExceptionClassifier(ec *xclassify.ExceptionClassifier) Option {
	return func(o *engineOptions) { o.exceptions = ec }
}

// state 是一次 Apply 的结果。
type state struct {
	*compiled
	sampler xsampling.Sampler
}

// Engine 对调用记录执行 分类 → 标签 → 指标 → 日志。
//
// 引擎内部没有挂起点，全部工作在调用方 goroutine 内同步完成。
// 除解析缓存外没有共享可变状态；配置通过原子指针整体替换。
// 所有方法并发安全。
type Engine struct {
	state      atomic.Pointer[state]
	gen        atomic.Uint64
	cache      *ResolutionCache
	ownsCache  bool
	classifier *xclassify.ResultClassifier
	eval       xpath.Evaluator
	emitter    *Emitter
	logger     xlog.Logger
	closeOnce  sync.Once
}

// New 创建 Engine。配置非法时返回 ErrInvalidSettings。
func New(opts ...Option) (*Engine, error) {
	o := engineOptions{settings: DefaultSettings()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = xlog.Default()
	}

	e := &Engine{cache: o.cache, logger: o.logger}
	if e.cache == nil {
		cache, err := NewResolutionCache()
		if err != nil {
			return nil, err
		}
		e.cache, e.ownsCache = cache, true
	}
	e.eval = xpath.NewEvaluator(e.cache.Accessors)
	classifierOpts := []xclassify.Option{xclassify.WithEvaluator(e.eval)}
	if o.exceptions != nil {
		classifierOpts = append(classifierOpts, xclassify.WithExceptionClassifier(o.exceptions))
	}
	e.classifier = xclassify.NewResultClassifier(classifierOpts...)
	e.emitter = NewEmitter(o.recorder, o.logger)

	if err := e.Apply(o.settings); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Apply 编译并原子替换配置。编译失败时保留旧配置并返回错误。
// 替换后旧配置解析出的调用点缓存全部失效。
func (e *Engine) Apply(s Settings) error {
	c, err := compile(s)
	if err != nil {
		return err
	}
	sampler, err := xsampling.ForRate(c.sampleAt, xlog.TraceID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	c.gen = e.gen.Add(1)
	e.state.Store(&state{compiled: c, sampler: sampler})
	return nil
}

// Settings 返回当前生效的配置。
func (e *Engine) Settings() Settings {
	return e.state.Load().settings
}

// Cache 返回引擎使用的解析缓存。
func (e *Engine) Cache() *ResolutionCache {
	return e.cache
}

// Resolve 返回调用点的分类配置：第一条命中的 SiteRule，未命中时为全局配置。
// 结果按配置代数缓存。
func (e *Engine) Resolve(kind EntryKind, serviceType, service, action string) *Site {
	return e.resolve(e.state.Load(), siteKey{kind: kind, serviceType: serviceType, service: service, action: action})
}

func (e *Engine) resolve(st *state, k siteKey) *Site {
	if len(st.sites) == 0 {
		return st.global
	}
	key := k.String()
	if s, ok := e.cache.site(key, st.gen); ok {
		return s
	}
	s := st.resolve(k)
	e.cache.storeSite(key, st.gen, s)
	return s
}

// Classify 对记录分类并写入记录。记录已有结论时直接返回该结论。
// site 为 nil 时按记录的标识解析。
func (e *Engine) Classify(o *CallOutcome, site *Site) xclassify.Verdict {
	if v, ok := o.Verdict(); ok {
		return v
	}
	if site == nil {
		site = e.Resolve(o.Kind(), o.ServiceType(), o.Service(), o.Action())
	}
	v := e.classifier.Classify(o.ReturnValue(), o.Err(), site.Rules, site.Policy)
	return o.SetVerdict(v)
}

// Complete 处理一次已结束的调用：分类、动态标签、构建标签、写指标、写日志。
//
// 失败隔离：内部任何 panic 都被恢复并记录，不会影响被测调用。
// 返回最终结论。
func (e *Engine) Complete(ctx context.Context, o *CallOutcome) (v xclassify.Verdict) {
	if o == nil {
		return v
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error(ctx, "monilog: complete panicked",
				xlog.Kind(o.Kind().String()),
				xlog.Service(o.Service()),
				xlog.Action(o.Action()),
				slog.String("panic", fmt.Sprint(r)))
			v, _ = o.Verdict()
		}
	}()

	st := e.state.Load()
	site := e.resolve(st, siteKey{kind: o.Kind(), serviceType: o.ServiceType(), service: o.Service(), action: o.Action()})
	v = e.Classify(o, site)

	tags := st.tagger.Build(withDynamicTags(o, site, e.eval))
	if !st.settings.Metrics.Disabled {
		e.emitter.Emit(ctx, st.metricName(o.Kind()), tags, o.CostMillis())
	}
	e.log(ctx, st, o, v, tags)
	return v
}

// withDynamicTags 返回追加了动态标签的记录副本，原记录不变，
// 重复 Complete 不会累积标签。
func withDynamicTags(o *CallOutcome, site *Site, eval xpath.Evaluator) *CallOutcome {
	dyn := site.dynamicTags(eval, o)
	if len(dyn) == 0 {
		return o
	}
	cp := *o
	cp.tags = append(o.Tags(), dyn...)
	return &cp
}

func (e *Engine) log(ctx context.Context, st *state, o *CallOutcome, v xclassify.Verdict, tags []string) {
	ls := st.settings.Log
	if ls.Disabled || !st.filter.allows(o) {
		return
	}
	if v.Success && !st.sampler.ShouldSample(ctx) {
		return
	}

	maxLen := ls.MaxTextLength
	attrs := []slog.Attr{
		xlog.Kind(o.Kind().String()),
		xlog.ServiceType(o.ServiceType()),
		xlog.Service(o.Service()),
		xlog.Action(o.Action()),
		xlog.Success(v.Success),
		xlog.Code(v.Code),
		xlog.Message(v.Message),
		xlog.CostMillis(o.CostMillis()),
		xlog.Tags(tags),
		xlog.LazyString(xlog.KeyInput, func() string { return Snapshot(o.Input(), maxLen) }),
		xlog.LazyString(xlog.KeyOutput, func() string { return Snapshot(o.Output(), maxLen) }),
	}
	if err := o.Err(); err != nil {
		attrs = append(attrs, xlog.Err(err))
	}

	switch {
	case o.Err() != nil:
		e.logger.Error(ctx, "monilog: call raised", attrs...)
	case !v.Success:
		e.logger.Warn(ctx, "monilog: call failed", attrs...)
	default:
		e.logger.Info(ctx, "monilog: call succeeded", attrs...)
	}
}

// Close 释放引擎自建的解析缓存。可重复调用。
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		if e.ownsCache {
			e.cache.Close()
		}
	})
}

var _ Completer = (*Engine)(nil)
