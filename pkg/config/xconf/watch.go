package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

// WatchCallback 配置文件变更回调。重载失败时 err 非 nil，s 为零值。
type WatchCallback func(s xoutcome.Settings, err error)

// Applier 接受新配置，*xoutcome.Engine 实现此接口。
type Applier interface {
	Apply(xoutcome.Settings) error
}

// ApplyTo 返回把重载结果交给 a 的回调。重载或应用失败时调用 onErr（可为 nil），
// a 继续使用旧配置。
func ApplyTo(a Applier, onErr func(error)) WatchCallback {
	return func(s xoutcome.Settings, err error) {
		if err == nil {
			err = a.Apply(s)
		}
		if err != nil && onErr != nil {
			onErr(err)
		}
	}
}

// WatchOption 监视器选项。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
	load     []Option
}

// WithDebounce 设置防抖时间，默认 100ms。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithLoadOptions 设置重载时使用的加载选项。
func WithLoadOptions(opts ...Option) WatchOption {
	return func(o *watchOptions) { o.load = opts }
}

// Watcher 监视配置文件并在变更时重载。
//
// 监视文件所在目录而不是文件本身：编辑器保存时可能先删除再创建，
// 或写临时文件后 rename。
// Stop 返回后不再有回调执行。
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	callback WatchCallback
	opts     watchOptions
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	running bool
	timer   *time.Timer
	wg      sync.WaitGroup
	// cbMu 串行化回调，并让 Stop 等待进行中的回调结束
	cbMu sync.Mutex
}

// Watch 创建监视器，需调用 Start 或 StartAsync 开始监视。
func Watch(path string, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if callback == nil {
		return nil, errors.New("xconf: nil watch callback")
	}
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}

	o := watchOptions{debounce: 100 * time.Millisecond}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xconf: watch directory %s: %w", dir, err), fsWatcher.Close())
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		watcher:  fsWatcher,
		callback: callback,
		opts:     o,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start 阻塞运行监视循环，直到 Stop。
func (w *Watcher) Start() {
	if !w.markRunning() {
		return
	}
	w.run()
}

// StartAsync 在后台 goroutine 中运行监视循环。
func (w *Watcher) StartAsync() {
	if !w.markRunning() {
		return
	}
	go w.run()
}

func (w *Watcher) markRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.ctx.Err() != nil {
		return false
	}
	w.running = true
	w.wg.Add(1)
	return true
}

// Stop 停止监视并等待监视循环退出。可重复调用，不可在回调中调用。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.ctx.Err() != nil {
		w.mu.Unlock()
		return nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.cancel()
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	// 等待已触发的回调结束
	w.cbMu.Lock()
	defer w.cbMu.Unlock()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	filename := filepath.Base(w.path)
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.notify(xoutcome.Settings{}, fmt.Errorf("xconf: watch error: %w", err))
		}
	}
}

// handleEvent 只关心目标文件的 Write、Create、Rename 事件，防抖后重载。
func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.debounce, func() {
		s, err := Load(w.path, w.opts.load...)
		w.notify(s, err)
	})
}

func (w *Watcher) notify(s xoutcome.Settings, err error) {
	w.cbMu.Lock()
	defer w.cbMu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	w.callback(s, err)
}
