package xgrpc_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
	"github.com/xixiU/monilog-sub001/pkg/observability/xlog"
	"github.com/xixiU/monilog-sub001/pkg/observability/xmetrics"
	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

// capture 记录交给引擎结算的调用及其结论。
type capture struct {
	next xoutcome.Completer

	mu       sync.Mutex
	outcomes []*xoutcome.CallOutcome
	verdicts []xclassify.Verdict
}

func newCapture(t *testing.T) *capture {
	t.Helper()
	logger, cleanup, err := xlog.New().SetOutput(io.Discard).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	s := xoutcome.DefaultSettings()
	s.App = "shop"
	engine, err := xoutcome.New(xoutcome.WithSettings(s), xoutcome.WithRecorder(xmetrics.Noop{}), xoutcome.WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	return &capture{next: engine}
}

func (c *capture) Complete(ctx context.Context, o *xoutcome.CallOutcome) xclassify.Verdict {
	v := c.next.Complete(ctx, o)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, o)
	c.verdicts = append(c.verdicts, v)
	return v
}

func (c *capture) last(t *testing.T) (*xoutcome.CallOutcome, xclassify.Verdict) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.outcomes, "no call completed")
	n := len(c.outcomes) - 1
	return c.outcomes[n], c.verdicts[n]
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.outcomes)
}
