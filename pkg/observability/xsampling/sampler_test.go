package xsampling

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func keyFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}

func withKey(key string) context.Context {
	return context.WithValue(context.Background(), ctxKey{}, key)
}

func TestConstSamplers(t *testing.T) {
	assert.True(t, Always().ShouldSample(context.Background()))
	assert.False(t, Never().ShouldSample(context.Background()))
}

func TestForRate(t *testing.T) {
	s, err := ForRate(1, keyFromContext)
	require.NoError(t, err)
	assert.Equal(t, Always(), s)

	s, err = ForRate(0, nil)
	require.NoError(t, err)
	assert.Equal(t, Never(), s)

	s, err = ForRate(0.5, keyFromContext)
	require.NoError(t, err)
	assert.IsType(t, &KeyBasedSampler{}, s)

	_, err = ForRate(0.5, nil)
	assert.ErrorIs(t, err, ErrNilKeyFunc)

	for _, bad := range []float64{-0.1, 1.1, math.NaN()} {
		_, err = ForRate(bad, keyFromContext)
		assert.ErrorIs(t, err, ErrInvalidRate)
	}
}

func TestKeyBasedSampler_Consistent(t *testing.T) {
	s, err := NewKeyBasedSampler(0.3, keyFromContext)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, s.Rate(), 0)

	for i := range 50 {
		ctx := withKey(fmt.Sprintf("trace-%d", i))
		first := s.ShouldSample(ctx)
		for range 5 {
			assert.Equal(t, first, s.ShouldSample(ctx))
		}
		assert.Equal(t, KeyFraction(fmt.Sprintf("trace-%d", i)) < 0.3, first)
	}
}

func TestKeyBasedSampler_ApproximateRate(t *testing.T) {
	s, err := NewKeyBasedSampler(0.25, keyFromContext)
	require.NoError(t, err)

	const n = 20000
	hits := 0
	for i := range n {
		if s.ShouldSample(withKey(fmt.Sprintf("k%d", i))) {
			hits++
		}
	}
	assert.InDelta(t, 0.25, float64(hits)/n, 0.03)
}

func TestKeyBasedSampler_EmptyKey(t *testing.T) {
	empties := 0
	s, err := NewKeyBasedSampler(0.5, keyFromContext, WithOnEmptyKey(func() { empties++ }), WithOnEmptyKey(nil))
	require.NoError(t, err)

	s.ShouldSample(context.Background())
	//nolint:staticcheck // nil context 按空 key 处理
	s.ShouldSample(nil)
	assert.Equal(t, 2, empties)

	_, err = NewKeyBasedSampler(0.5, keyFromContext, nil)
	assert.ErrorIs(t, err, ErrNilOption)
}

func TestKeyBasedSampler_Bounds(t *testing.T) {
	always, err := NewKeyBasedSampler(1, keyFromContext)
	require.NoError(t, err)
	never, err := NewKeyBasedSampler(0, keyFromContext)
	require.NoError(t, err)

	ctx := withKey("x")
	assert.True(t, always.ShouldSample(ctx))
	assert.False(t, never.ShouldSample(ctx))
}

func FuzzKeyFraction(f *testing.F) {
	f.Add("")
	f.Add("4bf92f3577b34da6a3ce929d0e0e4736")
	f.Fuzz(func(t *testing.T, key string) {
		// 不变量: 结果落在 [0,1] 且确定
		v := KeyFraction(key)
		if v < 0 || v > 1 || v != KeyFraction(key) {
			t.Fatalf("KeyFraction(%q) = %v", key, v)
		}
	})
}

func BenchmarkKeyBasedSampler(b *testing.B) {
	s, err := NewKeyBasedSampler(0.1, keyFromContext)
	if err != nil {
		b.Fatal(err)
	}
	ctx := withKey("4bf92f3577b34da6a3ce929d0e0e4736")
	b.ReportAllocs()
	for b.Loop() {
		s.ShouldSample(ctx)
	}
}
