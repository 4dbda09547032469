package xoutcome

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab"+TruncationMarker, Truncate("abc", 2))
	assert.Equal(t, "订单"+TruncationMarker, Truncate("订单详情", 2), "counts runes, not bytes")
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
	assert.Equal(t, "abcdef", Truncate("abcdef", -1))
}

func TestSnapshot(t *testing.T) {
	assert.Empty(t, Snapshot(nil, 10))
	assert.Empty(t, Snapshot([]any{}, 10))
	assert.Equal(t, `["a",1]`, Snapshot([]any{"a", 1}, 0))
	assert.Equal(t, "raw", Snapshot("raw", 0))
	assert.Equal(t, "bytes", Snapshot([]byte("bytes"), 0))
	assert.Equal(t, "boom", Snapshot(errors.New("boom"), 0))
	assert.Equal(t, `{"k":"v"}`, Snapshot(map[string]string{"k": "v"}, 0))
	assert.Equal(t, `{"k"`+TruncationMarker, Snapshot(map[string]string{"k": "v"}, 4))

	ch := make(chan int)
	assert.Contains(t, Snapshot(ch, 0), "0x", "unserializable values fall back to fmt")
}

func FuzzTruncate(f *testing.F) {
	f.Add("hello world", 5)
	f.Add("订单详情", 1)
	f.Fuzz(func(t *testing.T, s string, n int) {
		got := Truncate(s, n)
		// 不变量: 不截断时原样返回；截断时前缀是原串前 n 个字符并带标记
		if n <= 0 || utf8.RuneCountInString(s) <= n {
			if got != s {
				t.Fatalf("Truncate(%q, %d) = %q, want unchanged", s, n, got)
			}
			return
		}
		prefix := got[:len(got)-len(TruncationMarker)]
		if utf8.RuneCountInString(prefix) != n || prefix != s[:len(prefix)] {
			t.Fatalf("Truncate(%q, %d) = %q", s, n, got)
		}
	})
}
