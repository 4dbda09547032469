package xclassify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"if_success", StrategyIfSuccess},
		{"IfSuccess", StrategyIfSuccess},
		{"IF_NOT_NULL", StrategyIfNotNull},
		{"if-not-empty", StrategyIfNotEmpty},
		{" IfNotException ", StrategyIfNotException},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStrategy("always")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
	assert.False(t, p.Explicit)

	p, err = ParsePolicy("if_success")
	require.NoError(t, err)
	assert.True(t, p.Explicit)
	assert.Equal(t, "if_success!", p.String())

	_, err = ParsePolicy("nope")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "if_not_exception", StrategyIfNotException.String())
	assert.Equal(t, "Strategy(9)", Strategy(9).String())
}
