package xoutcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryKind_RoundTrip(t *testing.T) {
	for k := KindUnknown; k <= KindMQOut; k++ {
		parsed, err := ParseEntryKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Equal(t, "unknown", EntryKind(200).String())
}

func TestParseEntryKind(t *testing.T) {
	k, err := ParseEntryKind(" Client-Out ")
	require.NoError(t, err)
	assert.Equal(t, KindClientOut, k)

	_, err = ParseEntryKind("db")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestEntryKind_Text(t *testing.T) {
	text, err := KindStorageOut.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "storage_out", string(text))

	var k EntryKind
	require.NoError(t, k.UnmarshalText([]byte("mq_in")))
	assert.Equal(t, KindMQIn, k)
	assert.Error(t, k.UnmarshalText([]byte("nope")))
}

func TestEntryKind_Inbound(t *testing.T) {
	assert.True(t, KindRPCIn.Inbound())
	assert.True(t, KindJobIn.Inbound())
	assert.False(t, KindClientOut.Inbound())
	assert.False(t, KindUnknown.Inbound())
}
