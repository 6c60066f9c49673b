package lnwire

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestDetectMessageType exercises type detection against the default
// registry.
func TestDetectMessageType(t *testing.T) {
	t.Parallel()

	registry := DefaultTypeRegistry()

	testCases := []struct {
		name     string
		msg      []byte
		expected MessageType
		known    bool
		err      error
	}{
		{
			name:     "channel announcement",
			msg:      []byte{0x01, 0x00, 0xaa, 0xbb},
			expected: MsgChannelAnnouncement,
			known:    true,
		},
		{
			name:     "node announcement prefix only",
			msg:      []byte{0x01, 0x01},
			expected: MsgNodeAnnouncement,
			known:    true,
		},
		{
			name:     "channel update",
			msg:      []byte{0x01, 0x02, 0x00},
			expected: MsgChannelUpdate,
			known:    true,
		},
		{
			name:     "gossip store channel amount",
			msg:      []byte{0x10, 0x05, 0x00},
			expected: MsgStoreChannelAmount,
			known:    true,
		},
		{
			name: "unknown type",
			msg:  []byte{0x00, 0x10, 0x01},
		},
		{
			name: "announcement signatures not in gossip set",
			msg:  []byte{0x01, 0x03},
		},
		{
			name: "one byte",
			msg:  []byte{0x01},
			err:  ErrInsufficientData,
		},
		{
			name: "empty",
			msg:  nil,
			err:  ErrInsufficientData,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			msgType, err := registry.DetectMessageType(tc.msg)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)

			if !tc.known {
				require.True(t, msgType.IsNone())
				return
			}

			require.Equal(t, tc.expected, msgType.UnsafeFromSome())
		})
	}
}

// TestStripTypePrefix asserts that only known prefixes are removed.
func TestStripTypePrefix(t *testing.T) {
	t.Parallel()

	registry := DefaultTypeRegistry()

	stripped, err := registry.StripTypePrefix([]byte{0x01, 0x01, 0xde, 0xad})
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad}, stripped)

	// A known prefix with nothing behind it strips to an empty payload.
	stripped, err = registry.StripTypePrefix([]byte{0x01, 0x00})
	require.NoError(t, err)
	require.Empty(t, stripped)

	// An already stripped payload is left as is.
	stripped, err = registry.StripTypePrefix([]byte{0xde, 0xad})
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad}, stripped)

	_, err = registry.StripTypePrefix([]byte{0x01})
	require.ErrorIs(t, err, ErrInsufficientData)
}

// TestStripTypePrefixIdempotent checks that stripping twice equals stripping
// once whenever the stripped payload does not itself start with a known type.
func TestStripTypePrefixIdempotent(t *testing.T) {
	t.Parallel()

	registry := DefaultTypeRegistry()

	rapid.Check(t, func(rt *rapid.T) {
		msg := rapid.SliceOfN(rapid.Byte(), 2, 64).Draw(rt, "msg")

		once, err := registry.StripTypePrefix(msg)
		require.NoError(rt, err)

		if len(once) < MessageTypeLen {
			return
		}

		next, err := registry.DetectMessageType(once)
		require.NoError(rt, err)
		if next.IsSome() {
			return
		}

		twice, err := registry.StripTypePrefix(once)
		require.NoError(rt, err)
		require.Equal(rt, once, twice)
	})
}

// TestTypeRegistry checks that the gossip and extension sets are kept apart
// and that a registry built without extensions ignores vendor types.
func TestTypeRegistry(t *testing.T) {
	t.Parallel()

	registry := NewTypeRegistry(
		[]MessageType{MsgChannelUpdate, MsgChannelAnnouncement},
		[]MessageType{MsgStoreEnded, MsgChannelUpdate},
	)

	require.True(t, registry.IsKnown(MsgChannelUpdate))
	require.True(t, registry.IsKnown(MsgStoreEnded))
	require.False(t, registry.IsKnown(MsgNodeAnnouncement))

	require.True(t, registry.IsExtension(MsgStoreEnded))
	require.False(t, registry.IsExtension(MsgChannelAnnouncement))

	require.Equal(t, []MessageType{
		MsgChannelAnnouncement, MsgChannelUpdate, MsgStoreEnded,
	}, registry.Types())

	bolt7Only := NewTypeRegistry(DefaultGossipTypes(), nil)
	msgType, err := bolt7Only.DetectMessageType([]byte{0x10, 0x05})
	require.NoError(t, err)
	require.True(t, msgType.IsNone())

	empty := NewTypeRegistry(nil, nil)
	require.Empty(t, empty.Types())
}

// TestMessageTypeString spot checks the names of the gossip types.
func TestMessageTypeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ChannelAnnouncement", MsgChannelAnnouncement.String())
	require.Equal(t, "NodeAnnouncement", MsgNodeAnnouncement.String())
	require.Equal(t, "ChannelUpdate", MsgChannelUpdate.String())
	require.Equal(t, "GossipStoreChanDying", MsgStoreChanDying.String())
	require.Equal(t, "<unknown>", MessageType(9999).String())
}
