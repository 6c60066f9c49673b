package lnwire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestCursorReadExact asserts that reads advance the cursor by exactly the
// number of bytes returned, and that a short read leaves it untouched.
func TestCursorReadExact(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	require.Equal(t, 5, c.Len())
	require.Equal(t, 5, c.Remaining())

	b, err := c.ReadExact(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, b)
	require.Equal(t, 2, c.Position())

	// Asking for more than what is left must fail without moving.
	_, err = c.ReadExact(4)
	require.ErrorIs(t, err, ErrInsufficientData)
	require.Equal(t, 2, c.Position())

	var truncErr *TruncatedInputError
	require.True(t, errors.As(err, &truncErr))
	require.Equal(t, &TruncatedInputError{Offset: 2, Want: 4, Have: 3},
		truncErr)

	b, err = c.ReadExact(3)
	require.NoError(t, err)
	require.Equal(t, []byte{0x03, 0x04, 0x05}, b)
	require.Zero(t, c.Remaining())

	// A zero length read at the end of the buffer is fine.
	b, err = c.ReadExact(0)
	require.NoError(t, err)
	require.Empty(t, b)

	_, err = c.ReadExact(1)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = c.ReadExact(-1)
	require.Error(t, err)
	require.Equal(t, 5, c.Position())
}

// TestCursorIntegers checks the big-endian integer readers.
func TestCursorIntegers(t *testing.T) {
	t.Parallel()

	c := NewCursor([]byte{
		0xab,
		0x01, 0x02,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0xff,
	})

	u8, err := c.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xab), u8)

	u16, err := c.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), u16)

	u64, err := c.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	_, err = c.ReadUint16()
	require.ErrorIs(t, err, ErrInsufficientData)
	require.Equal(t, 11, c.Position())

	_, err = c.ReadUint64()
	require.ErrorIs(t, err, ErrInsufficientData)
	require.Equal(t, 11, c.Position())
}

// TestCursorSeek asserts the bounds Seek enforces.
func TestCursorSeek(t *testing.T) {
	t.Parallel()

	c := NewCursor(make([]byte, 4))

	require.NoError(t, c.Seek(4))
	require.Zero(t, c.Remaining())

	require.NoError(t, c.Seek(0))
	require.Equal(t, 4, c.Remaining())

	require.ErrorIs(t, c.Seek(5), ErrInvalidSeek)
	require.ErrorIs(t, c.Seek(-1), ErrInvalidSeek)
	require.Zero(t, c.Position())
}

// TestCursorReadProperties checks that for any buffer and read length, a read
// either returns exactly n bytes and advances by n, or fails and does not
// move.
func TestCursorReadProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		buf := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(rt, "buf")
		start := rapid.IntRange(0, len(buf)).Draw(rt, "start")
		n := rapid.IntRange(0, 80).Draw(rt, "n")

		c := NewCursor(buf)
		require.NoError(rt, c.Seek(start))

		b, err := c.ReadExact(n)
		if start+n > len(buf) {
			require.ErrorIs(rt, err, ErrInsufficientData)
			require.Equal(rt, start, c.Position())

			return
		}

		require.NoError(rt, err)
		require.Len(rt, b, n)
		require.Equal(rt, buf[start:start+n], b)
		require.Equal(rt, start+n, c.Position())
	})
}
