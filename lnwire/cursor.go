package lnwire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when fewer bytes are available than a
	// fixed-width field requires.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidSeek is returned when a cursor is asked to move outside of
	// its underlying buffer.
	ErrInvalidSeek = errors.New("seek position out of range")
)

// TruncatedInputError is returned by a Cursor read that asked for more bytes
// than remain in the buffer. It unwraps to ErrInsufficientData.
type TruncatedInputError struct {
	// Offset is the cursor position at which the read was attempted.
	Offset int

	// Want is the number of bytes the read required.
	Want int

	// Have is the number of bytes that were left in the buffer.
	Have int
}

// Error returns a human readable description of the truncated read.
func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("expected %d bytes at offset %d, got %d", e.Want,
		e.Offset, e.Have)
}

// Unwrap allows errors.Is to match the error against ErrInsufficientData.
func (e *TruncatedInputError) Unwrap() error {
	return ErrInsufficientData
}

// Cursor is a bounded sequential reader over an in-memory byte buffer. Reads
// are atomic with respect to the position: a read that cannot be satisfied
// in full does not advance the cursor.
//
// NOTE: a Cursor must not be used by more than one goroutine at a time, and
// must not outlive the buffer it was created over.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Position returns the current read offset.
func (c *Cursor) Position() int {
	return c.pos
}

// Seek moves the read offset to pos. Seeking to len(buffer) is allowed and
// leaves the cursor exhausted.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidSeek, pos,
			len(c.buf))
	}

	c.pos = pos

	return nil
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// ReadExact returns exactly n bytes and advances the cursor by n. If fewer
// than n bytes remain a *TruncatedInputError is returned and the position is
// left untouched. The returned slice aliases the cursor's buffer.
func (c *Cursor) ReadExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read length %d", n)
	}

	if n > c.Remaining() {
		return nil, &TruncatedInputError{
			Offset: c.pos,
			Want:   n,
			Have:   c.Remaining(),
		}
	}

	b := c.buf[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// ReadUint8 reads a single byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.ReadExact(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadUint16 reads a big-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.ReadExact(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

// ReadUint64 reads a big-endian uint64.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.ReadExact(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b), nil
}
