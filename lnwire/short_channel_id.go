package lnwire

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lightningnetwork/lnd/tlv"
)

const (
	// AliasScidRecordType is the type of the experimental record to denote
	// the alias being used in an option_scid_alias channel.
	AliasScidRecordType tlv.Type = 1

	// maxBlockHeight is the largest block height that fits in the 3 byte
	// field of a short channel id.
	maxBlockHeight = (1 << 24) - 1

	// maxTxIndex is the largest transaction index that fits in the 3 byte
	// field of a short channel id.
	maxTxIndex = (1 << 24) - 1
)

var (
	// ErrBlockHeightOverflow is returned when a block height does not fit
	// in 3 bytes.
	ErrBlockHeightOverflow = errors.New("block height should fit in 3 " +
		"bytes")

	// ErrTxIndexOverflow is returned when a transaction index does not fit
	// in 3 bytes.
	ErrTxIndexOverflow = errors.New("tx index should fit in 3 bytes")

	// ErrMalformedShortChanID is returned when a string is not of the form
	// "BxTxO".
	ErrMalformedShortChanID = errors.New("malformed short channel id")
)

// ShortChannelID represents the set of data which is needed to retrieve all
// necessary data to validate the channel existence.
type ShortChannelID struct {
	// BlockHeight is the height of the block where funding transaction
	// located.
	//
	// NOTE: This field is limited to 3 bytes.
	BlockHeight uint32

	// TxIndex is a position of funding transaction within a block.
	//
	// NOTE: This field is limited to 3 bytes.
	TxIndex uint32

	// TxPosition indicating transaction output which pays to the channel.
	TxPosition uint16
}

// NewShortChanIDFromInt returns a new ShortChannelID which is the decoded
// version of the compact channel ID encoded within the uint64. The format of
// the compact channel ID is as follows: 3 bytes for the block height, 3 bytes
// for the transaction index, and 2 bytes for the output index.
func NewShortChanIDFromInt(chanID uint64) ShortChannelID {
	return ShortChannelID{
		BlockHeight: uint32(chanID>>40) & maxBlockHeight,
		TxIndex:     uint32(chanID>>16) & maxTxIndex,
		TxPosition:  uint16(chanID),
	}
}

// DecodeSCID splits the compact channel ID into its block height,
// transaction index and output index.
func DecodeSCID(scid uint64) (uint32, uint32, uint16) {
	c := NewShortChanIDFromInt(scid)
	return c.BlockHeight, c.TxIndex, c.TxPosition
}

// FormatSCID renders the three fields of a short channel id in the
// canonical "BxTxO" form.
func FormatSCID(blockHeight, txIndex uint32, txPosition uint16) string {
	return fmt.Sprintf("%dx%dx%d", blockHeight, txIndex, txPosition)
}

// ParseShortChannelID parses the canonical "BxTxO" form produced by String.
// Each field must be a plain decimal number that fits its bit width.
func ParseShortChannelID(s string) (ShortChannelID, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return ShortChannelID{}, fmt.Errorf("%w: %q",
			ErrMalformedShortChanID, s)
	}

	fields := make([]uint64, 3)
	bitSizes := []int{24, 24, 16}
	for i, part := range parts {
		// Reject signs and other forms ParseUint would otherwise
		// tolerate so that String(Parse(s)) == s.
		if part == "" || part[0] < '0' || part[0] > '9' ||
			(len(part) > 1 && part[0] == '0') {

			return ShortChannelID{}, fmt.Errorf("%w: %q",
				ErrMalformedShortChanID, s)
		}

		n, err := strconv.ParseUint(part, 10, bitSizes[i])
		if err != nil {
			return ShortChannelID{}, fmt.Errorf("%w: %q: %v",
				ErrMalformedShortChanID, s, err)
		}
		fields[i] = n
	}

	return ShortChannelID{
		BlockHeight: uint32(fields[0]),
		TxIndex:     uint32(fields[1]),
		TxPosition:  uint16(fields[2]),
	}, nil
}

// ToUint64 converts the ShortChannelID into a compact format encoded within a
// uint64 (8 bytes).
func (c ShortChannelID) ToUint64() uint64 {
	return ((uint64(c.BlockHeight) << 40) | (uint64(c.TxIndex) << 16) |
		(uint64(c.TxPosition)))
}

// Validate returns an error if BlockHeight or TxIndex do not fit in 3 bytes,
// in which case ToUint64 would not round trip.
func (c ShortChannelID) Validate() error {
	if c.BlockHeight > maxBlockHeight {
		return fmt.Errorf("%w: %d", ErrBlockHeightOverflow,
			c.BlockHeight)
	}

	if c.TxIndex > maxTxIndex {
		return fmt.Errorf("%w: %d", ErrTxIndexOverflow, c.TxIndex)
	}

	return nil
}

// String generates the canonical "BxTxO" representation of the channel ID.
func (c ShortChannelID) String() string {
	return FormatSCID(c.BlockHeight, c.TxIndex, c.TxPosition)
}

// IsDefault returns true if the ShortChannelID represents the zero value for
// its type.
func (c ShortChannelID) IsDefault() bool {
	return c == ShortChannelID{}
}

// Record returns a TLV record that can be used to encode/decode a
// ShortChannelID to/from a TLV stream.
func (c *ShortChannelID) Record() tlv.Record {
	return tlv.MakeStaticRecord(
		AliasScidRecordType, c, 8, EShortChannelID, DShortChannelID,
	)
}

// EShortChannelID is an encoder for ShortChannelID. It is exported so other
// packages can use the encoding scheme.
func EShortChannelID(w io.Writer, val interface{}, buf *[8]byte) error {
	if v, ok := val.(*ShortChannelID); ok {
		return tlv.EUint64T(w, v.ToUint64(), buf)
	}
	return tlv.NewTypeForEncodingErr(val, "lnwire.ShortChannelID")
}

// DShortChannelID is a decoder for ShortChannelID. It is exported so other
// packages can use the decoding scheme.
func DShortChannelID(r io.Reader, val interface{}, buf *[8]byte,
	l uint64) error {

	if v, ok := val.(*ShortChannelID); ok {
		var scid uint64
		err := tlv.DUint64(r, &scid, buf, 8)
		if err != nil {
			return err
		}

		*v = NewShortChanIDFromInt(scid)
		return nil
	}
	return tlv.NewTypeForDecodingErr(val, "lnwire.ShortChannelID", l, 8)
}

// ReadShortChannelID reads a compact 8 byte short channel id from the cursor.
func ReadShortChannelID(c *Cursor) (ShortChannelID, error) {
	scid, err := c.ReadUint64()
	if err != nil {
		return ShortChannelID{}, fmt.Errorf("unable to read short "+
			"channel id: %w", err)
	}

	return NewShortChanIDFromInt(scid), nil
}
