package lnwire

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/net/idna"
)

// NodeAliasLen is the fixed width of the alias field of a node_announcement.
const NodeAliasLen = 32

// punycodePrefix is the ACE prefix the idna package expects in front of a
// punycode encoded label.
const punycodePrefix = "xn--"

// NodeAlias is the raw, zero padded alias field of a node_announcement.
type NodeAlias [NodeAliasLen]byte

// NewNodeAlias creates a new instance of a NodeAlias. Verification is
// performed on the passed string to ensure it meets the alias requirements.
func NewNodeAlias(s string) (NodeAlias, error) {
	var n NodeAlias

	if len(s) > NodeAliasLen {
		return n, fmt.Errorf("alias too large: max is %v, got %v",
			NodeAliasLen, len(s))
	}

	if !utf8.ValidString(s) {
		return n, fmt.Errorf("invalid utf8 string")
	}

	copy(n[:], []byte(s))
	return n, nil
}

// String returns the printable form of the alias, see DecodeAlias.
func (n NodeAlias) String() string {
	return DecodeAlias(n[:])
}

// ReadNodeAlias reads the 32 byte alias field from the cursor.
func ReadNodeAlias(c *Cursor) (NodeAlias, error) {
	var n NodeAlias

	b, err := c.ReadExact(NodeAliasLen)
	if err != nil {
		return n, fmt.Errorf("unable to read node alias: %w", err)
	}
	copy(n[:], b)

	return n, nil
}

// aliasDecoder is one step of the alias decoding pipeline. It returns None if
// it cannot produce an alias from the raw field.
type aliasDecoder func(raw []byte) fn.Option[string]

// aliasDecoders are tried in order by DecodeAlias.
var aliasDecoders = []aliasDecoder{
	aliasFromUTF8,
	aliasFromPunycode,
}

// DecodeAlias turns a raw alias field into a string. A field holding valid
// UTF-8 is returned as text with its leading and trailing NUL padding
// trimmed; failing that, the trimmed field is decoded as a punycode label;
// failing that, the lowercase hex encoding of the raw bytes is returned.
// DecodeAlias never fails.
//
// NOTE: the mapping is lossy, the raw field cannot be recovered from the
// result.
func DecodeAlias(raw []byte) string {
	for _, decode := range aliasDecoders {
		alias := decode(raw)
		if alias.IsSome() {
			return alias.UnsafeFromSome()
		}
	}

	return aliasFromHex(raw)
}

// aliasFromUTF8 returns the field as text with leading and trailing NUL
// padding trimmed if it is valid UTF-8.
func aliasFromUTF8(raw []byte) fn.Option[string] {
	if !utf8.Valid(raw) {
		return fn.None[string]()
	}

	return fn.Some(string(bytes.Trim(raw, "\x00")))
}

// aliasFromPunycode trims the NUL padding of the field and decodes the rest
// as a single punycode label.
func aliasFromPunycode(raw []byte) fn.Option[string] {
	label := string(bytes.Trim(raw, "\x00"))

	// A label can't contain dots, and an empty label decodes to nothing
	// useful.
	if label == "" || strings.Contains(label, ".") {
		return fn.None[string]()
	}

	alias, err := idna.Punycode.ToUnicode(punycodePrefix + label)
	if err != nil {
		log.Tracef("Alias %x is not punycode: %v", raw, err)
		return fn.None[string]()
	}

	if !utf8.ValidString(alias) {
		return fn.None[string]()
	}

	return fn.Some(alias)
}

// aliasFromHex is the terminal step of the pipeline and always succeeds.
func aliasFromHex(raw []byte) string {
	return hex.EncodeToString(raw)
}
