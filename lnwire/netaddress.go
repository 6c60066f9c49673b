package lnwire

import (
	"encoding/base32"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/tor"
)

const (
	// ipv4AddrLen is the length of an IPv4 address payload
	// (4 bytes IP + 2 bytes port).
	ipv4AddrLen = 6

	// ipv6AddrLen is the length of an IPv6 address payload
	// (16 bytes IP + 2 bytes port).
	ipv6AddrLen = 18

	// v2OnionAddrLen is the length of a version 2 Tor onion service
	// address payload (10 bytes decoded onion + 2 bytes port).
	v2OnionAddrLen = tor.V2DecodedLen + 2

	// v3OnionAddrLen is the length of a version 3 Tor onion service address
	// payload (35 bytes decoded onion + 2 bytes port).
	v3OnionAddrLen = tor.V3DecodedLen + 2

	// dnsAddrOverhead is the fixed overhead for a DNS address: 1 byte for
	// the hostname length and 2 bytes for the port.
	dnsAddrOverhead = 3
)

var (
	// ErrUnknownAddressType is returned when an address descriptor carries
	// a type byte outside of the BOLT #7 address types.
	ErrUnknownAddressType = errors.New("unknown address type")

	// ErrNonASCIIHostname is returned when a DNS address carries a
	// hostname byte outside of the ASCII range.
	ErrNonASCIIHostname = errors.New("hostname is not ASCII")
)

// onionEncoding renders onion service keys as unpadded lowercase base32.
var onionEncoding = tor.Base32Encoding.WithPadding(base32.NoPadding)

// AddressKind is the descriptor byte that prefixes every address record and
// selects its payload layout.
type AddressKind uint8

const (
	// AddrIPv4 denotes an IPv4 TCP address.
	AddrIPv4 AddressKind = 1

	// AddrIPv6 denotes an IPv6 TCP address.
	AddrIPv6 AddressKind = 2

	// AddrTorV2 denotes a version 2 Tor onion service address.
	AddrTorV2 AddressKind = 3

	// AddrTorV3 denotes a version 3 Tor (prop224) onion service address.
	AddrTorV3 AddressKind = 4

	// AddrDNS denotes a DNS hostname.
	AddrDNS AddressKind = 5
)

// String returns the name of the address kind.
func (k AddressKind) String() string {
	switch k {
	case AddrIPv4:
		return "IPv4"
	case AddrIPv6:
		return "IPv6"
	case AddrTorV2:
		return "Torv2"
	case AddrTorV3:
		return "Torv3"
	case AddrDNS:
		return "DNS"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the kind as an {id, name} object.
func (k AddressKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   uint8  `json:"id"`
		Name string `json:"name"`
	}{
		ID:   uint8(k),
		Name: k.String(),
	})
}

// Address is a decoded BOLT #7 address record. It is implemented by
// *IPv4Address, *IPv6Address, *OnionV2Address, *OnionV3Address and
// *DNSAddress.
type Address interface {
	net.Addr

	// Kind returns the descriptor type of the address.
	Kind() AddressKind

	// Host returns the canonical text form of the address without the
	// port: dotted decimal for IPv4, a bracketed literal for IPv6, the
	// base32 service name for onion addresses and the hostname for DNS.
	Host() string

	// TCPPort returns the port the address is reachable on.
	TCPPort() uint16
}

// IPv4Address is an IPv4 TCP address.
type IPv4Address struct {
	IP   [4]byte
	Port uint16
}

// A compile-time check to ensure that IPv4Address implements Address.
var _ Address = (*IPv4Address)(nil)

// Kind returns AddrIPv4.
func (a *IPv4Address) Kind() AddressKind { return AddrIPv4 }

// Host returns the address in dotted decimal form.
func (a *IPv4Address) Host() string {
	return netip.AddrFrom4(a.IP).String()
}

// TCPPort returns the port of the address.
func (a *IPv4Address) TCPPort() uint16 { return a.Port }

// Network returns "tcp".
func (a *IPv4Address) Network() string { return "tcp" }

// String returns the address in the form "ip:port".
func (a *IPv4Address) String() string {
	return netip.AddrPortFrom(netip.AddrFrom4(a.IP), a.Port).String()
}

// IPv6Address is an IPv6 TCP address.
type IPv6Address struct {
	IP   [16]byte
	Port uint16
}

// A compile-time check to ensure that IPv6Address implements Address.
var _ Address = (*IPv6Address)(nil)

// Kind returns AddrIPv6.
func (a *IPv6Address) Kind() AddressKind { return AddrIPv6 }

// Host returns the canonical IPv6 form wrapped in brackets. IPv4-mapped
// addresses keep their ::ffff: prefix.
func (a *IPv6Address) Host() string {
	return "[" + netip.AddrFrom16(a.IP).String() + "]"
}

// TCPPort returns the port of the address.
func (a *IPv6Address) TCPPort() uint16 { return a.Port }

// Network returns "tcp".
func (a *IPv6Address) Network() string { return "tcp" }

// String returns the address in the form "[ip]:port".
func (a *IPv6Address) String() string {
	return netip.AddrPortFrom(netip.AddrFrom16(a.IP), a.Port).String()
}

// OnionV2Address is a version 2 Tor onion service address.
type OnionV2Address struct {
	Key  [tor.V2DecodedLen]byte
	Port uint16
}

// A compile-time check to ensure that OnionV2Address implements Address.
var _ Address = (*OnionV2Address)(nil)

// Kind returns AddrTorV2.
func (a *OnionV2Address) Kind() AddressKind { return AddrTorV2 }

// Host returns the onion service name, e.g. "<16 chars>.onion".
func (a *OnionV2Address) Host() string {
	return onionEncoding.EncodeToString(a.Key[:]) + tor.OnionSuffix
}

// TCPPort returns the port of the address.
func (a *OnionV2Address) TCPPort() uint16 { return a.Port }

// Network returns "tcp".
func (a *OnionV2Address) Network() string { return "tcp" }

// String returns the address in the form "service.onion:port".
func (a *OnionV2Address) String() string {
	return net.JoinHostPort(a.Host(), strconv.Itoa(int(a.Port)))
}

// OnionV3Address is a version 3 Tor onion service address.
type OnionV3Address struct {
	Key  [tor.V3DecodedLen]byte
	Port uint16
}

// A compile-time check to ensure that OnionV3Address implements Address.
var _ Address = (*OnionV3Address)(nil)

// Kind returns AddrTorV3.
func (a *OnionV3Address) Kind() AddressKind { return AddrTorV3 }

// Host returns the onion service name, e.g. "<56 chars>.onion".
func (a *OnionV3Address) Host() string {
	return onionEncoding.EncodeToString(a.Key[:]) + tor.OnionSuffix
}

// TCPPort returns the port of the address.
func (a *OnionV3Address) TCPPort() uint16 { return a.Port }

// Network returns "tcp".
func (a *OnionV3Address) Network() string { return "tcp" }

// String returns the address in the form "service.onion:port".
func (a *OnionV3Address) String() string {
	return net.JoinHostPort(a.Host(), strconv.Itoa(int(a.Port)))
}

// AddressRecord is the flat form of an Address used when emitting decoded
// gossip.
type AddressRecord struct {
	Kind AddressKind `json:"typ"`
	Text string      `json:"addr"`
	Port uint16      `json:"port"`
}

// NewAddressRecord flattens addr.
func NewAddressRecord(addr Address) AddressRecord {
	return AddressRecord{
		Kind: addr.Kind(),
		Text: addr.Host(),
		Port: addr.TCPPort(),
	}
}

// ReadAddress reads a single address descriptor (as defined in BOLT #7) from
// the cursor. Unlike DecodeAddress it reports why decoding failed, and it
// does not restore the cursor on failure.
func ReadAddress(c *Cursor) (Address, error) {
	descriptor, err := c.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("unable to read address type: %w", err)
	}

	switch kind := AddressKind(descriptor); kind {
	case AddrIPv4:
		payload, err := c.ReadExact(ipv4AddrLen)
		if err != nil {
			return nil, fmt.Errorf("%v address: %w", kind, err)
		}

		addr := &IPv4Address{}
		copy(addr.IP[:], payload[:4])
		addr.Port = binary.BigEndian.Uint16(payload[4:])

		return addr, nil

	case AddrIPv6:
		payload, err := c.ReadExact(ipv6AddrLen)
		if err != nil {
			return nil, fmt.Errorf("%v address: %w", kind, err)
		}

		addr := &IPv6Address{}
		copy(addr.IP[:], payload[:16])
		addr.Port = binary.BigEndian.Uint16(payload[16:])

		return addr, nil

	case AddrTorV2:
		payload, err := c.ReadExact(v2OnionAddrLen)
		if err != nil {
			return nil, fmt.Errorf("%v address: %w", kind, err)
		}

		addr := &OnionV2Address{}
		copy(addr.Key[:], payload[:tor.V2DecodedLen])
		addr.Port = binary.BigEndian.Uint16(payload[tor.V2DecodedLen:])

		return addr, nil

	case AddrTorV3:
		payload, err := c.ReadExact(v3OnionAddrLen)
		if err != nil {
			return nil, fmt.Errorf("%v address: %w", kind, err)
		}

		addr := &OnionV3Address{}
		copy(addr.Key[:], payload[:tor.V3DecodedLen])
		addr.Port = binary.BigEndian.Uint16(payload[tor.V3DecodedLen:])

		return addr, nil

	case AddrDNS:
		hostnameLen, err := c.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("%v hostname length: %w", kind,
				err)
		}

		hostname, err := c.ReadExact(int(hostnameLen))
		if err != nil {
			return nil, fmt.Errorf("%v hostname: %w", kind, err)
		}
		for i, b := range hostname {
			if b >= 0x80 {
				return nil, fmt.Errorf("%w: byte 0x%02x at "+
					"position %d", ErrNonASCIIHostname, b,
					i)
			}
		}

		port, err := c.ReadUint16()
		if err != nil {
			return nil, fmt.Errorf("%v port: %w", kind, err)
		}

		return &DNSAddress{
			Hostname: string(hostname),
			Port:     port,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAddressType,
			descriptor)
	}
}

// DecodeAddress reads a single address descriptor from the cursor. Decoding
// is transactional: if the descriptor is truncated, malformed or of an
// unknown type the cursor is restored to where it was on entry and None is
// returned. The failure reason is logged at debug level.
func DecodeAddress(c *Cursor) fn.Option[Address] {
	start := c.Position()

	addr, err := ReadAddress(c)
	if err != nil {
		log.Debugf("Unable to decode address at offset %d: %v", start,
			err)

		if err := c.Seek(start); err != nil {
			log.Errorf("Unable to restore cursor to offset %d: %v",
				start, err)
		}

		return fn.None[Address]()
	}

	return fn.Some(addr)
}

// DecodeAddresses decodes the next sectionLen bytes of the cursor as a run of
// address descriptors, such as the address list of a node_announcement.
// Decoding stops at the first descriptor that cannot be decoded; the bytes
// from there to the end of the section are returned as opaque. The whole
// section is always consumed. ErrInsufficientData is returned, and the
// cursor left untouched, if fewer than sectionLen bytes remain.
func DecodeAddresses(c *Cursor, sectionLen int) ([]Address, []byte,
	error) {

	section, err := c.ReadExact(sectionLen)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read address "+
			"section: %w", err)
	}

	var (
		sc        = NewCursor(section)
		addresses []Address
	)
	for sc.Remaining() > 0 {
		addr := DecodeAddress(sc)
		if addr.IsNone() {
			break
		}

		addresses = append(addresses, addr.UnsafeFromSome())
	}

	var opaque []byte
	if sc.Remaining() > 0 {
		opaque = section[sc.Position():]
	}

	return addresses, opaque, nil
}

// ReadAddressSection reads a 2 byte big-endian length followed by that many
// bytes of address descriptors. It is the inverse of WriteAddresses.
func ReadAddressSection(c *Cursor) ([]Address, []byte, error) {
	start := c.Position()

	sectionLen, err := c.ReadUint16()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read address section "+
			"length: %w", err)
	}

	addresses, opaque, err := DecodeAddresses(c, int(sectionLen))
	if err != nil {
		// Put the length prefix back so the caller sees an untouched
		// cursor.
		_ = c.Seek(start)

		return nil, nil, err
	}

	return addresses, opaque, nil
}
