package lnwire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNilAddress is returned when a nil address is passed to the
	// encoder.
	ErrNilAddress = errors.New("cannot write nil address")

	// ErrAddressSectionTooLong is returned when the encoded addresses do
	// not fit behind a 2 byte length prefix.
	ErrAddressSectionTooLong = errors.New("address section too long")
)

// WriteBytes appends the given bytes to the provided buffer.
func WriteBytes(buf *bytes.Buffer, b []byte) error {
	_, err := buf.Write(b)
	return err
}

// WriteUint8 appends the uint8 to the provided buffer.
func WriteUint8(buf *bytes.Buffer, n uint8) error {
	_, err := buf.Write([]byte{n})
	return err
}

// WriteUint16 appends the uint16 to the provided buffer. It encodes the
// integer using big endian byte order.
func WriteUint16(buf *bytes.Buffer, n uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], n)
	_, err := buf.Write(b[:])
	return err
}

// WriteUint64 appends the uint64 to the provided buffer. It encodes the
// integer using big endian byte order.
func WriteUint64(buf *bytes.Buffer, n uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	_, err := buf.Write(b[:])
	return err
}

// WriteMessageType appends the 2 byte type prefix to the provided buffer.
func WriteMessageType(buf *bytes.Buffer, t MessageType) error {
	return WriteUint16(buf, uint16(t))
}

// WriteShortChannelID appends the ShortChannelID to the provided buffer. It
// encodes the BlockHeight and TxIndex each using 3 bytes with big endian byte
// order, and encodes txPosition using 2 bytes with big endian byte order.
func WriteShortChannelID(buf *bytes.Buffer, shortChanID ShortChannelID) error {
	if err := shortChanID.Validate(); err != nil {
		return err
	}

	return WriteUint64(buf, shortChanID.ToUint64())
}

// WriteAddress appends the BOLT #7 descriptor of addr to the provided buffer.
// Nothing is written if an error is returned.
func WriteAddress(buf *bytes.Buffer, addr Address) error {
	var payload []byte

	switch a := addr.(type) {
	case *IPv4Address:
		if a == nil {
			return ErrNilAddress
		}
		payload = make([]byte, 0, 1+ipv4AddrLen)
		payload = append(payload, byte(AddrIPv4))
		payload = append(payload, a.IP[:]...)
		payload = binary.BigEndian.AppendUint16(payload, a.Port)

	case *IPv6Address:
		if a == nil {
			return ErrNilAddress
		}
		payload = make([]byte, 0, 1+ipv6AddrLen)
		payload = append(payload, byte(AddrIPv6))
		payload = append(payload, a.IP[:]...)
		payload = binary.BigEndian.AppendUint16(payload, a.Port)

	case *OnionV2Address:
		if a == nil {
			return ErrNilAddress
		}
		payload = make([]byte, 0, 1+v2OnionAddrLen)
		payload = append(payload, byte(AddrTorV2))
		payload = append(payload, a.Key[:]...)
		payload = binary.BigEndian.AppendUint16(payload, a.Port)

	case *OnionV3Address:
		if a == nil {
			return ErrNilAddress
		}
		payload = make([]byte, 0, 1+v3OnionAddrLen)
		payload = append(payload, byte(AddrTorV3))
		payload = append(payload, a.Key[:]...)
		payload = binary.BigEndian.AppendUint16(payload, a.Port)

	case *DNSAddress:
		if a == nil {
			return ErrNilAddress
		}
		if err := ValidateDNSAddr(a.Hostname, a.Port); err != nil {
			return err
		}

		payload = make([]byte, 0, dnsAddrOverhead+1+len(a.Hostname))
		payload = append(payload, byte(AddrDNS), uint8(len(a.Hostname)))
		payload = append(payload, a.Hostname...)
		payload = binary.BigEndian.AppendUint16(payload, a.Port)

	case nil:
		return ErrNilAddress

	default:
		return fmt.Errorf("%w: %T", ErrUnknownAddressType, addr)
	}

	return WriteBytes(buf, payload)
}

// WriteAddresses appends a slice of addresses to the provided buffer with a 2
// byte length prefix, the layout used by node_announcement.
func WriteAddresses(buf *bytes.Buffer, addresses []Address) error {
	// First, we'll encode all the addresses into an intermediate buffer
	// so we know the total length of the section.
	var addrBuf bytes.Buffer
	for _, address := range addresses {
		if err := WriteAddress(&addrBuf, address); err != nil {
			return err
		}
	}

	if addrBuf.Len() > math.MaxUint16 {
		return fmt.Errorf("%w: %d bytes", ErrAddressSectionTooLong,
			addrBuf.Len())
	}

	if err := WriteUint16(buf, uint16(addrBuf.Len())); err != nil {
		return err
	}

	return WriteBytes(buf, addrBuf.Bytes())
}
