package lnwire

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/lightningnetwork/lnd/tor"
)

// DefaultPeerPort is the port Lightning nodes listen on by default.
const DefaultPeerPort = "9735"

// ErrInvalidOnionHost is returned when an onion service name cannot be
// decoded into a v2 or v3 key.
var ErrInvalidOnionHost = errors.New("invalid onion service name")

// ParseAddress converts the text form of a node address, "host:port" or a
// bare host, into an Address. Bare hosts get defaultPort. Bracketed and bare
// IPv6 literals, onion service names and DNS hostnames are recognised. No
// name resolution takes place.
func ParseAddress(strAddress string, defaultPort string) (Address, error) {
	rawHost, rawPort, err := net.SplitHostPort(
		withPort(strAddress, defaultPort),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", strAddress, err)
	}

	port, err := strconv.ParseUint(rawPort, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", rawPort, err)
	}

	switch {
	case tor.IsOnionHost(rawHost):
		return parseOnion(rawHost, uint16(port))

	case rawHost == "":
		return nil, fmt.Errorf("address %q has no host", strAddress)
	}

	if ip, err := netip.ParseAddr(rawHost); err == nil {
		// Zones have no wire representation.
		if ip.Zone() != "" {
			return nil, fmt.Errorf("address %q carries an IPv6 "+
				"zone", strAddress)
		}

		if ip.Is4() {
			return &IPv4Address{IP: ip.As4(), Port: uint16(port)}, nil
		}

		return &IPv6Address{IP: ip.As16(), Port: uint16(port)}, nil
	}

	if err := ValidateDNSAddr(rawHost, uint16(port)); err != nil {
		return nil, err
	}

	return &DNSAddress{Hostname: rawHost, Port: uint16(port)}, nil
}

// withPort appends defaultPort to address if it does not carry one already.
func withPort(address string, defaultPort string) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}

	// A bracketed IPv6 literal without a port. JoinHostPort would add a
	// second pair of brackets.
	if strings.HasPrefix(address, "[") && strings.HasSuffix(address, "]") {
		return address + ":" + defaultPort
	}

	return net.JoinHostPort(address, defaultPort)
}

// parseOnion decodes an onion service name into its v2 or v3 key depending on
// the length of the name.
func parseOnion(host string, port uint16) (Address, error) {
	service := strings.ToLower(strings.TrimSuffix(host, tor.OnionSuffix))

	key, err := onionEncoding.DecodeString(service)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOnionHost, err)
	}

	switch len(key) {
	case tor.V2DecodedLen:
		addr := &OnionV2Address{Port: port}
		copy(addr.Key[:], key)

		return addr, nil

	case tor.V3DecodedLen:
		addr := &OnionV3Address{Port: port}
		copy(addr.Key[:], key)

		return addr, nil

	default:
		return nil, fmt.Errorf("%w: decoded length %d", ErrInvalidOnionHost,
			len(key))
	}
}
