package lnwire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseAddress checks the text forms ParseAddress accepts and rejects.
func TestParseAddress(t *testing.T) {
	t.Parallel()

	v3Host := onionEncoding.EncodeToString(testV3Key[:]) + ".onion"

	testCases := []struct {
		name     string
		addr     string
		expected Address
		err      error
	}{
		{
			name: "ipv4 default port",
			addr: "127.0.0.1",
			expected: &IPv4Address{
				IP: [4]byte{127, 0, 0, 1}, Port: 9735,
			},
		},
		{
			name: "ipv4 with port",
			addr: "1.2.3.4:80",
			expected: &IPv4Address{
				IP: [4]byte{1, 2, 3, 4}, Port: 80,
			},
		},
		{
			name: "bracketed ipv6 default port",
			addr: "[::1]",
			expected: &IPv6Address{
				IP: [16]byte{15: 0x01}, Port: 9735,
			},
		},
		{
			name: "bare ipv6",
			addr: "::1",
			expected: &IPv6Address{
				IP: [16]byte{15: 0x01}, Port: 9735,
			},
		},
		{
			name: "ipv6 with port",
			addr: "[2001:db8::1]:10011",
			expected: &IPv6Address{
				IP:   [16]byte{0x20, 0x01, 0x0d, 0xb8, 15: 0x01},
				Port: 10011,
			},
		},
		{
			name: "ipv4 mapped ipv6",
			addr: "[::ffff:1.2.3.4]:1",
			expected: &IPv6Address{
				IP: [16]byte{
					10: 0xff, 11: 0xff, 12: 1, 13: 2, 14: 3,
					15: 4,
				},
				Port: 1,
			},
		},
		{
			name:     "onion v2",
			addr:     strings.Repeat("a", 16) + ".onion:9735",
			expected: &OnionV2Address{Port: 9735},
		},
		{
			name: "onion v3",
			addr: v3Host,
			expected: &OnionV3Address{
				Key: testV3Key, Port: 9735,
			},
		},
		{
			name: "dns",
			addr: "node.example.com:9736",
			expected: &DNSAddress{
				Hostname: "node.example.com", Port: 9736,
			},
		},
		{
			name: "dns zero port",
			addr: "example.com:0",
			err:  ErrZeroPort,
		},
		{
			name: "dns bad character",
			addr: "bad_host:1",
			err:  ErrInvalidHostnameCharacter,
		},
		{
			name: "port out of range",
			addr: "1.2.3.4:99999",
		},
		{
			name: "zone",
			addr: "fe80::1%eth0",
		},
		{
			name: "no host",
			addr: ":9735",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			addr, err := ParseAddress(tc.addr, DefaultPeerPort)
			if tc.expected == nil {
				require.Error(t, err)
				if tc.err != nil {
					require.ErrorIs(t, err, tc.err)
				}

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expected, addr)
		})
	}
}

// TestParseAddressString asserts that the String form of every address kind
// parses back to the same address.
func TestParseAddressString(t *testing.T) {
	t.Parallel()

	for _, test := range testAddrs {
		addr, err := ParseAddress(test.addr.String(), DefaultPeerPort)
		require.NoError(t, err, test.name)
		require.Equal(t, test.addr, addr, test.name)
	}
}
