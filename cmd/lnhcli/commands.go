package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ln-history/lnhistory/build"
	"github.com/ln-history/lnhistory/lnwire"
	"github.com/urfave/cli"
)

// printJSON writes resp to w as indented JSON followed by a newline.
func printJSON(w io.Writer, resp interface{}) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("unable to marshal response: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "    "); err != nil {
		return err
	}
	out.WriteString("\n")

	_, err = out.WriteTo(w)
	return err
}

// hexArg decodes the hex string given either as the named flag or as the
// first positional argument. An optional 0x prefix is accepted.
func hexArg(ctx *cli.Context, name string) ([]byte, error) {
	var arg string
	switch {
	case ctx.IsSet(name):
		arg = ctx.String(name)
	case ctx.Args().Present():
		arg = ctx.Args().First()
	default:
		return nil, fmt.Errorf("%s argument missing", name)
	}

	arg = strings.TrimPrefix(strings.TrimSpace(arg), "0x")
	b, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s hex: %w", name, err)
	}

	return b, nil
}

var msgTypeCommand = cli.Command{
	Name:     "msgtype",
	Category: "Messages",
	Usage:    "Detect the type of a raw gossip message.",
	Description: `
	Reads the 2 byte big-endian type prefix of the message. The type is
	reported if it is one of the configured gossip or extension types,
	otherwise the type is null.`,
	ArgsUsage: "msg",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "msg",
			Usage: "the hex encoded message",
		},
	},
	Action: detectMsgType,
}

type msgTypeResp struct {
	Type      *uint16 `json:"type"`
	Name      string  `json:"name,omitempty"`
	Extension bool    `json:"extension,omitempty"`
}

func detectMsgType(ctx *cli.Context) error {
	registry, err := getRegistry(ctx)
	if err != nil {
		return err
	}

	msg, err := hexArg(ctx, "msg")
	if err != nil {
		return err
	}

	msgType, err := registry.DetectMessageType(msg)
	if err != nil {
		return err
	}

	var resp msgTypeResp
	msgType.WhenSome(func(t lnwire.MessageType) {
		typ := uint16(t)
		resp = msgTypeResp{
			Type:      &typ,
			Name:      t.String(),
			Extension: registry.IsExtension(t),
		}
	})

	return printJSON(ctx.App.Writer, resp)
}

var stripCommand = cli.Command{
	Name:      "strip",
	Category:  "Messages",
	Usage:     "Remove a known type prefix from a raw message.",
	ArgsUsage: "msg",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "msg",
			Usage: "the hex encoded message",
		},
	},
	Action: stripTypePrefix,
}

type stripResp struct {
	Payload  string `json:"payload"`
	Stripped bool   `json:"stripped"`
}

func stripTypePrefix(ctx *cli.Context) error {
	registry, err := getRegistry(ctx)
	if err != nil {
		return err
	}

	msg, err := hexArg(ctx, "msg")
	if err != nil {
		return err
	}

	payload, err := registry.StripTypePrefix(msg)
	if err != nil {
		return err
	}

	return printJSON(ctx.App.Writer, stripResp{
		Payload:  hex.EncodeToString(payload),
		Stripped: len(payload) != len(msg),
	})
}

var decodeAddrCommand = cli.Command{
	Name:     "decodeaddr",
	Category: "Fields",
	Usage:    "Decode a run of BOLT #7 address descriptors.",
	Description: `
	Decodes address descriptors from the start of the input until the
	input is exhausted or a descriptor cannot be decoded. The offset of
	the first byte that was not decoded is reported along with the
	remaining bytes.

	With --section the input starts with the 2 byte length of the address
	list, as in node_announcement. Undecodable bytes inside the list are
	then reported as opaque.`,
	ArgsUsage: "addrs",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "addrs",
			Usage: "the hex encoded address descriptors",
		},
		cli.BoolFlag{
			Name:  "section",
			Usage: "the input starts with a 2 byte length prefix",
		},
	},
	Action: decodeAddrs,
}

type decodeAddrResp struct {
	Addresses []lnwire.AddressRecord `json:"addresses"`
	Offset    int                    `json:"offset"`
	Opaque    string                 `json:"opaque,omitempty"`
	Remaining string                 `json:"remaining"`
}

func decodeAddrs(ctx *cli.Context) error {
	raw, err := hexArg(ctx, "addrs")
	if err != nil {
		return err
	}

	var (
		c     = lnwire.NewCursor(raw)
		resp  = decodeAddrResp{Addresses: []lnwire.AddressRecord{}}
		addrs []lnwire.Address
	)
	if ctx.Bool("section") {
		var opaque []byte
		addrs, opaque, err = lnwire.ReadAddressSection(c)
		if err != nil {
			return err
		}
		resp.Opaque = hex.EncodeToString(opaque)
	} else {
		for c.Remaining() > 0 {
			addr := lnwire.DecodeAddress(c)
			if addr.IsNone() {
				break
			}
			addrs = append(addrs, addr.UnsafeFromSome())
		}
	}

	for _, addr := range addrs {
		resp.Addresses = append(
			resp.Addresses, lnwire.NewAddressRecord(addr),
		)
	}
	resp.Offset = c.Position()
	resp.Remaining = hex.EncodeToString(raw[c.Position():])

	return printJSON(ctx.App.Writer, resp)
}

var decodeAliasCommand = cli.Command{
	Name:      "decodealias",
	Category:  "Fields",
	Usage:     "Decode the 32 byte alias of a node_announcement.",
	ArgsUsage: "alias",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name: "alias",
			Usage: "the hex encoded alias, shorter input is zero " +
				"padded",
		},
	},
	Action: decodeAlias,
}

func decodeAlias(ctx *cli.Context) error {
	raw, err := hexArg(ctx, "alias")
	if err != nil {
		return err
	}

	if len(raw) > lnwire.NodeAliasLen {
		return fmt.Errorf("alias must be at most %d bytes, got %d",
			lnwire.NodeAliasLen, len(raw))
	}

	var alias lnwire.NodeAlias
	copy(alias[:], raw)

	return printJSON(ctx.App.Writer, map[string]string{
		"alias": alias.String(),
	})
}

var decodeScidCommand = cli.Command{
	Name:     "decodescid",
	Category: "Fields",
	Usage:    "Split a short channel id into its fields.",
	Description: `
	Accepts either the 64 bit integer form or the canonical BxTxO form and
	prints both along with the block height, transaction index and output
	index.`,
	ArgsUsage: "scid",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "scid",
			Usage: "the short channel id as an integer or BxTxO",
		},
	},
	Action: decodeScid,
}

type scidResp struct {
	BlockHeight uint32 `json:"block"`
	TxIndex     uint32 `json:"tx"`
	TxPosition  uint16 `json:"output"`
	Scid        string `json:"scid"`
	ChanID      string `json:"chan_id"`
}

func decodeScid(ctx *cli.Context) error {
	var arg string
	switch {
	case ctx.IsSet("scid"):
		arg = ctx.String("scid")
	case ctx.Args().Present():
		arg = ctx.Args().First()
	default:
		return fmt.Errorf("scid argument missing")
	}

	var chanID lnwire.ShortChannelID
	if strings.Contains(arg, "x") {
		var err error
		chanID, err = lnwire.ParseShortChannelID(arg)
		if err != nil {
			return err
		}
	} else {
		scid, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid scid %q: %w", arg, err)
		}
		chanID = lnwire.NewShortChanIDFromInt(scid)
	}

	// The integer is printed as a string since it does not fit a JSON
	// number without loss.
	return printJSON(ctx.App.Writer, scidResp{
		BlockHeight: chanID.BlockHeight,
		TxIndex:     chanID.TxIndex,
		TxPosition:  chanID.TxPosition,
		Scid:        chanID.String(),
		ChanID:      strconv.FormatUint(chanID.ToUint64(), 10),
	})
}

var encodeAddrCommand = cli.Command{
	Name:     "encodeaddr",
	Category: "Fields",
	Usage:    "Encode addresses as BOLT #7 address descriptors.",
	Description: `
	Each address is given as host[:port]. IPv4 and IPv6 literals, v2 and
	v3 onion services and DNS hostnames are accepted. Addresses without a
	port get the configured default port.`,
	ArgsUsage: "host[:port] [host[:port]...]",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name: "section",
			Usage: "prefix the descriptors with their 2 byte " +
				"total length, as in node_announcement",
		},
	},
	Action: encodeAddrs,
}

type encodeAddrResp struct {
	Addresses []lnwire.AddressRecord `json:"addresses"`
	Encoded   string                 `json:"encoded"`
}

func encodeAddrs(ctx *cli.Context) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	if !ctx.Args().Present() {
		return fmt.Errorf("address argument missing")
	}

	addrs := make([]lnwire.Address, 0, ctx.NArg())
	resp := encodeAddrResp{Addresses: []lnwire.AddressRecord{}}
	for _, arg := range ctx.Args() {
		addr, err := lnwire.ParseAddress(arg, cfg.DefaultPort)
		if err != nil {
			return err
		}

		addrs = append(addrs, addr)
		resp.Addresses = append(
			resp.Addresses, lnwire.NewAddressRecord(addr),
		)
	}

	var buf bytes.Buffer
	if ctx.Bool("section") {
		err = lnwire.WriteAddresses(&buf, addrs)
	} else {
		for _, addr := range addrs {
			if err = lnwire.WriteAddress(&buf, addr); err != nil {
				break
			}
		}
	}
	if err != nil {
		return err
	}
	resp.Encoded = hex.EncodeToString(buf.Bytes())

	return printJSON(ctx.App.Writer, resp)
}

var versionCommand = cli.Command{
	Name:   "version",
	Usage:  "Display lnhcli version info.",
	Action: version,
}

func version(ctx *cli.Context) error {
	return printJSON(ctx.App.Writer, map[string]string{
		"version":    build.Version(),
		"commit":     build.Commit,
		"deployment": build.Deployment.String(),
	})
}
