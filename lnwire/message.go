package lnwire

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// MessageTypeLen is the length of the big-endian type prefix carried by every
// gossip message.
const MessageTypeLen = 2

// MessageType is the unique 2 byte big-endian integer that indicates the type
// of message on the wire.
type MessageType uint16

// The message types defined by BOLT #1, #2 and #7.
const (
	MsgWarning                 MessageType = 1
	MsgInit                    MessageType = 16
	MsgError                   MessageType = 17
	MsgPing                    MessageType = 18
	MsgPong                    MessageType = 19
	MsgOpenChannel             MessageType = 32
	MsgAcceptChannel           MessageType = 33
	MsgFundingCreated          MessageType = 34
	MsgFundingSigned           MessageType = 35
	MsgChannelReady            MessageType = 36
	MsgShutdown                MessageType = 38
	MsgClosingSigned           MessageType = 39
	MsgUpdateAddHTLC           MessageType = 128
	MsgUpdateFulfillHTLC       MessageType = 130
	MsgUpdateFailHTLC          MessageType = 131
	MsgCommitSig               MessageType = 132
	MsgRevokeAndAck            MessageType = 133
	MsgUpdateFee               MessageType = 134
	MsgUpdateFailMalformedHTLC MessageType = 135
	MsgChannelReestablish      MessageType = 136
	MsgChannelAnnouncement     MessageType = 256
	MsgNodeAnnouncement        MessageType = 257
	MsgChannelUpdate           MessageType = 258
	MsgAnnounceSignatures      MessageType = 259
	MsgQueryShortChanIDs       MessageType = 261
	MsgReplyShortChanIDsEnd    MessageType = 262
	MsgQueryChannelRange       MessageType = 263
	MsgReplyChannelRange       MessageType = 264
	MsgGossipTimestampRange    MessageType = 265
)

// The record types Core Lightning writes into its gossip_store alongside the
// BOLT #7 messages.
const (
	MsgStoreChannelAmount  MessageType = 4101
	MsgStorePrivateUpdate  MessageType = 4102
	MsgStoreDeleteChan     MessageType = 4103
	MsgStorePrivateChannel MessageType = 4104
	MsgStoreEnded          MessageType = 4105
	MsgStoreChanDying      MessageType = 4106
)

// String return the string representation of message type.
func (t MessageType) String() string {
	switch t {
	case MsgWarning:
		return "Warning"
	case MsgInit:
		return "Init"
	case MsgError:
		return "Error"
	case MsgPing:
		return "Ping"
	case MsgPong:
		return "Pong"
	case MsgOpenChannel:
		return "MsgOpenChannel"
	case MsgAcceptChannel:
		return "MsgAcceptChannel"
	case MsgFundingCreated:
		return "MsgFundingCreated"
	case MsgFundingSigned:
		return "MsgFundingSigned"
	case MsgChannelReady:
		return "ChannelReady"
	case MsgShutdown:
		return "Shutdown"
	case MsgClosingSigned:
		return "ClosingSigned"
	case MsgUpdateAddHTLC:
		return "UpdateAddHTLC"
	case MsgUpdateFulfillHTLC:
		return "UpdateFulfillHTLC"
	case MsgUpdateFailHTLC:
		return "UpdateFailHTLC"
	case MsgCommitSig:
		return "CommitSig"
	case MsgRevokeAndAck:
		return "RevokeAndAck"
	case MsgUpdateFee:
		return "UpdateFee"
	case MsgUpdateFailMalformedHTLC:
		return "UpdateFailMalformedHTLC"
	case MsgChannelReestablish:
		return "ChannelReestablish"
	case MsgChannelAnnouncement:
		return "ChannelAnnouncement"
	case MsgNodeAnnouncement:
		return "NodeAnnouncement"
	case MsgChannelUpdate:
		return "ChannelUpdate"
	case MsgAnnounceSignatures:
		return "AnnounceSignatures"
	case MsgQueryShortChanIDs:
		return "QueryShortChanIDs"
	case MsgReplyShortChanIDsEnd:
		return "ReplyShortChanIDsEnd"
	case MsgQueryChannelRange:
		return "QueryChannelRange"
	case MsgReplyChannelRange:
		return "ReplyChannelRange"
	case MsgGossipTimestampRange:
		return "GossipTimestampRange"
	case MsgStoreChannelAmount:
		return "GossipStoreChannelAmount"
	case MsgStorePrivateUpdate:
		return "GossipStorePrivateUpdate"
	case MsgStoreDeleteChan:
		return "GossipStoreDeleteChan"
	case MsgStorePrivateChannel:
		return "GossipStorePrivateChannel"
	case MsgStoreEnded:
		return "GossipStoreEnded"
	case MsgStoreChanDying:
		return "GossipStoreChanDying"
	default:
		return "<unknown>"
	}
}

// DefaultGossipTypes returns the BOLT #7 announcement and update types that
// make up a gossip snapshot.
func DefaultGossipTypes() []MessageType {
	return []MessageType{
		MsgChannelAnnouncement,
		MsgNodeAnnouncement,
		MsgChannelUpdate,
	}
}

// DefaultCoreLightningTypes returns the gossip_store record types emitted by
// Core Lightning.
func DefaultCoreLightningTypes() []MessageType {
	return []MessageType{
		MsgStoreChannelAmount,
		MsgStorePrivateUpdate,
		MsgStoreDeleteChan,
		MsgStorePrivateChannel,
		MsgStoreEnded,
		MsgStoreChanDying,
	}
}

// TypeRegistry holds the message types a decoder recognises. It is built once
// from configuration and is read-only afterwards, so it may be shared between
// goroutines.
type TypeRegistry struct {
	gossip    map[MessageType]struct{}
	extension map[MessageType]struct{}
}

// NewTypeRegistry creates a registry from the base gossip type set and a
// vendor extension type set. Either set may be empty.
func NewTypeRegistry(gossip, extension []MessageType) *TypeRegistry {
	r := &TypeRegistry{
		gossip:    make(map[MessageType]struct{}, len(gossip)),
		extension: make(map[MessageType]struct{}, len(extension)),
	}
	for _, t := range gossip {
		r.gossip[t] = struct{}{}
	}
	for _, t := range extension {
		r.extension[t] = struct{}{}
	}

	return r
}

// DefaultTypeRegistry returns a registry over DefaultGossipTypes and
// DefaultCoreLightningTypes.
func DefaultTypeRegistry() *TypeRegistry {
	return NewTypeRegistry(
		DefaultGossipTypes(), DefaultCoreLightningTypes(),
	)
}

// IsKnown returns true if t is a member of either type set.
func (r *TypeRegistry) IsKnown(t MessageType) bool {
	if _, ok := r.gossip[t]; ok {
		return true
	}
	_, ok := r.extension[t]

	return ok
}

// IsExtension returns true if t is a member of the extension type set.
func (r *TypeRegistry) IsExtension(t MessageType) bool {
	_, ok := r.extension[t]
	return ok
}

// Types returns the union of both type sets in ascending order.
func (r *TypeRegistry) Types() []MessageType {
	types := make([]MessageType, 0, len(r.gossip)+len(r.extension))
	for t := range r.gossip {
		types = append(types, t)
	}
	for t := range r.extension {
		if _, ok := r.gossip[t]; ok {
			continue
		}
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool {
		return types[i] < types[j]
	})

	return types
}

// readTypePrefix extracts the big-endian type prefix of msg.
func readTypePrefix(msg []byte) (MessageType, error) {
	if len(msg) < MessageTypeLen {
		return 0, fmt.Errorf("%w: expected at least %d bytes to "+
			"extract message type, got %d", ErrInsufficientData,
			MessageTypeLen, len(msg))
	}

	return MessageType(binary.BigEndian.Uint16(msg[:MessageTypeLen])), nil
}

// DetectMessageType reads the 2 byte type prefix of msg. The type is returned
// if the registry knows it, otherwise None is returned. ErrInsufficientData
// is returned if msg is shorter than the prefix.
func (r *TypeRegistry) DetectMessageType(
	msg []byte) (fn.Option[MessageType], error) {

	msgType, err := readTypePrefix(msg)
	if err != nil {
		return fn.None[MessageType](), err
	}

	if !r.IsKnown(msgType) {
		return fn.None[MessageType](), nil
	}

	return fn.Some(msgType), nil
}

// StripTypePrefix removes the type prefix from msg if it is a known type,
// otherwise msg is returned unchanged. Stripping an already stripped payload
// is therefore a no-op unless its first two bytes happen to match a known
// type. The returned slice aliases msg.
func (r *TypeRegistry) StripTypePrefix(msg []byte) ([]byte, error) {
	msgType, err := readTypePrefix(msg)
	if err != nil {
		return nil, fmt.Errorf("unable to strip message type: %w", err)
	}

	if !r.IsKnown(msgType) {
		return msg, nil
	}

	return msg[MessageTypeLen:], nil
}
