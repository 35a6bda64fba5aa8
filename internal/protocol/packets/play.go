package packets

import "github.com/basileia/proxy/internal/wire"

// PlayPluginMessageID is the serverbound Play-state type ID of the
// plugin message, the one Play-state packet decoded explicitly
// (clientbound it is ClientboundPlayPluginMessageID); every other type
// ID is forwarded as Other without inspecting the body.
const PlayPluginMessageID = 0x10

// ClientboundPlayPluginMessageID is the clientbound Play-state type
// ID carrying plugin channel data, including the command channel.
const ClientboundPlayPluginMessageID = 0x18

// PlayPluginMessage decodes at ID 0x10 serverbound / 0x18 clientbound.
// The command tap watches this packet on channel "basileia:proxy";
// every other channel is relayed untouched.
type PlayPluginMessage struct {
	Channel wire.Identifier
	Data    wire.Rest

	id wire.VarInt
}

func (p PlayPluginMessage) ID() wire.VarInt { return p.id }

// NewServerboundPlayPluginMessage builds a PlayPluginMessage destined
// for the backend (type ID 0x10), e.g. a command response re-injected
// by the command relayer.
func NewServerboundPlayPluginMessage(channel wire.Identifier, data []byte) *PlayPluginMessage {
	return &PlayPluginMessage{Channel: channel, Data: wire.Rest(data), id: PlayPluginMessageID}
}

// NewClientboundPlayPluginMessage builds a PlayPluginMessage destined
// for the client (type ID 0x18).
func NewClientboundPlayPluginMessage(channel wire.Identifier, data []byte) *PlayPluginMessage {
	return &PlayPluginMessage{Channel: channel, Data: wire.Rest(data), id: ClientboundPlayPluginMessageID}
}

// Other is the catch-all for every Play-state type ID this proxy does
// not model. TypeID is preserved so the frame can still be described
// for logging, but the body is never decoded — only forwarded.
type Other struct {
	TypeID wire.VarInt
}

func (o Other) ID() wire.VarInt { return o.TypeID }

// ServerboundPlayTable dispatches Play-state serverbound packets.
var ServerboundPlayTable = map[int32]constructor{
	PlayPluginMessageID: func() Packet { return &PlayPluginMessage{id: PlayPluginMessageID} },
}

// ClientboundPlayTable dispatches Play-state clientbound packets.
var ClientboundPlayTable = map[int32]constructor{
	ClientboundPlayPluginMessageID: func() Packet { return &PlayPluginMessage{id: ClientboundPlayPluginMessageID} },
}

// DecodeServerboundPlay decodes a Play-state serverbound frame,
// falling back to Other{type_id} for any type ID not in
// ServerboundPlayTable rather than failing with UnknownPacketType —
// Play is the one state where an unrecognised ID is expected, not an
// error (§8).
func DecodeServerboundPlay(frame *wire.Frame) (Packet, error) {
	if _, ok := ServerboundPlayTable[int32(frame.PacketID)]; !ok {
		return Other{TypeID: frame.PacketID}, nil
	}
	return decodeFrom(ServerboundPlayTable, frame)
}

// DecodeClientboundPlay is the clientbound symmetric of
// DecodeServerboundPlay.
func DecodeClientboundPlay(frame *wire.Frame) (Packet, error) {
	if _, ok := ClientboundPlayTable[int32(frame.PacketID)]; !ok {
		return Other{TypeID: frame.PacketID}, nil
	}
	return decodeFrom(ClientboundPlayTable, frame)
}
