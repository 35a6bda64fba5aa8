package packets

import "github.com/basileia/proxy/internal/wire"

// LoginStart opens the Login state with the client's chosen username
// and (for 1.19.3+) its offline/online UUID.
type LoginStart struct {
	Name wire.BoundedString `mc:"maxlen:16"`
	UUID wire.HyphenatedUUID
}

func (LoginStart) ID() wire.VarInt { return 0x00 }

// EncryptionResponse answers an EncryptionRequest. This proxy never
// emits EncryptionRequest (Mojang session authentication is a
// Non-goal), so decoding this packet is provided for completeness of
// the dispatch table but is never reached in the connection pipeline.
type EncryptionResponse struct {
	SharedSecret wire.PrefixedByteArray
	VerifyToken  wire.PrefixedByteArray
}

func (EncryptionResponse) ID() wire.VarInt { return 0x01 }

// LoginPluginResponse answers a LoginPluginRequest sent by the
// backend; MessageID must match the request for the reply to be
// meaningful to the backend.
type LoginPluginResponse struct {
	MessageID  wire.VarInt
	Successful wire.Boolean
	Data       wire.Rest
}

func (LoginPluginResponse) ID() wire.VarInt { return 0x02 }

// LoginAcknowledged carries no fields; its arrival transitions the
// connection from Login to Configuration.
type LoginAcknowledged struct{}

func (LoginAcknowledged) ID() wire.VarInt { return 0x03 }

// ServerboundLoginTable dispatches the four Login-state serverbound
// packets.
var ServerboundLoginTable = map[int32]constructor{
	0x00: func() Packet { return &LoginStart{} },
	0x01: func() Packet { return &EncryptionResponse{} },
	0x02: func() Packet { return &LoginPluginResponse{} },
	0x03: func() Packet { return &LoginAcknowledged{} },
}

// DecodeServerboundLogin decodes a Login-state serverbound frame.
func DecodeServerboundLogin(frame *wire.Frame) (Packet, error) {
	return decodeFrom(ServerboundLoginTable, frame)
}

// LoginDisconnect carries a JSON chat component as a raw string,
// terminating the connection during Login.
type LoginDisconnect struct {
	Reason wire.String
}

func (LoginDisconnect) ID() wire.VarInt { return 0x00 }

// EncryptionRequest is never emitted by this proxy (see
// EncryptionResponse) but is kept in the dispatch table for a
// complete, symmetric catalog.
type EncryptionRequest struct {
	ServerID    wire.BoundedString `mc:"maxlen:20"`
	PublicKey   wire.PrefixedByteArray
	VerifyToken wire.PrefixedByteArray
}

func (EncryptionRequest) ID() wire.VarInt { return 0x01 }

// LoginSuccess admits the client into Configuration once the proxy
// has made its Login-phase decisions (version check, ban check,
// duplicate-login check).
type LoginSuccess struct {
	UUID     wire.UUID
	Username wire.BoundedString `mc:"maxlen:16"`
}

func (LoginSuccess) ID() wire.VarInt { return 0x02 }

// SetCompression switches both directions of the framing codec to
// compressed mode as soon as the proxy observes it, per §9's
// simultaneous-direction design note.
type SetCompression struct {
	Threshold wire.VarInt
}

func (SetCompression) ID() wire.VarInt { return 0x03 }

// LoginPluginRequest is relayed verbatim from the backend to the
// client; the proxy does not interpret Channel or Data.
type LoginPluginRequest struct {
	MessageID wire.VarInt
	Channel   wire.Identifier
	Data      wire.Rest
}

func (LoginPluginRequest) ID() wire.VarInt { return 0x04 }

// ClientboundLoginTable dispatches the five Login-state clientbound
// packets.
var ClientboundLoginTable = map[int32]constructor{
	0x00: func() Packet { return &LoginDisconnect{} },
	0x01: func() Packet { return &EncryptionRequest{} },
	0x02: func() Packet { return &LoginSuccess{} },
	0x03: func() Packet { return &SetCompression{} },
	0x04: func() Packet { return &LoginPluginRequest{} },
}

// DecodeClientboundLogin decodes a Login-state clientbound frame.
func DecodeClientboundLogin(frame *wire.Frame) (Packet, error) {
	return decodeFrom(ClientboundLoginTable, frame)
}
