package packets

import "github.com/basileia/proxy/internal/wire"

// Handshake is the single serverbound packet of the Handshake state.
// NextState selects whether the connection proceeds to Status (1) or
// Login (2); any other value is a decode-time error for the caller.
type Handshake struct {
	ProtocolVersion wire.VarInt
	ServerAddr      wire.BoundedString `mc:"maxlen:255"`
	ServerPort      wire.UnsignedShort
	NextState       wire.VarInt
}

func (Handshake) ID() wire.VarInt { return 0x00 }

// HandshakeTable is the single-entry serverbound dispatch table for
// State.Handshake.
var HandshakeTable = map[int32]constructor{
	0x00: func() Packet { return &Handshake{} },
}

// DecodeHandshake decodes a Handshake-state serverbound frame.
func DecodeHandshake(frame *wire.Frame) (Packet, error) {
	return decodeFrom(HandshakeTable, frame)
}
