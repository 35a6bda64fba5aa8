package packets

import "github.com/basileia/proxy/internal/wire"

// StatusRequest carries no fields; its arrival is the signal to reply
// with StatusResponse.
type StatusRequest struct{}

func (StatusRequest) ID() wire.VarInt { return 0x00 }

// PingRequest echoes Time back unchanged in PingResponse. Time is
// decoded as wire.Long (8 big-endian bytes read as a signed integer);
// the same 8 bytes are written back, and millisecond timestamps (e.g.
// time.Now().UnixMilli()) never approach the sign bit.
type PingRequest struct {
	Time wire.Long
}

func (PingRequest) ID() wire.VarInt { return 0x01 }

// ServerboundStatusTable dispatches the two Status-state serverbound
// packets.
var ServerboundStatusTable = map[int32]constructor{
	0x00: func() Packet { return &StatusRequest{} },
	0x01: func() Packet { return &PingRequest{} },
}

// DecodeServerboundStatus decodes a Status-state serverbound frame.
func DecodeServerboundStatus(frame *wire.Frame) (Packet, error) {
	return decodeFrom(ServerboundStatusTable, frame)
}

// StatusResponse carries the JSON-encoded ServerStatus document as a
// raw string field; the caller marshals the ServerStatus value with
// encoding/json before constructing this packet.
type StatusResponse struct {
	ServerStatus wire.String
}

func (StatusResponse) ID() wire.VarInt { return 0x00 }

// PingResponse replies with the same Time value received in
// PingRequest.
type PingResponse struct {
	Time wire.Long
}

func (PingResponse) ID() wire.VarInt { return 0x01 }

// ClientboundStatusTable dispatches the two Status-state clientbound
// packets.
var ClientboundStatusTable = map[int32]constructor{
	0x00: func() Packet { return &StatusResponse{} },
	0x01: func() Packet { return &PingResponse{} },
}

// DecodeClientboundStatus decodes a Status-state clientbound frame.
func DecodeClientboundStatus(frame *wire.Frame) (Packet, error) {
	return decodeFrom(ClientboundStatusTable, frame)
}
