// Package packets is the catalog component (§4.D): the concrete
// packet structs for every state the proxy decodes, laid out in the
// teacher's style (one struct per packet, an mc-tagged field list, a
// fixed type ID), plus the (state, direction, type_id) dispatch
// tables the session codec uses to decode/encode them.
package packets

import (
	"fmt"

	"github.com/basileia/proxy/internal/wire"
)

// Packet is implemented by every catalog entry. ID is the type id
// within its (state, direction) dispatch table, fixed per type.
type Packet interface {
	ID() wire.VarInt
}

// Encode serializes a typed packet into a wire frame.
func Encode(p Packet) (*wire.Frame, error) {
	data, err := wire.MarshalStruct(p)
	if err != nil {
		return nil, fmt.Errorf("packets: encoding %T: %w", p, err)
	}
	return &wire.Frame{PacketID: p.ID(), Data: data}, nil
}

// constructor builds a zero-value pointer to a catalog packet type.
type constructor func() Packet

// decodeFrom looks up frame.PacketID in table and unmarshals the
// frame's data into a fresh instance. Returns wire.ErrUnknownPacketType
// wrapped with the offending id when the table has no entry.
func decodeFrom(table map[int32]constructor, frame *wire.Frame) (Packet, error) {
	ctor, ok := table[int32(frame.PacketID)]
	if !ok {
		return nil, &wire.UnknownPacketTypeError{TypeID: int32(frame.PacketID)}
	}
	p := ctor()
	if _, err := wire.UnmarshalStruct(frame.Data, p); err != nil {
		return nil, fmt.Errorf("packets: decoding type 0x%02X: %w", frame.PacketID, err)
	}
	return p, nil
}
