package protocol

import (
	"github.com/basileia/proxy/internal/protocol/packets"
	"github.com/basileia/proxy/internal/wire"
)

// decodeFunc decodes one frame's body for a fixed (state, direction).
type decodeFunc func(frame *wire.Frame) (packets.Packet, error)

// catalog selects the right dispatch table for a (state, direction)
// pair, mirroring the five tables in the packet catalog component.
func catalog(state State, bound Bound) decodeFunc {
	switch state {
	case StateHandshake:
		return packets.DecodeHandshake
	case StateStatus:
		if bound == Serverbound {
			return packets.DecodeServerboundStatus
		}
		return packets.DecodeClientboundStatus
	case StateLogin:
		if bound == Serverbound {
			return packets.DecodeServerboundLogin
		}
		return packets.DecodeClientboundLogin
	case StateConfiguration:
		if bound == Serverbound {
			return packets.DecodeServerboundConfiguration
		}
		return packets.DecodeClientboundConfiguration
	case StatePlay:
		if bound == Serverbound {
			return packets.DecodeServerboundPlay
		}
		return packets.DecodeClientboundPlay
	default:
		return nil
	}
}
