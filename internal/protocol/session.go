package protocol

import (
	"sync"

	"github.com/basileia/proxy/internal/protocol/packets"
	"github.com/basileia/proxy/internal/wire"
)

// Session is the stateful session codec (§4.E): two framing codecs,
// one per direction, plus the single protocol state both directions
// share. State and compression changes are applied to both codecs
// under one lock so a decode on either direction always observes a
// consistent view.
type Session struct {
	mu    sync.Mutex
	state State

	// serverbound decodes frames the client sends (bytes arriving at
	// the proxy's client-facing socket).
	serverbound *wire.FramingCodec
	// clientbound decodes frames the backend sends.
	clientbound *wire.FramingCodec
}

// NewSession builds a session codec starting in the given state, with
// compression and encryption both disabled on either direction until
// explicitly enabled.
func NewSession(initial State) *Session {
	return &Session{
		state:       initial,
		serverbound: wire.NewFramingCodec(),
		clientbound: wire.NewFramingCodec(),
	}
}

// State returns the current protocol state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState transitions both directions simultaneously.
func (s *Session) SetState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// EnableCompression switches both direction codecs to compressed
// mode, per §9's "any state or compression change applies to both
// directions simultaneously" note.
func (s *Session) EnableCompression(threshold int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverbound.SetCompressionThreshold(threshold)
	s.clientbound.SetCompressionThreshold(threshold)
}

// EnableEncryption switches both direction codecs to encrypted mode
// using the same shared secret, per the same simultaneity rule.
func (s *Session) EnableEncryption(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.serverbound.EnableEncryption(key); err != nil {
		return err
	}
	return s.clientbound.EnableEncryption(key)
}

// EncodeServerbound encodes pkt using the serverbound direction's
// current framing settings (compression/encryption track whatever has
// been negotiated on the connection). The command relayer uses this
// to re-inject a response toward the backend on the client->server
// write half (§4.F), so it must match the frames real client traffic
// is encoded with. The codec operation itself runs under s.mu so it
// can never interleave with a concurrent EnableCompression/
// EnableEncryption write on the same codec (§5).
func (s *Session) EncodeServerbound(pkt packets.Packet) ([]byte, error) {
	frame, err := packets.Encode(pkt)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverbound.Encode(frame)
}

// AcceptServerbound feeds newly-read bytes from the client socket
// into the serverbound framing codec, under s.mu so it can never
// interleave with a concurrent threshold/state write (§5).
func (s *Session) AcceptServerbound(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverbound.Accept(data)
}

// AcceptClientbound feeds newly-read bytes from the backend socket
// into the clientbound framing codec, under s.mu (see AcceptServerbound).
func (s *Session) AcceptClientbound(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientbound.Accept(data)
}

// NextServerbound pulls the next complete client-sent frame, decoding
// its body against the catalog for the current state. Returns
// (nil, nil, nil) when no full frame is buffered yet. The codec read
// and the state read it decodes against are both taken under s.mu, the
// same lock EnableCompression/EnableEncryption/SetState use, so a
// concurrent settings change on the other direction's goroutine can
// never be observed mid-decode (§5).
func (s *Session) NextServerbound() (*wire.Frame, packets.Packet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame, err := s.serverbound.NextPacket()
	if err != nil || frame == nil {
		return frame, nil, err
	}
	decode := catalog(s.state, Serverbound)
	pkt, err := decode(frame)
	return frame, pkt, err
}

// NextServerboundRaw is NextServerbound's sibling for the connection
// pipeline's client->server relayer, which must forward the exact
// on-wire bytes of every frame regardless of decode outcome (§4.F).
// raw is nil whenever frame is nil (no complete frame buffered yet).
// Runs under s.mu for the same reason as NextServerbound.
func (s *Session) NextServerboundRaw() (raw []byte, pkt packets.Packet, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, frame, err := s.serverbound.NextRawFrame()
	if frame == nil {
		return raw, nil, err
	}
	decode := catalog(s.state, Serverbound)
	pkt, decodeErr := decode(frame)
	if err == nil {
		err = decodeErr
	}
	return raw, pkt, err
}

// NextClientboundRaw is NextClientbound's sibling, used by the
// server->client relayer so it can forward raw bytes for every frame
// except the one the command tap diverts (§4.F). Runs under s.mu for
// the same reason as NextServerbound.
func (s *Session) NextClientboundRaw() (raw []byte, pkt packets.Packet, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, frame, err := s.clientbound.NextRawFrame()
	if frame == nil {
		return raw, nil, err
	}
	if s.state == StateHandshake {
		return raw, nil, wire.ErrDataSentDuringHandshake
	}
	decode := catalog(s.state, Clientbound)
	pkt, decodeErr := decode(frame)
	if err == nil {
		err = decodeErr
	}
	return raw, pkt, err
}

// NextClientbound pulls the next complete backend-sent frame. While
// the session is still in StateHandshake no legitimate clientbound
// traffic exists (the client alone speaks during Handshake), so this
// surfaces wire.ErrDataSentDuringHandshake instead of dispatching to
// a catalog. Runs under s.mu for the same reason as NextServerbound.
func (s *Session) NextClientbound() (*wire.Frame, packets.Packet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame, err := s.clientbound.NextPacket()
	if err != nil || frame == nil {
		return frame, nil, err
	}
	if s.state == StateHandshake {
		return frame, nil, wire.ErrDataSentDuringHandshake
	}
	decode := catalog(s.state, Clientbound)
	pkt, err := decode(frame)
	return frame, pkt, err
}
