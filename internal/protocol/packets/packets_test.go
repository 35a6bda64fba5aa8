package packets

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/basileia/proxy/internal/wire"
)

// roundTrip encodes p, decodes it back through table/decode, and
// returns the decoded packet for field-level assertions.
func roundTrip(t *testing.T, p Packet, decode func(*wire.Frame) (Packet, error)) Packet {
	t.Helper()
	frame, err := Encode(p)
	require.NoError(t, err)
	require.Equal(t, p.ID(), frame.PacketID)

	got, err := decode(frame)
	require.NoError(t, err)
	return got
}

func TestHandshakeRoundTrip(t *testing.T) {
	p := &Handshake{
		ProtocolVersion: 765,
		ServerAddr:      wire.BoundedString{MaxLength: 255, Value: "localhost"},
		ServerPort:      25565,
		NextState:       2,
	}
	got := roundTrip(t, p, DecodeHandshake).(*Handshake)
	require.Equal(t, p.ProtocolVersion, got.ProtocolVersion)
	require.Equal(t, "localhost", got.ServerAddr.Value)
	require.Equal(t, p.ServerPort, got.ServerPort)
	require.Equal(t, p.NextState, got.NextState)
}

func TestLoginStartRoundTrip(t *testing.T) {
	p := &LoginStart{
		Name: wire.BoundedString{MaxLength: 16, Value: "Alice"},
		UUID: wire.HyphenatedUUID{Value: uuid.New()},
	}
	got := roundTrip(t, p, DecodeServerboundLogin).(*LoginStart)
	require.Equal(t, "Alice", got.Name.Value)
	require.Equal(t, p.UUID.Value, got.UUID.Value)
}

func TestLoginSuccessRoundTrip(t *testing.T) {
	id := uuid.New()
	p := &LoginSuccess{
		UUID:     wire.UUID(id),
		Username: wire.BoundedString{MaxLength: 16, Value: "Alice"},
	}
	got := roundTrip(t, p, DecodeClientboundLogin).(*LoginSuccess)
	require.Equal(t, id, uuid.UUID(got.UUID))
	require.Equal(t, "Alice", got.Username.Value)
}

func TestStatusRequestAndPingRoundTrip(t *testing.T) {
	req := roundTrip(t, &StatusRequest{}, DecodeServerboundStatus)
	require.IsType(t, &StatusRequest{}, req)

	ping := &PingRequest{Time: 1577735845610}
	got := roundTrip(t, ping, DecodeServerboundStatus).(*PingRequest)
	require.Equal(t, ping.Time, got.Time)

	pong := &PingResponse{Time: ping.Time}
	gotPong := roundTrip(t, pong, DecodeClientboundStatus).(*PingResponse)
	require.Equal(t, ping.Time, gotPong.Time)
}

func TestPlayPluginMessageRoundTrip(t *testing.T) {
	p := NewServerboundPlayPluginMessage("basileia:proxy", []byte(`{"id":"x"}`))
	got := roundTrip(t, p, DecodeServerboundPlay).(*PlayPluginMessage)
	require.Equal(t, wire.Identifier("basileia:proxy"), got.Channel)
	require.Equal(t, []byte(`{"id":"x"}`), []byte(got.Data))
	require.Equal(t, wire.VarInt(PlayPluginMessageID), got.ID())

	c := NewClientboundPlayPluginMessage("basileia:proxy", []byte("payload"))
	gotC := roundTrip(t, c, DecodeClientboundPlay).(*PlayPluginMessage)
	require.Equal(t, wire.VarInt(ClientboundPlayPluginMessageID), gotC.ID())
}

func TestPlayUnknownTypeIDDecodesToOther(t *testing.T) {
	frame := &wire.Frame{PacketID: 0x55, Data: wire.ByteArray{0x01}}

	pkt, err := DecodeServerboundPlay(frame)
	require.NoError(t, err)
	other, ok := pkt.(Other)
	require.True(t, ok)
	require.Equal(t, wire.VarInt(0x55), other.TypeID)

	pkt, err = DecodeClientboundPlay(frame)
	require.NoError(t, err)
	_, ok = pkt.(Other)
	require.True(t, ok)
}

func TestUnknownPacketTypeErrorsOutsidePlayState(t *testing.T) {
	frame := &wire.Frame{PacketID: 0x7E, Data: wire.ByteArray{}}
	_, err := DecodeServerboundLogin(frame)
	require.Error(t, err)
	var unknown *wire.UnknownPacketTypeError
	require.ErrorAs(t, err, &unknown)
}

func TestConfigurationKeepAliveAndPingRoundTrip(t *testing.T) {
	ka := &KeepAlive{ID: 42}
	got := roundTrip(t, ka, DecodeServerboundConfiguration).(*KeepAlive)
	require.Equal(t, ka.ID, got.ID)

	cka := &ClientboundKeepAlive{ID: 99}
	gotC := roundTrip(t, cka, DecodeClientboundConfiguration).(*ClientboundKeepAlive)
	require.Equal(t, cka.ID, gotC.ID)

	ping := &Ping{ID: 7}
	gotPing := roundTrip(t, ping, DecodeClientboundConfiguration).(*Ping)
	require.Equal(t, ping.ID, gotPing.ID)
}
