package proxy

import (
	"encoding/json"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/basileia/proxy/internal/command"
	"github.com/basileia/proxy/internal/protocol"
	"github.com/basileia/proxy/internal/protocol/packets"
	"github.com/basileia/proxy/internal/repository"
	"github.com/basileia/proxy/internal/state"
	"github.com/basileia/proxy/internal/wire"
)

// TestCommandChannelDivertedNotForwarded exercises the §4.F/§8.6
// scenario directly against relayServerToClient and relayCommands: a
// backend-sent command-channel PlayPluginMessage must never reach the
// client, and its response must be written back to the backend as a
// serverbound plugin message on the same channel.
func TestCommandChannelDivertedNotForwarded(t *testing.T) {
	clientConn, clientPeer := net.Pipe()
	backendConn, backendPeer := net.Pipe()
	t.Cleanup(func() {
		_ = clientConn.Close()
		_ = clientPeer.Close()
		_ = backendConn.Close()
		_ = backendPeer.Close()
	})

	kv := repository.NewMemoryKeyValueRepository()
	shared := state.New("", repository.NewMemoryUserBansRepository(), repository.NewMemoryIpBansRepository(), repository.NewMemoryWhitelistRepository(kv))
	handler := &command.Handler{UserBans: shared.UserBans, IpBans: shared.IpBans, Whitelist: shared.Whitelist}

	p := &pipeline{remote: "test", client: clientConn, backend: backendConn, shared: shared, handler: handler}

	session := protocol.NewSession(protocol.StatePlay)
	cmdReq := make(chan []byte, 4)
	stop := make(chan struct{})
	var username atomic.Value

	go func() { _ = p.relayServerToClient(session, cmdReq, stop, &username) }()
	go func() { _ = p.relayCommands(session, cmdReq, stop) }()

	reqID := uuid.New()
	reqJSON := []byte(`{"id":"` + reqID.String() + `","command":{"type":"IS_PLAYER_BANNED","data":{"username":"Alice"}}}`)
	plugin := packets.NewClientboundPlayPluginMessage(wire.Identifier(command.Channel), reqJSON)
	frame, err := packets.Encode(plugin)
	require.NoError(t, err)
	encoderCodec := wire.NewFramingCodec()
	raw, err := encoderCodec.Encode(frame)
	require.NoError(t, err)

	_, writeErr := backendPeer.Write(raw)
	require.NoError(t, writeErr)

	// Nothing should ever arrive on the client side for this frame.
	_ = clientPeer.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	buf := make([]byte, 16)
	_, readErr := clientPeer.Read(buf)
	require.Error(t, readErr, "the diverted command frame must not be forwarded to the client")

	// The response must come back on the backend side as a
	// serverbound PlayPluginMessage on the same channel.
	_ = backendPeer.SetReadDeadline(time.Now().Add(2 * time.Second))
	respCodec := wire.NewFramingCodec()
	respFrame := readFrame(t, backendPeer, respCodec)

	decoded, err := packets.DecodeServerboundPlay(respFrame)
	require.NoError(t, err)
	respPkt, ok := decoded.(*packets.PlayPluginMessage)
	require.True(t, ok)
	require.Equal(t, wire.Identifier(command.Channel), respPkt.Channel)

	var resp command.ResponseMessage
	require.NoError(t, json.Unmarshal(respPkt.Data, &resp))
	require.Equal(t, reqID, resp.ID)
	require.True(t, resp.Result.Success)
}

// readFrame blocks on conn until codec has buffered one full frame,
// reading in small chunks.
func readFrame(t *testing.T, conn net.Conn, codec *wire.FramingCodec) *wire.Frame {
	t.Helper()
	buf := make([]byte, 4096)
	for {
		frame, err := codec.NextPacket()
		require.NoError(t, err)
		if frame != nil {
			return frame
		}
		n, err := conn.Read(buf)
		require.NoError(t, err)
		codec.Accept(buf[:n])
	}
}
