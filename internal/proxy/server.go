// Package proxy implements the connection pipeline (§4.F): the
// per-connection accept loop, the Status/Login handshake handling
// that precedes a backend connection, and the three-task proxy loop
// that relays an established Play session while tapping the embedded
// command channel (§4.G).
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/basileia/proxy/internal/command"
	"github.com/basileia/proxy/internal/logging"
	"github.com/basileia/proxy/internal/protocol"
	"github.com/basileia/proxy/internal/protocol/packets"
	"github.com/basileia/proxy/internal/state"
	"github.com/basileia/proxy/internal/wire"
)

// Server owns the listening socket and the shared state every
// connection consults.
type Server struct {
	ListenAddr  string
	BackendAddr string

	Shared  *state.Shared
	Handler *command.Handler
}

// Run accepts connections until ctx is cancelled or the listener
// fails. It always closes the listener on return.
func (s *Server) Run(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.ListenAddr)
	if err != nil {
		return fmt.Errorf("proxy: listen %s: %w", s.ListenAddr, err)
	}
	logging.Info("listening on %s, forwarding to %s\n", s.ListenAddr, s.BackendAddr)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("proxy: accept: %w", err)
			}
		}
		go s.handleConnection(ctx, conn)
	}
}

// handleConnection runs the pre-proxy handshake (§4.F steps 1-4) and,
// on success, the proxy loop (§4.F.proxy). Every exit path closes
// conn.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()
	remote := conn.RemoteAddr().String()
	defer func() {
		if r := recover(); r != nil {
			logging.Error("[%s] connection handler panicked: %v\n", remote, r)
		}
	}()

	host, _, err := net.SplitHostPort(remote)
	if err == nil {
		if ip := net.ParseIP(host); ip != nil {
			if ban, err := s.Shared.IpBans.IsBanned(ip); err == nil && ban != nil {
				logging.Connection(remote, "rejected: IP banned\n")
				return
			}
		}
	}

	reader := newFrameReader(conn)
	handshakeFrame, err := reader.readOne()
	if err != nil {
		logging.Connection(remote, "closed before handshake: %v\n", err)
		return
	}
	handshake := &packets.Handshake{}
	if _, err := wire.UnmarshalStruct(handshakeFrame.frame.Data, handshake); err != nil {
		logging.Connection(remote, "bad handshake: %v\n", err)
		return
	}

	switch protocol.State(handshake.NextState) {
	case protocol.StateStatus:
		s.handleStatus(remote, conn, reader)
	case protocol.StateLogin:
		s.handleLogin(ctx, remote, conn, reader, handshakeFrame.raw, handshake)
	default:
		logging.Connection(remote, "handshake requested unsupported next_state %d\n", handshake.NextState)
	}
}

// handleStatus drives the Status-state loop: StatusRequest gets a
// StatusResponse, PingRequest gets an echoed PingResponse and ends the
// connection (§4.F.3.Status).
func (s *Server) handleStatus(remote string, conn net.Conn, reader *frameReader) {
	codec := wire.NewFramingCodec()
	for {
		raw, err := reader.readOne()
		if err != nil {
			return
		}
		pkt, err := packets.DecodeServerboundStatus(raw.frame)
		if err != nil {
			return
		}
		switch p := pkt.(type) {
		case *packets.StatusRequest:
			body, err := s.statusResponseBody()
			if err != nil {
				logging.Error("status: building response: %v\n", err)
				return
			}
			resp := &packets.StatusResponse{ServerStatus: wire.String(body)}
			if err := writePacket(conn, codec, resp); err != nil {
				logging.Connection(remote, "status write failed: %v\n", err)
				return
			}
		case *packets.PingRequest:
			resp := &packets.PingResponse{Time: p.Time}
			_ = writePacket(conn, codec, resp)
			return
		}
	}
}

type serverVersion struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type playerSample struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type playersField struct {
	Max    int            `json:"max"`
	Online int            `json:"online"`
	Sample []playerSample `json:"sample"`
}

type statusDocument struct {
	Version     serverVersion   `json:"version"`
	Players     playersField    `json:"players"`
	Description json.RawMessage `json:"description"`
}

// productName and productVersion build the ServerVersion.name string
// the Status end-to-end scenario names verbatim (§8.1).
const (
	productName    = "Basileia Proxy"
	productVersion = "1.0.0"
)

func (s *Server) statusResponseBody() (string, error) {
	online := s.Shared.Online()
	sample := make([]playerSample, len(online))
	for i, p := range online {
		sample[i] = playerSample{ID: p.UUID.String(), Name: p.Username}
	}
	description := s.Shared.Description
	if description == "" {
		description = `""`
	}
	doc := statusDocument{
		Version:     serverVersion{Name: fmt.Sprintf("%s %s", productName, productVersion), Protocol: protocol.ProtocolVersion},
		Players:     playersField{Max: 0, Online: len(online), Sample: sample},
		Description: json.RawMessage(description),
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// handleLogin drives the Login-state checks (version, duplicate
// login, ban) and, on success, dials the backend and enters the proxy
// loop (§4.F.3.Login, §4.F.4-5).
func (s *Server) handleLogin(ctx context.Context, remote string, conn net.Conn, reader *frameReader, handshakeRaw []byte, handshake *packets.Handshake) {
	codec := wire.NewFramingCodec()

	if int32(handshake.ProtocolVersion) != protocol.ProtocolVersion {
		disconnectLogin(conn, codec, `{"text":"Your minecraft version is not accepted"}`)
		logging.Connection(remote, "rejected: protocol version %d\n", handshake.ProtocolVersion)
		return
	}

	loginFrame, err := reader.readOne()
	if err != nil {
		logging.Connection(remote, "closed before LoginStart: %v\n", err)
		return
	}
	loginStart := &packets.LoginStart{}
	if _, err := wire.UnmarshalStruct(loginFrame.frame.Data, loginStart); err != nil {
		logging.Connection(remote, "bad LoginStart: %v\n", err)
		return
	}
	username := loginStart.Name.Value

	if s.Shared.IsOnline(username) {
		disconnectLogin(conn, codec, `{"text":"There is already a logged in player with this username"}`)
		logging.Connection(remote, "rejected duplicate login: %s\n", username)
		return
	}

	ban, err := s.Shared.UserBans.IsBanned(username)
	if err != nil {
		logging.Error("login: ban lookup for %s: %v\n", username, err)
		return
	}
	if ban != nil {
		reason := "Banned!"
		if ban.Reason != nil && *ban.Reason != "" {
			reason = fmt.Sprintf("Banned! Reason: %s", *ban.Reason)
		}
		disconnectLogin(conn, codec, jsonChatText(reason))
		logging.Connection(remote, "rejected banned player: %s\n", username)
		return
	}

	backend, err := dialBackend(s.BackendAddr)
	if err != nil {
		logging.Error("login: dialing backend for %s: %v\n", username, err)
		return
	}
	defer func() { _ = backend.Close() }()

	if _, err := backend.Write(handshakeRaw); err != nil {
		logging.Error("login: forwarding handshake: %v\n", err)
		return
	}
	if _, err := backend.Write(loginFrame.raw); err != nil {
		logging.Error("login: forwarding LoginStart: %v\n", err)
		return
	}

	p := &pipeline{
		remote:  remote,
		client:  conn,
		backend: backend,
		shared:  s.Shared,
		handler: s.Handler,
	}
	p.run(ctx, reader.leftover())
}

// jsonChatText builds a minimal chat-component JSON document for a
// plain-text disconnect reason.
func jsonChatText(text string) string {
	out, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return `{"text":"disconnected"}`
	}
	return string(out)
}

func disconnectLogin(conn net.Conn, codec *wire.FramingCodec, reasonJSON string) {
	pkt := &packets.LoginDisconnect{Reason: wire.String(reasonJSON)}
	_ = writePacket(conn, codec, pkt)
}

// dialBackend resolves addr and connects to the first returned
// address (§6's "first resolved address is used" — deliberately not
// net.Dial's own happy-eyeballs address selection).
func dialBackend(addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("proxy: backend address %q: %w", addr, err)
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, fmt.Errorf("proxy: resolving %q: %w", host, err)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("proxy: no addresses for %q", host)
	}
	d := net.Dialer{Timeout: 10 * time.Second}
	return d.Dial("tcp", net.JoinHostPort(ips[0].String(), port))
}

func writePacket(w net.Conn, codec *wire.FramingCodec, p packets.Packet) error {
	frame, err := packets.Encode(p)
	if err != nil {
		return err
	}
	raw, err := codec.Encode(frame)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

