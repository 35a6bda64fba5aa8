package proxy

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/basileia/proxy/internal/command"
	"github.com/basileia/proxy/internal/logging"
	"github.com/basileia/proxy/internal/protocol"
	"github.com/basileia/proxy/internal/protocol/packets"
	"github.com/basileia/proxy/internal/state"
	"github.com/basileia/proxy/internal/wire"
)

// pipeline runs the three cooperative tasks of a proxied connection
// from Login onward (§4.F.proxy): client->server relayer, server->client
// relayer, and the command relayer that bridges the diverted command
// channel to the backend write half.
type pipeline struct {
	remote  string
	client  net.Conn
	backend net.Conn
	shared  *state.Shared
	handler *command.Handler

	// backendWriteMu serializes the client->server relayer's raw
	// forwarding against the command relayer's re-injected responses,
	// both of which write to backend (§5: "serialized with ordinary
	// client->server frames on the same write half").
	backendWriteMu sync.Mutex
}

// run drives the proxy loop to completion and tears down connection
// state on exit, no matter which of the three tasks ends first.
// clientLeftover is any bytes the pre-login frame reader already
// pulled off the client socket past the Handshake/LoginStart frames.
func (p *pipeline) run(ctx context.Context, clientLeftover []byte) {
	session := protocol.NewSession(protocol.StateLogin)
	if len(clientLeftover) > 0 {
		session.AcceptServerbound(clientLeftover)
	}

	stop := make(chan struct{})
	var stopOnce sync.Once
	closeStop := func() { stopOnce.Do(func() { close(stop) }) }

	cmdReq := make(chan []byte, 16)
	var username atomic.Value

	results := make(chan error, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		results <- p.relayClientToServer(session)
	}()
	go func() {
		defer wg.Done()
		results <- p.relayServerToClient(session, cmdReq, stop, &username)
	}()
	go func() {
		defer wg.Done()
		results <- p.relayCommands(session, cmdReq, stop)
	}()

	go func() {
		<-ctx.Done()
		closeStop()
		_ = p.client.Close()
		_ = p.backend.Close()
	}()

	if err := <-results; err != nil && !isEOF(err) {
		logging.Connection(p.remote, "proxy loop ended: %v\n", err)
	}
	closeStop()
	_ = p.client.Close()
	_ = p.backend.Close()
	wg.Wait()

	if v := username.Load(); v != nil {
		if name, ok := v.(string); ok && name != "" {
			p.shared.RemovePlayer(name)
		}
	}
}

func isEOF(err error) bool {
	return err != nil && (err.Error() == "EOF" || err == net.ErrClosed)
}

// relayClientToServer forwards every frame from the client to the
// backend verbatim, regardless of decode outcome, updating session
// state on the two transitions it is responsible for observing
// (§4.F).
func (p *pipeline) relayClientToServer(session *protocol.Session) error {
	buf := make([]byte, 4096)
	for {
		raw, pkt, err := session.NextServerboundRaw()
		if raw == nil {
			if err != nil {
				return err
			}
			n, rerr := p.client.Read(buf)
			if n > 0 {
				session.AcceptServerbound(buf[:n])
			}
			if rerr != nil {
				return rerr
			}
			continue
		}

		if err != nil {
			logging.Connection(p.remote, "client->server decode error, forwarding anyway: %v\n", err)
		} else {
			switch pkt.(type) {
			case *packets.LoginAcknowledged:
				session.SetState(protocol.StateConfiguration)
			case *packets.AcknowledgeFinishConfiguration:
				session.SetState(protocol.StatePlay)
			}
		}

		p.backendWriteMu.Lock()
		_, werr := p.backend.Write(raw)
		p.backendWriteMu.Unlock()
		if werr != nil {
			return werr
		}
	}
}

// relayServerToClient forwards every frame from the backend to the
// client verbatim, except a Play-state PlayPluginMessage on the
// command channel, which is diverted to cmdReq instead (§4.F).
func (p *pipeline) relayServerToClient(session *protocol.Session, cmdReq chan<- []byte, stop <-chan struct{}, username *atomic.Value) error {
	defer close(cmdReq)

	buf := make([]byte, 4096)
	for {
		raw, pkt, err := session.NextClientboundRaw()
		if raw == nil {
			if err != nil {
				return err
			}
			n, rerr := p.backend.Read(buf)
			if n > 0 {
				session.AcceptClientbound(buf[:n])
			}
			if rerr != nil {
				return rerr
			}
			continue
		}

		if err != nil {
			logging.Connection(p.remote, "server->client decode error, forwarding anyway: %v\n", err)
			if _, werr := p.client.Write(raw); werr != nil {
				return werr
			}
			continue
		}

		switch v := pkt.(type) {
		case *packets.LoginSuccess:
			name := v.Username.Value
			p.shared.AddPlayer(name, uuid.UUID(v.UUID))
			username.Store(name)
		case *packets.SetCompression:
			if int32(v.Threshold) < 0 {
				return fmt.Errorf("proxy: backend requested negative compression threshold %d", v.Threshold)
			}
			session.EnableCompression(int(v.Threshold))
		case *packets.FinishConfiguration:
			session.SetState(protocol.StatePlay)
		case *packets.PlayPluginMessage:
			if string(v.Channel) == command.Channel {
				select {
				case cmdReq <- []byte(v.Data):
				case <-stop:
					return nil
				}
				continue
			}
		}

		if _, werr := p.client.Write(raw); werr != nil {
			return werr
		}
	}
}

// relayCommands executes each diverted command request and re-injects
// its response toward the backend on the client->server write half
// (§4.F, §4.G).
func (p *pipeline) relayCommands(session *protocol.Session, cmdReq <-chan []byte, stop <-chan struct{}) error {
	for {
		var data []byte
		var ok bool
		select {
		case data, ok = <-cmdReq:
			if !ok {
				return nil
			}
		case <-stop:
			return nil
		}

		respBody := p.handler.HandleMessage(data)
		pkt := packets.NewServerboundPlayPluginMessage(wire.Identifier(command.Channel), respBody)
		raw, err := session.EncodeServerbound(pkt)
		if err != nil {
			logging.Error("command relay: encoding response: %v\n", err)
			continue
		}

		p.backendWriteMu.Lock()
		_, werr := p.backend.Write(raw)
		p.backendWriteMu.Unlock()
		if werr != nil {
			return werr
		}
	}
}
