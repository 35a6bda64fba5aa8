package command

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/basileia/proxy/internal/repository"
)

// Handler executes decoded commands against the repository contracts
// (§4.H's shared state holds exactly these three handles).
type Handler struct {
	UserBans  repository.UserBansRepository
	IpBans    repository.IpBansRepository
	Whitelist repository.WhitelistRepository
}

// HandleMessage decodes a raw command request payload (the plugin
// message's data field, channel already verified by the caller),
// dispatches it, and returns the encoded response payload. It never
// returns an error: decode and dispatch failures are folded into an
// ERROR ResponseMessage, matching the Rust handler's unconditional
// byte-slice return.
func (h *Handler) HandleMessage(raw []byte) []byte {
	var req RequestMessage
	if err := json.Unmarshal(raw, &req); err != nil {
		return mustEncode(ResponseMessage{
			ID:     uuid.Nil,
			Result: Result{Success: false, Data: ErrorMessage{Error: fmt.Sprintf("command decode failed: %v", err)}},
		})
	}

	data, err := h.dispatch(req.Command)
	var result Result
	if err != nil {
		result = Result{Success: false, Data: ErrorMessage{Error: err.Error()}}
	} else {
		result = Result{Success: true, Data: successEnvelope{Type: req.Command.Type, Data: data}}
	}

	return mustEncode(ResponseMessage{ID: req.ID, Result: result})
}

// mustEncode marshals a ResponseMessage that is always JSON-safe by
// construction (only the fixed command/response types ever appear in
// it); a failure here would be a programming error, not a runtime
// condition, so it degrades to an empty-but-valid JSON error object
// rather than panicking mid-relay.
func mustEncode(m ResponseMessage) []byte {
	out, err := json.Marshal(m)
	if err != nil {
		return []byte(fmt.Sprintf(`{"id":"%s","result":{"type":"ERROR","data":{"error":"internal encode failure"}}}`, m.ID))
	}
	return out
}

// dispatch runs one decoded command and returns its success payload
// (nil for commands with no body), grounded 1:1 on the reference
// handler's match over CommandRequest (§4.G).
func (h *Handler) dispatch(req Request) (any, error) {
	switch req.Type {
	case TypeBanPlayer:
		payload := req.Data.(*BanPlayerRequest)
		duration := millisPtr(payload.Duration)
		if _, err := h.UserBans.AddBan(payload.Username, duration, payload.Reason); err != nil {
			return nil, err
		}
		return nil, nil

	case TypeUnbanPlayer:
		payload := req.Data.(*UsernameMessage)
		removed, err := h.UserBans.RemoveBan(payload.Username)
		if err != nil {
			return nil, err
		}
		return ChangedMessage{Changed: removed != nil}, nil

	case TypeIsPlayerBanned:
		payload := req.Data.(*UsernameMessage)
		ban, err := h.UserBans.IsBanned(payload.Username)
		if err != nil {
			return nil, err
		}
		return IsBannedMessage{Banned: ban != nil}, nil

	case TypeGetPlayerBans:
		bans, err := h.UserBans.GetBans()
		if err != nil {
			return nil, err
		}
		names := make([]string, len(bans))
		for i, b := range bans {
			names[i] = b.Username
		}
		return GetPlayerBansResponse{Bans: names}, nil

	case TypeBanIp:
		payload := req.Data.(*BanIpRequest)
		ip := net.ParseIP(payload.IP)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address %q", payload.IP)
		}
		duration := millisPtr(payload.Duration)
		if _, err := h.IpBans.AddBan(ip, duration, payload.Reason); err != nil {
			return nil, err
		}
		return nil, nil

	case TypeUnbanIp:
		payload := req.Data.(*IpMessage)
		ip := net.ParseIP(payload.IP)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address %q", payload.IP)
		}
		removed, err := h.IpBans.RemoveBan(ip)
		if err != nil {
			return nil, err
		}
		return ChangedMessage{Changed: removed != nil}, nil

	case TypeIsIpBanned:
		payload := req.Data.(*IpMessage)
		ip := net.ParseIP(payload.IP)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address %q", payload.IP)
		}
		ban, err := h.IpBans.IsBanned(ip)
		if err != nil {
			return nil, err
		}
		return IsBannedMessage{Banned: ban != nil}, nil

	case TypeGetIpBans:
		bans, err := h.IpBans.GetBans()
		if err != nil {
			return nil, err
		}
		ips := make([]string, len(bans))
		for i, b := range bans {
			ips[i] = b.IP.String()
		}
		return GetIpBansResponse{Bans: ips}, nil

	case TypeSetWhitelistEnabled:
		payload := req.Data.(*SetWhitelistEnabledRequest)
		previous, err := h.Whitelist.IsEnabled()
		if err != nil {
			return nil, err
		}
		if err := h.Whitelist.SetEnabled(payload.Enabled); err != nil {
			return nil, err
		}
		// changed ≡ previous == requested — the reference
		// implementation's observed (and preserved) polarity; see
		// DESIGN.md.
		return ChangedMessage{Changed: previous == payload.Enabled}, nil

	case TypeIsWhitelistEnabled:
		enabled, err := h.Whitelist.IsEnabled()
		if err != nil {
			return nil, err
		}
		return IsWhitelistEnabledResponse{Enabled: enabled}, nil

	case TypeIsWhitelisted:
		payload := req.Data.(*UsernameMessage)
		whitelisted, err := h.Whitelist.IsWhitelisted(payload.Username)
		if err != nil {
			return nil, err
		}
		return IsWhitelistedResponse{Whitelisted: whitelisted}, nil

	case TypeWhitelistAddPlayer:
		payload := req.Data.(*UsernameMessage)
		result, err := h.Whitelist.Add(payload.Username)
		if err != nil {
			return nil, err
		}
		return ChangedMessage{Changed: result.Changed()}, nil

	case TypeWhitelistRemovePlayer:
		payload := req.Data.(*UsernameMessage)
		result, err := h.Whitelist.Remove(payload.Username)
		if err != nil {
			return nil, err
		}
		return ChangedMessage{Changed: result.Changed()}, nil

	case TypeWhitelistGetAll:
		all, err := h.Whitelist.GetAll()
		if err != nil {
			return nil, err
		}
		return WhitelistGetAllResponse{Whitelist: all}, nil

	default:
		return nil, fmt.Errorf("unknown command type %q", req.Type)
	}
}

func millisPtr(ms *int64) *time.Duration {
	if ms == nil {
		return nil
	}
	d := time.Duration(*ms) * time.Millisecond
	return &d
}
