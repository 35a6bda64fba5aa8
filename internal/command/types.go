// Package command implements the embedded request/response RPC tap
// (§4.G): a strict-schema, tagged-union JSON protocol carried over
// the "basileia:proxy" plugin-message channel, plus the dispatcher
// that executes each command against the repository contracts.
package command

import (
	"github.com/google/uuid"
)

// Channel is the well-known plugin-message channel the command tap
// watches. A Play-state plugin message on it sent by the backend is
// handled as a command and not relayed to the client; client-sent
// traffic on it is forwarded to the backend unchanged.
const Channel = "basileia:proxy"

// RequestMessage is the envelope a cooperating server-side component
// sends: {"id": "<uuid>", "command": {"type": ..., "data": ...}}.
type RequestMessage struct {
	ID      uuid.UUID
	Command Request
}

// ResponseMessage is the envelope sent back:
// {"id": "<same uuid>", "result": {"type": "SUCCESS"|"ERROR", "data": ...}}.
type ResponseMessage struct {
	ID     uuid.UUID
	Result Result
}

// Request is the tagged union of every command this proxy executes.
// Type holds the SCREAMING_SNAKE_CASE discriminator; Data is the
// already-unmarshaled variant payload (nil for variants with no
// fields).
type Request struct {
	Type string
	Data any
}

// Result is either a Success payload or an Error message, tagged the
// same way as Request.
type Result struct {
	Success bool
	Data    any // on success: the response variant payload; on error: ErrorMessage
}

// Command type discriminators, matching the RPC table in §4.G.
const (
	TypeBanPlayer             = "BAN_PLAYER"
	TypeUnbanPlayer           = "UNBAN_PLAYER"
	TypeIsPlayerBanned        = "IS_PLAYER_BANNED"
	TypeGetPlayerBans         = "GET_PLAYER_BANS"
	TypeBanIp                 = "BAN_IP"
	TypeUnbanIp               = "UNBAN_IP"
	TypeIsIpBanned            = "IS_IP_BANNED"
	TypeGetIpBans             = "GET_IP_BANS"
	TypeSetWhitelistEnabled   = "SET_WHITELIST_ENABLED"
	TypeIsWhitelistEnabled    = "IS_WHITELIST_ENABLED"
	TypeIsWhitelisted         = "IS_WHITELISTED"
	TypeWhitelistAddPlayer    = "WHITELIST_ADD_PLAYER"
	TypeWhitelistRemovePlayer = "WHITELIST_REMOVE_PLAYER"
	TypeWhitelistGetAll       = "WHITELIST_GET_ALL"
)

// BanPlayerRequest is TypeBanPlayer's data payload. Duration is
// milliseconds, matching the wire contract.
type BanPlayerRequest struct {
	Username string  `json:"username"`
	Duration *int64  `json:"duration,omitempty"`
	Reason   *string `json:"reason,omitempty"`
}

// BanIpRequest is TypeBanIp's data payload.
type BanIpRequest struct {
	IP       string  `json:"ip"`
	Duration *int64  `json:"duration,omitempty"`
	Reason   *string `json:"reason,omitempty"`
}

// UsernameMessage is the data payload shared by every username-keyed
// command.
type UsernameMessage struct {
	Username string `json:"username"`
}

// IpMessage is the data payload shared by every IP-keyed command.
type IpMessage struct {
	IP string `json:"ip"`
}

// SetWhitelistEnabledRequest is TypeSetWhitelistEnabled's data
// payload.
type SetWhitelistEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// ChangedMessage is the success body shared by every mutation that
// reports whether it actually changed anything.
type ChangedMessage struct {
	Changed bool `json:"changed"`
}

// IsBannedMessage is the success body shared by IS_PLAYER_BANNED and
// IS_IP_BANNED.
type IsBannedMessage struct {
	Banned bool `json:"banned"`
}

// GetPlayerBansResponse is GET_PLAYER_BANS's success body.
type GetPlayerBansResponse struct {
	Bans []string `json:"bans"`
}

// GetIpBansResponse is GET_IP_BANS's success body.
type GetIpBansResponse struct {
	Bans []string `json:"bans"`
}

// IsWhitelistEnabledResponse is IS_WHITELIST_ENABLED's success body.
type IsWhitelistEnabledResponse struct {
	Enabled bool `json:"enabled"`
}

// IsWhitelistedResponse is IS_WHITELISTED's success body.
type IsWhitelistedResponse struct {
	Whitelisted bool `json:"whitelisted"`
}

// WhitelistGetAllResponse is WHITELIST_GET_ALL's success body.
type WhitelistGetAllResponse struct {
	Whitelist []string `json:"whitelist"`
}

// ErrorMessage is every ERROR result's data payload.
type ErrorMessage struct {
	Error string `json:"error"`
}
