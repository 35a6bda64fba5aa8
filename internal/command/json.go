package command

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// taggedUnion is the {"type": "...", "data": ...} pair nested in both
// RequestMessage and ResponseMessage: {"id": "...", <key>: <taggedUnion>}.
type taggedUnion struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// successEnvelope is the command-type tagged union nested inside a
// SUCCESS result's data field: {"type":"<COMMAND_TYPE>","data":<body>}
// (§8 scenario 6). Data is omitted for the bodiless response variants
// (BanPlayer, BanIp), matching the Rust CommandResponse enum's
// bodiless arms.
type successEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// strictDecoder rejects unknown fields, matching the Rust side's
// #[serde(deny_unknown_fields)].
func strictDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec
}

// UnmarshalJSON decodes a request envelope, strict-schema.
func (m *RequestMessage) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      uuid.UUID       `json:"id"`
		Command taggedUnion     `json:"command"`
	}
	if err := strictDecoder(data).Decode(&raw); err != nil {
		return fmt.Errorf("command: decoding request envelope: %w", err)
	}

	req, err := decodeRequestData(raw.Command.Type, raw.Command.Data)
	if err != nil {
		return err
	}

	m.ID = raw.ID
	m.Command = req
	return nil
}

// MarshalJSON encodes a request envelope.
func (m RequestMessage) MarshalJSON() ([]byte, error) {
	var data json.RawMessage
	if m.Command.Data != nil {
		encoded, err := json.Marshal(m.Command.Data)
		if err != nil {
			return nil, fmt.Errorf("command: encoding request data: %w", err)
		}
		data = encoded
	}
	raw := struct {
		ID      uuid.UUID   `json:"id"`
		Command taggedUnion `json:"command"`
	}{
		ID:      m.ID,
		Command: taggedUnion{Type: m.Command.Type, Data: data},
	}
	return json.Marshal(raw)
}

// decodeRequestData decodes the {"type", "data"} pair into the
// concrete payload type for that command, per §4.G's table. Variants
// with no data field (GetPlayerBans, IsWhitelistEnabled, ...) leave
// Data nil.
func decodeRequestData(kind string, data json.RawMessage) (Request, error) {
	var payload any
	switch kind {
	case TypeBanPlayer:
		payload = &BanPlayerRequest{}
	case TypeUnbanPlayer, TypeIsPlayerBanned, TypeIsWhitelisted, TypeWhitelistAddPlayer, TypeWhitelistRemovePlayer:
		payload = &UsernameMessage{}
	case TypeGetPlayerBans, TypeGetIpBans, TypeIsWhitelistEnabled, TypeWhitelistGetAll:
		return Request{Type: kind, Data: nil}, nil
	case TypeBanIp:
		payload = &BanIpRequest{}
	case TypeUnbanIp, TypeIsIpBanned:
		payload = &IpMessage{}
	case TypeSetWhitelistEnabled:
		payload = &SetWhitelistEnabledRequest{}
	default:
		return Request{}, fmt.Errorf("command: unknown request type %q", kind)
	}

	if len(data) > 0 {
		if err := strictDecoder(data).Decode(payload); err != nil {
			return Request{}, fmt.Errorf("command: decoding %s data: %w", kind, err)
		}
	}
	return Request{Type: kind, Data: payload}, nil
}

// MarshalJSON encodes a response envelope.
func (m ResponseMessage) MarshalJSON() ([]byte, error) {
	resultType := "SUCCESS"
	if !m.Result.Success {
		resultType = "ERROR"
	}
	var data json.RawMessage
	if m.Result.Data != nil {
		encoded, err := json.Marshal(m.Result.Data)
		if err != nil {
			return nil, fmt.Errorf("command: encoding response data: %w", err)
		}
		data = encoded
	}
	raw := struct {
		ID     uuid.UUID   `json:"id"`
		Result taggedUnion `json:"result"`
	}{
		ID:     m.ID,
		Result: taggedUnion{Type: resultType, Data: data},
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes a response envelope; used by tests and by any
// future client of the command tap.
func (m *ResponseMessage) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     uuid.UUID   `json:"id"`
		Result taggedUnion `json:"result"`
	}
	if err := strictDecoder(data).Decode(&raw); err != nil {
		return fmt.Errorf("command: decoding response envelope: %w", err)
	}

	m.ID = raw.ID
	m.Result.Success = raw.Result.Type == "SUCCESS"
	if m.Result.Success {
		payload, err := decodeResponseData(raw.Result.Type, raw.Result.Data)
		if err != nil {
			return err
		}
		m.Result.Data = payload
	} else {
		var errMsg ErrorMessage
		if len(raw.Result.Data) > 0 {
			if err := strictDecoder(raw.Result.Data).Decode(&errMsg); err != nil {
				return fmt.Errorf("command: decoding error data: %w", err)
			}
		}
		m.Result.Data = errMsg
	}
	return nil
}

// decodeResponseData is a placeholder hook for callers that need to
// interpret a SUCCESS response body generically; the command tap
// itself only ever constructs responses, never decodes them, so this
// returns the raw bytes undecoded.
func decodeResponseData(_ string, data json.RawMessage) (any, error) {
	return data, nil
}
