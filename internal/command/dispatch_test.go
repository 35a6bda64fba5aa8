package command

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/basileia/proxy/internal/repository"
)

func newTestHandler() *Handler {
	kv := repository.NewMemoryKeyValueRepository()
	return &Handler{
		UserBans:  repository.NewMemoryUserBansRepository(),
		IpBans:    repository.NewMemoryIpBansRepository(),
		Whitelist: repository.NewMemoryWhitelistRepository(kv),
	}
}

// decodeSuccessEnvelope unwraps a successful ResponseMessage's nested
// command-type tagged union ({"type":"<COMMAND_TYPE>","data":<body>},
// §8 scenario 6) and decodes its body into out.
func decodeSuccessEnvelope(t *testing.T, resp ResponseMessage, wantType string, out any) {
	t.Helper()
	raw := resp.Result.Data.(json.RawMessage)
	var envelope taggedUnion
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Equal(t, wantType, envelope.Type)
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
}

func TestIsPlayerBannedRoundTrip(t *testing.T) {
	h := newTestHandler()
	id := uuid.New()
	msg := []byte(`{"id":"` + id.String() + `","command":{"type":"IS_PLAYER_BANNED","data":{"username":"Alice"}}}`)

	out := h.HandleMessage(msg)

	var resp ResponseMessage
	require.NoError(t, json.Unmarshal(out, &resp))
	require.Equal(t, id, resp.ID)
	require.True(t, resp.Result.Success)

	var body IsBannedMessage
	decodeSuccessEnvelope(t, resp, TypeIsPlayerBanned, &body)
	require.False(t, body.Banned)
}

func TestSetWhitelistEnabledPolarity(t *testing.T) {
	h := newTestHandler()
	id := uuid.New()

	// Initially disabled; requesting disabled again means changed=true
	// under the preserved (previous == requested) polarity.
	msg := []byte(`{"id":"` + id.String() + `","command":{"type":"SET_WHITELIST_ENABLED","data":{"enabled":false}}}`)
	out := h.HandleMessage(msg)

	var resp ResponseMessage
	require.NoError(t, json.Unmarshal(out, &resp))
	require.True(t, resp.Result.Success)

	var body ChangedMessage
	decodeSuccessEnvelope(t, resp, TypeSetWhitelistEnabled, &body)
	require.True(t, body.Changed)
}

func TestUnknownFieldRejected(t *testing.T) {
	h := newTestHandler()
	msg := []byte(`{"id":"` + uuid.New().String() + `","command":{"type":"IS_PLAYER_BANNED","data":{"username":"Alice","bogus":true}}}`)

	out := h.HandleMessage(msg)

	var resp ResponseMessage
	require.NoError(t, json.Unmarshal(out, &resp))
	require.False(t, resp.Result.Success)
	require.Equal(t, uuid.Nil, resp.ID)
}

func TestBanIpThenIsBanned(t *testing.T) {
	h := newTestHandler()

	ban := []byte(`{"id":"` + uuid.New().String() + `","command":{"type":"BAN_IP","data":{"ip":"192.0.2.1","reason":"testing"}}}`)
	out := h.HandleMessage(ban)
	var resp ResponseMessage
	require.NoError(t, json.Unmarshal(out, &resp))
	require.True(t, resp.Result.Success)
	decodeSuccessEnvelope(t, resp, TypeBanIp, nil)

	check := []byte(`{"id":"` + uuid.New().String() + `","command":{"type":"IS_IP_BANNED","data":{"ip":"192.0.2.1"}}}`)
	out = h.HandleMessage(check)
	require.NoError(t, json.Unmarshal(out, &resp))
	require.True(t, resp.Result.Success)

	var body IsBannedMessage
	decodeSuccessEnvelope(t, resp, TypeIsIpBanned, &body)
	require.True(t, body.Banned)
}
