package repository

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIpBanLazyExpiry(t *testing.T) {
	r := NewMemoryIpBansRepository()
	ip := net.ParseIP("192.0.2.1")
	past := -time.Millisecond
	_, err := r.AddBan(ip, &past, nil)
	require.NoError(t, err)

	ban, err := r.IsBanned(ip)
	require.NoError(t, err)
	require.Nil(t, ban, "an already-expired ban must read back as absent")

	bans, err := r.GetBans()
	require.NoError(t, err)
	require.Empty(t, bans, "the expired record must have been purged as a side effect of the read")
}

func TestIpBanActiveUntilExpiration(t *testing.T) {
	r := NewMemoryIpBansRepository()
	ip := net.ParseIP("192.0.2.2")
	future := time.Hour
	reason := "testing"
	_, err := r.AddBan(ip, &future, &reason)
	require.NoError(t, err)

	ban, err := r.IsBanned(ip)
	require.NoError(t, err)
	require.NotNil(t, ban)
	require.Equal(t, reason, *ban.Reason)
}

func TestIpBanRemove(t *testing.T) {
	r := NewMemoryIpBansRepository()
	ip := net.ParseIP("192.0.2.3")
	_, err := r.AddBan(ip, nil, nil)
	require.NoError(t, err)

	removed, err := r.RemoveBan(ip)
	require.NoError(t, err)
	require.NotNil(t, removed)

	removed, err = r.RemoveBan(ip)
	require.NoError(t, err)
	require.Nil(t, removed)
}

func TestUserBanLazyExpiry(t *testing.T) {
	r := NewMemoryUserBansRepository()
	past := -time.Second
	_, err := r.AddBan("Alice", &past, nil)
	require.NoError(t, err)

	ban, err := r.IsBanned("Alice")
	require.NoError(t, err)
	require.Nil(t, ban)
}

func TestWhitelistAddRemoveChangedSemantics(t *testing.T) {
	kv := NewMemoryKeyValueRepository()
	r := NewMemoryWhitelistRepository(kv)

	result, err := r.Add("Alice")
	require.NoError(t, err)
	require.True(t, result.Changed())

	result, err = r.Add("Alice")
	require.NoError(t, err)
	require.False(t, result.Changed(), "adding an already-whitelisted name changes nothing")

	result, err = r.Remove("Alice")
	require.NoError(t, err)
	require.True(t, result.Changed())

	result, err = r.Remove("Alice")
	require.NoError(t, err)
	require.False(t, result.Changed())
}

func TestWhitelistEnabledDefaultsFalse(t *testing.T) {
	kv := NewMemoryKeyValueRepository()
	r := NewMemoryWhitelistRepository(kv)

	enabled, err := r.IsEnabled()
	require.NoError(t, err)
	require.False(t, enabled)

	require.NoError(t, r.SetEnabled(true))
	enabled, err = r.IsEnabled()
	require.NoError(t, err)
	require.True(t, enabled)
}

func TestKeyValueLazyTTLExpiry(t *testing.T) {
	kv := NewMemoryKeyValueRepository()
	require.NoError(t, kv.Set("k", "v"))
	require.NoError(t, kv.SetTTL("k", -time.Second))

	_, err := kv.Get("k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestKeyValueGetMissing(t *testing.T) {
	kv := NewMemoryKeyValueRepository()
	_, err := kv.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}
