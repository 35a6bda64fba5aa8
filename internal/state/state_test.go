package state

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/basileia/proxy/internal/repository"
)

func newTestShared() *Shared {
	kv := repository.NewMemoryKeyValueRepository()
	return New(
		"test server",
		repository.NewMemoryUserBansRepository(),
		repository.NewMemoryIpBansRepository(),
		repository.NewMemoryWhitelistRepository(kv),
	)
}

func TestAddRemoveOnlinePlayer(t *testing.T) {
	s := newTestShared()
	require.False(t, s.IsOnline("Alice"))
	require.Equal(t, 0, s.OnlineCount())

	id := uuid.New()
	s.AddPlayer("Alice", id)
	require.True(t, s.IsOnline("Alice"))
	require.Equal(t, 1, s.OnlineCount())

	online := s.Online()
	require.Len(t, online, 1)
	require.Equal(t, "Alice", online[0].Username)
	require.Equal(t, id, online[0].UUID)

	s.RemovePlayer("Alice")
	require.False(t, s.IsOnline("Alice"))
	require.Equal(t, 0, s.OnlineCount())
}

func TestRemovePlayerNeverRecordedIsSafe(t *testing.T) {
	s := newTestShared()
	require.NotPanics(t, func() { s.RemovePlayer("Nobody") })
}
