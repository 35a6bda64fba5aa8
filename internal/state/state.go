// Package state holds the process-wide shared state every accepted
// connection reads or mutates (§4.H): the online-player table, the
// cached server description, and the repository handles.
package state

import (
	"sync"

	"github.com/google/uuid"

	"github.com/basileia/proxy/internal/repository"
)

// OnlinePlayer is one entry of the online-player table, inserted on
// observing LoginSuccess from the backend and removed on connection
// termination.
type OnlinePlayer struct {
	Username string
	UUID     uuid.UUID
}

// Shared is the process-global state handle passed to every
// connection pipeline; the command dispatcher is given the same
// repository handles directly. Concurrency
// policy: reader-writer lock semantics with short critical sections;
// holders never perform I/O beyond the backing repository call
// itself.
type Shared struct {
	mu      sync.RWMutex
	players map[string]uuid.UUID

	Description string

	UserBans  repository.UserBansRepository
	IpBans    repository.IpBansRepository
	Whitelist repository.WhitelistRepository
}

// New builds shared state around the given repository handles and
// server description.
func New(description string, userBans repository.UserBansRepository, ipBans repository.IpBansRepository, whitelist repository.WhitelistRepository) *Shared {
	return &Shared{
		players:     make(map[string]uuid.UUID),
		Description: description,
		UserBans:    userBans,
		IpBans:      ipBans,
		Whitelist:   whitelist,
	}
}

// AddPlayer records a newly-observed backend LoginSuccess.
func (s *Shared) AddPlayer(username string, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[username] = id
}

// RemovePlayer removes a player on connection teardown. Safe to call
// even if the player was never recorded (e.g. the connection never
// reached Play).
func (s *Shared) RemovePlayer(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, username)
}

// IsOnline reports whether username is currently in the online table,
// used by the Login-phase duplicate-login check.
func (s *Shared) IsOnline(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[username]
	return ok
}

// Online returns a point-in-time snapshot of the online-player table,
// used to build a StatusResponse's player sample.
func (s *Shared) Online() []OnlinePlayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]OnlinePlayer, 0, len(s.players))
	for username, id := range s.players {
		out = append(out, OnlinePlayer{Username: username, UUID: id})
	}
	return out
}

// OnlineCount reports the number of online players without allocating
// a snapshot.
func (s *Shared) OnlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
