// Package chatserver implements the game-state and connection-serving side
// of the chat/pot protocol: one Room holds every connected player and the
// shared pot; one Server accepts TCP connections and drives a frame
// machine per connection.
package chatserver

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/internal/metrics"
	"github.com/kstaniek/go-chippy-chat/protocol"
)

// Room holds every introduced player and the shared pot. Safe for
// concurrent use.
type Room struct {
	mu      sync.RWMutex
	players map[uuid.UUID]protocol.Player
	pot     uint32
	putIn   map[uuid.UUID]uint32
}

// NewRoom creates an empty Room.
func NewRoom() *Room {
	return &Room{
		players: make(map[uuid.UUID]protocol.Player),
		putIn:   make(map[uuid.UUID]uint32),
	}
}

// Introduce registers a new player under a freshly minted Uuid and returns
// it. The player starts with a zero balance.
func (r *Room) Introduce(name string) uuid.UUID {
	id := uuid.New()
	r.mu.Lock()
	r.players[id] = protocol.Player{Name: name, Balance: 0}
	r.mu.Unlock()
	metrics.IncPlayerIntroduced()
	return id
}

// Remove drops a player from the room (on disconnect). Their pot
// contribution, if any, stays recorded.
func (r *Room) Remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.players, id)
	r.mu.Unlock()
}

// Player looks up a player by id.
func (r *Room) Player(id uuid.UUID) (protocol.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// AllPlayers returns a snapshot copy of every currently connected player.
func (r *Room) AllPlayers() map[uuid.UUID]protocol.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]protocol.Player, len(r.players))
	for id, p := range r.players {
		out[id] = p
	}
	return out
}

// AddToPot records amount as id's one-time contribution toward the shared
// pot. id must already be a registered player, and must not have put their
// share in already.
func (r *Room) AddToPot(id uuid.UUID, amount uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	if _, ok := r.putIn[id]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyInPot, id)
	}
	r.pot += amount
	r.putIn[id] = amount
	metrics.SetPotValue(r.pot)
	return nil
}

// PotSnapshot returns the current pot total and per-player contributions.
func (r *Room) PotSnapshot() protocol.PotSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ready := make(map[uuid.UUID]uint32, len(r.putIn))
	for id, amt := range r.putIn {
		ready[id] = amt
	}
	return protocol.PotSnapshot{CurrentValue: r.pot, ReadyToPutIn: ready}
}
