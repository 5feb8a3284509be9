package lobby

import (
	"strings"
	"time"
)

// SetReady records a player's readiness flag. Setting the current value
// again is a no-op beyond refreshing lastSeen; concurrent toggles from
// the same player resolve last-write-wins by arrival at the room lock.
func (reg *Registry) SetReady(roomID, playerID string, ready bool) (Player, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return Player{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findLocked(playerID)
	if p == nil {
		return Player{}, ErrPlayerNotFound
	}

	now := time.Now()
	p.ready = ready
	p.lastSeen = now
	r.lastActive = now

	return r.playerSnapshotLocked(p), nil
}

// SetReadyByName is the wire-contract adapter for clients that carry
// only a display name. Duplicate names resolve to the earliest joiner,
// matching the upstream behavior this store replaced.
func (reg *Registry) SetReadyByName(roomID, name string, ready bool) (Player, error) {
	name = strings.TrimSpace(name)

	r, err := reg.room(roomID)
	if err != nil {
		return Player{}, err
	}

	r.mu.RLock()
	playerID := ""
	for _, p := range r.players {
		if p.name == name {
			playerID = p.id
			break
		}
	}
	r.mu.RUnlock()

	if playerID == "" {
		return Player{}, ErrPlayerNotFound
	}

	return reg.SetReady(roomID, playerID, ready)
}
