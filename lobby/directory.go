package lobby

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Join adds a named player to a room still in the lobby phase. Display
// names need not be unique; the returned player id is the handle for
// every later call. Fails with ErrRoomClosed once the game has started
// or the room has closed, and ErrRoomFull at the player cap.
func (reg *Registry) Join(roomID, name string) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, ErrNameRequired
	}

	r, err := reg.room(roomID)
	if err != nil {
		return Player{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateLobby {
		return Player{}, ErrRoomClosed
	}
	if len(r.players) >= reg.maxPlayers {
		return Player{}, ErrRoomFull
	}

	now := time.Now()
	p := &player{
		id:       uuid.NewString(),
		name:     name,
		joinedAt: now,
		lastSeen: now,
	}

	r.players = append(r.players, p)
	r.lastActive = now

	return r.playerSnapshotLocked(p), nil
}

// Players returns a full snapshot of the room's players in join order.
// Callers may re-invoke at will; each call stands alone.
func (reg *Registry) Players(roomID string) ([]Player, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, r.playerSnapshotLocked(p))
	}

	return out, nil
}

// Leave removes a player from a room. Unknown player ids are ignored so
// a retried leave never errors.
func (reg *Registry) Leave(roomID, playerID string) error {
	r, err := reg.room(roomID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dst := r.players[:0]
	changed := false

	for _, p := range r.players {
		if p.id == playerID {
			changed = true
			continue
		}
		dst = append(dst, p)
	}
	r.players = dst

	if changed {
		r.lastActive = time.Now()
	}

	return nil
}
