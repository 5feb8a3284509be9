package lobby

import (
	"sync"
	"time"
)

// State tracks a room through its lifecycle. Transitions only ever move
// forward: Lobby → InProgress → Closed.
type State int

const (
	StateLobby State = iota
	StateInProgress
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StateInProgress:
		return "in_progress"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Player is a single joined participant. Values returned from the
// registry are copies; mutating them has no effect on the store.
type Player struct {
	ID       string
	RoomID   string
	Name     string
	Ready    bool
	JoinedAt time.Time
	LastSeen time.Time
}

// Room is a read-only snapshot of a room's metadata.
type Room struct {
	ID         string
	Code       string
	Host       string
	State      State
	CreatedAt  time.Time
	LastActive time.Time
	Players    int
}

// room is the authoritative record. All mutations on one room serialize
// on mu; readers take the read lock and copy out.
type room struct {
	mu         sync.RWMutex
	id         string
	code       string
	host       string
	state      State
	createdAt  time.Time
	lastActive time.Time
	players    []*player
}

type player struct {
	id       string
	name     string
	ready    bool
	joinedAt time.Time
	lastSeen time.Time
}

func (r *room) snapshotLocked() Room {
	return Room{
		ID:         r.id,
		Code:       r.code,
		Host:       r.host,
		State:      r.state,
		CreatedAt:  r.createdAt,
		LastActive: r.lastActive,
		Players:    len(r.players),
	}
}

func (r *room) Snapshot() Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshotLocked()
}

func (r *room) playerSnapshotLocked(p *player) Player {
	return Player{
		ID:       p.id,
		RoomID:   r.id,
		Name:     p.name,
		Ready:    p.ready,
		JoinedAt: p.joinedAt,
		LastSeen: p.lastSeen,
	}
}

func (r *room) findLocked(playerID string) *player {
	for _, p := range r.players {
		if p.id == playerID {
			return p
		}
	}

	return nil
}
