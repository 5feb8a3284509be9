// Package lobby is the authoritative store behind the quizbox waiting
// room: it allocates rooms and their human-enterable codes, tracks the
// players who have joined each one and their readiness flags, and gates
// the host-only transition from waiting room to game in progress.
//
// Clients observe the store by polling; every read hands back a full,
// consistent snapshot, and every acknowledged write is visible to all
// subsequent reads.
package lobby

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCodeLength = 4
	DefaultMaxPlayers = 8
	DefaultMinPlayers = 1
)

// Options tunes a Registry. Zero values fall back to the defaults
// above; a zero RoomTimeout disables the idle reaper.
type Options struct {
	CodeLength  int
	MaxPlayers  int
	MinPlayers  int
	RoomTimeout time.Duration
}

// Registry owns every active room. Mutations on a single room serialize
// on that room's lock; the registry lock only guards the id and code
// indexes, so traffic in one room never stalls another.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*room  // room id -> room
	byCode map[string]string // active code -> room id

	codeLength int
	maxPlayers int
	minPlayers int

	newCode func(length int) string

	done chan struct{}
}

func NewRegistry(opts Options) *Registry {
	if opts.CodeLength <= 0 {
		opts.CodeLength = DefaultCodeLength
	}
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = DefaultMaxPlayers
	}
	if opts.MinPlayers <= 0 {
		opts.MinPlayers = DefaultMinPlayers
	}

	reg := &Registry{
		rooms:      make(map[string]*room),
		byCode:     make(map[string]string),
		codeLength: opts.CodeLength,
		maxPlayers: opts.MaxPlayers,
		minPlayers: opts.MinPlayers,
		newCode:    newCode,
		done:       make(chan struct{}),
	}

	if opts.RoomTimeout > 0 {
		go reg.reaperLoop(opts.RoomTimeout)
	}

	return reg
}

// CreateRoom allocates a room with a fresh code and the caller as its
// immutable host. The host is not a player; they join the directory
// like anyone else if they also want to answer questions.
func (reg *Registry) CreateRoom(hostName string) (Room, error) {
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return Room{}, ErrNameRequired
	}

	now := time.Now()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	var code string
	for attempt := 0; ; attempt++ {
		if attempt == maxCodeAttempts {
			return Room{}, ErrCodesExhausted
		}

		code = reg.newCode(reg.codeLength)
		if _, taken := reg.byCode[code]; !taken {
			break
		}
	}

	r := &room{
		id:         uuid.NewString(),
		code:       code,
		host:       hostName,
		state:      StateLobby,
		createdAt:  now,
		lastActive: now,
	}

	reg.rooms[r.id] = r
	reg.byCode[code] = r.id

	return r.Snapshot(), nil
}

// Lookup resolves a room code (case-insensitive) to a room snapshot.
func (reg *Registry) Lookup(code string) (Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	reg.mu.RLock()
	id, ok := reg.byCode[code]
	reg.mu.RUnlock()

	if !ok {
		return Room{}, ErrRoomNotFound
	}

	return reg.Get(id)
}

// Get resolves a room id to a room snapshot.
func (reg *Registry) Get(roomID string) (Room, error) {
	r, err := reg.room(roomID)
	if err != nil {
		return Room{}, err
	}

	return r.Snapshot(), nil
}

// CloseRoom transitions a room to Closed, removes its players, and
// frees its code for reuse. Repeat calls are no-ops. The record itself
// lingers until the reaper drops it, so late callers still see Closed
// rather than a vanished room.
func (reg *Registry) CloseRoom(roomID string) error {
	r, err := reg.room(roomID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	alreadyClosed := r.state == StateClosed
	r.state = StateClosed
	r.players = nil
	r.lastActive = time.Now()
	code := r.code
	r.mu.Unlock()

	if alreadyClosed {
		return nil
	}

	reg.mu.Lock()
	if reg.byCode[code] == roomID {
		delete(reg.byCode, code)
	}
	reg.mu.Unlock()

	return nil
}

// Stop halts the idle reaper. Rooms remain usable afterwards; this only
// exists so embedders can shut down cleanly.
func (reg *Registry) Stop() {
	select {
	case <-reg.done:
	default:
		close(reg.done)
	}
}

func (reg *Registry) room(roomID string) (*room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return r, nil
}

// reaperLoop periodically closes and drops rooms that have seen no
// writes for longer than timeout.
func (reg *Registry) reaperLoop(timeout time.Duration) {
	ticker := time.NewTicker(timeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-reg.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-timeout)

			reg.mu.Lock()
			for id, r := range reg.rooms {
				r.mu.Lock()
				idle := r.lastActive.Before(cutoff)
				if idle {
					r.state = StateClosed
					r.players = nil
					delete(reg.byCode, r.code)
					delete(reg.rooms, id)
				}
				r.mu.Unlock()
			}
			reg.mu.Unlock()
		}
	}
}
