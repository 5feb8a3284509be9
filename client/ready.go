package client

import (
	"context"
	"sync"
)

// ReadySetter is the write slice of the API the toggle depends on.
type ReadySetter interface {
	SetReady(ctx context.Context, roomID, playerID, name string, ready bool) (Player, error)
}

// ReadyToggle wraps the ready flag for one player with an explicit
// pending/confirmed distinction. The view flips optimistically the
// moment a toggle is requested and rolls back to the last confirmed
// value if the server says no, instead of silently drifting away from
// authoritative state.
type ReadyToggle struct {
	api  ReadySetter
	sess Session

	mu        sync.Mutex
	confirmed bool
	pending   *bool
}

func NewReadyToggle(api ReadySetter, sess Session) *ReadyToggle {
	return &ReadyToggle{api: api, sess: sess}
}

// View is what the presentation layer should display: the in-flight
// value if a toggle is pending, otherwise the last server-confirmed one.
func (t *ReadyToggle) View() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending != nil {
		return *t.pending
	}

	return t.confirmed
}

// Set requests the given readiness value and returns the value the view
// holds afterwards: the confirmed new value on success, or the rolled
// back previous one on failure. Failures are never retried here; the
// user re-triggers.
func (t *ReadyToggle) Set(ctx context.Context, ready bool) (bool, error) {
	t.mu.Lock()
	t.pending = &ready
	t.mu.Unlock()

	p, err := t.api.SetReady(ctx, t.sess.RoomID, t.sess.PlayerID, t.sess.Name, ready)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending = nil
	if err != nil {
		return t.confirmed, err
	}

	t.confirmed = p.Ready

	return t.confirmed, nil
}
