package lobby

import "time"

// Start performs the host-only transition from Lobby to InProgress.
//
// The host check comes first: a non-host caller is told ErrNotHost no
// matter what state the room is in. The state check and the player-count
// minimum are evaluated under the room lock together with the
// transition, so no concurrent Leave can slip under the minimum between
// check and commit, and at most one call ever succeeds per room.
func (reg *Registry) Start(roomID, caller string) error {
	r, err := reg.room(roomID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.host {
		return ErrNotHost
	}
	if r.state != StateLobby {
		return ErrAlreadyStarted
	}
	if len(r.players) < reg.minPlayers {
		return ErrNotEnoughPlayers
	}

	r.state = StateInProgress
	r.lastActive = time.Now()

	return nil
}
