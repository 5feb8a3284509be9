package lobby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinAndList(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	room, err := reg.CreateRoom("Alice")
	require.NoError(t, err)

	bob, err := reg.Join(room.ID, "Bob")
	require.NoError(t, err)
	assert.NotEmpty(t, bob.ID)
	assert.Equal(t, room.ID, bob.RoomID)
	assert.False(t, bob.Ready)

	// Read-your-writes: the join is visible to the very next list, and
	// exactly once.
	players, err := reg.Players(room.ID)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, bob.ID, players[0].ID)
	assert.Equal(t, "Bob", players[0].Name)
}

func TestJoinErrors(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{MaxPlayers: 2})

	open, err := reg.CreateRoom("host")
	require.NoError(t, err)

	started, err := reg.CreateRoom("host")
	require.NoError(t, err)
	_, err = reg.Join(started.ID, "seed")
	require.NoError(t, err)
	require.NoError(t, reg.Start(started.ID, "host"))

	closed, err := reg.CreateRoom("host")
	require.NoError(t, err)
	require.NoError(t, reg.CloseRoom(closed.ID))

	full, err := reg.CreateRoom("host")
	require.NoError(t, err)
	for _, name := range []string{"one", "two"} {
		_, err = reg.Join(full.ID, name)
		require.NoError(t, err)
	}

	testCases := []struct {
		name   string
		roomID string
		player string
		err    error
	}{
		{name: "unknown room", roomID: "nope", player: "Bob", err: ErrRoomNotFound},
		{name: "empty name", roomID: open.ID, player: "  ", err: ErrNameRequired},
		{name: "started room", roomID: started.ID, player: "Bob", err: ErrRoomClosed},
		{name: "closed room", roomID: closed.ID, player: "Bob", err: ErrRoomClosed},
		{name: "full room", roomID: full.ID, player: "Bob", err: ErrRoomFull},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := reg.Join(tc.roomID, tc.player)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestDuplicateNamesAllowed(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	room, err := reg.CreateRoom("host")
	require.NoError(t, err)

	first, err := reg.Join(room.ID, "Bob")
	require.NoError(t, err)
	second, err := reg.Join(room.ID, "Bob")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	players, err := reg.Players(room.ID)
	require.NoError(t, err)
	assert.Len(t, players, 2)
}

func TestPlayersOrderedByJoin(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	room, err := reg.CreateRoom("host")
	require.NoError(t, err)

	names := []string{"one", "two", "three", "four"}
	for _, name := range names {
		_, err := reg.Join(room.ID, name)
		require.NoError(t, err)
	}

	players, err := reg.Players(room.ID)
	require.NoError(t, err)
	require.Len(t, players, len(names))

	for i, p := range players {
		assert.Equal(t, names[i], p.Name)
		if i > 0 {
			assert.False(t, p.JoinedAt.Before(players[i-1].JoinedAt))
		}
	}
}

func TestPlayersReturnsCopies(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	room, err := reg.CreateRoom("host")
	require.NoError(t, err)
	_, err = reg.Join(room.ID, "Bob")
	require.NoError(t, err)

	players, err := reg.Players(room.ID)
	require.NoError(t, err)
	players[0].Name = "Mallory"
	players[0].Ready = true

	again, err := reg.Players(room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", again[0].Name)
	assert.False(t, again[0].Ready)
}

func TestLeave(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	room, err := reg.CreateRoom("host")
	require.NoError(t, err)

	bob, err := reg.Join(room.ID, "Bob")
	require.NoError(t, err)
	carol, err := reg.Join(room.ID, "Carol")
	require.NoError(t, err)

	require.NoError(t, reg.Leave(room.ID, bob.ID))
	require.NoError(t, reg.Leave(room.ID, bob.ID), "leave must be idempotent")

	players, err := reg.Players(room.ID)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, carol.ID, players[0].ID)

	assert.ErrorIs(t, reg.Leave("missing", bob.ID), ErrRoomNotFound)
}
