package lobby

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	room, err := reg.CreateRoom("Alice")
	require.NoError(t, err)

	assert.NotEmpty(t, room.ID)
	assert.Len(t, room.Code, DefaultCodeLength)
	assert.Equal(t, "Alice", room.Host)
	assert.Equal(t, StateLobby, room.State)
	assert.Zero(t, room.Players)

	for _, c := range room.Code {
		assert.Contains(t, codeAlphabet, string(c))
	}
}

func TestCreateRoomRequiresName(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	for _, name := range []string{"", "   ", "\t"} {
		_, err := reg.CreateRoom(name)
		assert.ErrorIs(t, err, ErrNameRequired)
	}
}

func TestCodesUniqueAmongActiveRooms(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	seen := make(map[string]string)
	for i := 0; i < 100; i++ {
		room, err := reg.CreateRoom("host")
		require.NoError(t, err)

		prev, dup := seen[room.Code]
		require.False(t, dup, "code %s assigned to both %s and %s", room.Code, prev, room.ID)
		seen[room.Code] = room.ID
	}
}

func TestCreateRoomRegeneratesOnCollision(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	// First allocation grabs AAAA, forcing the second create to retry
	// past the collision before landing on BBBB.
	codes := []string{"AAAA", "AAAA", "AAAA", "BBBB"}
	reg.newCode = func(int) string {
		next := codes[0]
		codes = codes[1:]
		return next
	}

	first, err := reg.CreateRoom("host")
	require.NoError(t, err)
	assert.Equal(t, "AAAA", first.Code)

	second, err := reg.CreateRoom("host")
	require.NoError(t, err)
	assert.Equal(t, "BBBB", second.Code)
}

func TestCreateRoomExhaustsBoundedAttempts(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})
	reg.newCode = func(int) string { return "SAME" }

	_, err := reg.CreateRoom("host")
	require.NoError(t, err)

	_, err = reg.CreateRoom("host")
	assert.ErrorIs(t, err, ErrCodesExhausted)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	created, err := reg.CreateRoom("Alice")
	require.NoError(t, err)

	testCases := []struct {
		name string
		code string
		err  error
	}{
		{name: "exact", code: created.Code},
		{name: "padded", code: "  " + created.Code + " "},
		{name: "unknown", code: "ZZZZ", err: ErrRoomNotFound},
		{name: "empty", code: "", err: ErrRoomNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			room, err := reg.Lookup(tc.code)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, created.ID, room.ID)
		})
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})
	reg.newCode = func(int) string { return "ABCD" }

	created, err := reg.CreateRoom("Alice")
	require.NoError(t, err)

	room, err := reg.Lookup("abcd")
	require.NoError(t, err)
	assert.Equal(t, created.ID, room.ID)
}

func TestCloseRoom(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})

	room, err := reg.CreateRoom("Alice")
	require.NoError(t, err)

	_, err = reg.Join(room.ID, "Bob")
	require.NoError(t, err)

	require.NoError(t, reg.CloseRoom(room.ID))
	require.NoError(t, reg.CloseRoom(room.ID), "close must be idempotent")

	got, err := reg.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, StateClosed, got.State)
	assert.Zero(t, got.Players)

	// Code is freed for reuse by the next active room.
	_, err = reg.Lookup(room.Code)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	assert.ErrorIs(t, reg.CloseRoom("missing"), ErrRoomNotFound)
}

func TestClosedRoomFreesCodeForReuse(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{})
	reg.newCode = func(int) string { return "AB12" }

	first, err := reg.CreateRoom("Alice")
	require.NoError(t, err)
	require.NoError(t, reg.CloseRoom(first.ID))

	second, err := reg.CreateRoom("Carol")
	require.NoError(t, err)
	assert.Equal(t, "AB12", second.Code)

	resolved, err := reg.Lookup("AB12")
	require.NoError(t, err)
	assert.Equal(t, second.ID, resolved.ID)
}

func TestReaperDropsIdleRooms(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(Options{RoomTimeout: 50 * time.Millisecond})
	defer reg.Stop()

	room, err := reg.CreateRoom("Alice")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := reg.Get(room.ID)
		return err != nil
	}, time.Second, 10*time.Millisecond, "idle room should be reaped")

	_, err = reg.Lookup(room.Code)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
