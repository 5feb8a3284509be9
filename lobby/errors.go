package lobby

import "errors"

var (
	ErrNameRequired     = errors.New("a display name is required")
	ErrRoomNotFound     = errors.New("room not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrRoomClosed       = errors.New("room is not accepting players")
	ErrRoomFull         = errors.New("room is full")
	ErrNotHost          = errors.New("only the host may start the game")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrAlreadyStarted   = errors.New("game already started or room closed")
	ErrCodesExhausted   = errors.New("unable to allocate a free room code")
)
