package game

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrRoomAlreadyStarted = errors.New("game has already started")
	ErrNotEnoughPlayers   = errors.New("not enough players to start")
	ErrNotHost            = errors.New("only the host may do that")
	ErrInvalidPhase       = errors.New("action not allowed in the current phase")
	ErrInvalidVote        = errors.New("vote target is not an eligible player")
	ErrInvalidName        = errors.New("invalid player name")
	ErrUnknownCategory    = errors.New("unknown word category")
)
