package game

import (
	"time"

	"github.com/google/uuid"
)

// MaxNameLength is the longest display name accepted for a player.
const MaxNameLength = 20

// Player represents a participant in a room. A player belongs to exactly
// one room for its lifetime. Spectators are present in the roster but are
// excluded from voting, elimination and the impostor pool.
type Player struct {
	ID          string    `json:"id"`
	RoomCode    string    `json:"room_code"`
	Name        string    `json:"name"`
	IsAlive     bool      `json:"is_alive"`
	IsSpectator bool      `json:"is_spectator"`
	VotedFor    *string   `json:"voted_for"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPlayer creates a new alive player for the given room.
func NewPlayer(roomCode, name string, spectator bool) *Player {
	return &Player{
		ID:          uuid.NewString(),
		RoomCode:    roomCode,
		Name:        name,
		IsAlive:     true,
		IsSpectator: spectator,
		CreatedAt:   time.Now(),
	}
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	c := *p
	c.VotedFor = cloneStr(p.VotedFor)
	return &c
}
