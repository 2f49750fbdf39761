package game

import "time"

// Status represents the current phase of a room
type Status string

const (
	StatusLobby    Status = "LOBBY"
	StatusPlaying  Status = "PLAYING"
	StatusVoting   Status = "VOTING"
	StatusFinished Status = "FINISHED"
)

// Room represents a shared game session identified by a short code.
// Category, SecretWord and ImpostorID are set for the duration of a round
// and nil while the room sits in the lobby.
type Room struct {
	Code       string    `json:"code"`
	Status     Status    `json:"status"`
	Category   *string   `json:"category"`
	SecretWord *string   `json:"secret_word"`
	ImpostorID *string   `json:"impostor_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InRound reports whether a round is currently underway.
func (r *Room) InRound() bool {
	return r.Status == StatusPlaying || r.Status == StatusVoting
}

// Clone returns a deep copy of the room.
func (r *Room) Clone() *Room {
	c := *r
	c.Category = cloneStr(r.Category)
	c.SecretWord = cloneStr(r.SecretWord)
	c.ImpostorID = cloneStr(r.ImpostorID)
	return &c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
