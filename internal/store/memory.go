package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	"impostor/internal/game"
)

const roomCodeLength = 6

// MemoryStore holds all rooms and players in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	rooms   map[string]*game.Room
	players map[string]*game.Player
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:   make(map[string]*game.Room),
		players: make(map[string]*game.Player),
	}
}

// CreateRoom allocates a room with a fresh unique code in LOBBY status.
func (s *MemoryStore) CreateRoom(ctx context.Context) (*game.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for i := 0; i < 10; i++ {
		code = generateRoomCode()
		if _, exists := s.rooms[code]; !exists {
			break
		}
	}
	if _, exists := s.rooms[code]; exists {
		return nil, fmt.Errorf("could not allocate a unique room code")
	}

	room := &game.Room{
		Code:      code,
		Status:    game.StatusLobby,
		UpdatedAt: time.Now(),
	}
	s.rooms[code] = room
	return room.Clone(), nil
}

// GetRoom returns a copy of the room with the given code.
func (s *MemoryStore) GetRoom(ctx context.Context, code string) (*game.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, exists := s.rooms[code]
	if !exists {
		return nil, game.ErrRoomNotFound
	}
	return room.Clone(), nil
}

// SaveRoom writes the room back and bumps its UpdatedAt.
func (s *MemoryStore) SaveRoom(ctx context.Context, room *game.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[room.Code]; !exists {
		return game.ErrRoomNotFound
	}
	stored := room.Clone()
	stored.UpdatedAt = time.Now()
	s.rooms[room.Code] = stored
	room.UpdatedAt = stored.UpdatedAt
	return nil
}

// DeleteRoom removes a room and all of its players.
func (s *MemoryStore) DeleteRoom(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[code]; !exists {
		return game.ErrRoomNotFound
	}
	delete(s.rooms, code)
	for id, p := range s.players {
		if p.RoomCode == code {
			delete(s.players, id)
		}
	}
	return nil
}

// InsertPlayer adds a new player to its room.
func (s *MemoryStore) InsertPlayer(ctx context.Context, p *game.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[p.RoomCode]; !exists {
		return game.ErrRoomNotFound
	}
	s.players[p.ID] = p.Clone()
	return nil
}

// GetPlayer returns a copy of the player with the given ID.
func (s *MemoryStore) GetPlayer(ctx context.Context, id string) (*game.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.players[id]
	if !exists {
		return nil, game.ErrPlayerNotFound
	}
	return p.Clone(), nil
}

// ListPlayers returns a room's roster ordered by CreatedAt.
func (s *MemoryStore) ListPlayers(ctx context.Context, roomCode string) ([]*game.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []*game.Player
	for _, p := range s.players {
		if p.RoomCode == roomCode {
			players = append(players, p.Clone())
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].CreatedAt.Equal(players[j].CreatedAt) {
			return players[i].ID < players[j].ID
		}
		return players[i].CreatedAt.Before(players[j].CreatedAt)
	})
	return players, nil
}

// SavePlayer writes the player back.
func (s *MemoryStore) SavePlayer(ctx context.Context, p *game.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[p.ID]; !exists {
		return game.ErrPlayerNotFound
	}
	s.players[p.ID] = p.Clone()
	return nil
}

// DeletePlayer removes a player.
func (s *MemoryStore) DeletePlayer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[id]; !exists {
		return game.ErrPlayerNotFound
	}
	delete(s.players, id)
	return nil
}

// DeleteIdleRooms removes rooms not updated since the cutoff.
func (s *MemoryStore) DeleteIdleRooms(ctx context.Context, cutoff time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var codes []string
	for code, room := range s.rooms {
		if room.UpdatedAt.Before(cutoff) {
			codes = append(codes, code)
			delete(s.rooms, code)
		}
	}
	for id, p := range s.players {
		if _, exists := s.rooms[p.RoomCode]; !exists {
			delete(s.players, id)
		}
	}
	return codes, nil
}

// generateRoomCode generates a 6-character uppercase alphanumeric code.
func generateRoomCode() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, roomCodeLength)
	rand.Read(b)

	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}

	return string(b)
}
