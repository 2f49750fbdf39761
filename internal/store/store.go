// Package store persists rooms and players. Two implementations exist: an
// in-memory store for single-node deployments and tests, and a PostgreSQL
// store for durable setups. Both return detached copies; callers mutate a
// copy and write it back through a Save method.
package store

import (
	"context"
	"time"

	"impostor/internal/game"
)

// Store is the persistence contract the session layer depends on.
type Store interface {
	// CreateRoom allocates a room with a fresh unique code in LOBBY status.
	CreateRoom(ctx context.Context) (*game.Room, error)
	// GetRoom returns the room with the given code or game.ErrRoomNotFound.
	GetRoom(ctx context.Context, code string) (*game.Room, error)
	// SaveRoom writes the room back and bumps its UpdatedAt.
	SaveRoom(ctx context.Context, room *game.Room) error
	// DeleteRoom removes a room and all of its players.
	DeleteRoom(ctx context.Context, code string) error

	// InsertPlayer adds a new player to its room.
	InsertPlayer(ctx context.Context, p *game.Player) error
	// GetPlayer returns the player with the given ID or game.ErrPlayerNotFound.
	GetPlayer(ctx context.Context, id string) (*game.Player, error)
	// ListPlayers returns a room's roster ordered by CreatedAt.
	ListPlayers(ctx context.Context, roomCode string) ([]*game.Player, error)
	// SavePlayer writes the player back.
	SavePlayer(ctx context.Context, p *game.Player) error
	// DeletePlayer removes a player.
	DeletePlayer(ctx context.Context, id string) error

	// DeleteIdleRooms removes rooms not updated since the cutoff, cascading
	// to their players, and returns the deleted room codes.
	DeleteIdleRooms(ctx context.Context, cutoff time.Time) ([]string, error)
}
