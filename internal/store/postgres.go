package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"impostor/internal/game"
)

// PostgresStore persists rooms and players in PostgreSQL. Room codes carry a
// unique constraint, so concurrent creation retries on collision instead of
// checking first.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to the database and verifies the connection.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rooms (
			code        TEXT PRIMARY KEY,
			status      TEXT NOT NULL,
			category    TEXT,
			secret_word TEXT,
			impostor_id TEXT,
			updated_at  TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS players (
			id           TEXT PRIMARY KEY,
			room_code    TEXT NOT NULL REFERENCES rooms(code) ON DELETE CASCADE,
			name         TEXT NOT NULL,
			is_alive     BOOLEAN NOT NULL DEFAULT TRUE,
			is_spectator BOOLEAN NOT NULL DEFAULT FALSE,
			voted_for    TEXT,
			created_at   TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS players_room_code_idx ON players (room_code, created_at);
	`)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// CreateRoom allocates a room with a fresh unique code in LOBBY status.
func (s *PostgresStore) CreateRoom(ctx context.Context) (*game.Room, error) {
	for i := 0; i < 10; i++ {
		room := &game.Room{
			Code:      generateRoomCode(),
			Status:    game.StatusLobby,
			UpdatedAt: time.Now(),
		}
		_, err := s.pool.Exec(ctx,
			`INSERT INTO rooms (code, status, updated_at) VALUES ($1, $2, $3)`,
			room.Code, string(room.Status), room.UpdatedAt)
		if err == nil {
			return room, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue // code collision, try another
		}
		return nil, fmt.Errorf("inserting room: %w", err)
	}
	return nil, fmt.Errorf("could not allocate a unique room code")
}

// GetRoom returns the room with the given code.
func (s *PostgresStore) GetRoom(ctx context.Context, code string) (*game.Room, error) {
	room := &game.Room{}
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT code, status, category, secret_word, impostor_id, updated_at
		 FROM rooms WHERE code = $1`, code).
		Scan(&room.Code, &status, &room.Category, &room.SecretWord, &room.ImpostorID, &room.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting room: %w", err)
	}
	room.Status = game.Status(status)
	return room, nil
}

// SaveRoom writes the room back and bumps its UpdatedAt.
func (s *PostgresStore) SaveRoom(ctx context.Context, room *game.Room) error {
	now := time.Now()
	tag, err := s.pool.Exec(ctx,
		`UPDATE rooms
		 SET status = $2, category = $3, secret_word = $4, impostor_id = $5, updated_at = $6
		 WHERE code = $1`,
		room.Code, string(room.Status), room.Category, room.SecretWord, room.ImpostorID, now)
	if err != nil {
		return fmt.Errorf("updating room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrRoomNotFound
	}
	room.UpdatedAt = now
	return nil
}

// DeleteRoom removes a room; players cascade.
func (s *PostgresStore) DeleteRoom(ctx context.Context, code string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrRoomNotFound
	}
	return nil
}

// InsertPlayer adds a new player to its room.
func (s *PostgresStore) InsertPlayer(ctx context.Context, p *game.Player) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO players (id, room_code, name, is_alive, is_spectator, voted_for, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.RoomCode, p.Name, p.IsAlive, p.IsSpectator, p.VotedFor, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return game.ErrRoomNotFound
		}
		return fmt.Errorf("inserting player: %w", err)
	}
	return nil
}

// GetPlayer returns the player with the given ID.
func (s *PostgresStore) GetPlayer(ctx context.Context, id string) (*game.Player, error) {
	p := &game.Player{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, room_code, name, is_alive, is_spectator, voted_for, created_at
		 FROM players WHERE id = $1`, id).
		Scan(&p.ID, &p.RoomCode, &p.Name, &p.IsAlive, &p.IsSpectator, &p.VotedFor, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, game.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting player: %w", err)
	}
	return p, nil
}

// ListPlayers returns a room's roster ordered by CreatedAt.
func (s *PostgresStore) ListPlayers(ctx context.Context, roomCode string) ([]*game.Player, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, room_code, name, is_alive, is_spectator, voted_for, created_at
		 FROM players WHERE room_code = $1 ORDER BY created_at, id`, roomCode)
	if err != nil {
		return nil, fmt.Errorf("selecting players: %w", err)
	}
	defer rows.Close()

	var players []*game.Player
	for rows.Next() {
		p := &game.Player{}
		if err := rows.Scan(&p.ID, &p.RoomCode, &p.Name, &p.IsAlive, &p.IsSpectator, &p.VotedFor, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// SavePlayer writes the player back.
func (s *PostgresStore) SavePlayer(ctx context.Context, p *game.Player) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE players SET name = $2, is_alive = $3, is_spectator = $4, voted_for = $5
		 WHERE id = $1`,
		p.ID, p.Name, p.IsAlive, p.IsSpectator, p.VotedFor)
	if err != nil {
		return fmt.Errorf("updating player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrPlayerNotFound
	}
	return nil
}

// DeletePlayer removes a player.
func (s *PostgresStore) DeletePlayer(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrPlayerNotFound
	}
	return nil
}

// DeleteIdleRooms removes rooms not updated since the cutoff.
func (s *PostgresStore) DeleteIdleRooms(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`DELETE FROM rooms WHERE updated_at < $1 RETURNING code`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("deleting idle rooms: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning room code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
