package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"impostor/internal/game"
)

func TestNewMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if s == nil {
		t.Fatal("NewMemoryStore returned nil")
	}
	if s.rooms == nil || s.players == nil {
		t.Fatal("maps not initialized")
	}
}

func TestMemoryStore_CreateRoom(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	t.Run("creates room with a 6-char alphanumeric code", func(t *testing.T) {
		room, err := s.CreateRoom(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(room.Code) != 6 {
			t.Errorf("expected room code length 6, got %d", len(room.Code))
		}
		for _, char := range room.Code {
			if !((char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9')) {
				t.Errorf("room code contains invalid character: %c", char)
			}
		}
	})

	t.Run("creates room in lobby with blank round fields", func(t *testing.T) {
		room, err := s.CreateRoom(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if room.Status != game.StatusLobby {
			t.Errorf("expected status %s, got %s", game.StatusLobby, room.Status)
		}
		if room.Category != nil || room.SecretWord != nil || room.ImpostorID != nil {
			t.Error("round fields must start nil")
		}
		if room.UpdatedAt.IsZero() {
			t.Error("UpdatedAt not set")
		}
	})

	t.Run("creates many rooms with unique codes", func(t *testing.T) {
		codes := make(map[string]bool)

		for i := 0; i < 100; i++ {
			room, err := s.CreateRoom(ctx)
			if err != nil {
				t.Fatalf("unexpected error on iteration %d: %v", i, err)
			}
			if codes[room.Code] {
				t.Errorf("duplicate room code generated: %s", room.Code)
			}
			codes[room.Code] = true
		}
	})
}

func TestMemoryStore_GetRoom(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	room, _ := s.CreateRoom(ctx)

	t.Run("returns the stored room", func(t *testing.T) {
		got, err := s.GetRoom(ctx, room.Code)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Code != room.Code {
			t.Errorf("expected code %s, got %s", room.Code, got.Code)
		}
	})

	t.Run("returns a detached copy", func(t *testing.T) {
		got, _ := s.GetRoom(ctx, room.Code)
		got.Status = game.StatusFinished

		again, _ := s.GetRoom(ctx, room.Code)
		if again.Status != game.StatusLobby {
			t.Error("mutating a returned room leaked into the store")
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := s.GetRoom(ctx, "NOPE99")
		if !errors.Is(err, game.ErrRoomNotFound) {
			t.Errorf("expected ErrRoomNotFound, got %v", err)
		}
	})
}

func TestMemoryStore_SaveRoom(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	room, _ := s.CreateRoom(ctx)
	before := room.UpdatedAt

	t.Run("persists mutations and bumps UpdatedAt", func(t *testing.T) {
		time.Sleep(time.Millisecond)

		category := "Movies"
		room.Status = game.StatusPlaying
		room.Category = &category
		if err := s.SaveRoom(ctx, room); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, _ := s.GetRoom(ctx, room.Code)
		if got.Status != game.StatusPlaying {
			t.Errorf("status not persisted: %s", got.Status)
		}
		if got.Category == nil || *got.Category != "Movies" {
			t.Error("category not persisted")
		}
		if !got.UpdatedAt.After(before) {
			t.Error("UpdatedAt was not bumped")
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		err := s.SaveRoom(ctx, &game.Room{Code: "NOPE99"})
		if !errors.Is(err, game.ErrRoomNotFound) {
			t.Errorf("expected ErrRoomNotFound, got %v", err)
		}
	})
}

func TestMemoryStore_Players(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	room, _ := s.CreateRoom(ctx)

	t.Run("insert requires an existing room", func(t *testing.T) {
		p := game.NewPlayer("NOPE99", "ana", false)
		if err := s.InsertPlayer(ctx, p); !errors.Is(err, game.ErrRoomNotFound) {
			t.Errorf("expected ErrRoomNotFound, got %v", err)
		}
	})

	t.Run("list is ordered by CreatedAt", func(t *testing.T) {
		base := time.Now()
		for i, name := range []string{"caro", "ana", "beto"} {
			p := game.NewPlayer(room.Code, name, false)
			// Deliberately out-of-order creation stamps
			p.CreatedAt = base.Add(time.Duration(2-i) * time.Second)
			if err := s.InsertPlayer(ctx, p); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		players, err := s.ListPlayers(ctx, room.Code)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(players) != 3 {
			t.Fatalf("expected 3 players, got %d", len(players))
		}
		if players[0].Name != "beto" || players[1].Name != "ana" || players[2].Name != "caro" {
			t.Errorf("roster not ordered by CreatedAt: %s, %s, %s",
				players[0].Name, players[1].Name, players[2].Name)
		}
	})

	t.Run("save and delete", func(t *testing.T) {
		players, _ := s.ListPlayers(ctx, room.Code)
		p := players[0]

		p.IsAlive = false
		if err := s.SavePlayer(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, _ := s.GetPlayer(ctx, p.ID)
		if got.IsAlive {
			t.Error("IsAlive not persisted")
		}

		if err := s.DeletePlayer(ctx, p.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := s.GetPlayer(ctx, p.ID); !errors.Is(err, game.ErrPlayerNotFound) {
			t.Errorf("expected ErrPlayerNotFound, got %v", err)
		}
	})
}

func TestMemoryStore_DeleteRoom(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	room, _ := s.CreateRoom(ctx)
	p := game.NewPlayer(room.Code, "ana", false)
	s.InsertPlayer(ctx, p)

	if err := s.DeleteRoom(ctx, room.Code); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.GetRoom(ctx, room.Code); !errors.Is(err, game.ErrRoomNotFound) {
		t.Error("room still present after delete")
	}
	if _, err := s.GetPlayer(ctx, p.ID); !errors.Is(err, game.ErrPlayerNotFound) {
		t.Error("players not cascaded on room delete")
	}
}

func TestMemoryStore_DeleteIdleRooms(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	idle, _ := s.CreateRoom(ctx)
	s.InsertPlayer(ctx, game.NewPlayer(idle.Code, "ana", false))

	time.Sleep(2 * time.Millisecond)
	cutoff := time.Now()

	fresh, _ := s.CreateRoom(ctx)

	codes, err := s.DeleteIdleRooms(ctx, cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(codes) != 1 || codes[0] != idle.Code {
		t.Fatalf("expected only %s expired, got %v", idle.Code, codes)
	}

	if _, err := s.GetRoom(ctx, fresh.Code); err != nil {
		t.Error("fresh room should survive the sweep")
	}
	players, _ := s.ListPlayers(ctx, idle.Code)
	if len(players) != 0 {
		t.Error("players of expired room should be gone")
	}
}
