// Package handlers exposes the game over HTTP: a JSON API for commands and
// reads, an SSE stream for change notification, and a QR image for the
// join-by-link surface.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"impostor/internal/config"
	"impostor/internal/game"
	"impostor/internal/notify"
	"impostor/internal/session"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	sessions *session.Manager
	bus      *notify.Bus
	words    *game.WordService
	cfg      *config.ServerConfig
}

// New creates a new handler.
func New(sessions *session.Manager, bus *notify.Bus, words *game.WordService, cfg *config.ServerConfig) *Handler {
	return &Handler{
		sessions: sessions,
		bus:      bus,
		words:    words,
		cfg:      cfg,
	}
}

// roomResponse is the canonical read shape: room, roster ordered by
// created_at, and the derived host.
type roomResponse struct {
	Room    *game.Room     `json:"room"`
	Players []*game.Player `json:"players"`
	HostID  string         `json:"host_id,omitempty"`
}

func newRoomResponse(room *game.Room, players []*game.Player) roomResponse {
	resp := roomResponse{Room: room, Players: players}
	if host := game.Host(players); host != nil {
		resp.HostID = host.ID
	}
	return resp
}

// actorID extracts the acting player's ID from the request. There is no
// authentication; clients state who they are.
func actorID(r *http.Request) string {
	return r.Header.Get("X-Player-ID")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encoding response", zap.Error(err))
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeError maps domain errors onto HTTP statuses. Anything outside the
// taxonomy is a store or transport failure and surfaces as a generic 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, game.ErrRoomNotFound), errors.Is(err, game.ErrPlayerNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, game.ErrRoomAlreadyStarted), errors.Is(err, game.ErrInvalidPhase):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, game.ErrNotEnoughPlayers), errors.Is(err, game.ErrInvalidVote),
		errors.Is(err, game.ErrInvalidName), errors.Is(err, game.ErrUnknownCategory):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, game.ErrNotHost):
		status, msg = http.StatusForbidden, err.Error()
	default:
		zap.L().Error("request failed", zap.Error(err))
	}

	writeJSON(w, status, map[string]string{"error": msg})
}
