package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"impostor/internal/config"
	"impostor/internal/middleware"
)

// NewRouter wires the handler into a chi router with the standard
// middleware stack.
func NewRouter(h *Handler, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestSizeLimiter(cfg.Server.MaxRequestSize))
	r.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
	r.Use(rateLimiter.Middleware())

	// Rooms and roster
	r.Post("/rooms", h.CreateRoom)
	r.Get("/rooms/{code}", h.RoomState)
	r.Post("/rooms/{code}/join", h.JoinRoom)
	r.Post("/rooms/{code}/leave", h.LeaveRoom)
	r.Post("/rooms/{code}/kick", h.KickPlayer)
	r.Get("/rooms/{code}/qr", h.ShareQR)
	r.Get("/categories", h.Categories)

	// Phase transitions
	r.Post("/rooms/{code}/start", h.StartGame)
	r.Post("/rooms/{code}/voting", h.StartVoting)
	r.Post("/rooms/{code}/vote", h.Vote)
	r.Post("/rooms/{code}/finalize", h.FinalizeVoting)
	r.Post("/rooms/{code}/resume", h.ResumeDiscussion)
	r.Post("/rooms/{code}/return", h.ReturnToLobby)

	// Change notification
	r.Get("/sse/rooms/{code}", h.StreamRoom)

	// Health checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
