package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type startGameRequest struct {
	Category string `json:"category"`
}

type voteRequest struct {
	TargetID string `json:"target_id"`
}

type kickRequest struct {
	TargetID string `json:"target_id"`
}

// StartGame begins a round in the caller's room.
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	var req startGameRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	room, err := h.sessions.StartGame(r.Context(), actorID(r), code, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"room": room})
}

// StartVoting moves the room from discussion into voting.
func (h *Handler) StartVoting(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	if err := h.sessions.StartVoting(r.Context(), actorID(r), code); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Vote records the caller's vote. When that vote completes the round the
// resolution is returned too.
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.sessions.CastVote(r.Context(), actorID(r), req.TargetID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]any{"recorded": true}
	if result != nil {
		resp["result"] = result
	}
	writeJSON(w, http.StatusOK, resp)
}

// FinalizeVoting resolves a completed vote. Safe to call at any time: when
// the room is not voting, or votes are still outstanding, nothing happens.
func (h *Handler) FinalizeVoting(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	result, err := h.sessions.FinalizeVoting(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]any{"finalized": result != nil}
	if result != nil {
		resp["result"] = result
	}
	writeJSON(w, http.StatusOK, resp)
}

// ResumeDiscussion aborts the current vote and returns to discussion.
func (h *Handler) ResumeDiscussion(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	if err := h.sessions.ResumeDiscussion(r.Context(), actorID(r), code); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReturnToLobby resets a finished room for another game.
func (h *Handler) ReturnToLobby(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	if err := h.sessions.ReturnToLobby(r.Context(), actorID(r), code); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LeaveRoom removes the caller from its room.
func (h *Handler) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Leave(r.Context(), actorID(r)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// KickPlayer removes another player from the room. Host only.
func (h *Handler) KickPlayer(w http.ResponseWriter, r *http.Request) {
	var req kickRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.sessions.Kick(r.Context(), actorID(r), req.TargetID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
