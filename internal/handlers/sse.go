package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	datastar "github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"impostor/internal/game"
)

// StreamRoom streams room and roster snapshots over SSE. The initial state
// is sent immediately; afterwards every mutation in the room pushes a fresh
// snapshot. The connection closes when the client goes away or the room is
// deleted.
func (h *Handler) StreamRoom(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	room, players, err := h.sessions.Room(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	sse := datastar.NewSSE(w, r)

	// Bus callbacks only nudge the loop; the loop re-reads the store so a
	// snapshot always pairs a room with its matching roster.
	changed := make(chan struct{}, 1)
	nudge := func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	unsubscribe := h.bus.Subscribe(code,
		func(*game.Room) { nudge() },
		func([]*game.Player) { nudge() },
	)
	defer unsubscribe()

	if err := h.patchSnapshot(sse, newRoomResponse(room, players)); err != nil {
		zap.L().Warn("sending initial snapshot", zap.String("room", code), zap.Error(err))
		return
	}

	// The heartbeat doubles as liveness check: when the janitor expires the
	// room, subscribers find out here and disconnect.
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-changed:
			room, players, err := h.sessions.Room(r.Context(), code)
			if err != nil {
				zap.L().Info("room gone, closing stream", zap.String("room", code))
				return
			}
			if err := h.patchSnapshot(sse, newRoomResponse(room, players)); err != nil {
				zap.L().Debug("sse send failed", zap.String("room", code), zap.Error(err))
				return
			}
		case <-heartbeat.C:
			if _, _, err := h.sessions.Room(r.Context(), code); err != nil {
				zap.L().Info("room gone, closing stream", zap.String("room", code))
				return
			}
		}
	}
}

func (h *Handler) patchSnapshot(sse *datastar.ServerSentEventGenerator, snap roomResponse) error {
	return sse.MarshalAndPatchSignals(map[string]any{
		"room":    snap.Room,
		"players": snap.Players,
		"hostId":  snap.HostID,
	})
}
