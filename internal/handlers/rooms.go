package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

type createRoomRequest struct {
	Name string `json:"name"`
}

type joinRoomRequest struct {
	Name      string `json:"name"`
	Spectator bool   `json:"spectator"`
}

// CreateRoom creates a room in LOBBY with the caller as its first player.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	room, player, err := h.sessions.CreateRoom(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"room":   room,
		"player": player,
	})
}

// JoinRoom adds the caller to an existing room. A matching name reattaches
// the caller to its existing player record.
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	var req joinRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	room, player, err := h.sessions.Join(r.Context(), code, req.Name, req.Spectator)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"room":   room,
		"player": player,
	})
}

// RoomState returns the room with its ordered roster and derived host.
func (h *Handler) RoomState(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	room, players, err := h.sessions.Room(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newRoomResponse(room, players))
}

// Categories lists the word categories available for round setup.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.words.Categories()})
}

// ShareQR renders the room's join link as a QR code PNG. The link carries
// the room code as a query parameter; the join page uppercases it and
// pre-fills the join prompt.
func (h *Handler) ShareQR(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	if _, _, err := h.sessions.Room(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}

	link := fmt.Sprintf("%s/?join=%s", baseURL(r), code)
	png, err := encodeQR(link)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// encodeQR renders the given URL as a PNG.
func encodeQR(url string) ([]byte, error) {
	qrc, err := qrcode.NewWith(url,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
		qrcode.WithEncodingMode(qrcode.EncModeByte),
	)
	if err != nil {
		return nil, fmt.Errorf("building QR code: %w", err)
	}

	buf := &bytes.Buffer{}
	wr := standard.NewWithWriter(nopCloser{buf},
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
	)
	if err := qrc.Save(wr); err != nil {
		return nil, fmt.Errorf("rendering QR code: %w", err)
	}

	return buf.Bytes(), nil
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

// baseURL reconstructs the externally visible base URL, honoring the
// forwarding headers set by reverse proxies.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	host := r.Host
	if forwardedHost := r.Header.Get("X-Forwarded-Host"); forwardedHost != "" {
		host = forwardedHost
	}

	return fmt.Sprintf("%s://%s", scheme, host)
}
