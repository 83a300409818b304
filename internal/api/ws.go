package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/taskhive/taskhive/internal/realtime"
)

// wsHandler upgrades /api/tasks/events connections and hands them to
// the realtime hub.
type wsHandler struct {
	hub     *realtime.Hub
	origins []string
	logger  *slog.Logger
}

// events streams the user's task changes over WebSocket. Browsers
// cannot set Authorization headers on WebSocket requests, so the auth
// middleware also accepts a token query parameter here.
func (h *wsHandler) events(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	originSet := make(map[string]struct{}, len(h.origins))
	for _, o := range h.origins {
		originSet[o] = struct{}{}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser clients send no Origin header.
				return true
			}
			_, allowed := originSet[origin]
			return allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	h.hub.ServeConn(conn, userID)
}
