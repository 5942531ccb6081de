package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/callsight/internal/alerts"
	"github.com/wonny/callsight/pkg/logger"
)

const (
	alertWriteWait = 10 * time.Second
	alertPingEvery = 30 * time.Second
)

// AlertsHandler serves the flow alert feed over REST and WebSocket
type AlertsHandler struct {
	hub      *alerts.Hub
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(hub *alerts.Hub, log *logger.Logger) *AlertsHandler {
	return &AlertsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard is served from a different origin in dev
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log,
	}
}

// Recent returns the current alert feed, newest first
// GET /api/alerts
func (h *AlertsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": h.hub.Recent(),
	})
}

// Stream upgrades to WebSocket, replays the recent feed and then
// streams live alerts until the client goes away
// GET /ws/alerts
func (h *AlertsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ch, cancel := h.hub.Subscribe()
	defer cancel()

	// Replay backlog as one frame so the client renders immediately
	conn.SetWriteDeadline(time.Now().Add(alertWriteWait))
	if err := conn.WriteJSON(h.hub.Recent()); err != nil {
		return
	}

	// Reader exists only to observe the close handshake
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(alertPingEvery)
	defer ping.Stop()

	for {
		select {
		case alert, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(alertWriteWait))
			if err := conn.WriteJSON(alert); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(alertWriteWait))
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(alertWriteWait)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
