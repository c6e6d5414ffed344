package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "adstream/internal/infrastructure/websocket"
	"adstream/pkg/errors"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
}

var (
	websocketHandler *WebSocketHandler

	upgrader = gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // restrict in production
		},
	}
)

func SetupWebSocketHandler(wsManager *ws.Manager) {
	websocketHandler = &WebSocketHandler{wsManager: wsManager}
}

func GetWebSocketHandler() *WebSocketHandler {
	return websocketHandler
}

// HandleWebSocket upgrades the connection and starts the client pumps.
// Auth has already run; the uid set by the middleware names the client.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	// The request context dies when this handler returns, but the
	// connection outlives it.
	go client.ReadPump(context.Background(), h.wsManager)
	go client.WritePump()

	return nil
}
