package handler

import (
	"rocktalk-be/internal/pkg/logger"
	internalWS "rocktalk-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// EventHandler upgrades browser connections to the live event feed.
type EventHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewEventHandler(hub *internalWS.Hub, log logger.ILogger) *EventHandler {
	return &EventHandler{
		hub:    hub,
		logger: log,
	}
}

// RegisterRoutes mounts GET /ws. Authentication, when enabled, accepts the
// token from the "token" query parameter.
func (h *EventHandler) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	r.Get("/ws", jwtMiddleware, h.ServeWs)
}

func (h *EventHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("EVENTS", "WebSocket session started", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		internalWS.ServeWs(h.hub, conn)
		h.logger.Info("EVENTS", "WebSocket session ended", map[string]interface{}{"remote": conn.RemoteAddr().String()})
	})(c)
}
