package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := &Client{ID: uuid.New(), Hub: hub, Conn: c, Send: make(chan []byte, 256)}
	if !hub.add(client) {
		_ = c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
