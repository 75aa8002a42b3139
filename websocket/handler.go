package websocket

import (
	"encoding/json"
	"time"

	"inventory-gateway-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type WsHandler struct {
	hub *Hub
}

func NewWsHandler(hub *Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

// clientCommand is what connected clients may send: subscribe/unsubscribe to
// an import run's progress events.
type clientCommand struct {
	Action string `json:"action"`
	RunID  string `json:"runId"`
}

// HandleWebSocket upgrades the connection and services it until closed.
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	// ?run=<id> subscribes immediately, before the first read.
	initialRun := c.Query("run")

	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:   uuid.New(),
			Conn: conn,
			Hub:  h.hub,
			Send: make(chan Message, 64),
			runs: make(map[string]bool),
		}
		if initialRun != "" {
			client.Subscribe(initialRun)
		}

		h.hub.register <- client
		defer func() {
			h.hub.unregister <- client
			conn.Close()
		}()

		go h.writePump(client)
		h.readPump(client)
	})(c)
}

func (h *WsHandler) readPump(client *Client) {
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Logger.Debug("Websocket closed unexpectedly", zap.Error(err))
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}

		switch cmd.Action {
		case "subscribe":
			if cmd.RunID != "" {
				client.Subscribe(cmd.RunID)
			}
		case "unsubscribe":
			client.Unsubscribe(cmd.RunID)
		}
	}
}

func (h *WsHandler) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
