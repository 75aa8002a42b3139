package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeRunStarted   MessageType = "RUN_STARTED"
	MessageTypeRowResult    MessageType = "ROW_RESULT"
	MessageTypeRunCompleted MessageType = "RUN_COMPLETED"
	MessageTypeRunFailed    MessageType = "RUN_FAILED"
	MessageTypeError        MessageType = "ERROR"
)

// Message is one import progress event pushed to subscribed clients.
type Message struct {
	Type      MessageType `json:"type"`
	RunID     string      `json:"runId,omitempty"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type Client struct {
	ID   uuid.UUID
	Conn *websocket.Conn
	Hub  *Hub
	Send chan Message

	mu   sync.RWMutex
	runs map[string]bool
}

// Subscribe registers interest in one import run's events.
func (c *Client) Subscribe(runID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs[runID] = true
}

func (c *Client) Unsubscribe(runID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.runs, runID)
}

func (c *Client) subscribedTo(runID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runs[runID]
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's event loop; start it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				// Run-scoped messages only go to clients watching that run.
				if message.RunID != "" && !client.subscribedTo(message.RunID) {
					continue
				}
				select {
				case client.Send <- message:
				default:
					// Slow consumer: drop it rather than stall the loop.
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastRunEvent publishes an import run event to subscribed clients.
// Never blocks the caller: if the hub's buffer is full the event is dropped.
func (h *Hub) BroadcastRunEvent(msgType MessageType, runID string, payload interface{}) {
	msg := Message{
		Type:      msgType,
		RunID:     runID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}
