// Package realtime pushes table-change notifications to a trainer's
// connected clients. The contract is invalidate-and-reload: an event only
// says which table changed, and receivers refetch.
package realtime

import (
	"encoding/json"
	"log"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
)

type Event struct {
	Table     string `json:"table"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

type envelope struct {
	trainerID int64
	event     Event
}

type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     chan envelope
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	trainerID int64
	send      chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan envelope, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, trainerID int64) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		trainerID: trainerID,
		send:      make(chan []byte, 32),
	}
}

// Publish queues a change notification for every connection of the trainer.
// Safe to call from any goroutine; drops the event if the hub queue is full
// rather than blocking a mutation path.
func (h *Hub) Publish(trainerID int64, table, action string) {
	event := Event{
		Table:     table,
		Action:    action,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	select {
	case h.events <- envelope{trainerID: trainerID, event: event}:
	default:
		log.Printf("realtime: dropping %s/%s event for trainer %d, queue full", table, action, trainerID)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.trainerID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.trainerID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.trainerID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.trainerID)
			}
		case env := <-h.events:
			set, ok := h.clients[env.trainerID]
			if !ok {
				continue
			}
			payload, err := json.Marshal(env.event)
			if err != nil {
				log.Printf("realtime: marshal event: %v", err)
				continue
			}
			for client := range set {
				select {
				case client.send <- payload:
				default:
					// Slow consumer; it will refetch on reconnect.
					delete(set, client)
					close(client.send)
				}
			}
		}
	}
}

// Serve pumps events to one websocket connection until it closes. Incoming
// frames are read and discarded; the stream is one-way.
func (c *Client) Serve() {
	c.hub.register <- c

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.hub.unregister <- c
				return
			}
		case <-done:
			c.hub.unregister <- c
			return
		}
	}
}
