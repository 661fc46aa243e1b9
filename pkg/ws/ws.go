// Package ws pushes storefront runtime events (cart changes, identity
// changes, session expiry) to connected browsers over WebSocket, built on
// gorilla/websocket.
//
// Each connection is bound to one device session; Publish fans a frame
// out to every connection of that session only, so two tabs of the same
// device stay in sync without leaking state across devices.
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/trancendwear/trancend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default — restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Frame is the wire shape of one pushed event.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Client is one connected browser tab.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// readPump drains the connection; inbound payloads are ignored, the loop
// exists to process pongs and detect closes.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			return
		}
	}
}

// writePump pumps frames from the hub to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type outbound struct {
	sessionID string
	data      []byte
}

// Hub maintains the active connections and routes frames by session.
type Hub struct {
	clients    map[*Client]bool
	frames     chan outbound
	register   chan *Client
	unregister chan *Client
	count      chan chan int
}

// NewHub creates a Hub. Call hub.Run() in a goroutine at startup.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		frames:     make(chan outbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
	}
}

// Run starts the hub event loop. Must run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Debug("ws: client connected", "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logger.Debug("ws: client disconnected", "total", len(h.clients))
			}

		case out := <-h.frames:
			for client := range h.clients {
				if client.sessionID != out.sessionID {
					continue
				}
				select {
				case client.send <- out.data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}

		case ch := <-h.count:
			ch <- len(h.clients)
		}
	}
}

// Publish queues a frame for every connection of sessionID. A full hub
// queue drops the frame; pushes are advisory, the REST surface remains
// the source of truth.
func (h *Hub) Publish(sessionID, event string, payload interface{}) {
	raw, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		logger.Warn("ws: marshal frame", "event", event, "error", err)
		return
	}
	select {
	case h.frames <- outbound{sessionID: sessionID, data: raw}:
	default:
		logger.Warn("ws: frame queue full, dropping", "event", event)
	}
}

// ClientCount returns the number of connected clients, answered by the
// Run loop. Blocks until Run is started.
func (h *Hub) ClientCount() int {
	ch := make(chan int)
	h.count <- ch
	return <-ch
}

// Upgrade turns the HTTP connection into a WebSocket bound to sessionID.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 64), sessionID: sessionID}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}
