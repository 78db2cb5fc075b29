// Package realtime keeps the open inbox websockets of each user and pushes new
// messages to them.
package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Event struct {
	Type    string `json:"type"`
	Message any    `json:"message,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// gorilla connections allow one concurrent writer.
func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

type Hub struct {
	mu             sync.RWMutex
	clients        map[uint]map[*client]bool
	allowedOrigins []string
}

var DefaultHub = NewHub()

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*client]bool)}
}

func (h *Hub) AllowOrigins(origins []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.allowedOrigins = append([]string(nil), origins...)
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// Connections returns how many sockets userID currently has open.
func (h *Hub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) register(userID uint, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]bool)
	}
	h.clients[userID][c] = true
}

func (h *Hub) unregister(userID uint, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[userID]; exists {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Publish sends event to every socket of userID and returns how many
// deliveries succeeded. Sockets that fail are dropped.
func (h *Hub) Publish(userID uint, event Event) int {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range clients {
		if err := c.writeJSON(event); err != nil {
			zap.S().Warnw("dropping inbox socket after failed write", "user_id", userID, "error", err)
			h.unregister(userID, c)
			_ = c.conn.Close()
			continue
		}
		delivered++
	}
	return delivered
}

// Serve upgrades the request and blocks until the socket closes.
func (h *Hub) Serve(ctx *gin.Context, userID uint) {
	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		_ = conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.register(userID, c)

	defer func() {
		h.unregister(userID, c)
		_ = conn.Close()
		zap.S().Debugw("inbox socket closed", "user_id", userID)
	}()

	if err := c.writeJSON(Event{Type: "connected"}); err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := c.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.S().Warnw("inbox socket error", "user_id", userID, "error", err)
			}
			return
		}
	}
}
