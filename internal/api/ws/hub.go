package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/chatterbox/backend/internal/guard"
	"github.com/chatterbox/backend/pkg/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// sendBufferSize is the per-client outbound message buffer size.
	sendBufferSize = 256

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// Hub manages authenticated persistent connections and fans messages out to
// every connected client.
type Hub struct {
	guard            *guard.Guard
	accessCookieName string

	clients map[*Client]struct{}
	mu      sync.RWMutex
}

func NewHub(requestGuard *guard.Guard, accessCookieName string) *Hub {
	return &Hub{
		guard:            requestGuard,
		accessCookieName: accessCookieName,
		clients:          make(map[*Client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// ServeHandshake authenticates the connection handshake with the same guard
// as HTTP requests and upgrades it on success. Authentication failure rejects
// the connection before any protocol exchange.
func (h *Hub) ServeHandshake(w http.ResponseWriter, r *http.Request) {
	token, ok := guard.FromHandshake(r, h.accessCookieName)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.guard.Authenticate(r.Context(), token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		user: user,
	}

	h.register(client)

	go client.writePump()
	go client.readPump()
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	logger.Debug("websocket client connected",
		zap.String("user_id", client.user.ID.String()),
		zap.Int("clients", h.ClientCount()))
}

// unregister removes a client. Only the goroutine that actually removes the
// client from the map closes the send channel, preventing double-close panics
// during shutdown.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if existed {
		close(client.send)
	}
	logger.Debug("websocket client disconnected", zap.Int("clients", h.ClientCount()))
}

// Broadcast fans a message out to every connected client. Clients whose send
// buffer is full are skipped rather than blocking the caller.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- message:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		close(client.send)
		_ = client.conn.Close()
	}
}
