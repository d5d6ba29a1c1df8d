package ws

import (
	"time"

	"github.com/chatterbox/backend/internal/domain"
	"github.com/chatterbox/backend/pkg/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one authenticated persistent connection. The user attached at
// handshake time is the principal for everything sent over the connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	user *domain.User
}

// User returns the principal authenticated at handshake time.
func (c *Client) User() *domain.User {
	return c.user
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", zap.Error(err))
			} else {
				logger.Debug("websocket closed", zap.Error(err))
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		c.hub.Broadcast(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			//nolint:errcheck // Best-effort deadline before write
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline before write
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
