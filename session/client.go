// Package session maintains the connection-layer bookkeeping that sits
// above the per-room actor: session and connection identity, socket-room
// membership, hole-card visibility on broadcast, per-connection rate
// limiting, and player-action idempotency across reconnect races.
package session

import (
	"time"

	"github.com/gorilla/websocket"
)

// Client is one live WebSocket connection. SessionID is durable across
// reconnects; ConnID is this specific socket and is discarded on close.
type Client struct {
	SessionID string
	ConnID    string
	RoomID    string
	Conn      *websocket.Conn
	Send      chan []byte
}

func NewClient(sessionID, connID, roomID string, conn *websocket.Conn) *Client {
	return &Client{
		SessionID: sessionID,
		ConnID:    connID,
		RoomID:    roomID,
		Conn:      conn,
		Send:      make(chan []byte, 256),
	}
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// ReadPump pumps inbound frames to handleMessage until the socket closes.
// onClose runs exactly once, from this goroutine, so the caller can drop
// the client from every index without its own locking dance.
func (c *Client) ReadPump(handleMessage func(*Client, []byte), onClose func(*Client)) {
	defer func() {
		onClose(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		handleMessage(c, data)
	}
}

// WritePump owns the only goroutine allowed to call Conn.WriteMessage,
// draining Send and keeping the connection alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue is the non-blocking send every broadcast path uses: a slow
// reader gets its connection closed rather than stalling the room.
func enqueue(c *Client, data []byte) {
	select {
	case c.Send <- data:
	default:
		close(c.Send)
	}
}
