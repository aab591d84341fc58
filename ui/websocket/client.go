package websocket

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const sendBuffer = 64

// Client is one websocket connection. Writes go through a buffered
// channel drained by a single writer goroutine so the hub never blocks
// on a slow consumer.
type Client struct {
	ID   string
	conn *websocket.Conn

	mu     sync.RWMutex
	closed bool
	send   chan Envelope
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan Envelope, sendBuffer),
	}
}

// enqueue hands the frame to the writer. A full buffer drops the frame;
// the consumer is too slow to keep realtime traffic meaningful anyway.
func (c *Client) enqueue(env Envelope) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.send <- env:
	default:
		logrus.Warnf("[WS] Client %s send buffer full, dropping %s", c.ID, env.Event)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writeLoop drains the send channel onto the wire. It exits when close
// is called, then tears the connection down.
func (c *Client) writeLoop() {
	for env := range c.send {
		if err := c.conn.WriteJSON(env); err != nil {
			logrus.Debugf("[WS] Client %s write failed: %v", c.ID, err)
			break
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
	_ = c.conn.Close()
}
