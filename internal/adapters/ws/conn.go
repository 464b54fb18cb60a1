// Package ws adapts gorilla websocket connections to the hub's transport
// contract.
package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/junnushon/voice-chat/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Socket is an indirection over *websocket.Conn to ease testing.
type Socket interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	WriteControl(mt int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	Close() error
}

// Conn is one member's websocket endpoint. It implements core.Conn: sends
// are queued on a buffered channel and a full buffer means the peer is
// too slow, so the frame is dropped instead of blocking the fan-out.
type Conn struct {
	sock        Socket
	send        chan core.Frame
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

func NewConn(sock Socket, buffer int, sendTimeout time.Duration) *Conn {
	return &Conn{
		sock:        sock,
		send:        make(chan core.Frame, buffer),
		sendTimeout: sendTimeout,
	}
}

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
	_ = c.sock.Close()
}

// writeLoop pumps queued frames to the network with a per-write deadline,
// so one dead peer cannot hold the pump.
func (c *Conn) writeLoop() {
	defer c.Close()
	for data := range c.send {
		_ = c.sock.SetWriteDeadline(time.Now().Add(c.sendTimeout))
		if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// refuse reports a join failure to the peer as a close frame and drops
// the socket.
func refuse(sock Socket, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = sock.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = sock.Close()
}
