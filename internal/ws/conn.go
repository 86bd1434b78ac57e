package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	// A consumer that cannot accept a frame within this window is treated
	// as dead and pruned.
	writeWait = 10 * time.Second
)

// Conn is one live duplex channel belonging to exactly one user at a time.
// The registry and dispatcher operate on this interface; tests substitute
// in-memory implementations.
type Conn interface {
	// WriteJSON sends v as a single JSON message. The write is bounded by
	// a deadline so one slow consumer cannot stall the sender.
	WriteJSON(v any) error

	// Close tears down the underlying transport. Safe to call more than
	// once.
	Close() error
}

// socketConn adapts a gorilla *websocket.Conn to the Conn interface.
// gorilla connections support one concurrent writer, so all writes are
// serialized through a mutex.
type socketConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

// newSocketConn wraps an upgraded websocket connection.
func newSocketConn(ws *websocket.Conn) *socketConn {
	return &socketConn{ws: ws}
}

var _ Conn = (*socketConn)(nil)

func (c *socketConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *socketConn) Close() error {
	return c.ws.Close()
}
