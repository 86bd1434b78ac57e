package ws

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeConn is an in-memory Conn that records writes and closes.
type fakeConn struct {
	mu       sync.Mutex
	messages []any
	writeErr error
	closed   bool
}

var _ Conn = (*fakeConn)(nil)

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.messages = append(c.messages, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) Messages() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.messages...)
}

func (c *fakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	userID := uuid.New()
	conn1 := &fakeConn{}
	conn2 := &fakeConn{}

	registry.Register(conn1, userID)
	registry.Register(conn2, userID)

	assert.Equal(t, 2, registry.Len())
	assert.ElementsMatch(t, []Conn{conn1, conn2}, registry.ConnectionsFor(userID))
	assert.Empty(t, registry.ConnectionsFor(uuid.New()))
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()
	userID := uuid.New()
	conn1 := &fakeConn{}
	conn2 := &fakeConn{}
	registry.Register(conn1, userID)
	registry.Register(conn2, userID)

	registry.Unregister(conn1)
	assert.Equal(t, 1, registry.Len())
	assert.ElementsMatch(t, []Conn{conn2}, registry.ConnectionsFor(userID))

	registry.Unregister(conn2)
	assert.Zero(t, registry.Len())
	assert.Empty(t, registry.ConnectionsFor(userID))
}

func TestRegistryUnregisterIdempotent(t *testing.T) {
	registry := NewRegistry()
	conn := &fakeConn{}

	// Never registered.
	registry.Unregister(conn)
	assert.Zero(t, registry.Len())

	registry.Register(conn, uuid.New())
	registry.Unregister(conn)
	registry.Unregister(conn)
	assert.Zero(t, registry.Len())
}

func TestRegistryClose(t *testing.T) {
	registry := NewRegistry()
	userA := uuid.New()
	userB := uuid.New()
	connA := &fakeConn{}
	connB := &fakeConn{}
	registry.Register(connA, userA)
	registry.Register(connB, userB)

	registry.Close()

	assert.Zero(t, registry.Len())
	assert.True(t, connA.Closed())
	assert.True(t, connB.Closed())
	assert.Empty(t, registry.ConnectionsFor(userA))
	assert.Empty(t, registry.ConnectionsFor(userB))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := &fakeConn{}
			registry.Register(conn, userID)
			registry.ConnectionsFor(userID)
			registry.Unregister(conn)
		}()
	}
	wg.Wait()

	assert.Zero(t, registry.Len())
}
