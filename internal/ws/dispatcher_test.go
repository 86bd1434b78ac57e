package ws

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversToRecipientsOnly(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, nil)

	reader := uuid.New()
	bystander := uuid.New()
	readerConn := &fakeConn{}
	bystanderConn := &fakeConn{}
	registry.Register(readerConn, reader)
	registry.Register(bystanderConn, bystander)

	event := NewTaskUpdated(map[string]string{"title": "Write report"})
	dispatcher.Broadcast(context.Background(), []uuid.UUID{reader}, event)

	require.Len(t, readerConn.Messages(), 1)
	assert.Equal(t, event, readerConn.Messages()[0])
	assert.Empty(t, bystanderConn.Messages())
}

func TestBroadcastAllConnectionsOfUser(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, nil)

	userID := uuid.New()
	laptop := &fakeConn{}
	phone := &fakeConn{}
	registry.Register(laptop, userID)
	registry.Register(phone, userID)

	event := NewTaskDeleted(uuid.New())
	dispatcher.Broadcast(context.Background(), []uuid.UUID{userID}, event)

	assert.Len(t, laptop.Messages(), 1)
	assert.Len(t, phone.Messages(), 1)
}

func TestBroadcastPrunesFailedConnection(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, nil)

	userID := uuid.New()
	dead := &fakeConn{writeErr: errors.New("broken pipe")}
	live := &fakeConn{}
	registry.Register(dead, userID)
	registry.Register(live, userID)

	dispatcher.Broadcast(context.Background(), []uuid.UUID{userID}, NewTaskDeleted(uuid.New()))

	// The failed connection is unregistered and closed; the healthy one
	// stays registered and received the event.
	assert.True(t, dead.Closed())
	assert.Equal(t, 1, registry.Len())
	assert.ElementsMatch(t, []Conn{live}, registry.ConnectionsFor(userID))
	assert.Len(t, live.Messages(), 1)
}

func TestBroadcastNoRecipients(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, nil)

	conn := &fakeConn{}
	registry.Register(conn, uuid.New())

	dispatcher.Broadcast(context.Background(), nil, NewTaskDeleted(uuid.New()))
	dispatcher.Broadcast(context.Background(), []uuid.UUID{uuid.New()}, NewTaskDeleted(uuid.New()))

	assert.Empty(t, conn.Messages())
}

func TestNewDispatcherNilRegistry(t *testing.T) {
	assert.Panics(t, func() {
		NewDispatcher(nil, nil)
	})
}
