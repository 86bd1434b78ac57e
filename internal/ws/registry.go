package ws

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks the live set of open connections, indexed both ways:
// connection to owning user (for cleanup) and user to connection set (for
// dispatch). One user may hold several simultaneous connections (multiple
// devices or tabs); each connection belongs to exactly one user.
//
// A single mutex guards both maps so no caller can observe a connection
// present in one map and absent from the other. All operations are quick
// map mutations; network I/O never happens under the lock.
type Registry struct {
	mu     sync.Mutex
	owners map[Conn]uuid.UUID
	conns  map[uuid.UUID]map[Conn]struct{}
}

// NewRegistry creates an empty connection registry. One instance is created
// at process start and shared by the dispatcher and the upgrade handler;
// there is no package-level singleton.
func NewRegistry() *Registry {
	return &Registry{
		owners: make(map[Conn]uuid.UUID),
		conns:  make(map[uuid.UUID]map[Conn]struct{}),
	}
}

// Register records the connection as belonging to the given user. Called
// exactly once per accepted connection, after authentication succeeds.
func (r *Registry) Register(conn Conn, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.owners[conn] = userID
	set, ok := r.conns[userID]
	if !ok {
		set = make(map[Conn]struct{})
		r.conns[userID] = set
	}
	set[conn] = struct{}{}
}

// Unregister removes the connection from both maps. A no-op if the
// connection was never registered or was already removed, so the
// failed-send path and the close path may both call it safely.
func (r *Registry) Unregister(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.owners[conn]
	if !ok {
		return
	}
	delete(r.owners, conn)

	set := r.conns[userID]
	delete(set, conn)
	if len(set) == 0 {
		// Never leave an empty set behind as a marker.
		delete(r.conns, userID)
	}
}

// ConnectionsFor returns a snapshot of the user's live connections, or an
// empty slice if none. Connections that close concurrently after the
// snapshot is taken are tolerated; sends against them fail and trigger
// unregistration.
func (r *Registry) ConnectionsFor(userID uuid.UUID) []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.conns[userID]
	if len(set) == 0 {
		return nil
	}
	snapshot := make([]Conn, 0, len(set))
	for conn := range set {
		snapshot = append(snapshot, conn)
	}
	return snapshot
}

// Len returns the number of live connections across all users.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owners)
}

// Close empties the registry and closes every live connection. Called once
// at server shutdown; each connection's read loop then observes the close
// and finishes.
func (r *Registry) Close() {
	r.mu.Lock()
	conns := make([]Conn, 0, len(r.owners))
	for conn := range r.owners {
		conns = append(conns, conn)
	}
	r.owners = make(map[Conn]uuid.UUID)
	r.conns = make(map[uuid.UUID]map[Conn]struct{})
	r.mu.Unlock()

	// Closing involves the transport; do it outside the lock.
	for _, conn := range conns {
		_ = conn.Close()
	}
}
