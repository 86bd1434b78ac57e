package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/platform/logger"
)

// Dispatcher pushes events to the live connections of selected recipients.
// Delivery is best-effort and fire-and-forget: the mutation that produced
// the event has already been committed, so send failures are never
// surfaced to the caller. A connection that fails a send is pruned from
// the registry on the spot; there is no separate heartbeat.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher over the given registry.
func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		logger:   logger.With(slog.String("component", "dispatcher")),
	}
}

// Broadcast delivers the event to every live connection of every recipient.
// Each connection is written on its own goroutine with a bounded write
// deadline, so one unresponsive consumer cannot stall delivery to an
// independent connection. Broadcast returns once every send has either
// completed or failed; per-connection failures are logged and resolved by
// unregistering the dead connection.
//
// No ordering is guaranteed across recipients or events; per-connection
// send order follows submission order as far as the transport preserves it.
func (d *Dispatcher) Broadcast(ctx context.Context, recipients []uuid.UUID, event any) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	var wg sync.WaitGroup
	for _, userID := range recipients {
		// Snapshot under the registry lock; the sends below happen outside it.
		for _, conn := range d.registry.ConnectionsFor(userID) {
			wg.Add(1)
			go func(userID uuid.UUID, conn Conn) {
				defer wg.Done()
				if err := conn.WriteJSON(event); err != nil {
					// Dead or unresponsive consumer: drop it. The client
					// is expected to reconnect and re-authenticate.
					log.Debug("failed to send event, pruning connection",
						"error", err,
						"user_id", userID)
					d.registry.Unregister(conn)
					_ = conn.Close()
				}
			}(userID, conn)
		}
	}
	wg.Wait()
}
