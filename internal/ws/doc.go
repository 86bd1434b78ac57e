// Package ws implements the real-time notification layer: a registry of
// live WebSocket connections indexed by user, a dispatcher that pushes
// task-change events to selected recipients, and the authenticate-then-
// register upgrade handshake. Delivery is best-effort; connections that
// fail a send are pruned, never retried.
package ws
