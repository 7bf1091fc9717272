package http

import (
	"context"

	"github.com/nahanni/placekeeper/internal/core/ports"
)

// Pinger is the readiness view of whichever database handle is active;
// both pgxpool and database/sql satisfy it through small adapters in main.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EventsStatus is the readiness view of the event publisher.
type EventsStatus interface {
	IsConnected() bool
}

// Dependencies holds everything the HTTP handlers need.
type Dependencies struct {
	Places  ports.PlaceOperations
	DB      Pinger
	Events  EventsStatus
	Backend string // active spatial backend name, reported by /v1/ready
}
