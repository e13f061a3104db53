// Package pubsub fans glossary reloads and log lines out to interested listeners.
package pubsub

import (
	"context"
	"time"
)

// EventType tags what happened to the payload.
type EventType string

const (
	// LoadedEvent is published after a glossary snapshot has been swapped in.
	LoadedEvent EventType = "loaded"
	// LoadFailedEvent is published when a load was abandoned; the previous
	// snapshot is still current.
	LoadFailedEvent EventType = "load_failed"
	// LoggedEvent carries a formatted log line.
	LoggedEvent EventType = "logged"
)

// Event is a published payload with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels scoped to a context.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes typed payloads.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
