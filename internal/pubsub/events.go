// Package pubsub provides a small typed publish/subscribe broker used to
// announce caret, mode and search state changes to interested listeners.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	SelectionToggledEvent EventType = "selection_toggled"
	SelectionDroppedEvent EventType = "selection_dropped"
	ModeEnteredEvent      EventType = "mode_entered"
	ModeLeftEvent         EventType = "mode_left"
	SearchResultEvent     EventType = "search_result"
	DocumentLoadedEvent   EventType = "document_loaded"
	LogEntryEvent         EventType = "log_entry"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T) int
}
