package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeUserCreated        EventType = "user_created"
	EventTypeTransferCompleted  EventType = "transfer_completed"
	EventTypeDailyCreditApplied EventType = "daily_credit_applied"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// UserCreatedEvent represents a user registering for the first time
type UserCreatedEvent struct {
	UserID      int64
	DisplayName string
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// TransferCompletedEvent represents a committed transfer. Subscribers
// use it for best-effort recipient notification; delivery failure never
// affects the transfer itself.
type TransferCompletedEvent struct {
	FromUserID     int64
	FromName       string
	ToUserID       int64
	ToName         string
	Amount         int64
	NewFromBalance int64
}

func (e TransferCompletedEvent) Type() EventType {
	return EventTypeTransferCompleted
}

// DailyCreditAppliedEvent represents a completed daily credit run
type DailyCreditAppliedEvent struct {
	RunDate       time.Time
	Amount        int64
	UsersCredited int
}

func (e DailyCreditAppliedEvent) Type() EventType {
	return EventTypeDailyCreditApplied
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously and a panicking handler never takes the bus down.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus holds events pending until the unit of work commits.
// Flush forwards them to the real bus; Discard drops them on rollback,
// so observers never hear about mutations that were rolled back.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a commit-coupled bus over the real one
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes an event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events after a successful commit. Events
// outlive the transaction context that produced them, so delivery runs
// on a fresh context.
func (b *TransactionalBus) Flush() {
	ctx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(ctx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
