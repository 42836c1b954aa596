// Package events implements the engine's typed publish/subscribe bus.
package events

import (
	"fmt"
	"sync"

	"expedition-engine/internal/logger"

	"go.uber.org/zap"
)

// SubscriptionID is a unique subscription handle returned by Subscribe.
type SubscriptionID string

// Handler is a type-safe event handler function.
type Handler[T any] func(event T)

type subscription struct {
	id          SubscriptionID
	eventType   string
	handlerFunc func(event any)
}

// Bus is the engine-wide event bus. All subsystems publish and subscribe
// through one Bus instance owned by the GameState.
type Bus struct {
	mutex         sync.RWMutex
	subscriptions map[SubscriptionID]*subscription
	order         []SubscriptionID // preserves subscription order per event type
	nextID        uint64
	logger        *zap.Logger
}

// NewBus creates a new empty event bus.
func NewBus() *Bus {
	return &Bus{
		subscriptions: make(map[SubscriptionID]*subscription),
		nextID:        1,
		logger:        logger.Get(),
	}
}

// Subscribe registers a type-safe handler for events of type T. Handlers
// must not mutate engine state directly — they enqueue
// reactions via internal/reaction instead.
func Subscribe[T any](b *Bus, handler Handler[T]) SubscriptionID {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	id := SubscriptionID(fmt.Sprintf("sub-%d", b.nextID))
	b.nextID++

	var zero T
	eventType := fmt.Sprintf("%T", zero)

	sub := &subscription{
		id:        id,
		eventType: eventType,
		handlerFunc: func(event any) {
			if typed, ok := event.(T); ok {
				handler(typed)
			}
		},
	}
	b.subscriptions[id] = sub
	b.order = append(b.order, id)

	b.logger.Debug("event handler subscribed",
		zap.String("subscription_id", string(id)),
		zap.String("event_type", eventType))

	return id
}

// Publish delivers event to every matching subscriber, synchronously, in
// subscription order.
func Publish[T any](b *Bus, event T) {
	b.mutex.RLock()
	eventType := fmt.Sprintf("%T", event)
	var matching []func(any)
	for _, id := range b.order {
		sub, ok := b.subscriptions[id]
		if ok && sub.eventType == eventType {
			matching = append(matching, sub.handlerFunc)
		}
	}
	b.mutex.RUnlock()

	if len(matching) == 0 {
		b.logger.Debug("no subscribers for event", zap.String("event_type", eventType))
		return
	}

	b.logger.Debug("publishing event",
		zap.String("event_type", eventType),
		zap.Int("subscriber_count", len(matching)))

	for _, handlerFunc := range matching {
		handlerFunc(event)
	}
}

// Unsubscribe removes a subscription by id.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if _, exists := b.subscriptions[id]; !exists {
		return
	}
	delete(b.subscriptions, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Clear removes all subscriptions.
func (b *Bus) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.subscriptions = make(map[SubscriptionID]*subscription)
	b.order = nil
	b.nextID = 1
}
