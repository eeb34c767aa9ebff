package session

import (
	"sync"
	"time"

	"github.com/principality/principality-server-go/internal/game"
)

// EventType indicates what happened to a game.
type EventType string

const (
	EventGameCreated  EventType = "GAME_CREATED"
	EventMoveApplied  EventType = "MOVE_APPLIED"
	EventMoveRejected EventType = "MOVE_REJECTED"
	EventGameFinished EventType = "GAME_FINISHED"
	EventGameReset    EventType = "GAME_RESET"
	EventGameDeleted  EventType = "GAME_DELETED"
)

// Event is published by the Manager after each game lifecycle change.
type Event struct {
	Type      EventType
	GameID    string
	Move      *game.Move
	Player    int    // seat that submitted the move
	Turn      int    // turn number after the move
	Reason    string // rejection reason or game-over reason
	Scores    []int
	Timestamp time.Time
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, gameID string) Event {
	return Event{
		Type:      eventType,
		GameID:    gameID,
		Timestamp: time.Now(),
	}
}

// Listener reacts to events.
type Listener func(Event)

type typedListener struct {
	handle    int
	eventType EventType
	callback  Listener
}

// EventBus is a synchronous publish/subscribe hub with optional filtering by
// event type.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]typedListener
	nextHandle     int
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]typedListener),
	}
}

// Subscribe registers a listener for every event and returns its handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback Listener) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], typedListener{
		handle:    handle,
		eventType: eventType,
		callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers event to all matching listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.callback(event)
	}
}
