package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Event types published by the profile container and the keyed local store.
// The string values match the notification names front-end listeners expect.
const (
	// EventProfileDataReady fires once per successful profile load. No payload.
	EventProfileDataReady EventType = "profile-data-ready"

	// EventStorageChanged fires on every keyed local store write.
	EventStorageChanged EventType = "storage-changed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventID returns the unique identifier of this occurrence.
	EventID() string

	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventID implements Event interface.
func (e BaseEvent) EventID() string {
	return e.ID
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event stamped with the given time.
func NewBaseEvent(eventType EventType, aggregateID string, at time.Time) BaseEvent {
	return BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   at,
		AggregateId: aggregateID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Profile Events
// ═══════════════════════════════════════════════════════════════════════════

// ProfileDataReadyEvent is emitted after the profile container finished a load.
type ProfileDataReadyEvent struct {
	BaseEvent
}

// Payload implements Event interface. The event carries no data.
func (e ProfileDataReadyEvent) Payload() map[string]interface{} {
	return map[string]interface{}{}
}

// NewProfileDataReadyEvent creates a new ProfileDataReadyEvent.
func NewProfileDataReadyEvent(studentID string, at time.Time) ProfileDataReadyEvent {
	return ProfileDataReadyEvent{
		BaseEvent: NewBaseEvent(EventProfileDataReady, studentID, at),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Storage Events
// ═══════════════════════════════════════════════════════════════════════════

// StorageChangedEvent is emitted when a keyed local store entry is written.
type StorageChangedEvent struct {
	BaseEvent
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Payload implements Event interface. Timestamp is Unix milliseconds.
func (e StorageChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"key":       e.Key,
		"value":     e.Value,
		"timestamp": e.Timestamp.UnixMilli(),
	}
}

// NewStorageChangedEvent creates a new StorageChangedEvent.
func NewStorageChangedEvent(key, value string, at time.Time) StorageChangedEvent {
	return StorageChangedEvent{
		BaseEvent: NewBaseEvent(EventStorageChanged, key, at),
		Key:       key,
		Value:     value,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Bus contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(Event) error { return nil }
