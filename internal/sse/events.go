// Package sse implements Server-Sent Events for real-time storefront updates and event broadcasting.
package sse

import (
	"time"

	"github.com/suncrest/suncrest-server/internal/domain"
)

// We use SSE for server-to-client communication only. Chat sends go through
// a plain POST endpoint and come back out over the stream, so a single
// SSE connection covers settings pushes, notifications, and chat delivery.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventConfigChanged signals that the site configuration was saved or
	// reset. Storefronts re-fetch settings and the theme stylesheet.
	EventConfigChanged EventType = "config.changed"

	// EventChatMessage represents a delivered chat message.
	// Delivered to the conversation's customer and to all admins.
	EventChatMessage EventType = "chat.message"

	// EventNotificationCreated represents a new admin notification.
	// Only sent to admin users.
	EventNotificationCreated EventType = "notification.created"

	// EventProductCreated represents a product creation event.
	EventProductCreated EventType = "product.created"
	// EventProductUpdated represents a product update event.
	EventProductUpdated EventType = "product.updated"
	// EventProductDeleted represents a product deletion event.
	EventProductDeleted EventType = "product.deleted"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"` // Event-specific data as JSON object
	Type      EventType `json:"type"`

	// Filtering field for multi-user support. When set, the event is only
	// delivered to the matching user (admins receive it as well).
	// Empty string means "broadcast to all".
	UserID string `json:"-"` // Filter to specific user (not sent to client)
}

// ConfigChangedEventData is the data payload for config.changed events.
// Generation increases monotonically with every accepted save or reset so
// clients can discard stale pushes that arrive out of order.
type ConfigChangedEventData struct {
	ChangedAt  time.Time `json:"changed_at"`
	Generation uint64    `json:"generation"`
}

// ChatMessageEventData is the data payload for chat.message events.
// Carries the full message so clients can render without another fetch;
// the message ID doubles as the client-side dedupe key.
type ChatMessageEventData struct {
	Message *domain.ChatMessage `json:"message"`
}

// NotificationEventData is the data payload for notification.created events.
type NotificationEventData struct {
	Notification *domain.Notification `json:"notification"`
}

// ProductEventData is the data payload for product events.
type ProductEventData struct {
	Product *domain.Product `json:"product"`
}

// ProductDeletedEventData is the data payload for product delete events.
type ProductDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	ProductID string    `json:"product_id"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewConfigChangedEvent creates a config.changed event.
func NewConfigChangedEvent(generation uint64) Event {
	return Event{
		Type: EventConfigChanged,
		Data: ConfigChangedEventData{
			Generation: generation,
			ChangedAt:  time.Now(),
		},
		Timestamp: time.Now(),
	}
}

// NewChatMessageEvent creates a chat.message event targeted at the
// conversation's customer. Admins receive it regardless of the target.
func NewChatMessageEvent(msg *domain.ChatMessage) Event {
	return Event{
		Type:      EventChatMessage,
		Data:      ChatMessageEventData{Message: msg},
		Timestamp: time.Now(),
		UserID:    msg.ConversationID,
	}
}

// NewNotificationCreatedEvent creates a notification.created event for admin users.
func NewNotificationCreatedEvent(n *domain.Notification) Event {
	return Event{
		Type:      EventNotificationCreated,
		Data:      NotificationEventData{Notification: n},
		Timestamp: time.Now(),
	}
}

// NewProductCreatedEvent creates a product.created event.
func NewProductCreatedEvent(p *domain.Product) Event {
	return Event{
		Type:      EventProductCreated,
		Data:      ProductEventData{Product: p},
		Timestamp: time.Now(),
	}
}

// NewProductUpdatedEvent creates a product.updated event.
func NewProductUpdatedEvent(p *domain.Product) Event {
	return Event{
		Type:      EventProductUpdated,
		Data:      ProductEventData{Product: p},
		Timestamp: time.Now(),
	}
}

// NewProductDeletedEvent creates a product.deleted event.
func NewProductDeletedEvent(productID string, deletedAt time.Time) Event {
	return Event{
		Type: EventProductDeleted,
		Data: ProductDeletedEventData{
			ProductID: productID,
			DeletedAt: deletedAt,
		},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
