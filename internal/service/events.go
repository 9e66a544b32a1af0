package service

import (
	"sync"

	"vantage/internal/domain"
)

// EventType defines the type of event
type EventType string

const (
	EventPrimaryAction   EventType = "primary_action"
	EventDataExported    EventType = "data_exported"
	EventCatalogReloaded EventType = "catalog_reloaded"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// CatalogReload is the payload of EventCatalogReloaded
type CatalogReload struct {
	Domains        int `json:"domains"`
	DedicatedViews int `json:"dedicated_views"`
}

// DomainID returns the domain an event concerns, or "" for catalog-wide events
func (e Event) DomainID() string {
	switch p := e.Payload.(type) {
	case domain.ActionEvent:
		return p.DomainID
	case *domain.ActionEvent:
		if p != nil {
			return p.DomainID
		}
	}
	return ""
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Unsubscribe removes a subscriber. The channel is not closed.
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
