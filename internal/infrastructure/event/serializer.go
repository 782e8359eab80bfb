package event

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/dsi-erp/backend/internal/domain/shared"
)

// EventSerializer encodes domain events as JSON and decodes them back into
// their concrete type by event type name.
type EventSerializer struct {
	mu    sync.RWMutex
	types map[string]func() shared.DomainEvent
}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{types: make(map[string]func() shared.DomainEvent)}
}

// Register binds eventType to the event struct E.
//
//	event.Register[catalog.ItemRenamedEvent](s, catalog.EventTypeItemRenamed)
func Register[E any, P interface {
	*E
	shared.DomainEvent
}](s *EventSerializer, eventType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[eventType] = func() shared.DomainEvent { return P(new(E)) }
}

func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	newEvent, ok := s.types[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	event := newEvent()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}

// RegisteredTypes returns the registered event type names, sorted
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
