package event

import (
	"slices"
	"sync"

	"github.com/dsi-erp/backend/internal/domain/shared"
)

// anyType keys the handlers subscribed to every event type
const anyType = ""

// handlerTable routes event types to handlers. Handlers subscribed to a
// specific type run before those subscribed to every type.
type handlerTable struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
}

func newHandlerTable() *handlerTable {
	return &handlerTable{byType: make(map[string][]shared.EventHandler)}
}

// add subscribes h to eventTypes, or to every type when none are given
func (t *handlerTable) add(h shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{anyType}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, et := range eventTypes {
		t.byType[et] = append(t.byType[et], h)
	}
}

func (t *handlerTable) remove(h shared.EventHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for et, hs := range t.byType {
		hs = slices.DeleteFunc(hs, func(x shared.EventHandler) bool { return x == h })
		if len(hs) == 0 {
			delete(t.byType, et)
			continue
		}
		t.byType[et] = hs
	}
}

// lookup returns a snapshot of the handlers for eventType
func (t *handlerTable) lookup(eventType string) []shared.EventHandler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Concat(t.byType[eventType], t.byType[anyType])
}

// count returns the number of distinct subscribed handlers
func (t *handlerTable) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	seen := make(map[shared.EventHandler]struct{})
	for _, hs := range t.byType {
		for _, h := range hs {
			seen[h] = struct{}{}
		}
	}
	return len(seen)
}
