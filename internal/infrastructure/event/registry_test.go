package event

import (
	"testing"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
)

func TestHandlerTable_Lookup(t *testing.T) {
	table := newHandlerTable()
	typed := newTestHandler(catalog.EventTypeItemCreated, catalog.EventTypeItemRenamed)
	wildcard := newTestHandler()

	table.add(typed, typed.EventTypes()...)
	table.add(wildcard)

	handlers := table.lookup(catalog.EventTypeItemRenamed)
	if assert.Len(t, handlers, 2) {
		assert.Same(t, typed, handlers[0])
		assert.Same(t, wildcard, handlers[1])
	}

	handlers = table.lookup(catalog.EventTypeItemDeleted)
	if assert.Len(t, handlers, 1) {
		assert.Same(t, wildcard, handlers[0])
	}

	assert.Equal(t, 2, table.count())
}

func TestHandlerTable_LookupIsASnapshot(t *testing.T) {
	table := newHandlerTable()
	first := newTestHandler()
	table.add(first, catalog.EventTypeItemCreated)

	handlers := table.lookup(catalog.EventTypeItemCreated)
	table.add(newTestHandler(), catalog.EventTypeItemCreated)

	assert.Len(t, handlers, 1)
	assert.Len(t, table.lookup(catalog.EventTypeItemCreated), 2)
}

func TestHandlerTable_Remove(t *testing.T) {
	table := newHandlerTable()
	first := newTestHandler(catalog.EventTypeItemCreated)
	second := newTestHandler(catalog.EventTypeItemCreated)
	wildcard := newTestHandler()

	table.add(first, catalog.EventTypeItemCreated)
	table.add(second, catalog.EventTypeItemCreated)
	table.add(wildcard)

	table.remove(first)
	table.remove(wildcard)

	handlers := table.lookup(catalog.EventTypeItemCreated)
	if assert.Len(t, handlers, 1) {
		assert.Same(t, second, handlers[0])
	}

	table.remove(second)
	assert.Empty(t, table.lookup(catalog.EventTypeItemCreated))
	assert.Zero(t, table.count())
}
