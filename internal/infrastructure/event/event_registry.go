package event

import (
	"github.com/dsi-erp/backend/internal/domain/catalog"
)

// CatalogEventTypes lists the event types raised by the catalog aggregates
var CatalogEventTypes = []string{
	catalog.EventTypeItemCreated,
	catalog.EventTypeItemUpdated,
	catalog.EventTypeItemRenamed,
	catalog.EventTypeItemDeleted,
	catalog.EventTypeItemGroupCreated,
	catalog.EventTypeItemGroupDeleted,
}

// RegisterCatalogEvents makes the catalog events decodable by s
func RegisterCatalogEvents(s *EventSerializer) {
	Register[catalog.ItemCreatedEvent](s, catalog.EventTypeItemCreated)
	Register[catalog.ItemUpdatedEvent](s, catalog.EventTypeItemUpdated)
	Register[catalog.ItemRenamedEvent](s, catalog.EventTypeItemRenamed)
	Register[catalog.ItemDeletedEvent](s, catalog.EventTypeItemDeleted)
	Register[catalog.ItemGroupCreatedEvent](s, catalog.EventTypeItemGroupCreated)
	Register[catalog.ItemGroupDeletedEvent](s, catalog.EventTypeItemGroupDeleted)
}
