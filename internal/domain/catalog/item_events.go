package catalog

import "github.com/dsi-erp/backend/internal/domain/shared"

// Aggregate type constants
const (
	AggregateTypeItem      = "Item"
	AggregateTypeItemGroup = "ItemGroup"
)

// Event type constants
const (
	EventTypeItemCreated      = "ItemCreated"
	EventTypeItemUpdated      = "ItemUpdated"
	EventTypeItemRenamed      = "ItemRenamed"
	EventTypeItemDeleted      = "ItemDeleted"
	EventTypeItemGroupCreated = "ItemGroupCreated"
	EventTypeItemGroupDeleted = "ItemGroupDeleted"
)

// ItemCreatedEvent is published when a new item is stored
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemCode  string `json:"item_code"`
	ItemName  string `json:"item_name"`
	ItemGroup string `json:"item_group"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, item.Name),
		ItemCode:        item.ItemCode,
		ItemName:        item.ItemName,
		ItemGroup:       item.ItemGroup,
	}
}

// ItemUpdatedEvent is published when an item is saved
type ItemUpdatedEvent struct {
	shared.BaseDomainEvent
	ItemCode  string `json:"item_code"`
	ItemName  string `json:"item_name"`
	ItemGroup string `json:"item_group"`
	Disabled  bool   `json:"disabled"`
}

// NewItemUpdatedEvent creates a new ItemUpdatedEvent
func NewItemUpdatedEvent(item *Item) *ItemUpdatedEvent {
	return &ItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemUpdated, AggregateTypeItem, item.Name),
		ItemCode:        item.ItemCode,
		ItemName:        item.ItemName,
		ItemGroup:       item.ItemGroup,
		Disabled:        item.Disabled,
	}
}

// ItemRenamedEvent is published when an item moves to a new code
type ItemRenamedEvent struct {
	shared.BaseDomainEvent
	OldCode   string `json:"old_code"`
	NewCode   string `json:"new_code"`
	ItemGroup string `json:"item_group"`
}

// NewItemRenamedEvent creates a new ItemRenamedEvent
func NewItemRenamedEvent(item *Item, oldCode, newCode string) *ItemRenamedEvent {
	return &ItemRenamedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemRenamed, AggregateTypeItem, newCode),
		OldCode:         oldCode,
		NewCode:         newCode,
		ItemGroup:       item.ItemGroup,
	}
}

// ItemDeletedEvent is published when an item is deleted and its code released
type ItemDeletedEvent struct {
	shared.BaseDomainEvent
	ItemCode string `json:"item_code"`
}

// NewItemDeletedEvent creates a new ItemDeletedEvent
func NewItemDeletedEvent(item *Item) *ItemDeletedEvent {
	return &ItemDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemDeleted, AggregateTypeItem, item.Name),
		ItemCode:        item.ItemCode,
	}
}

// ItemGroupCreatedEvent is published when an item group is created
type ItemGroupCreatedEvent struct {
	shared.BaseDomainEvent
	Name            string `json:"name"`
	ParentItemGroup string `json:"parent_item_group,omitempty"`
}

// NewItemGroupCreatedEvent creates a new ItemGroupCreatedEvent
func NewItemGroupCreatedEvent(group *ItemGroup) *ItemGroupCreatedEvent {
	return &ItemGroupCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemGroupCreated, AggregateTypeItemGroup, group.Name),
		Name:            group.Name,
		ParentItemGroup: group.ParentItemGroup,
	}
}

// ItemGroupDeletedEvent is published when an item group is deleted
type ItemGroupDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewItemGroupDeletedEvent creates a new ItemGroupDeletedEvent
func NewItemGroupDeletedEvent(group *ItemGroup) *ItemGroupDeletedEvent {
	return &ItemGroupDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemGroupDeleted, AggregateTypeItemGroup, group.Name),
		Name:            group.Name,
	}
}
