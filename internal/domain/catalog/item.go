package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/dsi-erp/backend/internal/domain/shared"
)

// Field length limits
const (
	MaxItemNameLength = 140
	MaxStockUOMLength = 40
)

// DefaultStockUOM is the unit of measure applied when none is given
const DefaultStockUOM = "Nos"

// Item is a catalog item identified by its generated item code.
// Name is the storage key. It equals ItemCode except between validation
// and the deferred rename, when ItemCode already holds the new code.
type Item struct {
	shared.BaseAggregateRoot
	Name        string
	ItemCode    string
	ItemName    string
	ItemGroup   string
	Description string
	StockUOM    string
	Disabled    bool
}

// NewItem creates an unsaved item. The code is assigned during validation.
func NewItem(itemName, itemGroup, description, stockUOM string) (*Item, error) {
	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
	if err := item.setFields(itemName, itemGroup, description, stockUOM); err != nil {
		return nil, err
	}
	return item, nil
}

// GetKey returns the storage key
func (i *Item) GetKey() string {
	return i.Name
}

// IsNew returns true if the item has not been stored yet
func (i *Item) IsNew() bool {
	return i.Name == ""
}

// AssignCode sets the item code of a new or codeless item.
// A new item takes the code as its storage key as well.
func (i *Item) AssignCode(code string) {
	i.ItemCode = code
	if i.IsNew() {
		i.Name = code
		if i.ItemName == "" {
			i.ItemName = code
		}
	}
}

// StageCode sets the item code ahead of the storage key rename
func (i *Item) StageCode(code string) {
	i.ItemCode = code
}

// HasPendingRename reports whether the item code and storage key have diverged
func (i *Item) HasPendingRename() bool {
	return !i.IsNew() && i.ItemCode != i.Name
}

// ApplyRename moves the item to its new storage key
func (i *Item) ApplyRename(oldName, newName string) {
	i.Name = newName
	i.ItemCode = newName
	i.Touch()
	i.AddDomainEvent(NewItemRenamedEvent(i, oldName, newName))
}

// Update changes the editable fields
func (i *Item) Update(itemName, itemGroup, description, stockUOM string, disabled bool) error {
	if err := i.setFields(itemName, itemGroup, description, stockUOM); err != nil {
		return err
	}
	i.Disabled = disabled
	i.Touch()
	return nil
}

// MarkCreated records the creation event once the item has a key
func (i *Item) MarkCreated() {
	i.AddDomainEvent(NewItemCreatedEvent(i))
}

// MarkUpdated records the update event
func (i *Item) MarkUpdated() {
	i.AddDomainEvent(NewItemUpdatedEvent(i))
}

// MarkDeleted records the deletion event
func (i *Item) MarkDeleted() {
	i.AddDomainEvent(NewItemDeletedEvent(i))
}

func (i *Item) setFields(itemName, itemGroup, description, stockUOM string) error {
	itemName = strings.TrimSpace(itemName)
	if utf8.RuneCountInString(itemName) > MaxItemNameLength {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 140 characters")
	}
	stockUOM = strings.TrimSpace(stockUOM)
	if stockUOM == "" {
		stockUOM = DefaultStockUOM
	}
	if utf8.RuneCountInString(stockUOM) > MaxStockUOMLength {
		return shared.NewDomainError("INVALID_UOM", "Stock UOM cannot exceed 40 characters")
	}

	i.ItemName = itemName
	i.ItemGroup = strings.TrimSpace(itemGroup)
	i.Description = description
	i.StockUOM = stockUOM
	return nil
}

// RenameCommand is produced by validation when an item's group changed and
// its storage key must move to a freshly allocated code after the save.
type RenameCommand struct {
	// Key is the storage key of the item at validation time
	Key     string
	OldCode string
	NewCode string
	// Prefix is the prefix NewCode was allocated under
	Prefix string
}
