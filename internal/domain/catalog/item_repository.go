package catalog

import (
	"context"

	"github.com/dsi-erp/backend/internal/domain/shared"
)

// ItemFilter narrows item listings
type ItemFilter struct {
	shared.Filter
	ItemGroup string
}

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByName finds an item by its storage key
	FindByName(ctx context.Context, name string) (*Item, error)

	// FindAll finds all items matching the filter
	FindAll(ctx context.Context, filter ItemFilter) ([]Item, error)

	// Count counts items matching the filter
	Count(ctx context.Context, filter ItemFilter) (int64, error)

	// ExistsByName checks if an item with the given storage key exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsInGroup checks if any item belongs to the group
	ExistsInGroup(ctx context.Context, group string) (bool, error)

	// FindCodesWithPrefix returns storage key and item code of every item whose
	// code starts with prefix followed by the code separator
	FindCodesWithPrefix(ctx context.Context, prefix string) ([]ItemCodeEntry, error)

	// Create inserts a new item
	Create(ctx context.Context, item *Item) error

	// Update saves the item, failing with ErrConcurrencyConflict on a stale version
	Update(ctx context.Context, item *Item) error

	// Rename moves an item from oldName to newName and re-points draft links.
	// Returns ErrLinkExists when submitted or cancelled links exist and
	// ErrAlreadyExists when newName is taken.
	Rename(ctx context.Context, oldName, newName string) error

	// Delete deletes an item
	Delete(ctx context.Context, name string) error
}

// ItemCodeEntry pairs an item's storage key with its code
type ItemCodeEntry struct {
	Name     string
	ItemCode string
}

// ItemLinkRepository defines the interface for item link persistence
type ItemLinkRepository interface {
	// FindByItem lists the links of an item
	FindByItem(ctx context.Context, item string) ([]ItemLink, error)

	// CountByItem counts the links of an item
	CountByItem(ctx context.Context, item string) (int64, error)

	// Save inserts a link
	Save(ctx context.Context, link *ItemLink) error
}
