package catalog

import (
	"context"

	"github.com/dsi-erp/backend/internal/domain/shared"
)

// ItemGroupRepository defines the interface for item group persistence
type ItemGroupRepository interface {
	// FindByName finds an item group by its name
	FindByName(ctx context.Context, name string) (*ItemGroup, error)

	// FindAll finds all item groups matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]ItemGroup, error)

	// Count counts item groups matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindChildren finds all direct children of a group
	FindChildren(ctx context.Context, parent string) ([]ItemGroup, error)

	// ExistsByName checks if a group with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// HasChildren checks if a group has any child groups
	HasChildren(ctx context.Context, name string) (bool, error)

	// Create inserts a new item group
	Create(ctx context.Context, group *ItemGroup) error

	// Delete deletes an item group
	Delete(ctx context.Context, name string) error
}
