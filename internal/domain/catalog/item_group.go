package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/dsi-erp/backend/internal/domain/shared"
)

// MaxItemGroupNameLength is the longest accepted item group name
const MaxItemGroupNameLength = 140

// ItemGroup is a node of the item category tree.
// The root sentinel group has an empty parent.
type ItemGroup struct {
	shared.BaseAggregateRoot
	Name            string
	ParentItemGroup string
	IsGroup         bool
}

// NewItemGroup creates an item group under parent
func NewItemGroup(name, parent string) (*ItemGroup, error) {
	name = strings.TrimSpace(name)
	if err := validateItemGroupName(name); err != nil {
		return nil, err
	}
	parent = strings.TrimSpace(parent)
	if parent == name {
		return nil, shared.NewDomainError("INVALID_PARENT", "Item group cannot be its own parent")
	}

	group := &ItemGroup{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ParentItemGroup:   parent,
		IsGroup:           true,
	}
	group.AddDomainEvent(NewItemGroupCreatedEvent(group))
	return group, nil
}

// NewRootItemGroup creates the sentinel group at the top of the tree
func NewRootItemGroup(name string) (*ItemGroup, error) {
	return NewItemGroup(name, "")
}

// GetKey returns the group name
func (g *ItemGroup) GetKey() string {
	return g.Name
}

// IsRoot returns true if the group has no parent
func (g *ItemGroup) IsRoot() bool {
	return g.ParentItemGroup == ""
}

// MarkDeleted records the deletion event
func (g *ItemGroup) MarkDeleted() {
	g.AddDomainEvent(NewItemGroupDeletedEvent(g))
}

func validateItemGroupName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item group name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxItemGroupNameLength {
		return shared.NewDomainError("INVALID_NAME", "Item group name cannot exceed 140 characters")
	}
	return nil
}
