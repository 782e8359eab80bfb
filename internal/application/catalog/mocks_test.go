package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/dsi-erp/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByName(ctx context.Context, name string) (*catalog.Item, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]catalog.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Count(ctx context.Context, filter catalog.ItemFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) ExistsInGroup(ctx context.Context, group string) (bool, error) {
	args := m.Called(ctx, group)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) FindCodesWithPrefix(ctx context.Context, prefix string) ([]catalog.ItemCodeEntry, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ItemCodeEntry), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Rename(ctx context.Context, oldName, newName string) error {
	args := m.Called(ctx, oldName, newName)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockItemGroupRepository is a mock implementation of ItemGroupRepository
type MockItemGroupRepository struct {
	mock.Mock
}

func (m *MockItemGroupRepository) FindByName(ctx context.Context, name string) (*catalog.ItemGroup, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ItemGroup), args.Error(1)
}

func (m *MockItemGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ItemGroup, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ItemGroup), args.Error(1)
}

func (m *MockItemGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemGroupRepository) FindChildren(ctx context.Context, parent string) ([]catalog.ItemGroup, error) {
	args := m.Called(ctx, parent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ItemGroup), args.Error(1)
}

func (m *MockItemGroupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemGroupRepository) HasChildren(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemGroupRepository) Create(ctx context.Context, group *catalog.ItemGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockItemGroupRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockItemLinkRepository is a mock implementation of ItemLinkRepository
type MockItemLinkRepository struct {
	mock.Mock
}

func (m *MockItemLinkRepository) FindByItem(ctx context.Context, item string) ([]catalog.ItemLink, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ItemLink), args.Error(1)
}

func (m *MockItemLinkRepository) CountByItem(ctx context.Context, item string) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemLinkRepository) Save(ctx context.Context, link *catalog.ItemLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// groupTree registers lookups for a small tree:
//
//	All Item Groups
//	└── Raw Material
//	    ├── Metals
//	    └── Plastics
//	Consumable (under the root)
func groupTree(m *MockItemGroupRepository) {
	tree := map[string]string{
		catalog.DefaultRootItemGroup: "",
		"Raw Material":               catalog.DefaultRootItemGroup,
		"Metals":                     "Raw Material",
		"Plastics":                   "Raw Material",
		"Consumable":                 catalog.DefaultRootItemGroup,
	}
	for name, parent := range tree {
		g := &catalog.ItemGroup{Name: name, ParentItemGroup: parent, IsGroup: true}
		m.On("FindByName", mock.Anything, name).Return(g, nil).Maybe()
		m.On("ExistsByName", mock.Anything, name).Return(true, nil).Maybe()
	}
	m.On("FindByName", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound).Maybe()
	m.On("ExistsByName", mock.Anything, mock.Anything).Return(false, nil).Maybe()
}

// storedItem returns an item as loaded from storage under code
func storedItem(code, group string) *catalog.Item {
	item, _ := catalog.NewItem("Widget", group, "", "")
	item.AssignCode(code)
	return item
}

func codeEntries(codes ...string) []catalog.ItemCodeEntry {
	entries := make([]catalog.ItemCodeEntry, len(codes))
	for i, c := range codes {
		entries[i] = catalog.ItemCodeEntry{Name: c, ItemCode: c}
	}
	return entries
}

func requireDomainCode(t *testing.T, err error, code string) *shared.DomainError {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected domain error, got %v", err)
	require.Equal(t, code, de.Code)
	return de
}
