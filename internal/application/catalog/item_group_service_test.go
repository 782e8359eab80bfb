package catalog

import (
	"context"
	"testing"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/dsi-erp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newGroupService() (*ItemGroupService, *MockItemGroupRepository, *MockItemRepository, *MockEventPublisher) {
	groups := new(MockItemGroupRepository)
	items := new(MockItemRepository)
	publisher := new(MockEventPublisher)
	return NewItemGroupService(groups, items, publisher, catalog.CodePolicy{}, nil), groups, items, publisher
}

func TestItemGroupService_EnsureRoot(t *testing.T) {
	ctx := context.Background()

	t.Run("already present", func(t *testing.T) {
		s, groups, _, _ := newGroupService()
		groups.On("ExistsByName", mock.Anything, catalog.DefaultRootItemGroup).Return(true, nil)

		require.NoError(t, s.EnsureRoot(ctx))
		groups.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		s, groups, _, publisher := newGroupService()
		groups.On("ExistsByName", mock.Anything, catalog.DefaultRootItemGroup).Return(false, nil)
		groups.On("Create", mock.Anything, mock.MatchedBy(func(g *catalog.ItemGroup) bool {
			return g.Name == catalog.DefaultRootItemGroup && g.IsRoot()
		})).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, s.EnsureRoot(ctx))
		groups.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("lost race", func(t *testing.T) {
		s, groups, _, publisher := newGroupService()
		groups.On("ExistsByName", mock.Anything, catalog.DefaultRootItemGroup).Return(false, nil)
		groups.On("Create", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

		require.NoError(t, s.EnsureRoot(ctx))
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestItemGroupService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the root parent", func(t *testing.T) {
		s, groups, _, publisher := newGroupService()
		groups.On("ExistsByName", mock.Anything, "Tools").Return(false, nil)
		groups.On("ExistsByName", mock.Anything, catalog.DefaultRootItemGroup).Return(true, nil)
		groups.On("Create", mock.Anything, mock.Anything).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := s.Create(ctx, CreateItemGroupRequest{Name: " Tools "})
		require.NoError(t, err)
		assert.Equal(t, "Tools", resp.Name)
		assert.Equal(t, catalog.DefaultRootItemGroup, resp.ParentItemGroup)
		assert.True(t, resp.IsGroup)
	})

	t.Run("duplicate", func(t *testing.T) {
		s, groups, _, _ := newGroupService()
		groupTree(groups)

		_, err := s.Create(ctx, CreateItemGroupRequest{Name: "Metals", ParentItemGroup: "Raw Material"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown parent", func(t *testing.T) {
		s, groups, _, _ := newGroupService()
		groupTree(groups)

		_, err := s.Create(ctx, CreateItemGroupRequest{Name: "Bolts", ParentItemGroup: "Hardware"})
		requireDomainCode(t, err, "INVALID_PARENT")
		groups.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("own parent", func(t *testing.T) {
		s, _, _, _ := newGroupService()

		_, err := s.Create(ctx, CreateItemGroupRequest{Name: "Loop", ParentItemGroup: "Loop"})
		requireDomainCode(t, err, "INVALID_PARENT")
	})
}

func TestItemGroupService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("root", func(t *testing.T) {
		s, groups, _, _ := newGroupService()
		groupTree(groups)

		err := s.Delete(ctx, catalog.DefaultRootItemGroup)
		requireDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("has children", func(t *testing.T) {
		s, groups, _, _ := newGroupService()
		groups.On("HasChildren", mock.Anything, "Raw Material").Return(true, nil)
		groupTree(groups)

		err := s.Delete(ctx, "Raw Material")
		assert.ErrorIs(t, err, catalog.ErrItemGroupNotEmpty)
	})

	t.Run("has items", func(t *testing.T) {
		s, groups, items, _ := newGroupService()
		groups.On("HasChildren", mock.Anything, "Metals").Return(false, nil)
		groupTree(groups)
		items.On("ExistsInGroup", mock.Anything, "Metals").Return(true, nil)

		err := s.Delete(ctx, "Metals")
		assert.ErrorIs(t, err, catalog.ErrItemGroupNotEmpty)
		groups.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("empty leaf", func(t *testing.T) {
		s, groups, items, publisher := newGroupService()
		groups.On("HasChildren", mock.Anything, "Plastics").Return(false, nil)
		groups.On("Delete", mock.Anything, "Plastics").Return(nil)
		groupTree(groups)
		items.On("ExistsInGroup", mock.Anything, "Plastics").Return(false, nil)
		publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == catalog.EventTypeItemGroupDeleted
		})).Return(nil)

		require.NoError(t, s.Delete(ctx, "Plastics"))
		groups.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("unknown", func(t *testing.T) {
		s, groups, _, _ := newGroupService()
		groupTree(groups)

		assert.ErrorIs(t, s.Delete(ctx, "Nope"), shared.ErrNotFound)
	})
}

func TestItemGroupService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("children", func(t *testing.T) {
		s, groups, _, _ := newGroupService()
		groups.On("FindChildren", mock.Anything, "Raw Material").Return([]catalog.ItemGroup{
			{Name: "Metals", ParentItemGroup: "Raw Material"},
			{Name: "Plastics", ParentItemGroup: "Raw Material"},
		}, nil)
		groupTree(groups)

		children, err := s.Children(ctx, "Raw Material")
		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.Equal(t, "Metals", children[0].Name)

		_, err = s.Children(ctx, "Nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("prefix", func(t *testing.T) {
		s, groups, _, _ := newGroupService()
		groupTree(groups)

		assert.Equal(t, "RAME", s.Prefix(ctx, "Metals").Prefix)
		assert.Equal(t, "", s.Prefix(ctx, "Nope").Prefix)
	})

	t.Run("list", func(t *testing.T) {
		s, groups, _, _ := newGroupService()
		expected := shared.Filter{Search: "ma", Page: 2, PageSize: 20, OrderBy: "name", OrderDir: "asc"}
		groups.On("FindAll", mock.Anything, expected).Return([]catalog.ItemGroup{{Name: "Raw Material"}}, nil)
		groups.On("Count", mock.Anything, expected).Return(int64(21), nil)

		list, total, err := s.List(ctx, ItemGroupListFilter{Search: "ma", Page: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(21), total)
		assert.Len(t, list, 1)
	})
}
