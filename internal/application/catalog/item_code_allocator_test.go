package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAllocator() (*ItemCodeAllocator, *MockItemGroupRepository, *MockItemRepository) {
	groups := new(MockItemGroupRepository)
	items := new(MockItemRepository)
	return NewItemCodeAllocator(groups, items, catalog.DefaultCodePolicy(), nil), groups, items
}

func TestItemCodeAllocator_BuildPrefix(t *testing.T) {
	ctx := context.Background()

	t.Run("nested group", func(t *testing.T) {
		a, groups, _ := newTestAllocator()
		groupTree(groups)

		assert.Equal(t, "RAME", a.BuildPrefix(ctx, "Metals"))
		assert.Equal(t, "RAPL", a.BuildPrefix(ctx, "Plastics"))
		assert.Equal(t, "RA", a.BuildPrefix(ctx, "Raw Material"))
		assert.Equal(t, "CO", a.BuildPrefix(ctx, "Consumable"))
	})

	t.Run("empty and unknown group", func(t *testing.T) {
		a, groups, _ := newTestAllocator()
		groupTree(groups)

		assert.Equal(t, "", a.BuildPrefix(ctx, ""))
		assert.Equal(t, "", a.BuildPrefix(ctx, "Nope"))
	})

	t.Run("missing ancestor contributes nothing", func(t *testing.T) {
		a, groups, _ := newTestAllocator()
		groups.On("FindByName", mock.Anything, "Bolts").
			Return(&catalog.ItemGroup{Name: "Bolts", ParentItemGroup: "Ghost"}, nil)
		groups.On("FindByName", mock.Anything, "Ghost").Return(nil, errors.New("gone"))

		assert.Equal(t, "BO", a.BuildPrefix(ctx, "Bolts"))
	})

	t.Run("cycle yields empty prefix", func(t *testing.T) {
		a, groups, _ := newTestAllocator()
		groups.On("FindByName", mock.Anything, "A").Return(&catalog.ItemGroup{Name: "A", ParentItemGroup: "B"}, nil)
		groups.On("FindByName", mock.Anything, "B").Return(&catalog.ItemGroup{Name: "B", ParentItemGroup: "A"}, nil)

		assert.Equal(t, "", a.BuildPrefix(ctx, "A"))
	})

	t.Run("group named after the root stops at its parent", func(t *testing.T) {
		a, groups, _ := newTestAllocator()
		groups.On("FindByName", mock.Anything, "Top").
			Return(&catalog.ItemGroup{Name: "Top", ParentItemGroup: ""}, nil)

		assert.Equal(t, "TO", a.BuildPrefix(ctx, "Top"))
	})
}

func TestItemCodeAllocator_NextAvailableCode(t *testing.T) {
	ctx := context.Background()

	t.Run("fills the lowest gap", func(t *testing.T) {
		a, _, items := newTestAllocator()
		items.On("FindCodesWithPrefix", mock.Anything, "RAME").
			Return(codeEntries("RAME-0001", "RAME-0003", "RAME-0004"), nil)

		code, err := a.NextAvailableCode(ctx, "RAME", "")
		require.NoError(t, err)
		assert.Equal(t, "RAME-0002", code)
	})

	t.Run("empty sequence starts at one", func(t *testing.T) {
		a, _, items := newTestAllocator()
		items.On("FindCodesWithPrefix", mock.Anything, "RA").Return([]catalog.ItemCodeEntry{}, nil)

		code, err := a.NextAvailableCode(ctx, "RA", "")
		require.NoError(t, err)
		assert.Equal(t, "RA-0001", code)
	})

	t.Run("excluded item frees its number", func(t *testing.T) {
		a, _, items := newTestAllocator()
		items.On("FindCodesWithPrefix", mock.Anything, "RA").
			Return(codeEntries("RA-0001", "RA-0002"), nil)

		code, err := a.NextAvailableCode(ctx, "RA", "RA-0001")
		require.NoError(t, err)
		assert.Equal(t, "RA-0001", code)
	})

	t.Run("non numeric suffixes are ignored", func(t *testing.T) {
		a, _, items := newTestAllocator()
		items.On("FindCodesWithPrefix", mock.Anything, "RA").
			Return(codeEntries("RA-0001", "RA-X", "RA-0002-OLD"), nil)

		code, err := a.NextAvailableCode(ctx, "RA", "")
		require.NoError(t, err)
		assert.Equal(t, "RA-0002", code)
	})

	t.Run("empty prefix uses the fallback", func(t *testing.T) {
		a, _, items := newTestAllocator()
		items.On("FindCodesWithPrefix", mock.Anything, "ITEM").Return(codeEntries("ITEM-0001"), nil)

		code, err := a.NextAvailableCode(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, "ITEM-0002", code)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		a, _, items := newTestAllocator()
		items.On("FindCodesWithPrefix", mock.Anything, "RA").Return(nil, errors.New("connection reset"))

		_, err := a.NextAvailableCode(ctx, "RA", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestItemCodeAllocator_Preview(t *testing.T) {
	ctx := context.Background()
	a, groups, items := newTestAllocator()
	groupTree(groups)
	items.On("FindCodesWithPrefix", mock.Anything, "RAME").Return(codeEntries("RAME-0001"), nil)

	code, err := a.Preview(ctx, "Metals")
	require.NoError(t, err)
	assert.Equal(t, "RAME-0002", code)

	code, err = a.Preview(ctx, "Nope")
	require.NoError(t, err)
	assert.Empty(t, code)

	code, err = a.Preview(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, code)

	items.AssertNumberOfCalls(t, "FindCodesWithPrefix", 1)
}
