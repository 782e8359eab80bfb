package models

import (
	"testing"
	"time"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "item_groups", ItemGroupModel{}.TableName())
	assert.Equal(t, "items", ItemModel{}.TableName())
	assert.Equal(t, "item_links", ItemLinkModel{}.TableName())
}

func TestItemGroupModel_RoundTrip(t *testing.T) {
	group, err := catalog.NewItemGroup("Raw Material", catalog.DefaultRootItemGroup)
	require.NoError(t, err)
	group.Version = 3

	back := ItemGroupModelFromDomain(group).ToDomain()

	assert.Equal(t, group.Name, back.Name)
	assert.Equal(t, group.ParentItemGroup, back.ParentItemGroup)
	assert.Equal(t, group.IsGroup, back.IsGroup)
	assert.Equal(t, 3, back.Version)
	assert.Equal(t, group.CreatedAt, back.CreatedAt)
	assert.Empty(t, back.GetDomainEvents(), "events are not persisted")
}

func TestItemModel_ToDomain(t *testing.T) {
	now := time.Now()
	model := &ItemModel{
		AggregateModel: AggregateModel{CreatedAt: now, UpdatedAt: now, Version: 2},
		Name:        "RA-0001",
		ItemCode:    "TO-0004",
		ItemName:    "Steel bolt",
		ItemGroup:   "Tools",
		Description: "M8",
		StockUOM:    "Box",
	}

	item := model.ToDomain()

	assert.Equal(t, "RA-0001", item.Name)
	assert.Equal(t, "TO-0004", item.ItemCode)
	assert.True(t, item.HasPendingRename())
	assert.Equal(t, 2, item.Version)
	assert.Equal(t, "Box", item.StockUOM)
}

func TestItemLinkModel_RoundTrip(t *testing.T) {
	link, err := catalog.NewItemLink("RA-0001", "Quotation", "QTN-0001", catalog.DocStatusSubmitted)
	require.NoError(t, err)

	model := ItemLinkModelFromDomain(link)
	assert.Equal(t, "RA-0001", model.ItemName)
	assert.NotEqual(t, uuid.Nil, model.ID)

	back := model.ToDomain()
	assert.Equal(t, link.ID, back.ID)
	assert.Equal(t, catalog.DocStatusSubmitted, back.DocStatus)
	assert.True(t, back.BlocksRename())
}
