package models

import (
	"time"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// ItemGroupModel is the persistence model for the ItemGroup aggregate.
type ItemGroupModel struct {
	AggregateModel
	Name            string `gorm:"type:varchar(140);primaryKey"`
	ParentItemGroup string `gorm:"type:varchar(140);not null;default:'';index:idx_item_groups_parent"`
	IsGroup         bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ItemGroupModel) TableName() string {
	return "item_groups"
}

// ToDomain converts the persistence model to a domain ItemGroup.
func (m *ItemGroupModel) ToDomain() *catalog.ItemGroup {
	return &catalog.ItemGroup{
		BaseAggregateRoot: m.aggregate(),
		Name:              m.Name,
		ParentItemGroup:   m.ParentItemGroup,
		IsGroup:           m.IsGroup,
	}
}

// FromDomain populates the persistence model from a domain ItemGroup.
func (m *ItemGroupModel) FromDomain(g *catalog.ItemGroup) {
	m.setAggregate(g.BaseAggregateRoot)
	m.Name = g.Name
	m.ParentItemGroup = g.ParentItemGroup
	m.IsGroup = g.IsGroup
}

// ItemGroupModelFromDomain creates a new persistence model from a domain ItemGroup.
func ItemGroupModelFromDomain(g *catalog.ItemGroup) *ItemGroupModel {
	m := &ItemGroupModel{}
	m.FromDomain(g)
	return m
}

// ItemModel is the persistence model for the Item aggregate.
// Name is the storage key; ItemCode is not unique because it runs ahead of
// Name while a rename is pending.
type ItemModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(140);primaryKey"`
	ItemCode    string `gorm:"type:varchar(140);not null;index:idx_items_item_code"`
	ItemName    string `gorm:"type:varchar(140);not null;default:''"`
	ItemGroup   string `gorm:"type:varchar(140);not null;index:idx_items_item_group"`
	Description string `gorm:"type:text;not null;default:''"`
	StockUOM    string `gorm:"column:stock_uom;type:varchar(40);not null;default:'Nos'"`
	Disabled    bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item.
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		BaseAggregateRoot: m.aggregate(),
		Name:              m.Name,
		ItemCode:          m.ItemCode,
		ItemName:          m.ItemName,
		ItemGroup:         m.ItemGroup,
		Description:       m.Description,
		StockUOM:          m.StockUOM,
		Disabled:          m.Disabled,
	}
}

// FromDomain populates the persistence model from a domain Item.
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.setAggregate(i.BaseAggregateRoot)
	m.Name = i.Name
	m.ItemCode = i.ItemCode
	m.ItemName = i.ItemName
	m.ItemGroup = i.ItemGroup
	m.Description = i.Description
	m.StockUOM = i.StockUOM
	m.Disabled = i.Disabled
}

// ItemModelFromDomain creates a new persistence model from a domain Item.
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}

// ItemLinkModel is the persistence model for ItemLink.
type ItemLinkModel struct {
	ID            uuid.UUID         `gorm:"type:varchar(36);primaryKey"`
	ItemName      string            `gorm:"type:varchar(140);not null;index:idx_item_links_item_name"`
	ReferenceType string            `gorm:"type:varchar(140);not null"`
	ReferenceName string            `gorm:"type:varchar(140);not null"`
	DocStatus     catalog.DocStatus `gorm:"column:docstatus;type:smallint;not null;default:0"`
	CreatedAt     time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ItemLinkModel) TableName() string {
	return "item_links"
}

// ToDomain converts the persistence model to a domain ItemLink.
func (m *ItemLinkModel) ToDomain() *catalog.ItemLink {
	return &catalog.ItemLink{
		ID:            m.ID,
		Item:          m.ItemName,
		ReferenceType: m.ReferenceType,
		ReferenceName: m.ReferenceName,
		DocStatus:     m.DocStatus,
		CreatedAt:     m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain ItemLink.
func (m *ItemLinkModel) FromDomain(l *catalog.ItemLink) {
	m.ID = l.ID
	m.ItemName = l.Item
	m.ReferenceType = l.ReferenceType
	m.ReferenceName = l.ReferenceName
	m.DocStatus = l.DocStatus
	m.CreatedAt = l.CreatedAt
}

// ItemLinkModelFromDomain creates a new persistence model from a domain ItemLink.
func ItemLinkModelFromDomain(l *catalog.ItemLink) *ItemLinkModel {
	m := &ItemLinkModel{}
	m.FromDomain(l)
	return m
}
