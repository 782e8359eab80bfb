package catalog

import (
	"time"

	"github.com/dsi-erp/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// CreateItemGroupRequest represents a request to create an item group
type CreateItemGroupRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=140"`
	ParentItemGroup string `json:"parent_item_group" binding:"max=140"`
}

// ItemGroupListFilter represents filter options for item group list
type ItemGroupListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ItemGroupResponse represents an item group in API responses
type ItemGroupResponse struct {
	Name            string    `json:"name"`
	ParentItemGroup string    `json:"parent_item_group,omitempty"`
	IsGroup         bool      `json:"is_group"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ItemGroupPrefixResponse carries the derived code prefix of an item group
type ItemGroupPrefixResponse struct {
	ItemGroup string `json:"item_group"`
	Prefix    string `json:"prefix"`
}

// ToItemGroupResponse converts a domain ItemGroup to ItemGroupResponse
func ToItemGroupResponse(g *catalog.ItemGroup) ItemGroupResponse {
	return ItemGroupResponse{
		Name:            g.Name,
		ParentItemGroup: g.ParentItemGroup,
		IsGroup:         g.IsGroup,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

// ToItemGroupResponses converts a slice of domain ItemGroups
func ToItemGroupResponses(groups []catalog.ItemGroup) []ItemGroupResponse {
	responses := make([]ItemGroupResponse, len(groups))
	for i := range groups {
		responses[i] = ToItemGroupResponse(&groups[i])
	}
	return responses
}

// CreateItemRequest represents a request to create a new item.
// The item code is generated from the item group.
type CreateItemRequest struct {
	ItemName    string `json:"item_name" binding:"max=140"`
	ItemGroup   string `json:"item_group" binding:"required,min=1,max=140"`
	Description string `json:"description" binding:"max=2000"`
	StockUOM    string `json:"stock_uom" binding:"max=40"`
}

// UpdateItemRequest represents a request to update an item.
// Changing the item group regenerates the code and renames the item.
type UpdateItemRequest struct {
	ItemName    *string `json:"item_name" binding:"omitempty,max=140"`
	ItemGroup   *string `json:"item_group" binding:"omitempty,min=1,max=140"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	StockUOM    *string `json:"stock_uom" binding:"omitempty,max=40"`
	Disabled    *bool   `json:"disabled"`
}

// ItemListFilter represents filter options for item list
type ItemListFilter struct {
	Search    string `form:"search"`
	ItemGroup string `form:"item_group"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=name item_code item_name item_group created_at updated_at"`
	SortDesc  bool   `form:"sort_desc"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	Name        string    `json:"name"`
	ItemCode    string    `json:"item_code"`
	ItemName    string    `json:"item_name"`
	ItemGroup   string    `json:"item_group"`
	Description string    `json:"description"`
	StockUOM    string    `json:"stock_uom"`
	Disabled    bool      `json:"disabled"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SaveItemResponse is returned by item saves; Message is the user-facing
// note about the item code (rename confirmation or current code)
type SaveItemResponse struct {
	Item    ItemResponse `json:"item"`
	Message string       `json:"message,omitempty"`
	Renamed bool         `json:"renamed"`
	OldCode string       `json:"old_code,omitempty"`
}

// ItemCodePreviewResponse carries the code the next item of a group would get
type ItemCodePreviewResponse struct {
	ItemGroup string `json:"item_group"`
	ItemCode  string `json:"item_code"`
}

// ToItemResponse converts a domain Item to ItemResponse
func ToItemResponse(i *catalog.Item) ItemResponse {
	return ItemResponse{
		Name:        i.Name,
		ItemCode:    i.ItemCode,
		ItemName:    i.ItemName,
		ItemGroup:   i.ItemGroup,
		Description: i.Description,
		StockUOM:    i.StockUOM,
		Disabled:    i.Disabled,
		Version:     i.Version,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// ToItemResponses converts a slice of domain Items
func ToItemResponses(items []catalog.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

// AddItemLinkRequest records a transaction document referencing an item
type AddItemLinkRequest struct {
	ReferenceType string `json:"reference_type" binding:"required,min=1,max=140"`
	ReferenceName string `json:"reference_name" binding:"required,min=1,max=140"`
	DocStatus     int    `json:"docstatus" binding:"min=0,max=2"`
}

// ItemLinkResponse represents an item link in API responses
type ItemLinkResponse struct {
	ID            uuid.UUID `json:"id"`
	Item          string    `json:"item"`
	ReferenceType string    `json:"reference_type"`
	ReferenceName string    `json:"reference_name"`
	DocStatus     int       `json:"docstatus"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToItemLinkResponse converts a domain ItemLink to ItemLinkResponse
func ToItemLinkResponse(l *catalog.ItemLink) ItemLinkResponse {
	return ItemLinkResponse{
		ID:            l.ID,
		Item:          l.Item,
		ReferenceType: l.ReferenceType,
		ReferenceName: l.ReferenceName,
		DocStatus:     int(l.DocStatus),
		Status:        l.DocStatus.String(),
		CreatedAt:     l.CreatedAt,
	}
}
