package handler

import (
	catalogapp "github.com/dsi-erp/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ItemHandler handles item API endpoints
type ItemHandler struct {
	BaseHandler
	itemService *catalogapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *catalogapp.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

// CodePreviewQuery is the query of the code preview endpoint
type CodePreviewQuery struct {
	ItemGroup string `form:"item_group" binding:"required,max=140"`
}

// Create godoc
// @Summary      Create an item
// @Description  Create an item; its code is generated from the item group
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateItemRequest true "Item"
// @Success      201 {object} dto.Response{data=catalogapp.SaveItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var req catalogapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.itemService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List godoc
// @Summary      List items
// @Tags         items
// @Produce      json
// @Param        search     query string false "Search by code or name"
// @Param        item_group query string false "Filter by item group"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20)
// @Param        sort_by    query string false "Sort field" default(item_code)
// @Param        sort_desc  query bool   false "Sort descending"
// @Success      200 {object} dto.Response{data=[]catalogapp.ItemResponse,meta=dto.Meta}
// @Router       /catalog/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	var filter catalogapp.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	items, total, err := h.itemService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// CodePreview godoc
// @Summary      Preview the next item code
// @Description  Returns the code the next item of the group would receive; empty when the group yields no prefix
// @Tags         items
// @Produce      json
// @Param        item_group query string true "Item group"
// @Success      200 {object} dto.Response{data=catalogapp.ItemCodePreviewResponse}
// @Router       /catalog/items/code-preview [get]
func (h *ItemHandler) CodePreview(c *gin.Context) {
	var q CodePreviewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	preview, err := h.itemService.PreviewCode(c.Request.Context(), q.ItemGroup)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, preview)
}

// Get godoc
// @Summary      Get an item by code
// @Tags         items
// @Produce      json
// @Param        code path string true "Item code"
// @Success      200 {object} dto.Response{data=catalogapp.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/items/{code} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.itemService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Update godoc
// @Summary      Update an item
// @Description  Moving an item to another group renames it; the response message reports the new code
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        code    path string true "Item code"
// @Param        request body catalogapp.UpdateItemRequest true "Changes"
// @Success      200 {object} dto.Response{data=catalogapp.SaveItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/items/{code} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	var req catalogapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.itemService.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete an item
// @Description  Refused while any document references the item
// @Tags         items
// @Param        code path string true "Item code"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/items/{code} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	if err := h.itemService.Delete(c.Request.Context(), c.Param("code")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Links lists the documents referencing an item
// @Router /catalog/items/{code}/links [get]
func (h *ItemHandler) Links(c *gin.Context) {
	links, err := h.itemService.Links(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, links)
}

// AddLink records a document referencing an item
// @Router /catalog/items/{code}/links [post]
func (h *ItemHandler) AddLink(c *gin.Context) {
	var req catalogapp.AddItemLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	link, err := h.itemService.AddLink(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, link)
}
