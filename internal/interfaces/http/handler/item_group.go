package handler

import (
	catalogapp "github.com/dsi-erp/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ItemGroupHandler handles item group API endpoints
type ItemGroupHandler struct {
	BaseHandler
	groupService *catalogapp.ItemGroupService
}

// NewItemGroupHandler creates a new ItemGroupHandler
func NewItemGroupHandler(groupService *catalogapp.ItemGroupService) *ItemGroupHandler {
	return &ItemGroupHandler{
		groupService: groupService,
	}
}

// Create godoc
// @Summary      Create an item group
// @Description  Create an item group; without a parent it is placed under the root group
// @Tags         item-groups
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateItemGroupRequest true "Item group"
// @Success      201 {object} dto.Response{data=catalogapp.ItemGroupResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/item-groups [post]
func (h *ItemGroupHandler) Create(c *gin.Context) {
	var req catalogapp.CreateItemGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// List godoc
// @Summary      List item groups
// @Tags         item-groups
// @Produce      json
// @Param        search    query string false "Search by name"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.ItemGroupResponse,meta=dto.Meta}
// @Router       /catalog/item-groups [get]
func (h *ItemGroupHandler) List(c *gin.Context) {
	var filter catalogapp.ItemGroupListFilter
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

	groups, total, err := h.groupService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, groups, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get an item group
// @Tags         item-groups
// @Produce      json
// @Param        name path string true "Item group name"
// @Success      200 {object} dto.Response{data=catalogapp.ItemGroupResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/item-groups/{name} [get]
func (h *ItemGroupHandler) Get(c *gin.Context) {
	group, err := h.groupService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Children lists the direct child groups of an item group
// @Router /catalog/item-groups/{name}/children [get]
func (h *ItemGroupHandler) Children(c *gin.Context) {
	children, err := h.groupService.Children(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, children)
}

// Prefix returns the item code prefix of a group. Unknown groups get an empty prefix.
// @Router /catalog/item-groups/{name}/prefix [get]
func (h *ItemGroupHandler) Prefix(c *gin.Context) {
	h.Success(c, h.groupService.Prefix(c.Request.Context(), c.Param("name")))
}

// Delete godoc
// @Summary      Delete an item group
// @Description  Refused while the group has child groups or items
// @Tags         item-groups
// @Param        name path string true "Item group name"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/item-groups/{name} [delete]
func (h *ItemGroupHandler) Delete(c *gin.Context) {
	if err := h.groupService.Delete(c.Request.Context(), c.Param("name")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
