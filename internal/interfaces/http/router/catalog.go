package router

import (
	"net/http"

	"github.com/dsi-erp/backend/internal/interfaces/http/handler"
)

// Catalog is the /catalog route table for item groups and items
func Catalog(groups *handler.ItemGroupHandler, items *handler.ItemHandler) Group {
	return Group{
		Prefix: "/catalog",
		Groups: []Group{
			{
				Prefix: "/item-groups",
				Routes: []Route{
					{http.MethodPost, "", groups.Create},
					{http.MethodGet, "", groups.List},
					{http.MethodGet, "/:name", groups.Get},
					{http.MethodGet, "/:name/children", groups.Children},
					{http.MethodGet, "/:name/prefix", groups.Prefix},
					{http.MethodDelete, "/:name", groups.Delete},
				},
			},
			{
				// code-preview is a static segment, so gin matches it ahead of /:code
				Prefix: "/items",
				Routes: []Route{
					{http.MethodPost, "", items.Create},
					{http.MethodGet, "", items.List},
					{http.MethodGet, "/code-preview", items.CodePreview},
					{http.MethodGet, "/:code", items.Get},
					{http.MethodPut, "/:code", items.Update},
					{http.MethodDelete, "/:code", items.Delete},
					{http.MethodGet, "/:code/links", items.Links},
					{http.MethodPost, "/:code/links", items.AddLink},
				},
			},
		},
	}
}

// System is the health and system info route table
func System(system *handler.SystemHandler) Group {
	return Group{
		Routes: []Route{
			{http.MethodGet, "/health", system.Health},
			{http.MethodGet, "/system/info", system.GetSystemInfo},
		},
	}
}
