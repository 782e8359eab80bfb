// Package router declares the HTTP route tables and mounts them on gin.
package router

import (
	"github.com/gin-gonic/gin"
)

// DefaultAPIVersion is the path segment every API route is mounted below
const DefaultAPIVersion = "v1"

// Registrar adds its routes to a gin group
type Registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Mount registers every registrar below /api/<version>
func Mount(engine *gin.Engine, version string, registrars ...Registrar) *gin.RouterGroup {
	if version == "" {
		version = DefaultAPIVersion
	}
	api := engine.Group("/api/" + version)
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}
	return api
}

// Route is one method and path bound to a handler
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Group is a route table under a path prefix. Middleware applies to the
// group's routes and to every nested group.
type Group struct {
	Prefix     string
	Middleware []gin.HandlerFunc
	Routes     []Route
	Groups     []Group
}

func (g Group) RegisterRoutes(rg *gin.RouterGroup) {
	sub := rg.Group(g.Prefix, g.Middleware...)
	for _, r := range g.Routes {
		sub.Handle(r.Method, r.Path, r.Handler)
	}
	for _, child := range g.Groups {
		child.RegisterRoutes(sub)
	}
}

// Len counts the routes of g and its nested groups
func (g Group) Len() int {
	n := len(g.Routes)
	for _, child := range g.Groups {
		n += child.Len()
	}
	return n
}
