package v1

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that own a route group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Mount registers each handler under its own subgroup of parent.
//
// Usage:
//
//	Mount(catalogs, map[string]RouteRegistrar{
//		"/items":      itemHandler,
//		"/categories": categoryHandler,
//	})
func Mount(parent *gin.RouterGroup, handlers map[string]RouteRegistrar) {
	for path, h := range handlers {
		h.RegisterRoutes(parent.Group(path))
	}
}
