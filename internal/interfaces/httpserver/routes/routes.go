// Package routes registers the public API surface.
package routes

import (
	"github.com/gin-gonic/gin"

	"petal-studio/server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates API route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all routes under the /api prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/api")
	group.POST("/generate", r.handlers.Images.Generate)
	group.POST("/flower-generate", r.handlers.Images.FlowerGenerate)
	group.POST("/batch-flower-generate", r.handlers.Images.BatchFlowerGenerate)
	group.POST("/edit", r.handlers.Images.Edit)
	group.POST("/variations", r.handlers.Images.Variations)
	group.GET("/templates", r.handlers.Templates.List)
	group.POST("/library/save", r.handlers.Library.Save)
	group.GET("/library/:id/presign", r.handlers.Library.Presign)
}
