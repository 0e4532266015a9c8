package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, actorMiddleware gin.HandlerFunc) {
	group := g.Group("/items")

	group.Use(actorMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.ListByOwner)
		group.GET("/search", h.Search)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
		group.POST("/:id/comment", h.AddComment)
	}
}
