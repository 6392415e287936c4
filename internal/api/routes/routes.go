package routes

import (
	"github.com/gin-gonic/gin"

	"assistgen-gateway/internal/api/handlers"
)

func SetupRoutes(router *gin.Engine, h *handlers.Handlers) {
	chat := router.Group("/")
	{
		chat.POST("/chat", h.Chat)
		chat.POST("/reason", h.Reason)
		chat.POST("/search", h.Search)
		chat.POST("/chat-rag", h.RAGChat)
	}

	documents := router.Group("/documents")
	{
		documents.GET("", h.ListDocuments)
		documents.GET("/:id", h.GetDocument)
	}

	router.POST("/upload", h.Upload)

	router.GET("/health", h.Health)
	router.GET("/readyz", h.Ready)
}
