package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harshitnub077/SynapticCare-sub000/api/handlers"
	"github.com/harshitnub077/SynapticCare-sub000/api/middleware"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	reports := v1.Group("/reports")
	{
		reports.POST("", h.Report.Upload)
		reports.GET("", h.Report.List)
		reports.GET("/:reportId", h.Report.Get)
	}

	chat := v1.Group("/chat")
	{
		chat.POST("", h.Chat.Send)
		chat.GET("/history", h.Chat.History)
	}
}
