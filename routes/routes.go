package routes

import (
	"time"

	"glowdesk/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router needs.
type HandlerBundle struct {
	Chat         *handlers.ChatHandler
	Availability *handlers.AvailabilityHandler
	Catalog      *handlers.CatalogHandler
}

// RegisterRoutes wires the API surface.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/chat", hb.Chat.HandleChat)
		api.GET("/availability", hb.Availability.GetSlots)
		api.GET("/services", hb.Catalog.GetServices)
		api.GET("/hours", hb.Catalog.GetHours)
		api.GET("/stylists", hb.Catalog.GetStylists)
	}
}
