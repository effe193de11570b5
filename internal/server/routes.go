package routes

import (
	"github.com/AgusMolinaCode/cryptotracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, h *middleware.Handler) {
	router.GET("/health", h.Health)
	router.GET("/metrics", h.Metrics)
	router.GET("/ws", h.LiveFeed)

	api := router.Group("/api")
	{
		api.GET("/coins", h.GetCoins)
		api.POST("/coins/refresh", h.RefreshCoins)
		api.GET("/coins/:id", h.GetCoin)
		api.POST("/coins/:id/detail", h.OpenDetail)

		api.GET("/detail", h.GetDetail)
		api.DELETE("/detail", h.CloseDetail)

		api.GET("/market/summary", h.GetMarketSummary)

		api.GET("/watchlist", h.GetWatchlist)
		api.POST("/watchlist/:id/toggle", h.ToggleWatchlist)

		api.GET("/portfolio", h.GetPortfolio)
		api.POST("/portfolio", h.AddHolding)
		api.DELETE("/portfolio/:index", h.RemoveHolding)
	}
}
