package middleware

import (
	"log"
	"net/http"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/AgusMolinaCode/cryptotracker/internal/services"
	"github.com/gin-gonic/gin"
)

// GetCoins devuelve el listado de mercado filtrado y ordenado
func (h *Handler) GetCoins(c *gin.Context) {
	var query models.ViewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := h.updater.State()
	sortKey := services.NormalizeSortKey(query.Sort)
	filtered := services.FilterAndSort(state.Coins, query.Query, sortKey)

	coins := make([]models.CoinView, 0, len(filtered))
	for _, coin := range filtered {
		coins = append(coins, h.coinView(coin))
	}

	c.JSON(http.StatusOK, gin.H{
		"coins":        coins,
		"total":        len(state.Coins),
		"query":        query.Query,
		"sort":         sortKey,
		"loading":      state.Loading,
		"error":        state.Error,
		"last_updated": state.LastUpdated,
	})
}

// RefreshCoins fuerza una actualización del mercado. Si falla se conservan los datos anteriores.
func (h *Handler) RefreshCoins(c *gin.Context) {
	if err := h.updater.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":       "Error al actualizar el mercado: " + err.Error(),
			"total_coins": len(h.updater.Coins()),
		})
		return
	}

	state := h.updater.State()
	c.JSON(http.StatusOK, gin.H{
		"message":      "Mercado actualizado exitosamente",
		"total_coins":  len(state.Coins),
		"last_updated": state.LastUpdated,
	})
}

// GetCoin devuelve una moneda del listado actual
func (h *Handler) GetCoin(c *gin.Context) {
	coin, ok := h.findCoin(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Moneda no encontrada"})
		return
	}

	c.JSON(http.StatusOK, h.coinView(coin))
}

// GetMarketSummary devuelve los contadores del dashboard y el mejor/peor rendimiento de 24h
func (h *Handler) GetMarketSummary(c *gin.Context) {
	coins := h.updater.Coins()
	summary, _ := services.SummarizeMarket(coins)

	c.JSON(http.StatusOK, models.MarketOverview{
		TotalCoins:    len(coins),
		WatchlistSize: len(h.store.Watchlist()),
		HoldingsCount: len(h.store.Holdings()),
		Summary:       summary,
	})
}

// LiveFeed abre el websocket con los snapshots del mercado
func (h *Handler) LiveFeed(c *gin.Context) {
	if h.feed == nil {
		log.Printf("Feed en vivo no configurado")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Feed en vivo no disponible"})
		return
	}
	h.feed.ServeWS(c.Writer, c.Request)
}
