package middleware

import (
	"log"
	"net/http"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/gin-gonic/gin"
)

// GetWatchlist devuelve los IDs observados y las monedas del listado actual que coinciden
func (h *Handler) GetWatchlist(c *gin.Context) {
	ids := h.store.Watchlist()

	coins := make([]models.CoinView, 0, len(ids))
	for _, id := range ids {
		if coin, ok := h.findCoin(id); ok {
			coins = append(coins, h.coinView(coin))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"watchlist": ids,
		"coins":     coins,
	})
}

// ToggleWatchlist agrega o quita una moneda de la watchlist
func (h *Handler) ToggleWatchlist(c *gin.Context) {
	coinID := c.Param("id")

	watched, err := h.store.ToggleWatchlist(c.Request.Context(), coinID)
	h.metrics.ObserveMutation("toggle_watchlist", err)
	if err != nil {
		log.Printf("Error al guardar la watchlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al guardar la watchlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coin_id": coinID,
		"watched": watched,
	})
}
