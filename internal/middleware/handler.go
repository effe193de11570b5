package middleware

import (
	"net/http"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/AgusMolinaCode/cryptotracker/internal/observability"
	"github.com/AgusMolinaCode/cryptotracker/internal/repository"
	"github.com/AgusMolinaCode/cryptotracker/internal/services"
	"github.com/gin-gonic/gin"
)

// Handler agrupa las dependencias de los handlers HTTP del dashboard
type Handler struct {
	updater *services.MarketUpdater
	store   *repository.PortfolioStore
	detail  *services.DetailView
	feed    *services.LiveFeed
	metrics *observability.Metrics
}

// NewHandler crea los handlers con sus dependencias
func NewHandler(
	updater *services.MarketUpdater,
	store *repository.PortfolioStore,
	detail *services.DetailView,
	feed *services.LiveFeed,
	metrics *observability.Metrics,
) *Handler {
	return &Handler{
		updater: updater,
		store:   store,
		detail:  detail,
		feed:    feed,
		metrics: metrics,
	}
}

// Health responde si el servicio está vivo
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Metrics expone las métricas de Prometheus
func (h *Handler) Metrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// coinView arma la vista de una moneda con su marca de watchlist
func (h *Handler) coinView(coin models.CoinRecord) models.CoinView {
	return models.CoinView{
		CoinRecord: coin,
		Watched:    h.store.IsWatched(coin.ID),
		Display:    services.CoinDisplayOf(coin),
	}
}

func (h *Handler) findCoin(coinID string) (models.CoinRecord, bool) {
	for _, coin := range h.updater.Coins() {
		if coin.ID == coinID {
			return coin, true
		}
	}
	return models.CoinRecord{}, false
}
