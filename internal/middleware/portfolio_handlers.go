package middleware

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/AgusMolinaCode/cryptotracker/internal/repository"
	"github.com/AgusMolinaCode/cryptotracker/internal/services"
	"github.com/gin-gonic/gin"
)

// GetPortfolio devuelve las tenencias con sus métricas y el resumen agregado
func (h *Handler) GetPortfolio(c *gin.Context) {
	holdings := h.store.Holdings()
	coins := h.updater.Coins()

	summary := services.AggregatePortfolio(holdings, coins)

	c.JSON(http.StatusOK, models.PortfolioReport{
		Holdings: services.EvaluatePortfolio(holdings, coins),
		Summary:  summary,
		Display:  services.PortfolioDisplayOf(summary),
	})
}

// AddHolding registra una compra en el portafolio
func (h *Handler) AddHolding(c *gin.Context) {
	var input struct {
		CoinID        string   `json:"coinId" binding:"required"`
		Symbol        string   `json:"symbol"`
		Name          string   `json:"name"`
		Amount        float64  `json:"amount" binding:"required,gt=0"`
		PurchasePrice *float64 `json:"purchasePrice" binding:"required,gte=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holding := models.PortfolioHolding{
		CoinID:        input.CoinID,
		Symbol:        input.Symbol,
		Name:          input.Name,
		Amount:        input.Amount,
		PurchasePrice: *input.PurchasePrice,
	}

	// Completar símbolo y nombre desde el listado actual
	if coin, ok := h.findCoin(holding.CoinID); ok {
		if holding.Symbol == "" {
			holding.Symbol = coin.Symbol
		}
		if holding.Name == "" {
			holding.Name = coin.Name
		}
	}

	saved, err := h.store.AddHolding(c.Request.Context(), holding)
	if errors.Is(err, repository.ErrInvalidHolding) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.metrics.ObserveMutation("add_holding", err)
	if err != nil {
		log.Printf("Error al guardar el portafolio: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al guardar el portafolio"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tenencia agregada exitosamente",
		"holding": saved,
	})
}

// RemoveHolding elimina la tenencia en la posición indicada
func (h *Handler) RemoveHolding(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Índice inválido"})
		return
	}

	removed, err := h.store.RemoveHolding(c.Request.Context(), index)
	if !removed && err == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenencia no encontrada"})
		return
	}
	h.metrics.ObserveMutation("remove_holding", err)
	if err != nil {
		log.Printf("Error al guardar el portafolio: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al guardar el portafolio"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tenencia eliminada exitosamente"})
}
