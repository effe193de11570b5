package services

import "github.com/AgusMolinaCode/cryptotracker/internal/models"

// CurrentValue es el valor actual de la tenencia al precio de la moneda
func CurrentValue(h models.PortfolioHolding, coin models.CoinRecord) float64 {
	return h.Amount * coin.CurrentPrice
}

// CostBasis es lo que costó la tenencia al comprarla
func CostBasis(h models.PortfolioHolding) float64 {
	return h.CostBasis()
}

// PnLPercent calcula el porcentaje de ganancia/pérdida. Con costo 0 devuelve 0.
func PnLPercent(pnl, cost float64) float64 {
	if cost == 0 {
		return 0
	}
	return (pnl / cost) * 100
}

// EvaluateHolding calcula las métricas de una tenencia contra su moneda
func EvaluateHolding(h models.PortfolioHolding, coin models.CoinRecord) models.HoldingMetrics {
	currentValue := CurrentValue(h, coin)
	costBasis := CostBasis(h)
	pnl := currentValue - costBasis

	return models.HoldingMetrics{
		CurrentValue: currentValue,
		CostBasis:    costBasis,
		PnL:          pnl,
		PnLPercent:   PnLPercent(pnl, costBasis),
	}
}

// indexCoins indexa el listado por ID
func indexCoins(coins []models.CoinRecord) map[string]models.CoinRecord {
	byID := make(map[string]models.CoinRecord, len(coins))
	for _, c := range coins {
		byID[c.ID] = c
	}
	return byID
}

// EvaluatePortfolio devuelve una fila por tenencia, en orden y con su índice.
// Las tenencias sin moneda en el listado quedan con Matched=false y métricas en cero.
func EvaluatePortfolio(holdings []models.PortfolioHolding, coins []models.CoinRecord) []models.HoldingView {
	byID := indexCoins(coins)
	rows := make([]models.HoldingView, 0, len(holdings))

	for i, h := range holdings {
		row := models.HoldingView{Index: i, Holding: h}
		if coin, ok := byID[h.CoinID]; ok {
			row.Matched = true
			row.CurrentPrice = coin.CurrentPrice
			row.Image = coin.Image
			row.Metrics = EvaluateHolding(h, coin)
		}
		rows = append(rows, row)
	}

	return rows
}

// AggregatePortfolio suma las tenencias que tienen moneda en el listado.
// Las demás no aportan a ningún total.
func AggregatePortfolio(holdings []models.PortfolioHolding, coins []models.CoinRecord) models.PortfolioSummary {
	byID := indexCoins(coins)
	var summary models.PortfolioSummary

	for _, h := range holdings {
		coin, ok := byID[h.CoinID]
		if !ok {
			summary.UnmatchedHoldings++
			continue
		}
		summary.MatchedHoldings++
		summary.TotalValue += CurrentValue(h, coin)
		summary.TotalCost += CostBasis(h)
	}

	summary.TotalPnL = summary.TotalValue - summary.TotalCost
	summary.TotalPnLPercent = PnLPercent(summary.TotalPnL, summary.TotalCost)

	return summary
}

// SummarizeMarket busca el mayor y el menor cambio de 24h del listado.
// Devuelve false (y un resumen vacío) si el listado está vacío.
func SummarizeMarket(coins []models.CoinRecord) (models.MarketSummary, bool) {
	if len(coins) == 0 {
		return models.MarketSummary{}, false
	}

	gainer, loser := coins[0], coins[0]
	for _, c := range coins[1:] {
		if c.PriceChangePercentage24h > gainer.PriceChangePercentage24h {
			gainer = c
		}
		if c.PriceChangePercentage24h < loser.PriceChangePercentage24h {
			loser = c
		}
	}

	return models.MarketSummary{
		Available:        true,
		TopGainerID:      gainer.ID,
		TopGainerPercent: gainer.PriceChangePercentage24h,
		TopLoserID:       loser.ID,
		TopLoserPercent:  loser.PriceChangePercentage24h,
	}, true
}
