package services

import (
	"testing"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coin(id string, price, change float64) models.CoinRecord {
	return models.CoinRecord{ID: id, Symbol: id, Name: id, CurrentPrice: price, PriceChangePercentage24h: change}
}

func TestEvaluateHolding(t *testing.T) {
	h := models.PortfolioHolding{CoinID: "bitcoin", Amount: 2, PurchasePrice: 40000}

	m := EvaluateHolding(h, coin("bitcoin", 50000, 0))

	assert.InDelta(t, 100000, m.CurrentValue, 1e-9)
	assert.InDelta(t, 80000, m.CostBasis, 1e-9)
	assert.InDelta(t, 20000, m.PnL, 1e-9)
	assert.InDelta(t, 25, m.PnLPercent, 1e-9)
}

func TestEvaluateHolding_Loss(t *testing.T) {
	h := models.PortfolioHolding{CoinID: "ethereum", Amount: 4, PurchasePrice: 3000}

	m := EvaluateHolding(h, coin("ethereum", 2400, 0))

	assert.InDelta(t, 9600, m.CurrentValue, 1e-9)
	assert.InDelta(t, -2400, m.PnL, 1e-9)
	assert.InDelta(t, -20, m.PnLPercent, 1e-9)
}

func TestPnLPercent_ZeroCostBasis(t *testing.T) {
	assert.Equal(t, 0.0, PnLPercent(500, 0))

	h := models.PortfolioHolding{CoinID: "airdrop", Amount: 10, PurchasePrice: 0}
	m := EvaluateHolding(h, coin("airdrop", 3, 0))
	assert.InDelta(t, 30, m.PnL, 1e-9)
	assert.Equal(t, 0.0, m.PnLPercent)
}

func TestAggregatePortfolio(t *testing.T) {
	holdings := []models.PortfolioHolding{
		{CoinID: "bitcoin", Amount: 2, PurchasePrice: 40000},
		{CoinID: "ethereum", Amount: 10, PurchasePrice: 2000},
	}
	coins := []models.CoinRecord{coin("bitcoin", 50000, 0), coin("ethereum", 1500, 0)}

	s := AggregatePortfolio(holdings, coins)

	assert.InDelta(t, 115000, s.TotalValue, 1e-9)
	assert.InDelta(t, 100000, s.TotalCost, 1e-9)
	assert.InDelta(t, 15000, s.TotalPnL, 1e-9)
	assert.InDelta(t, 15, s.TotalPnLPercent, 1e-9)
	assert.Equal(t, 2, s.MatchedHoldings)
	assert.Equal(t, 0, s.UnmatchedHoldings)
}

func TestAggregatePortfolio_SkipsUnmatched(t *testing.T) {
	holdings := []models.PortfolioHolding{
		{CoinID: "bitcoin", Amount: 1, PurchasePrice: 30000},
		{CoinID: "delisted", Amount: 1000, PurchasePrice: 5},
	}
	coins := []models.CoinRecord{coin("bitcoin", 60000, 0)}

	s := AggregatePortfolio(holdings, coins)

	assert.InDelta(t, 60000, s.TotalValue, 1e-9)
	assert.InDelta(t, 30000, s.TotalCost, 1e-9)
	assert.InDelta(t, 100, s.TotalPnLPercent, 1e-9)
	assert.Equal(t, 1, s.MatchedHoldings)
	assert.Equal(t, 1, s.UnmatchedHoldings)
}

func TestAggregatePortfolio_Empty(t *testing.T) {
	s := AggregatePortfolio(nil, []models.CoinRecord{coin("bitcoin", 50000, 0)})

	assert.Equal(t, models.PortfolioSummary{}, s)
}

func TestEvaluatePortfolio_KeepsOrderAndIndex(t *testing.T) {
	holdings := []models.PortfolioHolding{
		{CoinID: "solana", Amount: 5, PurchasePrice: 100},
		{CoinID: "delisted", Amount: 1, PurchasePrice: 1},
		{CoinID: "solana", Amount: 1, PurchasePrice: 200},
	}
	sol := coin("solana", 150, 0)
	sol.Image = "https://img/sol.png"

	rows := EvaluatePortfolio(holdings, []models.CoinRecord{sol})

	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, i, row.Index)
		assert.Equal(t, holdings[i], row.Holding)
	}
	assert.True(t, rows[0].Matched)
	assert.Equal(t, "https://img/sol.png", rows[0].Image)
	assert.InDelta(t, 50, rows[0].Metrics.PnLPercent, 1e-9)

	assert.False(t, rows[1].Matched)
	assert.Equal(t, models.HoldingMetrics{}, rows[1].Metrics)

	assert.True(t, rows[2].Matched)
	assert.InDelta(t, -25, rows[2].Metrics.PnLPercent, 1e-9)
}

func TestSummarizeMarket(t *testing.T) {
	coins := []models.CoinRecord{
		coin("bitcoin", 50000, 2.5),
		coin("ethereum", 3000, -1.2),
		coin("solana", 150, 0.3),
	}

	s, ok := SummarizeMarket(coins)

	require.True(t, ok)
	assert.True(t, s.Available)
	assert.Equal(t, "bitcoin", s.TopGainerID)
	assert.Equal(t, 2.5, s.TopGainerPercent)
	assert.Equal(t, "ethereum", s.TopLoserID)
	assert.Equal(t, -1.2, s.TopLoserPercent)
}

func TestSummarizeMarket_SingleCoin(t *testing.T) {
	s, ok := SummarizeMarket([]models.CoinRecord{coin("bitcoin", 50000, 1)})

	require.True(t, ok)
	assert.Equal(t, "bitcoin", s.TopGainerID)
	assert.Equal(t, "bitcoin", s.TopLoserID)
}

func TestSummarizeMarket_Empty(t *testing.T) {
	s, ok := SummarizeMarket(nil)

	assert.False(t, ok)
	assert.False(t, s.Available)
	assert.Equal(t, models.MarketSummary{}, s)
}
