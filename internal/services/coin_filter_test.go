package services

import (
	"testing"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func ranked(id, name, symbol string, rank int, price, change float64) models.CoinRecord {
	return models.CoinRecord{
		ID:                       id,
		Name:                     name,
		Symbol:                   symbol,
		MarketCapRank:            models.Some(rank),
		CurrentPrice:             price,
		PriceChangePercentage24h: change,
	}
}

func ids(coins []models.CoinRecord) []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.ID
	}
	return out
}

func sampleCoins() []models.CoinRecord {
	return []models.CoinRecord{
		ranked("bitcoin", "Bitcoin", "btc", 1, 50000, 2.5),
		ranked("ethereum", "Ethereum", "eth", 2, 3000, -1.2),
		ranked("tether", "Tether", "usdt", 3, 1, 0),
		ranked("bitcoin-cash", "Bitcoin Cash", "bch", 15, 400, 5.1),
	}
}

func TestFilterAndSort_EmptyQueryKeepsAll(t *testing.T) {
	coins := sampleCoins()

	got := FilterAndSort(coins, "", models.SortByMarketCap)

	assert.Equal(t, []string{"bitcoin", "ethereum", "tether", "bitcoin-cash"}, ids(got))
}

func TestFilterAndSort_CaseInsensitiveNameOrSymbol(t *testing.T) {
	coins := sampleCoins()

	assert.Equal(t, []string{"bitcoin", "bitcoin-cash"}, ids(FilterAndSort(coins, "BITCOIN", "")))
	assert.Equal(t, []string{"ethereum", "tether"}, ids(FilterAndSort(coins, "ETH", "")))
	assert.Equal(t, []string{"tether"}, ids(FilterAndSort(coins, "usdt", "")))
	assert.Empty(t, FilterAndSort(coins, "  usdt ", ""))
	assert.Equal(t, []string{"bitcoin-cash"}, ids(FilterAndSort(coins, "n c", "")))
	assert.Empty(t, FilterAndSort(coins, "doge", ""))
}

func TestFilterAndSort_SortKeys(t *testing.T) {
	coins := sampleCoins()

	assert.Equal(t, []string{"bitcoin", "ethereum", "bitcoin-cash", "tether"},
		ids(FilterAndSort(coins, "", models.SortByPrice)))
	assert.Equal(t, []string{"bitcoin-cash", "bitcoin", "tether", "ethereum"},
		ids(FilterAndSort(coins, "", models.SortByChange)))
}

func TestFilterAndSort_UnknownKeyFallsBackToMarketCap(t *testing.T) {
	coins := sampleCoins()
	coins[0], coins[3] = coins[3], coins[0]

	got := FilterAndSort(coins, "", "volume")

	assert.Equal(t, []string{"bitcoin", "ethereum", "tether", "bitcoin-cash"}, ids(got))
}

func TestFilterAndSort_UnrankedLast(t *testing.T) {
	coins := []models.CoinRecord{
		{ID: "new-token", Name: "New Token", Symbol: "new"},
		ranked("bitcoin", "Bitcoin", "btc", 1, 50000, 0),
		{ID: "other-token", Name: "Other", Symbol: "oth"},
	}

	got := FilterAndSort(coins, "", models.SortByMarketCap)

	assert.Equal(t, []string{"bitcoin", "new-token", "other-token"}, ids(got))
}

func TestFilterAndSort_StableOnTies(t *testing.T) {
	coins := []models.CoinRecord{
		ranked("a", "A", "a", 1, 10, 1),
		ranked("b", "B", "b", 2, 10, 1),
		ranked("c", "C", "c", 3, 10, 1),
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(FilterAndSort(coins, "", models.SortByPrice)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(FilterAndSort(coins, "", models.SortByChange)))
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	coins := sampleCoins()
	before := ids(coins)

	FilterAndSort(coins, "", models.SortByChange)

	assert.Equal(t, before, ids(coins))
}

func TestNormalizeSortKey(t *testing.T) {
	assert.Equal(t, models.SortByPrice, NormalizeSortKey("price"))
	assert.Equal(t, models.SortByChange, NormalizeSortKey("change"))
	assert.Equal(t, models.SortByMarketCap, NormalizeSortKey("market_cap"))
	assert.Equal(t, models.SortByMarketCap, NormalizeSortKey(""))
	assert.Equal(t, models.SortByMarketCap, NormalizeSortKey("PRICE"))
}
