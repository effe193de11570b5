package services

import (
	"sort"
	"strings"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
)

// NormalizeSortKey devuelve una clave válida; cualquier otra se trata como market_cap
func NormalizeSortKey(key string) string {
	switch key {
	case models.SortByPrice, models.SortByChange:
		return key
	default:
		return models.SortByMarketCap
	}
}

// FilterAndSort filtra por nombre o símbolo (sin distinguir mayúsculas) y ordena de forma estable.
// La búsqueda se usa tal cual, sin recortar espacios. No modifica el slice de entrada.
func FilterAndSort(coins []models.CoinRecord, query, sortKey string) []models.CoinRecord {
	q := strings.ToLower(query)

	filtered := make([]models.CoinRecord, 0, len(coins))
	for _, c := range coins {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Symbol), q) {
			filtered = append(filtered, c)
		}
	}

	switch NormalizeSortKey(sortKey) {
	case models.SortByPrice:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CurrentPrice > filtered[j].CurrentPrice
		})
	case models.SortByChange:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].PriceChangePercentage24h > filtered[j].PriceChangePercentage24h
		})
	default:
		// Las monedas sin ranking van al final
		sort.SliceStable(filtered, func(i, j int) bool {
			ri, okI := filtered[i].MarketCapRank.Get()
			rj, okJ := filtered[j].MarketCapRank.Get()
			if okI != okJ {
				return okI
			}
			return okI && ri < rj
		})
	}

	return filtered
}
