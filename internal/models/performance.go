package models

// MarketSummary contiene el mejor y el peor rendimiento de 24h del listado.
// Available es false cuando el listado está vacío.
type MarketSummary struct {
	Available        bool    `json:"available"`
	TopGainerID      string  `json:"top_gainer_id,omitempty"`
	TopGainerPercent float64 `json:"top_gainer_percent"`
	TopLoserID       string  `json:"top_loser_id,omitempty"`
	TopLoserPercent  float64 `json:"top_loser_percent"`
}

// MarketOverview es el bloque de resumen del dashboard
type MarketOverview struct {
	TotalCoins    int           `json:"total_coins"`
	WatchlistSize int           `json:"watchlist_size"`
	HoldingsCount int           `json:"holdings_count"`
	Summary       MarketSummary `json:"summary"`
}

// Claves de ordenamiento del listado
const (
	SortByMarketCap = "market_cap"
	SortByPrice     = "price"
	SortByChange    = "change"
)

// ViewQuery es el estado de búsqueda y orden de la vista de mercado
type ViewQuery struct {
	Query string `form:"q"`
	Sort  string `form:"sort"`
}

// DetailState es el estado de la vista de detalle abierta
type DetailState struct {
	CoinID    string      `json:"coin_id,omitempty"`
	Open      bool        `json:"open"`
	Loading   bool        `json:"loading"`
	Available bool        `json:"available"`
	Summary   string      `json:"summary,omitempty"` // Primeras oraciones de la descripción
	Detail    *CoinDetail `json:"detail,omitempty"`
}
