package models

import "time"

// CoinRecord es una fila del listado /coins/markets de CoinGecko
type CoinRecord struct {
	ID                           string              `json:"id"`
	Symbol                       string              `json:"symbol"`
	Name                         string              `json:"name"`
	Image                        string              `json:"image"`
	CurrentPrice                 float64             `json:"current_price"`
	MarketCap                    float64             `json:"market_cap"`
	MarketCapRank                Optional[int]       `json:"market_cap_rank"`
	FullyDilutedValuation        Optional[float64]   `json:"fully_diluted_valuation"`
	TotalVolume                  float64             `json:"total_volume"`
	High24h                      float64             `json:"high_24h"`
	Low24h                       float64             `json:"low_24h"`
	PriceChange24h               float64             `json:"price_change_24h"`
	PriceChangePercentage24h     float64             `json:"price_change_percentage_24h"`
	MarketCapChangePercentage24h Optional[float64]   `json:"market_cap_change_percentage_24h"`
	CirculatingSupply            float64             `json:"circulating_supply"`
	TotalSupply                  Optional[float64]   `json:"total_supply"`
	MaxSupply                    Optional[float64]   `json:"max_supply"`
	ATH                          float64             `json:"ath"`
	ATHChangePercentage          float64             `json:"ath_change_percentage"`
	ATHDate                      Optional[time.Time] `json:"ath_date"`
	ATL                          float64             `json:"atl"`
	ATLChangePercentage          float64             `json:"atl_change_percentage"`
	ATLDate                      Optional[time.Time] `json:"atl_date"`
	LastUpdated                  Optional[time.Time] `json:"last_updated"`
}

// CurrencyValues son los valores por moneda que CoinGecko envía en market_data ("usd": 123.4)
type CurrencyValues map[string]float64

// USD devuelve el valor en dólares si existe
func (c CurrencyValues) USD() Optional[float64] {
	v, ok := c["usd"]
	if !ok {
		return None[float64]()
	}
	return Some(v)
}

// CoinDescription contiene las descripciones por idioma
type CoinDescription struct {
	En Optional[string] `json:"en"`
}

// CoinLinks contiene los enlaces públicos del proyecto
type CoinLinks struct {
	Homepage       []string         `json:"homepage"`
	BlockchainSite []string         `json:"blockchain_site"`
	SubredditURL   Optional[string] `json:"subreddit_url"`
}

// CoinImages contiene las imágenes del proyecto en distintos tamaños
type CoinImages struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

// CoinMarketData es el bloque market_data del detalle
type CoinMarketData struct {
	CurrentPrice             CurrencyValues      `json:"current_price"`
	MarketCap                CurrencyValues      `json:"market_cap"`
	TotalVolume              CurrencyValues      `json:"total_volume"`
	High24h                  CurrencyValues      `json:"high_24h"`
	Low24h                   CurrencyValues      `json:"low_24h"`
	ATH                      CurrencyValues      `json:"ath"`
	ATHChangePercentage      CurrencyValues      `json:"ath_change_percentage"`
	ATL                      CurrencyValues      `json:"atl"`
	ATLChangePercentage      CurrencyValues      `json:"atl_change_percentage"`
	PriceChangePercentage24h Optional[float64]   `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  Optional[float64]   `json:"price_change_percentage_7d"`
	PriceChangePercentage30d Optional[float64]   `json:"price_change_percentage_30d"`
	PriceChangePercentage1y  Optional[float64]   `json:"price_change_percentage_1y"`
	CirculatingSupply        Optional[float64]   `json:"circulating_supply"`
	TotalSupply              Optional[float64]   `json:"total_supply"`
	MaxSupply                Optional[float64]   `json:"max_supply"`
	LastUpdated              Optional[time.Time] `json:"last_updated"`
}

// CoinDetail es la respuesta de /coins/{id}
type CoinDetail struct {
	ID               string                    `json:"id"`
	Symbol           string                    `json:"symbol"`
	Name             string                    `json:"name"`
	HashingAlgorithm Optional[string]          `json:"hashing_algorithm"`
	GenesisDate      Optional[string]          `json:"genesis_date"`
	Categories       []string                  `json:"categories"`
	Description      Optional[CoinDescription] `json:"description"`
	Links            Optional[CoinLinks]       `json:"links"`
	Image            Optional[CoinImages]      `json:"image"`
	MarketCapRank    Optional[int]             `json:"market_cap_rank"`
	MarketData       Optional[CoinMarketData]  `json:"market_data"`
}

// EnglishDescription devuelve la descripción en inglés si existe y no está vacía
func (d *CoinDetail) EnglishDescription() (string, bool) {
	desc, ok := d.Description.Get()
	if !ok {
		return "", false
	}
	en, ok := desc.En.Get()
	if !ok || en == "" {
		return "", false
	}
	return en, true
}

// CoinDisplay contiene los valores ya formateados para la interfaz
type CoinDisplay struct {
	Price          string `json:"price"`
	Change24h      string `json:"change_24h"`
	MarketCap      string `json:"market_cap"`
	Volume         string `json:"volume"`
	CirculatingSup string `json:"circulating_supply"`
}

// CoinView es una moneda tal como la devuelve la API del dashboard
type CoinView struct {
	CoinRecord
	Watched bool        `json:"watched"`
	Display CoinDisplay `json:"display"`
}

// MarketState es el estado actual del listado de mercado
type MarketState struct {
	Coins       []CoinRecord `json:"-"`
	Loading     bool         `json:"loading"`
	Error       string       `json:"error,omitempty"`
	LastUpdated time.Time    `json:"last_updated"`
}

// MarketSnapshot es lo que se envía por el feed en vivo tras cada actualización
type MarketSnapshot struct {
	Coins     []CoinRecord  `json:"coins"`
	Summary   MarketSummary `json:"summary"`
	UpdatedAt time.Time     `json:"updated_at"`
}
