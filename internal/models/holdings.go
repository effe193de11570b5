package models

import "time"

// PortfolioHolding representa una compra registrada en el portafolio simulado.
// Symbol y Name son una copia del momento de la compra y no se reconcilian.
type PortfolioHolding struct {
	CoinID        string    `json:"coinId"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Amount        float64   `json:"amount"`
	PurchasePrice float64   `json:"purchasePrice"`
	PurchaseDate  time.Time `json:"purchaseDate"`
}

// CostBasis es el costo histórico de la tenencia (cantidad * precio de compra)
func (h PortfolioHolding) CostBasis() float64 {
	return h.Amount * h.PurchasePrice
}

// HoldingMetrics contiene las ganancias/pérdidas de una tenencia
type HoldingMetrics struct {
	CurrentValue float64 `json:"current_value"` // Amount * CurrentPrice
	CostBasis    float64 `json:"cost_basis"`    // Amount * PurchasePrice
	PnL          float64 `json:"pnl"`           // CurrentValue - CostBasis
	PnLPercent   float64 `json:"pnl_percent"`   // (PnL / CostBasis) * 100, 0 si CostBasis es 0
}

// HoldingView es una fila del portafolio con sus métricas
type HoldingView struct {
	Index        int              `json:"index"`
	Holding      PortfolioHolding `json:"holding"`
	Matched      bool             `json:"matched"` // false si la moneda no está en el listado actual
	CurrentPrice float64          `json:"current_price"`
	Image        string           `json:"image,omitempty"`
	Metrics      HoldingMetrics   `json:"metrics"`
}

// PortfolioSummary es el resumen agregado del portafolio
type PortfolioSummary struct {
	TotalValue        float64 `json:"total_value"`
	TotalCost         float64 `json:"total_cost"`
	TotalPnL          float64 `json:"total_pnl"`
	TotalPnLPercent   float64 `json:"total_pnl_percent"`
	MatchedHoldings   int     `json:"matched_holdings"`
	UnmatchedHoldings int     `json:"unmatched_holdings"`
}

// PortfolioReport es la respuesta completa del portafolio
type PortfolioReport struct {
	Holdings []HoldingView    `json:"holdings"`
	Summary  PortfolioSummary `json:"summary"`
	Display  PortfolioDisplay `json:"display"`
}

// PortfolioDisplay contiene los totales formateados
type PortfolioDisplay struct {
	TotalValue      string `json:"total_value"`
	TotalCost       string `json:"total_cost"`
	TotalPnL        string `json:"total_pnl"`
	TotalPnLPercent string `json:"total_pnl_percent"`
}
