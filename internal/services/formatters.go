package services

import (
	"math"
	"strings"

	"github.com/AgusMolinaCode/cryptotracker/internal/models"
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const currencyUSD = "USD"

// NotAvailable se muestra cuando el valor no es un número finito
const NotAvailable = "N/A"

// Mayor cantidad de centavos que go-money puede representar
var maxCents = decimal.NewFromInt(math.MaxInt64)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatPrice formatea un precio en USD. Los precios menores a 1 dólar conservan hasta 6 decimales.
func FormatPrice(price float64) string {
	if !isFinite(price) {
		return NotAvailable
	}

	d := decimal.NewFromFloat(price)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}

	if !d.IsZero() && d.Abs().LessThan(decimal.NewFromInt(1)) {
		r := d.Abs().Round(6)
		if r.Equal(r.Round(2)) {
			return sign + "$" + r.StringFixed(2)
		}
		return sign + "$" + r.String()
	}

	// go-money trabaja en la unidad menor (centavos), que debe entrar en un int64
	cents := d.Shift(2).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		abbr, _ := abbreviate(math.Abs(price))
		return sign + "$" + abbr
	}
	return money.New(cents.IntPart(), currencyUSD).Display()
}

// FormatMarketCap abrevia montos grandes: $1.23T, $45.60B, $7.89M
func FormatMarketCap(value float64) string {
	if abbr, ok := abbreviate(value); ok {
		return "$" + abbr
	}
	return FormatPrice(value)
}

// FormatSupply abrevia cantidades de monedas sin símbolo de moneda
func FormatSupply(value float64) string {
	if !isFinite(value) {
		return NotAvailable
	}
	if abbr, ok := abbreviate(value); ok {
		return abbr
	}
	return decimal.NewFromFloat(value).Round(0).String()
}

// FormatPercentage formatea un porcentaje con signo y dos decimales: +2.50%
func FormatPercentage(pct float64) string {
	if !isFinite(pct) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(pct).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

func abbreviate(value float64) (string, bool) {
	if !isFinite(value) {
		return "", false
	}
	d := decimal.NewFromFloat(value)
	abs := d.Abs()

	units := []struct {
		suffix string
		factor decimal.Decimal
	}{
		{"T", decimal.New(1, 12)},
		{"B", decimal.New(1, 9)},
		{"M", decimal.New(1, 6)},
	}

	for _, u := range units {
		if abs.GreaterThanOrEqual(u.factor) {
			return d.Div(u.factor).StringFixed(2) + u.suffix, true
		}
	}
	return "", false
}

// SummarizeDescription conserva las tres primeras oraciones de la descripción
func SummarizeDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}

	sentences := strings.Split(desc, ". ")
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	return strings.TrimRight(strings.Join(sentences, ". "), ".") + "."
}

// CoinDisplayOf arma los textos formateados de una moneda
func CoinDisplayOf(c models.CoinRecord) models.CoinDisplay {
	return models.CoinDisplay{
		Price:          FormatPrice(c.CurrentPrice),
		Change24h:      FormatPercentage(c.PriceChangePercentage24h),
		MarketCap:      FormatMarketCap(c.MarketCap),
		Volume:         FormatMarketCap(c.TotalVolume),
		CirculatingSup: FormatSupply(c.CirculatingSupply),
	}
}

// PortfolioDisplayOf arma los textos formateados del resumen del portafolio
func PortfolioDisplayOf(s models.PortfolioSummary) models.PortfolioDisplay {
	return models.PortfolioDisplay{
		TotalValue:      FormatPrice(s.TotalValue),
		TotalCost:       FormatPrice(s.TotalCost),
		TotalPnL:        FormatPrice(s.TotalPnL),
		TotalPnLPercent: FormatPercentage(s.TotalPnLPercent),
	}
}
