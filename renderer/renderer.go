// Package renderer turns reconciled portfolio data into markdown reports.
package renderer

import (
	"github.com/StockwatchDev/stockwatch"
	"github.com/shopspring/decimal"
)

// returnPercent expresses the total return relative to the invested
// amount. The boolean is false when nothing is invested.
func returnPercent(p stockwatch.Portfolio) (decimal.Decimal, bool) {
	investment := p.Investment()
	if investment.IsZero() {
		return decimal.Zero, false
	}
	return p.TotalReturn().Ratio(investment).Mul(decimal.NewFromInt(100)).Round(2), true
}
