package stockwatch

import (
	"github.com/StockwatchDev/stockwatch/date"
	"github.com/shopspring/decimal"
)

// UnknownPositionName is used when a placeholder position is created for an
// instrument whose name was never reported.
const UnknownPositionName = "Name Unknown"

// Position is the state of one instrument on one snapshot date.
//
// Quantity, Price and Value are ground truth from the snapshot export.
// Investment and Realized start at zero and are filled in by the
// reconciliation engine. Positions are value types: the engine never
// mutates one, it writes back a copy with updated figures.
type Position struct {
	Date       date.Date
	ISIN       string
	Name       string
	Quantity   decimal.Decimal
	Price      Amount // in the instrument's trading currency
	Value      Amount // in EUR
	Investment Amount // in EUR, cumulative cost basis
	Realized   Amount // in EUR, cumulative realized return
}

// EmptyPosition returns a zero-quantity placeholder for an instrument that
// has no reported position on the given date (not yet bought, or already
// sold).
func EmptyPosition(on date.Date, isin, name string) Position {
	if name == "" {
		name = UnknownPositionName
	}
	return Position{
		Date:       on,
		ISIN:       isin,
		Name:       name,
		Quantity:   decimal.Zero,
		Price:      A(1, EUR),
		Value:      Zero(EUR),
		Investment: Zero(EUR),
		Realized:   Zero(EUR),
	}
}

// Unrealized returns the current market value minus the cost basis.
func (p Position) Unrealized() Amount { return p.Value.Sub(p.Investment) }

// TotalReturn returns the sum of realized and unrealized return.
func (p Position) TotalReturn() Amount { return p.Realized.Add(p.Unrealized()) }

// WithDelta returns a copy of p with the investment and realized figures
// shifted by the given deltas.
func (p Position) WithDelta(investment, realized Amount) Position {
	p.Investment = p.Investment.Add(investment)
	p.Realized = p.Realized.Add(realized)
	return p
}

// Compare orders positions by (date, value).
func (p Position) Compare(q Position) int {
	if c := p.Date.Compare(q.Date); c != 0 {
		return c
	}
	return p.Value.Value().Cmp(q.Value.Value())
}

// PortfoliosDictionary maps snapshot dates to the positions known on that
// date, keyed by ISIN. After the snapshot builder ran, every instrument
// ever seen has an entry (real or empty) at every date.
type PortfoliosDictionary map[date.Date]map[string]Position
