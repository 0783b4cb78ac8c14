package stockwatch

import (
	"fmt"
	"maps"
	"slices"

	"github.com/StockwatchDev/stockwatch/date"
)

// Portfolio is the full set of positions on a single snapshot date.
//
// All positions share the portfolio's date; this invariant is checked on
// construction and failing it signals a bug in the snapshot builder, not a
// data-quality issue. Portfolios are immutable once built.
type Portfolio struct {
	on        date.Date
	positions []Position // sorted by (date, value)
}

// NewPortfolio builds a portfolio dated on from the given positions.
// It fails if any position carries a different date.
func NewPortfolio(on date.Date, positions []Position) (Portfolio, error) {
	for _, p := range positions {
		if p.Date != on {
			return Portfolio{}, fmt.Errorf("position %s dated %s in portfolio dated %s", p.ISIN, p.Date, on)
		}
	}
	sorted := slices.Clone(positions)
	slices.SortStableFunc(sorted, Position.Compare)
	return Portfolio{on: on, positions: sorted}, nil
}

// Date returns the snapshot date of the portfolio.
func (p Portfolio) Date() date.Date { return p.on }

// Positions returns the positions sorted by (date, value).
func (p Portfolio) Positions() []Position { return slices.Clone(p.positions) }

// Get returns the position for the given ISIN, or an empty placeholder
// dated like the portfolio when the instrument is absent. Callers never
// need to branch on presence.
func (p Portfolio) Get(isin string) Position {
	for _, pos := range p.positions {
		if pos.ISIN == isin {
			return pos
		}
	}
	return EmptyPosition(p.on, isin, "")
}

// Contains reports whether the portfolio holds a position for the ISIN.
func (p Portfolio) Contains(isin string) bool {
	return slices.ContainsFunc(p.positions, func(pos Position) bool { return pos.ISIN == isin })
}

// ISINs returns the instrument codes of all positions, in position order.
func (p Portfolio) ISINs() []string {
	isins := make([]string, 0, len(p.positions))
	for _, pos := range p.positions {
		isins = append(isins, pos.ISIN)
	}
	return isins
}

// sum folds one Amount-valued field over all positions.
func (p Portfolio) sum(field func(Position) Amount) Amount {
	total := Zero(EUR)
	for _, pos := range p.positions {
		total = total.Add(field(pos))
	}
	return total
}

// Value returns the total market value of the portfolio in EUR.
func (p Portfolio) Value() Amount { return p.sum(func(pos Position) Amount { return pos.Value }) }

// Investment returns the total cost basis of the portfolio in EUR.
func (p Portfolio) Investment() Amount {
	return p.sum(func(pos Position) Amount { return pos.Investment })
}

// Realized returns the total realized return of the portfolio in EUR.
func (p Portfolio) Realized() Amount {
	return p.sum(func(pos Position) Amount { return pos.Realized })
}

// Unrealized returns the total unrealized return of the portfolio in EUR.
func (p Portfolio) Unrealized() Amount {
	return p.sum(Position.Unrealized)
}

// TotalReturn returns the sum of realized and unrealized return in EUR.
func (p Portfolio) TotalReturn() Amount {
	return p.sum(Position.TotalReturn)
}

// Compare orders portfolios by (date, value).
func (p Portfolio) Compare(q Portfolio) int {
	if c := p.on.Compare(q.on); c != 0 {
		return c
	}
	return p.Value().Value().Cmp(q.Value().Value())
}

// ToPortfolios materializes the date-keyed dictionary into immutable,
// date-sorted portfolios. It fails when a position's date disagrees with
// its dictionary key.
func ToPortfolios(dict PortfoliosDictionary) ([]Portfolio, error) {
	portfolios := make([]Portfolio, 0, len(dict))
	for on, positions := range dict {
		p, err := NewPortfolio(on, slices.Collect(maps.Values(positions)))
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	slices.SortFunc(portfolios, Portfolio.Compare)
	return portfolios, nil
}

// EarliestDate returns the earliest date found in the portfolios, or the
// zero date when there are none.
func EarliestDate(portfolios []Portfolio) date.Date {
	var earliest date.Date
	for _, p := range portfolios {
		if earliest.IsZero() || p.on.Before(earliest) {
			earliest = p.on
		}
	}
	return earliest
}

// LatestDate returns the latest date found in the portfolios, or the zero
// date when there are none.
func LatestDate(portfolios []Portfolio) date.Date {
	var latest date.Date
	for _, p := range portfolios {
		if p.on.After(latest) {
			latest = p.on
		}
	}
	return latest
}

// ClosestAfter returns the portfolio with the smallest date on or after
// the target. The boolean is false when every portfolio predates it.
func ClosestAfter(portfolios []Portfolio, target date.Date) (Portfolio, bool) {
	var best Portfolio
	var found bool
	for _, p := range portfolios {
		if p.on.Before(target) {
			continue
		}
		if !found || p.on.Before(best.on) {
			best, found = p, true
		}
	}
	return best, found
}

// ClosestBefore returns the portfolio with the largest date strictly
// before the target. The boolean is false when every portfolio is on or
// after it.
func ClosestBefore(portfolios []Portfolio, target date.Date) (Portfolio, bool) {
	var best Portfolio
	var found bool
	for _, p := range portfolios {
		if !p.on.Before(target) {
			continue
		}
		if !found || p.on.After(best.on) {
			best, found = p, true
		}
	}
	return best, found
}

// AllISINs returns the union of instrument codes across all portfolios,
// sorted.
func AllISINs(portfolios []Portfolio) []string {
	seen := make(map[string]struct{})
	for _, p := range portfolios {
		for _, isin := range p.ISINs() {
			seen[isin] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
