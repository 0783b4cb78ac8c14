package stockwatch

import (
	"log"
	"strings"

	"github.com/StockwatchDev/stockwatch/date"
	"github.com/shopspring/decimal"
)

// IndexHistory holds the closing prices of a reference index by date.
type IndexHistory map[date.Date]decimal.Decimal

// firstValidPrice returns the first price found on or after the given
// date, scanning at most limit days forward (markets close on weekends and
// holidays).
func firstValidPrice(prices IndexHistory, on date.Date, limit int) (decimal.Decimal, bool) {
	for i := 0; i < limit; i++ {
		if price, ok := prices[on.Add(i)]; ok {
			return price, true
		}
	}
	return decimal.Zero, false
}

// priceLookAhead bounds the forward search for an index price.
const priceLookAhead = 10

// IndexPosition simulates holding the index instead of the actual
// instruments: every EUR buy and sell is replayed as if it had traded the
// index at its price on that day. Dividends are skipped, and so are
// transactions in a currency other than EUR (with a diagnostic). The
// boolean is false when no index price exists near the given date.
func IndexPosition(transactions []Transaction, name string, on date.Date, prices IndexHistory) (Position, bool) {
	invested := Zero(EUR)
	realized := Zero(EUR)
	units := decimal.Zero

	for _, tx := range transactions {
		if tx.Date().After(on) {
			continue
		}
		if tx.Kind == Dividend {
			continue
		}
		if cur := tx.Price.Currency(); cur != EUR && cur != "" {
			log.Printf("ignored transaction for index %s: currency %q is not in euros", name, cur)
			continue
		}
		indexPrice, ok := firstValidPrice(prices, tx.Date(), priceLookAhead)
		if !ok {
			continue
		}

		value := tx.Price.Mul(tx.Quantity)
		change := value.Exact().Div(indexPrice)

		switch tx.Kind {
		case Buy:
			units = units.Add(change)
			invested = invested.Add(value)
		case Sell:
			units = units.Sub(change)
			realized = realized.Add(value)
		default:
			// Expenses do not trade the index.
		}
	}

	price, ok := firstValidPrice(prices, on, priceLookAhead)
	if !ok {
		return Position{}, false
	}
	return Position{
		Date:       on,
		ISIN:       "index",
		Name:       strings.ReplaceAll(name, "_", " "),
		Quantity:   units,
		Price:      A(price, EUR),
		Value:      A(units.Mul(price), EUR),
		Investment: invested,
		Realized:   realized,
	}, true
}

// IndexPositions derives, for each reference index, the position series an
// equivalent investment in that index would have produced on the given
// dates.
func IndexPositions(indices map[string]IndexHistory, transactions []Transaction, dates []date.Date) map[string][]Position {
	result := make(map[string][]Position, len(indices))
	for name, prices := range indices {
		var positions []Position
		for _, on := range dates {
			if pos, ok := IndexPosition(transactions, name, on, prices); ok {
				positions = append(positions, pos)
			}
		}
		result[name] = positions
	}
	return result
}
