package stockwatch

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/StockwatchDev/stockwatch/date"
	"github.com/shopspring/decimal"
)

// ZeroMargin is the tolerance used when tracing transaction cash flows
// against currency exchanges. The broker books the conversion separately
// from the transactions it settles, and the two sides can differ by a few
// cents.
var ZeroMargin = decimal.NewFromFloat(0.05)

// CurrencyExchange is a conversion of a foreign-currency balance to EUR,
// booked by the broker after the cash flows it settles.
//
// An exchange is consumed incrementally: each transaction traced against it
// adds to the running amountTrans total, until the remainder is below
// ZeroMargin.
type CurrencyExchange struct {
	datetime    time.Time
	rate        decimal.Decimal
	amountFrom  Amount // foreign currency, signed, usually negative
	rateExact   decimal.Decimal
	amountTo    Amount // EUR, derived
	amountTrans Amount // running total of traced transaction amounts
}

// NewCurrencyExchange builds an exchange from the booked rate and the
// foreign-currency side. The rate must be positive and the foreign amount
// non-zero.
func NewCurrencyExchange(at time.Time, rate decimal.Decimal, from Amount) (*CurrencyExchange, error) {
	if !rate.IsPositive() {
		return nil, fmt.Errorf("exchange rate must be positive, got %s", rate)
	}
	if from.IsZero() {
		return nil, errors.New("exchange amount must be non-zero")
	}
	to := A(from.Exact().Neg().Div(rate), EUR)
	// The exact rate is reconstructed from the two booked (rounded) sides,
	// so traced amounts convert consistently with the broker's own figures.
	return &CurrencyExchange{
		datetime:    at,
		rate:        rate,
		amountFrom:  from,
		amountTo:    to,
		rateExact:   from.Value().Neg().Div(to.Value()),
		amountTrans: Zero(from.Currency()),
	}, nil
}

// Datetime returns the timestamp the exchange was booked at.
func (e *CurrencyExchange) Datetime() time.Time { return e.datetime }

// Date returns the calendar day the exchange was booked on.
func (e *CurrencyExchange) Date() date.Date { return date.FromTime(e.datetime) }

// Rate returns the booked exchange rate.
func (e *CurrencyExchange) Rate() decimal.Decimal { return e.rate }

// AmountFrom returns the foreign-currency side of the exchange.
func (e *CurrencyExchange) AmountFrom() Amount { return e.amountFrom }

// AmountTo returns the EUR side of the exchange.
func (e *CurrencyExchange) AmountTo() Amount { return e.amountTo }

// Remaining returns the part of -amountFrom not yet traced to a
// transaction.
func (e *CurrencyExchange) Remaining() Amount {
	return e.amountFrom.Neg().Sub(e.amountTrans)
}

// TracedFully reports whether the whole exchange has been matched to
// transactions, within ZeroMargin.
func (e *CurrencyExchange) TracedFully() bool {
	return e.Remaining().Value().Abs().LessThan(ZeroMargin)
}

// CanTake reports whether the given foreign-currency amount fits in the
// untraced remainder: same currency, same sign, and within ZeroMargin of
// not overshooting.
func (e *CurrencyExchange) CanTake(amount Amount) bool {
	if amount.Currency() != e.amountFrom.Currency() {
		return false
	}
	if e.TracedFully() {
		return false
	}
	remaining := e.Remaining().Value()
	if amount.Value().Mul(remaining).IsNegative() {
		return false
	}
	left := e.Remaining().Sub(amount).Value()
	if amount.IsNegative() {
		return left.LessThan(ZeroMargin)
	}
	return left.GreaterThan(ZeroMargin.Neg())
}

// Take consumes the given amount from the exchange and returns its EUR
// value at the exact rate. It fails if CanTake does not hold.
func (e *CurrencyExchange) Take(amount Amount) (Amount, error) {
	if !e.CanTake(amount) {
		return Zero(EUR), fmt.Errorf("exchange of %s on %s cannot absorb %s",
			e.amountFrom, e.Date(), amount)
	}
	e.amountTrans = e.amountTrans.Add(amount)
	return A(amount.Exact().Div(e.rateExact), EUR), nil
}

// ApplyExchange resolves a cash flow to EUR by tracing it against the
// exchange that settled it. EUR amounts pass through unchanged.
//
// Candidates are exchanges in the same currency booked strictly after the
// cash flow (the broker converts after the fact), not yet fully traced,
// tried in chronological order. When no exchange can absorb the amount it
// resolves to zero EUR with a diagnostic; the investment and realized
// figures derived from it will be understated.
func ApplyExchange(at time.Time, amount Amount, exchanges []*CurrencyExchange) Amount {
	if amount.Currency() == EUR || amount.Currency() == "" {
		return amount
	}
	candidates := make([]*CurrencyExchange, 0, len(exchanges))
	for _, e := range exchanges {
		if e.amountFrom.Currency() == amount.Currency() && e.datetime.After(at) && !e.TracedFully() {
			candidates = append(candidates, e)
		}
	}
	slices.SortStableFunc(candidates, func(a, b *CurrencyExchange) int {
		return a.datetime.Compare(b.datetime)
	})
	for _, e := range candidates {
		if e.CanTake(amount) {
			converted, err := e.Take(amount)
			if err != nil {
				// CanTake held, so this cannot happen.
				log.Printf("take exchange failed: %v", err)
				continue
			}
			return converted
		}
	}
	log.Printf("no currency exchange found for %s on %s, resolving to zero EUR",
		amount, date.FromTime(at))
	return Zero(EUR)
}

// ReportUntraced logs every exchange that still has an untraced remainder
// after all transactions were processed, and returns them. A leftover
// means the transactions belonging to that exchange were never found.
func ReportUntraced(exchanges []*CurrencyExchange) []*CurrencyExchange {
	var untraced []*CurrencyExchange
	for _, e := range exchanges {
		if !e.TracedFully() {
			log.Printf("exchange of %s on %s has untraced remainder %s",
				e.amountFrom, e.Date(), e.Remaining())
			untraced = append(untraced, e)
		}
	}
	return untraced
}
