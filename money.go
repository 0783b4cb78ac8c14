package stockwatch

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// EUR is the reporting currency: every reconciled figure ends up in it.
const EUR = "EUR"

// newDecimal is a convenient factory for decimal.Decimal.
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Amount is a monetary value in a single currency.
//
// It keeps the exact value for arithmetic; reported values are rounded to
// two decimals via Value. Amounts are immutable: all operations return a
// new Amount.
type Amount struct {
	value decimal.Decimal // exact value, in major units
	cur   string
}

// A builds an Amount from a numeric value and a currency code.
func A[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T, currency string) Amount {
	return Amount{value: newDecimal(value), cur: currency}
}

// Zero returns the zero Amount in the given currency.
func Zero(currency string) Amount { return Amount{cur: currency} }

// Currency returns the amount's currency code.
func (a Amount) Currency() string { return a.cur }

// Exact returns the unrounded value.
func (a Amount) Exact() decimal.Decimal { return a.value }

// Value returns the value rounded to two decimals. It is always derived
// from the exact value, never stored.
func (a Amount) Value() decimal.Decimal { return a.value.Round(2) }

// currency resolves the full go-money currency for formatting purposes.
func (a Amount) currency() money.Currency {
	// the Money constructor guarantees a non-nil currency.
	return *money.New(0, a.cur).Currency()
}

// String renders the rounded value with its currency symbol.
func (a Amount) String() string {
	cur := a.currency()
	dec := a.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

// sameCur returns the common currency of two amounts, treating "" as weak
// so that a zero-valued Amount{} combines with anything.
func sameCur(a, b Amount) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch: " + a.cur + " != " + b.cur)
	}
	return a.cur
}

// Add returns a+b. Panics if the currencies differ.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value), cur: sameCur(a, b)}
}

// Sub returns a-b. Panics if the currencies differ.
func (a Amount) Sub(b Amount) Amount {
	return Amount{value: a.value.Sub(b.value), cur: sameCur(a, b)}
}

// Neg returns -a.
func (a Amount) Neg() Amount { return Amount{value: a.value.Neg(), cur: a.cur} }

// Mul returns a scaled by the given factor.
func (a Amount) Mul(factor decimal.Decimal) Amount {
	return Amount{value: a.value.Mul(factor), cur: a.cur}
}

// Div returns a divided by the given divisor.
func (a Amount) Div(divisor decimal.Decimal) Amount {
	return Amount{value: a.value.Div(divisor), cur: a.cur}
}

// Ratio returns a/b as a bare number. Panics if the currencies differ.
func (a Amount) Ratio(b Amount) decimal.Decimal {
	sameCur(a, b)
	return a.value.Div(b.value)
}

// Comparisons operate on the rounded values, so that two amounts that
// report the same figure compare equal.

// Equal reports whether both currency and rounded value match.
func (a Amount) Equal(b Amount) bool { return a.cur == b.cur && a.Value().Equal(b.Value()) }

// LessThan reports a < b. Panics if the currencies differ.
func (a Amount) LessThan(b Amount) bool { sameCur(a, b); return a.Value().LessThan(b.Value()) }

// GreaterThan reports a > b. Panics if the currencies differ.
func (a Amount) GreaterThan(b Amount) bool { sameCur(a, b); return a.Value().GreaterThan(b.Value()) }

// IsZero reports whether the rounded value is zero.
func (a Amount) IsZero() bool { return a.Value().IsZero() }

// IsPositive reports whether the rounded value is positive.
func (a Amount) IsPositive() bool { return a.Value().IsPositive() }

// IsNegative reports whether the rounded value is negative.
func (a Amount) IsNegative() bool { return a.Value().IsNegative() }

// Abs returns the absolute value of a.
func (a Amount) Abs() Amount { return Amount{value: a.value.Abs(), cur: a.cur} }
