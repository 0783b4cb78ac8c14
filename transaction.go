package stockwatch

import (
	"fmt"
	"time"

	"github.com/StockwatchDev/stockwatch/date"
	"github.com/shopspring/decimal"
)

// TransactionKind is the type of a ledger event relevant to reconciliation.
type TransactionKind int

const (
	// Buy is a purchase of an instrument.
	Buy TransactionKind = iota + 1
	// Sell is a disposal of an instrument, including forced delistings.
	Sell
	// Dividend is a cash distribution for a held instrument.
	Dividend
	// Expenses are trading costs charged against an instrument.
	Expenses
)

func (k TransactionKind) String() string {
	switch k {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Dividend:
		return "dividend"
	case Expenses:
		return "expenses"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Transaction is a single reconciliation-relevant ledger event.
//
// Price may be quoted in a foreign currency; Amount is always the
// EUR-equivalent cash effect, resolved through the exchange matcher when
// needed. Transactions are immutable and ordered by Datetime.
type Transaction struct {
	Datetime time.Time
	ISIN     string
	Kind     TransactionKind
	Quantity decimal.Decimal
	Price    Amount // per unit, possibly foreign currency
	Amount   Amount // total cash effect, always EUR
}

// Date returns the calendar day of the transaction.
func (t Transaction) Date() date.Date { return date.FromTime(t.Datetime) }

// Compare orders transactions chronologically, then by ISIN and kind for a
// stable order of same-instant events.
func (t Transaction) Compare(u Transaction) int {
	if c := t.Datetime.Compare(u.Datetime); c != 0 {
		return c
	}
	if t.ISIN != u.ISIN {
		if t.ISIN < u.ISIN {
			return -1
		}
		return 1
	}
	return int(t.Kind) - int(u.Kind)
}

// CashSettlement is a separate ledger row carrying the proceeds of a
// delisting, where the sell row itself reports a zero amount.
type CashSettlement struct {
	Datetime time.Time
	ISIN     string
	Amount   Amount
}

// Date returns the calendar day of the settlement.
func (s CashSettlement) Date() date.Date { return date.FromTime(s.Datetime) }
