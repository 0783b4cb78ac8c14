package stockwatch

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/StockwatchDev/stockwatch/date"
	"github.com/shopspring/decimal"
)

func position(on date.Date, isin string, quantity float64, value float64) Position {
	return Position{
		Date:       on,
		ISIN:       isin,
		Name:       "Test Instrument " + isin,
		Quantity:   decimal.NewFromFloat(quantity),
		Price:      A(1, EUR),
		Value:      A(value, EUR),
		Investment: Zero(EUR),
		Realized:   Zero(EUR),
	}
}

func dictionary(positions ...Position) PortfoliosDictionary {
	dict := make(PortfoliosDictionary)
	for _, p := range positions {
		if dict[p.Date] == nil {
			dict[p.Date] = make(map[string]Position)
		}
		dict[p.Date][p.ISIN] = p
	}
	return dict
}

func at(day date.Date) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
}

func TestApplyTransactionsBuyPropagatesForward(t *testing.T) {
	d1 := date.MustParse("2021-01-05")
	d2 := date.MustParse("2021-01-20")
	d3 := date.MustParse("2021-02-03")
	dict := dictionary(
		position(d1, "IE00B441G979", 0, 0),
		position(d2, "IE00B441G979", 16, 1040),
		position(d3, "IE00B441G979", 16, 1100),
	)

	buy := Transaction{
		Datetime: at(date.MustParse("2021-01-12")),
		ISIN:     "IE00B441G979",
		Kind:     Buy,
		Quantity: decimal.NewFromInt(16),
		Price:    A(64.375, EUR),
		Amount:   A(1030, EUR),
	}
	ApplyTransactions([]Transaction{buy}, dict)

	// The snapshot before the buy is untouched.
	if got := dict[d1]["IE00B441G979"].Investment; !got.IsZero() {
		t.Errorf("investment on %s = %s, want 0", d1, got.Value())
	}
	// Every snapshot on or after the buy carries the full cost.
	for _, on := range []date.Date{d2, d3} {
		if got := dict[on]["IE00B441G979"].Investment; !got.Equal(A(1030, EUR)) {
			t.Errorf("investment on %s = %s, want 1030", on, got.Value())
		}
		if got := dict[on]["IE00B441G979"].Realized; !got.IsZero() {
			t.Errorf("realized on %s = %s, want 0", on, got.Value())
		}
	}
}

func TestApplyTransactionsSellCostBasis(t *testing.T) {
	d1 := date.MustParse("2021-03-01")
	d2 := date.MustParse("2021-03-22")
	prior := position(d1, "NL0011794037", 10, 1200)
	prior.Investment = A(1000, EUR)
	dict := dictionary(
		prior,
		position(d2, "NL0011794037", 6, 760),
	)

	sell := Transaction{
		Datetime: at(date.MustParse("2021-03-10")),
		ISIN:     "NL0011794037",
		Kind:     Sell,
		Quantity: decimal.NewFromInt(4),
		Price:    A(120, EUR),
		Amount:   A(480, EUR),
	}
	ApplyTransactions([]Transaction{sell}, dict)

	// buy price 100, sell price 120: investment -400, realized +80.
	got := dict[d2]["NL0011794037"]
	if !got.Investment.Equal(A(-400, EUR)) {
		t.Errorf("investment delta = %s, want -400", got.Investment.Value())
	}
	if !got.Realized.Equal(A(80, EUR)) {
		t.Errorf("realized delta = %s, want 80", got.Realized.Value())
	}
	// The snapshot before the sell keeps its original basis.
	before := dict[d1]["NL0011794037"]
	if !before.Investment.Equal(A(1000, EUR)) || !before.Realized.IsZero() {
		t.Errorf("prior snapshot changed: investment %s realized %s",
			before.Investment.Value(), before.Realized.Value())
	}
}

func TestApplyTransactionsSellWithoutPriorPosition(t *testing.T) {
	d1 := date.MustParse("2021-03-01")
	dict := dictionary(position(d1, "NL0011794037", 0, 0))

	sell := Transaction{
		Datetime: at(date.MustParse("2021-02-10")),
		ISIN:     "NL0011794037",
		Kind:     Sell,
		Quantity: decimal.NewFromInt(4),
		Price:    A(120, EUR),
		Amount:   A(480, EUR),
	}
	ApplyTransactions([]Transaction{sell}, dict)

	// No prior snapshot exists: the sell cannot be resolved and must not
	// contribute any delta.
	got := dict[d1]["NL0011794037"]
	if !got.Investment.IsZero() || !got.Realized.IsZero() {
		t.Errorf("unresolvable sell contributed investment %s realized %s",
			got.Investment.Value(), got.Realized.Value())
	}
}

func TestApplyTransactionsBeforeFirstSnapshot(t *testing.T) {
	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)

	d1 := date.MustParse("2021-06-01")
	d2 := date.MustParse("2021-07-01")
	dict := dictionary(
		position(d1, "NL0010273215", 10, 500),
		position(d2, "NL0010273215", 10, 520),
	)

	buy := Transaction{
		Datetime: at(date.MustParse("2021-05-20")),
		ISIN:     "NL0010273215",
		Kind:     Buy,
		Quantity: decimal.NewFromInt(10),
		Price:    A(48, EUR),
		Amount:   A(480, EUR),
	}
	ApplyTransactions([]Transaction{buy}, dict)

	// The buy still counts from the first snapshot on, but the gap in the
	// record is called out.
	for _, on := range []date.Date{d1, d2} {
		if got := dict[on]["NL0010273215"].Investment; !got.Equal(A(480, EUR)) {
			t.Errorf("investment on %s = %s, want 480", on, got.Value())
		}
	}
	if !strings.Contains(logged.String(), "predates the first snapshot") {
		t.Errorf("no diagnostic logged for a pre-snapshot buy, got %q", logged.String())
	}
}

func TestApplyTransactionsPastLastSnapshotStops(t *testing.T) {
	d1 := date.MustParse("2021-03-01")
	dict := dictionary(position(d1, "NL0011794037", 10, 1000))

	late := Transaction{
		Datetime: at(date.MustParse("2021-04-01")),
		ISIN:     "NL0011794037",
		Kind:     Buy,
		Quantity: decimal.NewFromInt(1),
		Price:    A(100, EUR),
		Amount:   A(100, EUR),
	}
	ApplyTransactions([]Transaction{late}, dict)

	if got := dict[d1]["NL0011794037"].Investment; !got.IsZero() {
		t.Errorf("transaction past the last snapshot was applied: %s", got.Value())
	}
}

func TestApplyTransactionsDividendAndExpenses(t *testing.T) {
	d1 := date.MustParse("2021-03-01")
	dict := dictionary(position(d1, "IE00B3RBWM25", 20, 2000))

	txs := []Transaction{
		{
			Datetime: at(date.MustParse("2021-02-20")),
			ISIN:     "IE00B3RBWM25",
			Kind:     Dividend,
			Quantity: decimal.NewFromInt(1),
			Price:    A(12.50, EUR),
			Amount:   A(12.50, EUR),
		},
		{
			Datetime: at(date.MustParse("2021-02-20")),
			ISIN:     "IE00B3RBWM25",
			Kind:     Expenses,
			Quantity: decimal.NewFromInt(1),
			Price:    A(-2, EUR),
			Amount:   A(-2, EUR),
		},
	}
	ApplyTransactions(txs, dict)

	got := dict[d1]["IE00B3RBWM25"]
	if !got.Investment.IsZero() {
		t.Errorf("dividend/expenses touched investment: %s", got.Investment.Value())
	}
	if !got.Realized.Equal(A(10.50, EUR)) {
		t.Errorf("realized = %s, want 10.50", got.Realized.Value())
	}
}

// Full scenario: a holding is bought before the first snapshot and fully
// sold between two snapshots 21 days apart. The later snapshot ends with
// zero investment, and the realized return is the gain over the
// weighted-average cost.
func TestApplyTransactionsFullDisposal(t *testing.T) {
	d1 := date.MustParse("2022-01-03")
	d2 := date.MustParse("2022-01-24")
	dict := dictionary(
		position(d1, "NL0010408704", 36, 1000),
		// After the sale the export still lists the instrument, empty.
		EmptyPosition(d2, "NL0010408704", "Van Lanschot Kempen"),
	)

	buy := Transaction{
		Datetime: at(date.MustParse("2021-12-20")),
		ISIN:     "NL0010408704",
		Kind:     Buy,
		Quantity: decimal.NewFromInt(36),
		Price:    A(25, EUR),
		Amount:   A(900, EUR),
	}
	sell := Transaction{
		Datetime: at(date.MustParse("2022-01-10")),
		ISIN:     "NL0010408704",
		Kind:     Sell,
		Quantity: decimal.NewFromInt(36),
		Price:    A(28.79, EUR),
		Amount:   A(36*28.79, EUR),
	}
	ApplyTransactions([]Transaction{buy, sell}, dict)

	// First snapshot: bought, not yet sold.
	first := dict[d1]["NL0010408704"]
	if !first.Investment.Equal(A(900, EUR)) || !first.Realized.IsZero() {
		t.Errorf("first snapshot: investment %s realized %s, want 900 and 0",
			first.Investment.Value(), first.Realized.Value())
	}

	// Second snapshot: fully disposed, gain = 36*(28.79-25) = 136.44.
	second := dict[d2]["NL0010408704"]
	if !second.Investment.IsZero() {
		t.Errorf("investment after full disposal = %s, want 0", second.Investment.Value())
	}
	if !second.Realized.Equal(A(136.44, EUR)) {
		t.Errorf("realized after full disposal = %s, want 136.44", second.Realized.Value())
	}
}
