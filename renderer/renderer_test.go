package renderer

import (
	"strings"
	"testing"

	"github.com/StockwatchDev/stockwatch"
	"github.com/StockwatchDev/stockwatch/date"
	"github.com/shopspring/decimal"
)

func testPortfolio(t *testing.T) stockwatch.Portfolio {
	t.Helper()
	on := date.New(2022, 1, 31)
	p, err := stockwatch.NewPortfolio(on, []stockwatch.Position{
		{
			Date:       on,
			ISIN:       "NL0000000001",
			Name:       "AANDEEL NL",
			Quantity:   decimal.NewFromInt(10),
			Price:      stockwatch.A(10.50, stockwatch.EUR),
			Value:      stockwatch.A(105, stockwatch.EUR),
			Investment: stockwatch.A(100, stockwatch.EUR),
			Realized:   stockwatch.A(2.50, stockwatch.EUR),
		},
		stockwatch.EmptyPosition(on, "US0000000001", "TECH CORP"),
	})
	if err != nil {
		t.Fatalf("NewPortfolio() unexpected error = %v", err)
	}
	return p
}

func TestSummaryMarkdown(t *testing.T) {
	got := SummaryMarkdown(testPortfolio(t))

	for _, want := range []string{
		"# Portfolio Summary on 2022-01-31",
		"Value",
		"Investment",
		"Total return",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary does not contain %q:\n%s", want, got)
		}
	}
	// 7.50 total return on 100 invested.
	if !strings.Contains(got, "7.5") {
		t.Errorf("summary does not mention the return percentage:\n%s", got)
	}
}

func TestPositionsMarkdown(t *testing.T) {
	got := PositionsMarkdown(testPortfolio(t))

	if !strings.Contains(got, "NL0000000001") {
		t.Errorf("positions report misses the held instrument:\n%s", got)
	}
	// The empty placeholder carries no figures and gets no row.
	if strings.Contains(got, "US0000000001") {
		t.Errorf("positions report shows an empty placeholder:\n%s", got)
	}
}

func TestHistoryMarkdown(t *testing.T) {
	got := HistoryMarkdown([]stockwatch.Portfolio{testPortfolio(t)})

	if !strings.Contains(got, "# Portfolio History") {
		t.Errorf("history report misses its title:\n%s", got)
	}
	if !strings.Contains(got, "2022-01-31") {
		t.Errorf("history report misses the portfolio date:\n%s", got)
	}
}

func TestIndicesMarkdown(t *testing.T) {
	on := date.New(2022, 1, 31)
	indices := map[string][]stockwatch.Position{
		"sp500_index": {{
			Date:       on,
			ISIN:       "index",
			Name:       "sp500 index",
			Quantity:   decimal.NewFromFloat(1.2345),
			Price:      stockwatch.A(90, stockwatch.EUR),
			Value:      stockwatch.A(111.11, stockwatch.EUR),
			Investment: stockwatch.A(100, stockwatch.EUR),
			Realized:   stockwatch.A(0, stockwatch.EUR),
		}},
		"empty_index": {},
	}
	got := IndicesMarkdown([]stockwatch.Portfolio{testPortfolio(t)}, indices)

	for _, want := range []string{
		"# Index Comparison",
		"Portfolio",
		"## As if invested in sp500 index",
		"1.2345",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("indices report does not contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "empty_index") {
		t.Errorf("indices report shows an index without data:\n%s", got)
	}
}
