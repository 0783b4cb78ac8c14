package stockwatch

import (
	"reflect"
	"testing"

	"github.com/StockwatchDev/stockwatch/date"
)

func TestNewPortfolioDateConsistency(t *testing.T) {
	d1 := date.MustParse("2021-01-05")
	d2 := date.MustParse("2021-01-06")

	if _, err := NewPortfolio(d1, []Position{position(d1, "A1", 1, 10), position(d2, "B2", 1, 10)}); err == nil {
		t.Error("mixing dates in one portfolio must fail")
	}
	if _, err := NewPortfolio(d1, []Position{position(d1, "A1", 1, 10)}); err != nil {
		t.Errorf("consistent portfolio rejected: %v", err)
	}
	if _, err := NewPortfolio(d1, nil); err != nil {
		t.Errorf("empty portfolio rejected: %v", err)
	}
}

func TestPortfolioGetNeverFails(t *testing.T) {
	d1 := date.MustParse("2021-01-05")
	p, err := NewPortfolio(d1, []Position{position(d1, "IE00B441G979", 16, 1040)})
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Get("IE00B441G979"); got.Quantity.IsZero() {
		t.Error("existing position not found")
	}

	// An unknown instrument yields an empty placeholder, dated like the
	// portfolio.
	got := p.Get("NL0010408704")
	if got.Date != d1 || got.ISIN != "NL0010408704" {
		t.Errorf("placeholder = %+v", got)
	}
	if !got.Quantity.IsZero() || !got.Value.IsZero() || !got.Investment.IsZero() || !got.Realized.IsZero() {
		t.Error("placeholder must be all zero")
	}
}

func TestPortfolioAggregates(t *testing.T) {
	d1 := date.MustParse("2021-01-05")
	a := position(d1, "A1", 10, 500)
	a.Investment = A(400, EUR)
	a.Realized = A(25, EUR)
	b := position(d1, "B2", 5, 300)
	b.Investment = A(350, EUR)
	b.Realized = A(-10, EUR)

	p, err := NewPortfolio(d1, []Position{a, b})
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Value(); !got.Equal(A(800, EUR)) {
		t.Errorf("Value = %s, want 800", got.Value())
	}
	if got := p.Investment(); !got.Equal(A(750, EUR)) {
		t.Errorf("Investment = %s, want 750", got.Value())
	}
	if got := p.Realized(); !got.Equal(A(15, EUR)) {
		t.Errorf("Realized = %s, want 15", got.Value())
	}
	if got := p.Unrealized(); !got.Equal(A(50, EUR)) {
		t.Errorf("Unrealized = %s, want 50", got.Value())
	}
	// total return == realized + (value - investment)
	if got := p.TotalReturn(); !got.Equal(p.Realized().Add(p.Value().Sub(p.Investment()))) {
		t.Errorf("TotalReturn = %s, inconsistent with parts", got.Value())
	}
}

func TestToPortfoliosSorted(t *testing.T) {
	d1 := date.MustParse("2021-01-05")
	d2 := date.MustParse("2021-02-05")
	dict := dictionary(
		position(d2, "A1", 1, 10),
		position(d1, "A1", 1, 10),
	)

	portfolios, err := ToPortfolios(dict)
	if err != nil {
		t.Fatal(err)
	}
	if len(portfolios) != 2 || portfolios[0].Date() != d1 || portfolios[1].Date() != d2 {
		t.Errorf("portfolios out of order: %v, %v", portfolios[0].Date(), portfolios[1].Date())
	}
}

func TestClosestAfterAndBefore(t *testing.T) {
	dates := []string{"2021-01-05", "2021-01-20", "2021-02-03"}
	var portfolios []Portfolio
	for _, s := range dates {
		on := date.MustParse(s)
		p, err := NewPortfolio(on, []Position{position(on, "A1", 1, 10)})
		if err != nil {
			t.Fatal(err)
		}
		portfolios = append(portfolios, p)
	}

	tests := []struct {
		name       string
		target     string
		wantAfter  string // "" means none
		wantBefore string
	}{
		{name: "before all", target: "2021-01-01", wantAfter: "2021-01-05", wantBefore: ""},
		{name: "on a snapshot", target: "2021-01-20", wantAfter: "2021-01-20", wantBefore: "2021-01-05"},
		{name: "between snapshots", target: "2021-01-21", wantAfter: "2021-02-03", wantBefore: "2021-01-20"},
		{name: "after all", target: "2021-03-01", wantAfter: "", wantBefore: "2021-02-03"},
	}
	for _, tc := range tests {
		target := date.MustParse(tc.target)

		after, ok := ClosestAfter(portfolios, target)
		if tc.wantAfter == "" {
			if ok {
				t.Errorf("%s: ClosestAfter found %v, want none", tc.name, after.Date())
			}
		} else if !ok || after.Date() != date.MustParse(tc.wantAfter) {
			t.Errorf("%s: ClosestAfter = %v (%v), want %s", tc.name, after.Date(), ok, tc.wantAfter)
		}

		before, ok := ClosestBefore(portfolios, target)
		if tc.wantBefore == "" {
			if ok {
				t.Errorf("%s: ClosestBefore found %v, want none", tc.name, before.Date())
			}
		} else if !ok || before.Date() != date.MustParse(tc.wantBefore) {
			t.Errorf("%s: ClosestBefore = %v (%v), want %s", tc.name, before.Date(), ok, tc.wantBefore)
		}
	}
}

func TestEarliestLatestDate(t *testing.T) {
	if !EarliestDate(nil).IsZero() || !LatestDate(nil).IsZero() {
		t.Error("no portfolios should yield the zero date")
	}
	d1 := date.MustParse("2021-01-05")
	d2 := date.MustParse("2021-02-03")
	var portfolios []Portfolio
	for _, on := range []date.Date{d2, d1} {
		p, err := NewPortfolio(on, []Position{position(on, "A1", 1, 10)})
		if err != nil {
			t.Fatal(err)
		}
		portfolios = append(portfolios, p)
	}
	if got := EarliestDate(portfolios); got != d1 {
		t.Errorf("EarliestDate = %v, want %v", got, d1)
	}
	if got := LatestDate(portfolios); got != d2 {
		t.Errorf("LatestDate = %v, want %v", got, d2)
	}
}

func TestAllISINs(t *testing.T) {
	d1 := date.MustParse("2021-01-05")
	d2 := date.MustParse("2021-02-03")
	p1, err := NewPortfolio(d1, []Position{position(d1, "B2", 1, 10), position(d1, "A1", 1, 5)})
	if err != nil {
		t.Fatal(err)
	}
	p2, err := NewPortfolio(d2, []Position{position(d2, "C3", 1, 10), position(d2, "A1", 1, 5)})
	if err != nil {
		t.Fatal(err)
	}

	got := AllISINs([]Portfolio{p1, p2})
	want := []string{"A1", "B2", "C3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllISINs = %v, want %v", got, want)
	}
}
