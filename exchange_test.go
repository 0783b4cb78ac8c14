package stockwatch

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustExchange(t *testing.T, at time.Time, rate float64, from Amount) *CurrencyExchange {
	t.Helper()
	e, err := NewCurrencyExchange(at, decimal.NewFromFloat(rate), from)
	if err != nil {
		t.Fatalf("NewCurrencyExchange: %v", err)
	}
	return e
}

func TestNewCurrencyExchangeInvariants(t *testing.T) {
	at := time.Now()
	if _, err := NewCurrencyExchange(at, decimal.Zero, A(-80.24, "USD")); err == nil {
		t.Error("zero rate should be rejected")
	}
	if _, err := NewCurrencyExchange(at, decimal.NewFromFloat(-1.1), A(-80.24, "USD")); err == nil {
		t.Error("negative rate should be rejected")
	}
	if _, err := NewCurrencyExchange(at, decimal.NewFromFloat(1.1), Zero("USD")); err == nil {
		t.Error("zero amount should be rejected")
	}
}

func TestExchangeTraceWithTolerance(t *testing.T) {
	e := mustExchange(t, time.Now(), 1.1095, A(-80.24, "USD"))

	if e.TracedFully() {
		t.Fatal("fresh exchange should not be traced fully")
	}
	if e.CanTake(A(25.24, EUR)) {
		t.Error("wrong currency must not be taken")
	}
	if !e.CanTake(A(25.24, "USD")) {
		t.Fatal("exchange should absorb 25.24 USD")
	}

	part1, err := e.Take(A(25.24, "USD"))
	if err != nil {
		t.Fatal(err)
	}
	if part1.Currency() != EUR {
		t.Errorf("converted currency = %s, want EUR", part1.Currency())
	}

	if e.CanTake(A(80.24, "USD")) {
		t.Error("80.24 USD overshoots the remainder")
	}
	if !e.CanTake(A(55.00, "USD")) {
		t.Fatal("exchange should absorb the remaining 55.00 USD")
	}
	part2, err := e.Take(A(55.00, "USD"))
	if err != nil {
		t.Fatal(err)
	}

	if got := part1.Add(part2).Value().String(); got != "72.32" {
		t.Errorf("traced EUR total = %s, want 72.32", got)
	}
	if !e.TracedFully() {
		t.Error("exchange should be traced fully after 25.24 + 55.00")
	}
	if e.CanTake(A(0.01, "USD")) {
		t.Error("a fully traced exchange must not absorb more")
	}
}

func TestExchangeSignMustMatchRemainder(t *testing.T) {
	// A positive amountFrom means the remainder is negative: only
	// negative cash flows can be traced against it.
	e := mustExchange(t, time.Now(), 1.1095, A(80.24, "USD"))

	if e.CanTake(A(25.24, "USD")) {
		t.Error("positive amount must not match a negative remainder")
	}
	if !e.CanTake(A(-55.0, "USD")) {
		t.Error("negative amount should match a negative remainder")
	}
}

func TestApplyExchange(t *testing.T) {
	now := time.Now()
	e := mustExchange(t, now.Add(2*time.Hour), 1.1095, A(-80.24, "USD"))
	exchanges := []*CurrencyExchange{e}

	// EUR passes through untouched.
	if got := ApplyExchange(now, A(12.34, EUR), exchanges); !got.Equal(A(12.34, EUR)) {
		t.Errorf("EUR amount changed: %s", got.Value())
	}

	// A matching USD flow converts at the exact rate.
	got := ApplyExchange(now, A(80.24, "USD"), exchanges)
	if got.Currency() != EUR || got.Value().String() != "72.32" {
		t.Errorf("converted = %s %s, want 72.32 EUR", got.Value(), got.Currency())
	}

	// The exchange is consumed: a second flow finds nothing and resolves
	// to zero EUR.
	fallback := ApplyExchange(now, A(10, "USD"), exchanges)
	if !fallback.IsZero() || fallback.Currency() != EUR {
		t.Errorf("unmatched flow = %s %s, want zero EUR", fallback.Value(), fallback.Currency())
	}
}

func TestApplyExchangeRequiresLaterBooking(t *testing.T) {
	now := time.Now()
	// The exchange predates the cash flow, so it cannot have settled it.
	e := mustExchange(t, now.Add(-time.Hour), 1.1095, A(-80.24, "USD"))

	got := ApplyExchange(now, A(80.24, "USD"), []*CurrencyExchange{e})
	if !got.IsZero() {
		t.Errorf("flow matched an earlier exchange: %s", got.Value())
	}
}

func TestReportUntraced(t *testing.T) {
	now := time.Now()
	full := mustExchange(t, now, 1.1095, A(-80.24, "USD"))
	if _, err := full.Take(A(80.24, "USD")); err != nil {
		t.Fatal(err)
	}
	partial := mustExchange(t, now, 1.1095, A(-50.00, "USD"))

	untraced := ReportUntraced([]*CurrencyExchange{full, partial})
	if len(untraced) != 1 || untraced[0] != partial {
		t.Errorf("untraced = %v, want only the partial exchange", untraced)
	}
}
