package degiro

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/StockwatchDev/stockwatch"
	"github.com/StockwatchDev/stockwatch/date"
	"github.com/shopspring/decimal"
)

// rowKind is the classification of one account report row, derived from
// keywords in its free-text description.
type rowKind int

const (
	rowUnknown rowKind = iota
	rowBuy
	rowSell
	rowDelisting
	rowDividend
	rowExpenses
	rowExchange
	rowSettlement
)

// classify determines the kind of a ledger row. Rows that match no known
// pattern are rowUnknown and dropped: not every ledger line is
// investment-relevant.
func classify(description, currency string) rowKind {
	tokens := strings.Fields(description)
	switch {
	case slices.Contains(tokens, kwBuy):
		return rowBuy
	case slices.Contains(tokens, kwSell):
		if strings.Contains(description, kwDelisting) {
			return rowDelisting
		}
		return rowSell
	case slices.Contains(tokens, kwDividend):
		return rowDividend
	case strings.Contains(description, kwExpenses):
		return rowExpenses
	case strings.Contains(description, kwFXCredit), strings.Contains(description, kwFXDebit):
		if currency != stockwatch.EUR {
			return rowExchange
		}
		return rowUnknown
	case strings.Contains(description, kwSettlement):
		return rowSettlement
	default:
		return rowUnknown
	}
}

// accountRow is one parsed line of the account report.
type accountRow struct {
	datetime    time.Time
	isin        string
	description string
	fx          string
	currency    string
	amount      decimal.Decimal
	kind        rowKind
}

// ParseAccountReport parses the account activity report into typed ledger
// events, keeping only rows for known instruments. Foreign-currency cash
// flows are resolved to EUR through the currency exchanges found in the
// same report; exchanges left with an untraced remainder are reported at
// the end.
//
// The source file is reverse-chronological; the returned slices are in
// chronological order.
func ParseAccountReport(r io.Reader, instruments map[string]struct{}) ([]stockwatch.Transaction, []*stockwatch.CurrencyExchange, []stockwatch.CashSettlement, error) {
	rows, err := readAccountRows(r, instruments)
	if err != nil {
		return nil, nil, nil, err
	}

	// Exchanges and settlements first: resolving a transaction needs the
	// exchange booked after it, and a delisting needs its settlement row.
	var exchanges []*stockwatch.CurrencyExchange
	for _, row := range rows {
		if row.kind != rowExchange {
			continue
		}
		rate, err := parseDecimal(row.fx)
		if err != nil {
			log.Printf("skipping exchange dated %s: bad FX rate: %v", row.datetime, err)
			continue
		}
		exchange, err := stockwatch.NewCurrencyExchange(row.datetime, rate, stockwatch.A(row.amount, row.currency))
		if err != nil {
			log.Printf("skipping exchange dated %s: %v", row.datetime, err)
			continue
		}
		exchanges = append(exchanges, exchange)
	}

	var settlements []stockwatch.CashSettlement
	for _, row := range rows {
		if row.kind != rowSettlement {
			continue
		}
		settlements = append(settlements, stockwatch.CashSettlement{
			Datetime: row.datetime,
			ISIN:     row.isin,
			Amount:   stockwatch.ApplyExchange(row.datetime, stockwatch.A(row.amount, row.currency), exchanges),
		})
	}

	var transactions []stockwatch.Transaction
	for _, row := range rows {
		tx, ok := buildTransaction(row, exchanges, settlements)
		if ok {
			transactions = append(transactions, tx)
		}
	}

	stockwatch.ReportUntraced(exchanges)
	return transactions, exchanges, settlements, nil
}

// LoadAccount parses the newest account report in the directory.
func LoadAccount(dir Dir, instruments map[string]struct{}) ([]stockwatch.Transaction, []*stockwatch.CurrencyExchange, []stockwatch.CashSettlement, error) {
	file, err := dir.AccountFile()
	if err != nil {
		return nil, nil, nil, err
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()
	return ParseAccountReport(f, instruments)
}

// readAccountRows reads and classifies the report rows, returning them in
// chronological order.
func readAccountRows(r io.Reader, instruments map[string]struct{}) ([]accountRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read account report: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	h := newHeader(synthesizeHeader(records[0]))

	var rows []accountRow
	// The report lists newest first; walk it backwards.
	for i := len(records) - 1; i >= 1; i-- {
		record := records[i]

		currency := h.get(record, colCurrency)
		kind := classify(h.get(record, colDescription), currency)
		if kind == rowUnknown {
			continue
		}
		isin := h.get(record, colAccISIN)
		if kind != rowExchange {
			// Exchange rows carry no instrument; everything else must
			// belong to a known instrument.
			if _, ok := instruments[isin]; !ok {
				continue
			}
		}
		datetime, err := time.Parse(accountDateFormat+" "+accountTimeFormat,
			h.get(record, colDate)+" "+h.get(record, colTime))
		if err != nil {
			log.Printf("skipping account row: bad date: %v", err)
			continue
		}
		amount, err := parseDecimal(h.get(record, colAmount))
		if err != nil {
			log.Printf("skipping account row dated %s: bad amount: %v", datetime, err)
			continue
		}
		rows = append(rows, accountRow{
			datetime:    datetime,
			isin:        isin,
			description: h.get(record, colDescription),
			fx:          h.get(record, colFX),
			currency:    currency,
			amount:      amount,
			kind:        kind,
		})
	}
	return rows, nil
}

// synthesizeHeader names the blank header fields of the source export:
// the amount column following the currency column, and the balance value
// column following the balance currency column.
func synthesizeHeader(record []string) []string {
	fixed := slices.Clone(record)
	for i := 1; i < len(fixed); i++ {
		if strings.TrimSpace(fixed[i]) != "" {
			continue
		}
		switch strings.TrimSpace(fixed[i-1]) {
		case colCurrency:
			fixed[i] = colAmount
		case colBalance:
			fixed[i] = colBalance + colAmount
		}
	}
	return fixed
}

// buildTransaction turns a classified row into a Transaction, resolving
// its cash amount to EUR.
func buildTransaction(row accountRow, exchanges []*stockwatch.CurrencyExchange, settlements []stockwatch.CashSettlement) (stockwatch.Transaction, bool) {
	switch row.kind {
	case rowBuy, rowSell:
		quantity, price, err := tradeDetails(row.description)
		if err != nil {
			log.Printf("skipping %s row dated %s: %v", row.kind, row.datetime, err)
			return stockwatch.Transaction{}, false
		}
		amount := stockwatch.ApplyExchange(row.datetime, stockwatch.A(row.amount, row.currency), exchanges)
		kind := stockwatch.Sell
		if row.kind == rowBuy {
			kind = stockwatch.Buy
			// The cash column is negative for a purchase; the
			// transaction amount is the (positive) cost.
			amount = amount.Neg()
		}
		return stockwatch.Transaction{
			Datetime: row.datetime,
			ISIN:     row.isin,
			Kind:     kind,
			Quantity: quantity,
			Price:    stockwatch.A(price, row.currency),
			Amount:   amount,
		}, true

	case rowDelisting:
		quantity, price, err := tradeDetails(row.description)
		if err != nil {
			log.Printf("skipping delisting row dated %s: %v", row.datetime, err)
			return stockwatch.Transaction{}, false
		}
		// The delisting row reports a zero amount; the proceeds live in
		// a separate cash settlement for the same instrument and day.
		amount := stockwatch.Zero(stockwatch.EUR)
		if settlement, ok := findSettlement(settlements, row); ok {
			amount = settlement.Amount
		} else {
			log.Printf("no cash settlement found for delisting of %s on %s, assuming zero proceeds",
				row.isin, row.datetime.Format(accountDateFormat))
		}
		return stockwatch.Transaction{
			Datetime: row.datetime,
			ISIN:     row.isin,
			Kind:     stockwatch.Sell,
			Quantity: quantity,
			Price:    stockwatch.A(price, row.currency),
			Amount:   amount,
		}, true

	case rowDividend, rowExpenses:
		kind := stockwatch.Dividend
		if row.kind == rowExpenses {
			kind = stockwatch.Expenses
		}
		amount := stockwatch.ApplyExchange(row.datetime, stockwatch.A(row.amount, row.currency), exchanges)
		return stockwatch.Transaction{
			Datetime: row.datetime,
			ISIN:     row.isin,
			Kind:     kind,
			Quantity: decimal.NewFromInt(1),
			Price:    stockwatch.A(row.amount, row.currency),
			Amount:   amount,
		}, true
	}
	return stockwatch.Transaction{}, false
}

func (k rowKind) String() string {
	switch k {
	case rowBuy:
		return "buy"
	case rowSell:
		return "sell"
	case rowDelisting:
		return "delisting"
	case rowDividend:
		return "dividend"
	case rowExpenses:
		return "expenses"
	case rowExchange:
		return "exchange"
	case rowSettlement:
		return "settlement"
	default:
		return "unknown"
	}
}

// tradeDetails extracts the traded quantity and unit price from a trade
// description such as "Koop 16 @ 64,375 USD".
func tradeDetails(description string) (quantity, price decimal.Decimal, err error) {
	tokens := strings.Fields(description)
	key := slices.Index(tokens, kwBuy)
	if key < 0 {
		key = slices.Index(tokens, kwSell)
	}
	if key < 0 || key+3 >= len(tokens) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("description %q does not carry trade details", description)
	}
	quantity, err = parseDecimal(tokens[key+1])
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("bad quantity in %q: %w", description, err)
	}
	price, err = parseDecimal(tokens[key+3])
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("bad price in %q: %w", description, err)
	}
	return quantity, price, nil
}

// findSettlement matches a delisting row to the cash settlement of the
// same instrument on the same day.
func findSettlement(settlements []stockwatch.CashSettlement, row accountRow) (stockwatch.CashSettlement, bool) {
	for _, s := range settlements {
		if s.ISIN == row.isin && s.Date() == date.FromTime(row.datetime) {
			return s, true
		}
	}
	return stockwatch.CashSettlement{}, false
}
