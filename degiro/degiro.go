// Package degiro reads and fetches DEGIRO brokerage exports.
//
// It understands the two export formats (dated position snapshots and the
// account activity report, both localized CSV), the stock-directory layout
// they are stored in, and the reporting endpoints they are scraped from.
// Parsed data is handed to the stockwatch root package for reconciliation.
package degiro

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Column headers of the position snapshot export.
const (
	colISIN       = "Symbool/ISIN"
	colProduct    = "Product"
	colLocalValue = "Lokale waarde"
	colQuantity   = "Aantal"
	colClosing    = "Slotkoers"
	colValueEUR   = "Waarde in EUR"
)

// Column headers of the account report export. colAmount is synthesized:
// in the source file the amount and balance value columns carry a blank
// header next to their currency columns.
const (
	colDate        = "Datum"
	colTime        = "Tijd"
	colAccISIN     = "ISIN"
	colAccProduct  = "Product"
	colDescription = "Omschrijving"
	colFX          = "FX"
	colCurrency    = "Mutatie"
	colAmount      = "Bedrag"
	colBalance     = "Saldo"
)

// Keywords in the free-text description that classify a ledger row.
const (
	kwBuy        = "Koop"
	kwSell       = "Verkoop"
	kwDelisting  = "DELISTING"
	kwDividend   = "Dividend"
	kwExpenses   = "Transactiekosten"
	kwFXCredit   = "Valuta Creditering"
	kwFXDebit    = "Valuta Debitering"
	kwSettlement = "Contante Verrekening"
)

// Date and time layouts of the account report.
const (
	accountDateFormat = "02-01-2006"
	accountTimeFormat = "15:04"
)

// parseDecimal parses a number from the export's localized format, where
// the decimal separator is a comma.
func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}
