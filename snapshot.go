package stockwatch

import (
	"log"
	"slices"

	"github.com/StockwatchDev/stockwatch/date"
	"github.com/shopspring/decimal"
)

// SnapshotRow is one raw holding line from a dated position export.
type SnapshotRow struct {
	ISIN     string
	Name     string
	Quantity decimal.Decimal
	Price    Amount // in the instrument's trading currency
	Value    Amount // in EUR
}

// Snapshot is a dated export of current holdings. It carries market state
// only: quantity, price and value, with no cost history.
type Snapshot struct {
	Date date.Date
	Rows []SnapshotRow
}

// BuildSnapshots materializes snapshots into a fully-populated dictionary:
// every instrument seen on any date gets an entry at every date, either a
// real position or an empty placeholder (not yet bought, or already sold).
// It also returns the set of all instruments ever seen, which scopes the
// account-log parsing.
//
// Duplicate snapshot dates are logged and the later snapshot wins; that is
// a documented anomaly of the source exports, not a silent overwrite.
func BuildSnapshots(snapshots []Snapshot) (PortfoliosDictionary, map[string]struct{}) {
	sorted := slices.Clone(snapshots)
	slices.SortStableFunc(sorted, func(a, b Snapshot) int { return a.Date.Compare(b.Date) })

	// First pass: the full instrument set, and the name each instrument
	// carried when it first appeared. Placeholders back-filled into dates
	// before an instrument's first appearance use that first name.
	firstName := make(map[string]string)
	for _, snap := range sorted {
		for _, row := range snap.Rows {
			if _, ok := firstName[row.ISIN]; !ok {
				firstName[row.ISIN] = row.Name
			}
		}
	}

	// Second pass: materialize every date with an entry per instrument.
	// lastName tracks the most recent reported name, so a sold instrument
	// keeps its name on later placeholder entries.
	dict := make(PortfoliosDictionary, len(sorted))
	lastName := make(map[string]string, len(firstName))
	for _, snap := range sorted {
		if _, ok := dict[snap.Date]; ok {
			log.Printf("multiple snapshots dated %s, keeping the later one", snap.Date)
		}
		positions := make(map[string]Position, len(firstName))
		for _, row := range snap.Rows {
			lastName[row.ISIN] = row.Name
			// Investment and realized start at zero; the reconciliation
			// engine fills them in from the account log.
			positions[row.ISIN] = Position{
				Date:       snap.Date,
				ISIN:       row.ISIN,
				Name:       row.Name,
				Quantity:   row.Quantity,
				Price:      row.Price,
				Value:      row.Value,
				Investment: Zero(EUR),
				Realized:   Zero(EUR),
			}
		}
		for isin := range firstName {
			if _, ok := positions[isin]; ok {
				continue
			}
			name, ok := lastName[isin]
			if !ok {
				name = firstName[isin]
			}
			positions[isin] = EmptyPosition(snap.Date, isin, name)
		}
		dict[snap.Date] = positions
	}

	instruments := make(map[string]struct{}, len(firstName))
	for isin := range firstName {
		instruments[isin] = struct{}{}
	}
	return dict, instruments
}
