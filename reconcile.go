package stockwatch

import (
	"log"
	"slices"

	"github.com/StockwatchDev/stockwatch/date"
)

// ApplyTransactions replays the account-log transactions against the
// snapshot dictionary, filling in the investment (cost basis) and realized
// return of every position. It mutates portfolios in place; that side
// effect is the entire contract.
//
// The replay is a single forward pass: both the snapshot dates and the
// transactions are sorted, and a monotonic index into the dates bounds the
// search for each transaction, giving O(snapshots + transactions) work.
// Each transaction's delta is a permanent step change applied to every
// snapshot on or after its date.
func ApplyTransactions(transactions []Transaction, portfolios PortfoliosDictionary) {
	dates := make([]date.Date, 0, len(portfolios))
	for on := range portfolios {
		dates = append(dates, on)
	}
	slices.SortFunc(dates, date.Date.Compare)

	sorted := slices.Clone(transactions)
	slices.SortStableFunc(sorted, Transaction.Compare)

	firstUnprocessed := 0
	for _, tx := range sorted {
		// Find the first snapshot on or after the transaction date.
		idxAfter := -1
		for i := firstUnprocessed; i < len(dates); i++ {
			if !dates[i].Before(tx.Date()) {
				idxAfter = i
				break
			}
		}
		if idxAfter < 0 {
			// The transaction postdates every snapshot, and so do all the
			// remaining (sorted) transactions.
			break
		}

		if idxAfter == 0 && tx.Date().Before(dates[0]) {
			log.Printf("%s %s on %s predates the first snapshot %s, counting it from there",
				tx.Kind, tx.ISIN, tx.Date(), dates[0])
		}

		// A sell needs the last known state before the transaction to
		// derive its cost basis.
		var prev *Position
		if tx.Kind == Sell && idxAfter > 0 {
			if pos, ok := portfolios[dates[idxAfter-1]][tx.ISIN]; ok {
				prev = &pos
			}
		}

		investment, realized := transactionDeltas(tx, prev)

		for i := idxAfter; i < len(dates); i++ {
			if pos, ok := portfolios[dates[i]][tx.ISIN]; ok {
				portfolios[dates[i]][tx.ISIN] = pos.WithDelta(investment, realized)
			}
		}

		firstUnprocessed = idxAfter
	}
}

// transactionDeltas computes the effect of one transaction on the
// instrument's cost basis and realized return.
//
// A sell that cannot be resolved (no prior position, or zero quantity)
// contributes nothing: the rest of the reconciliation continues, with a
// diagnostic.
func transactionDeltas(tx Transaction, prev *Position) (investment, realized Amount) {
	investment = Zero(EUR)
	realized = Zero(EUR)
	switch tx.Kind {
	case Buy:
		investment = tx.Amount
	case Sell:
		switch {
		case prev == nil:
			log.Printf("cannot process sell dated %s: no position found to determine buy price", tx.Date())
		case prev.Quantity.IsZero():
			log.Printf("cannot process sell dated %s: no stocks present to determine buy price", tx.Date())
		default:
			buyPrice := prev.Investment.Div(prev.Quantity)
			// The EUR-resolved amount, not the possibly-foreign quoted
			// price, determines the sell price.
			sellPrice := tx.Amount.Div(tx.Quantity)
			investment = buyPrice.Mul(tx.Quantity).Neg()
			realized = sellPrice.Sub(buyPrice).Mul(tx.Quantity)
		}
	case Dividend, Expenses:
		realized = tx.Amount
	}
	return investment, realized
}
