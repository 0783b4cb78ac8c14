// Package stockwatch reconstructs the cost basis, realized and unrealized
// return of a brokerage portfolio from exported CSV data.
//
// The broker's dated position snapshots carry only market state (quantity,
// price, value) and no cost history. The account activity log carries the
// ledger events (buys, sells, dividends, expenses, currency exchanges,
// cash settlements) but no positions. This package merges the two: the
// snapshot builder fills a date-keyed dictionary with a position per
// instrument per date, the exchange matcher resolves foreign-currency cash
// flows to EUR, and the reconciliation engine replays the ledger events
// against the snapshots, propagating each event's effect forward through
// all later dates.
//
// Parsing of the broker's localized export formats lives in the degiro
// subpackage; this package holds the broker-agnostic model and algorithms.
package stockwatch
