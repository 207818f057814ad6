// Package longshort tracks long and short equity operations run by advisors on behalf of their
// clients, and values them against live market quotes.
//
// The core functionalities include:
//   - Operation Lifecycle: creating, editing, closing and deleting operations on a Snapshot. A
//     closed operation keeps the net result computed at the closing price, whatever the market
//     does afterwards.
//   - Valuation: an exact decimal computation of gross result, transaction cost (0.5% of the
//     notional on each leg), net result and return of an operation at a reference price.
//   - Targets: detection of the optional stop-gain and stop-loss levels.
//   - Aggregation: totals per client, per advisor, per closing month, together with the
//     client's remaining capacity.
//   - Data Persistence: the whole Snapshot is one JSON document; older shapes of that document
//     are migrated once, when they are loaded.
//
// This package serves as the foundational logic for the `lsdesk` command-line tool. Market data
// is provided by the quote package and documents are stored by the store package.
package longshort
