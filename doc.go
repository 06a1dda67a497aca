// Package fundfolio reconstructs mutual fund holdings from a statement of
// buy and sell transactions, and values them.
//
// The core functionalities include:
//   - Normalization: statement records are validated into Transactions and
//     sorted by trade date, keeping the statement order for a given day.
//   - Lot Ledger: each (folio, ISIN) position keeps a FIFO queue of open lots.
//     Buys append a lot, sells consume the oldest lots first, partially if
//     needed. A sell larger than the open units is reported as an Oversell
//     diagnostic instead of failing the whole run.
//   - Valuation: positions are priced through a PriceSource, gains are
//     measured against the cumulated cost of every buy. A position without
//     price is still reported, marked unavailable and left out of totals.
//
// Quantities and amounts are exact decimals, so unit conservation holds
// exactly whatever the number of transactions.
//
// This package serves as the foundational logic for the `ff` command-line
// tool.
package fundfolio
