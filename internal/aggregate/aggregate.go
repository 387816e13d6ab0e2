// Package aggregate computes deterministic local rollups from a validated
// transaction set. Everything here is pure arithmetic; no oracle, no I/O.
package aggregate

import (
	"sort"

	"github.com/dvloznov/risk-radar/internal/domain"
)

// MonthlySummary is one calendar-month rollup. Key is the sortable
// "YYYY-MM" year-month key; Label is the human-facing form used by charts.
type MonthlySummary struct {
	Key     string  `json:"key"`
	Label   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Monthly groups transactions by calendar year-month and sums credit
// amounts into Income and debit amounts into Expense. Rows with any other
// type are excluded from both sums. The result is ordered ascending by
// year-month key regardless of input order, and a fresh slice is returned
// on every call.
func Monthly(txs []domain.Transaction) []MonthlySummary {
	byMonth := make(map[string]*MonthlySummary)

	for _, tx := range txs {
		key := tx.Date.Format("2006-01")
		entry, ok := byMonth[key]
		if !ok {
			entry = &MonthlySummary{
				Key:   key,
				Label: tx.Date.Format("Jan 2006"),
			}
			byMonth[key] = entry
		}

		switch tx.Type {
		case domain.Credit:
			entry.Income += tx.Amount
		case domain.Debit:
			entry.Expense += tx.Amount
		}
	}

	result := make([]MonthlySummary, 0, len(byMonth))
	for _, entry := range byMonth {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// TotalDebit sums the amounts of all debit transactions. It feeds both the
// budget progress computation and the oracle request context; the oracle is
// never trusted to recompute it.
func TotalDebit(txs []domain.Transaction) float64 {
	var total float64
	for _, tx := range txs {
		if tx.Type == domain.Debit {
			total += tx.Amount
		}
	}
	return total
}
