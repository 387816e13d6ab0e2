package normalize

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/risk-radar/internal/domain"
)

// ErrNoValidTransactions is the only hard failure the normalizer produces:
// the statement yielded zero usable rows after filtering. Row-level
// malformedness is recovered by dropping the row and is never surfaced.
var ErrNoValidTransactions = errors.New("no valid transactions found in statement")

// OwnerRef is stamped onto every normalized record. Single-tenant for now,
// same as the upload surface.
const OwnerRef = "current-user"

// dateLayouts are the accepted date formats, most specific first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// Normalize parses raw comma-delimited statement text into validated
// transactions. The first line is treated as a header and discarded, blank
// lines are skipped, and any row with fewer than four columns, an
// unparseable amount, or an unparseable date is silently dropped. The type
// column is lower-cased but otherwise accepted verbatim.
//
// Pure function of its input; each call mints fresh record IDs.
func Normalize(rawText string) ([]domain.Transaction, error) {
	lines := strings.Split(rawText, "\n")

	txs := make([]domain.Transaction, 0, len(lines))
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first {
			// Header row.
			first = false
			continue
		}

		columns := strings.Split(line, ",")
		if len(columns) < 4 {
			continue
		}
		for i := range columns {
			columns[i] = strings.TrimSpace(columns[i])
		}

		amount, err := strconv.ParseFloat(columns[1], 64)
		if err != nil {
			continue
		}

		date, ok := parseDate(columns[0])
		if !ok {
			continue
		}

		txs = append(txs, domain.Transaction{
			ID:          uuid.NewString(),
			Date:        date,
			Amount:      amount,
			Type:        domain.TransactionType(strings.ToLower(columns[2])),
			Description: columns[3],
			OwnerRef:    OwnerRef,
		})
	}

	if len(txs) == 0 {
		return nil, ErrNoValidTransactions
	}
	return txs, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
