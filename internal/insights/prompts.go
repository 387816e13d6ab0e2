package insights

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dvloznov/risk-radar/internal/domain"
)

// transactionRecord is the compact wire form of one transaction inside the
// oracle request payload.
type transactionRecord struct {
	D    string  `json:"d"`
	A    float64 `json:"a"`
	T    string  `json:"t"`
	Desc string  `json:"desc"`
}

// serializeTransactions converts the most recent MaxRequestTransactions
// transactions into compact records, truncating descriptions to
// DescriptionLimit characters.
func serializeTransactions(txs []domain.Transaction) []transactionRecord {
	recent := txs
	if len(recent) > MaxRequestTransactions {
		recent = recent[len(recent)-MaxRequestTransactions:]
	}

	records := make([]transactionRecord, 0, len(recent))
	for _, tx := range recent {
		desc := tx.Description
		if len(desc) > DescriptionLimit {
			desc = desc[:DescriptionLimit]
		}
		records = append(records, transactionRecord{
			D:    tx.Date.Format("2006-01-02"),
			A:    tx.Amount,
			T:    string(tx.Type),
			Desc: desc,
		})
	}
	return records
}

// buildPrompt assembles the analytical instruction for the oracle: the task
// list, the budget context computed locally (the oracle is given the numbers
// but never trusted to recompute them), and the serialized transaction data.
func buildPrompt(txs []domain.Transaction, goal *domain.BudgetGoal, totalSpent float64) (string, error) {
	records := serializeTransactions(txs)
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("buildPrompt: marshal transaction records: %w", err)
	}

	budgetContext := "No specific budget limit set."
	if goal != nil {
		budgetContext = fmt.Sprintf(
			"The user has set a total monthly budget limit of ₹%s. They have already spent ₹%s.",
			formatAmount(goal.TotalMonthlyLimit), formatAmount(totalSpent))
	}

	prompt := "Analyze this user's bank transaction data (Currency: INR).\n" +
		budgetContext + "\n\n" +
		"TASKS:\n" +
		"1. CALCULATE A NUMERICAL RISK SCORE (0 to 100):\n" +
		"   - 100: Flawless (High savings, consistent income, no budget breaches).\n" +
		"   - 0: Dangerous (Severe overspending, negative cash flow, high volatility).\n" +
		"2. IDENTIFY 3-5 SPECIFIC RISK FACTORS:\n" +
		"   - Factors that contributed positively (e.g., \"Stable Income Stream\") or negatively (e.g., \"Subscription Proliferation\").\n" +
		"3. Categorize spendings and identify \"High Risk\" individual behaviors.\n" +
		"4. Provide a high-level \"Health Directive\" for the user.\n\n" +
		"Data: " + string(data)

	return prompt, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
