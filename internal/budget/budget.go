// Package budget tracks the user-editable spending-limit configuration and
// computes progress against local aggregates.
package budget

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dvloznov/risk-radar/internal/domain"
)

// Progress is the spend position against a limit. Percent saturates at 100
// for display while IsOver comes from the unclamped comparison, so both
// can disagree at the boundary on purpose: spending exactly the limit reads
// 100% but is not over.
type Progress struct {
	Percent float64 `json:"percent"`
	IsOver  bool    `json:"isOver"`
}

// CategoryProgress is Progress for one category limit.
type CategoryProgress struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Spent    float64 `json:"spent"`
	Percent  float64 `json:"percent"`
	IsOver   bool    `json:"isOver"`
}

// CategoryEdit is one requested category-limit change. A non-positive or
// unparseable limit drops the category from the saved goal, which is also
// how a user removes one.
type CategoryEdit struct {
	Name  string `json:"name"`
	Limit string `json:"limit"`
}

// GoalEdit is a wholesale replacement request for the budget goal. Category
// edits are ordered so duplicate names resolve deterministically: last
// write wins.
type GoalEdit struct {
	TotalLimit string         `json:"totalMonthlyLimit"`
	Categories []CategoryEdit `json:"categoryLimits"`
}

// ComputeProgress returns the clamped percent and over-limit state of
// totalSpent against the goal's monthly limit.
func ComputeProgress(goal domain.BudgetGoal, totalSpent float64) Progress {
	return Progress{
		Percent: clampPercent(totalSpent, goal.TotalMonthlyLimit),
		IsOver:  totalSpent > goal.TotalMonthlyLimit,
	}
}

// ComputeCategoryProgress mirrors ComputeProgress per category limit, taking
// the spent amount for each category from the oracle-provided categorized
// expenses (zero when the category is absent). Result order follows no
// particular contract beyond being deterministic for identical input, so
// it is sorted by the goal map's key order after a stable pass.
func ComputeCategoryProgress(goal domain.BudgetGoal, expenses []domain.CategorizedExpense) []CategoryProgress {
	spentByCategory := make(map[string]float64, len(expenses))
	for _, e := range expenses {
		spentByCategory[e.Category] += e.Amount
	}

	result := make([]CategoryProgress, 0, len(goal.CategoryLimits))
	for _, cat := range sortedKeys(goal.CategoryLimits) {
		limit := goal.CategoryLimits[cat]
		spent := spentByCategory[cat]
		result = append(result, CategoryProgress{
			Category: cat,
			Limit:    limit,
			Spent:    spent,
			Percent:  clampPercent(spent, limit),
			IsOver:   spent > limit,
		})
	}
	return result
}

// UpdateGoal applies an edit and returns the goal to persist. If the total
// limit does not parse as a positive number the whole edit is rejected and
// the current goal is returned unchanged; there is no partial application.
func UpdateGoal(current domain.BudgetGoal, edit GoalEdit) domain.BudgetGoal {
	limit, err := strconv.ParseFloat(strings.TrimSpace(edit.TotalLimit), 64)
	if err != nil || limit <= 0 {
		return current
	}

	categoryLimits := make(map[string]float64, len(edit.Categories))
	for _, ce := range edit.Categories {
		name := strings.TrimSpace(ce.Name)
		if name == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(ce.Limit), 64)
		if err != nil || v <= 0 {
			// Dropping the entry doubles as category removal.
			delete(categoryLimits, name)
			continue
		}
		categoryLimits[name] = v
	}

	return domain.BudgetGoal{
		TotalMonthlyLimit: limit,
		CategoryLimits:    categoryLimits,
	}
}

func clampPercent(spent, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	percent := spent / limit * 100
	if percent > 100 {
		return 100
	}
	if percent < 0 {
		return 0
	}
	return percent
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
