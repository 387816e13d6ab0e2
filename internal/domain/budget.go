package domain

// DefaultMonthlyLimit is the system-wide spending ceiling applied before the
// user saves a goal of their own.
const DefaultMonthlyLimit = 50000

// BudgetGoal is the user-configured spending ceiling, total and per
// category. Replaced wholesale on each save; reset to the default on logout.
type BudgetGoal struct {
	TotalMonthlyLimit float64            `json:"totalMonthlyLimit"`
	CategoryLimits    map[string]float64 `json:"categoryLimits"`
}

// DefaultBudgetGoal returns the goal used when none has been persisted.
func DefaultBudgetGoal() BudgetGoal {
	return BudgetGoal{
		TotalMonthlyLimit: DefaultMonthlyLimit,
		CategoryLimits:    map[string]float64{},
	}
}
