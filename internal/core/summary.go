package core

// CategoryAmount is an amount attributed to a named category.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// FinancialSummary is the compact picture of a user's finances handed
// to the advice collaborator.
type FinancialSummary struct {
	Income        Money            `json:"income"`
	Spend         Money            `json:"spend"`
	Uncategorized Money            `json:"uncategorized"`
	ByCategory    []CategoryAmount `json:"byCategory"`
	Alerts        []BudgetAlert    `json:"alerts,omitempty"`
	GoalProgress  []GoalProgress   `json:"goals,omitempty"`
}

// GoalProgress reports how far along a financial goal is.
type GoalProgress struct {
	Name    string `json:"name"`
	Target  Money  `json:"target"`
	Current Money  `json:"current"`
	Percent int64  `json:"percent"`
}

// Summarize builds a FinancialSummary from raw entities. Category
// order follows the categories slice so output is stable.
func Summarize(txs []Transaction, categories []Category, budgets []Budget, goals []Goal) FinancialSummary {
	spend := SpendByCategory(txs)
	summary := FinancialSummary{
		Income:        spend.Income,
		Spend:         spend.Total(),
		Uncategorized: spend.Uncategorized,
		Alerts:        EvaluateBudgets(budgets, txs, categories),
	}
	for _, c := range categories {
		if amount, ok := spend.ByCategory[c.ID]; ok {
			summary.ByCategory = append(summary.ByCategory, CategoryAmount{Name: c.Name, Amount: amount})
		}
	}
	for _, g := range goals {
		var percent int64
		if g.TargetAmount.Cents > 0 {
			percent = (100*g.CurrentAmount.Cents + g.TargetAmount.Cents/2) / g.TargetAmount.Cents
		}
		summary.GoalProgress = append(summary.GoalProgress, GoalProgress{
			Name:    g.Name,
			Target:  g.TargetAmount,
			Current: g.CurrentAmount,
			Percent: percent,
		})
	}
	return summary
}
