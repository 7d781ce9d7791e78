package core

import "time"

// SpendSummary is the result of aggregating one user's transactions.
// ByCategory only holds non-income, categorized entries; income and
// uncategorized spend are tracked separately so that callers that need
// an "Uncategorized" bucket (or a conservation check) have it.
type SpendSummary struct {
	ByCategory    map[int64]Money
	Uncategorized Money
	Income        Money
}

// Total returns the summed spend across all categories, excluding the
// uncategorized bucket.
func (s SpendSummary) Total() Money {
	var total int64
	for _, m := range s.ByCategory {
		total += m.Cents
	}
	return Money{Cents: total}
}

// SpendByCategory sums non-income transaction amounts per category.
// Pure function over its input; calling it twice on the same slice
// yields identical output. The caller is responsible for input
// uniqueness (a transaction appearing twice would be counted twice).
func SpendByCategory(txs []Transaction) SpendSummary {
	summary := SpendSummary{ByCategory: make(map[int64]Money)}
	for _, t := range txs {
		if t.IsIncome {
			summary.Income.Cents += t.Amount.Cents
			continue
		}
		if t.CategoryID == UncategorizedID {
			summary.Uncategorized.Cents += t.Amount.Cents
			continue
		}
		m := summary.ByCategory[t.CategoryID]
		m.Cents += t.Amount.Cents
		summary.ByCategory[t.CategoryID] = m
	}
	return summary
}

// SpendByCategoryBetween restricts the aggregation to transactions
// dated within [from, to]. A zero bound is open.
func SpendByCategoryBetween(txs []Transaction, from, to time.Time) SpendSummary {
	filtered := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if !from.IsZero() && t.Date.Before(from) {
			continue
		}
		if !to.IsZero() && t.Date.After(to) {
			continue
		}
		filtered = append(filtered, t)
	}
	return SpendByCategory(filtered)
}

// BudgetAlert reports a budget that is exceeded or approaching its
// alert threshold.
type BudgetAlert struct {
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Amount       Money  `json:"amount"`
	Spent        Money  `json:"spent"`
	PercentSpent int64  `json:"percentSpent"`
	IsExceeded   bool   `json:"isExceeded"`
}

// EvaluateBudgets compares each budget against the aggregated spend of
// the user's transactions. Budgets whose category no longer exists are
// skipped. Output order follows input budget order.
//
// A zero-amount budget never divides: it is exceeded by any spend and
// reports PercentSpent 0.
func EvaluateBudgets(budgets []Budget, txs []Transaction, categories []Category) []BudgetAlert {
	summary := SpendByCategory(txs)
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	var alerts []BudgetAlert
	for _, b := range budgets {
		name, ok := names[b.CategoryID]
		if !ok {
			continue // category deleted
		}
		spent := summary.ByCategory[b.CategoryID]

		var percent int64
		if b.Amount.Cents > 0 {
			// round(100 * spent / amount), half-up in cents
			percent = (100*spent.Cents + b.Amount.Cents/2) / b.Amount.Cents
		}

		threshold := int64(b.AlertThreshold)
		if threshold == 0 {
			threshold = DefaultAlertThreshold
		}

		exceeded := spent.Cents > b.Amount.Cents
		approaching := percent >= threshold && !exceeded
		if !exceeded && !approaching {
			continue
		}

		alerts = append(alerts, BudgetAlert{
			CategoryID:   b.CategoryID,
			CategoryName: name,
			Amount:       b.Amount,
			Spent:        spent,
			PercentSpent: percent,
			IsExceeded:   exceeded,
		})
	}
	return alerts
}

// EvaluateBudgetsForCategory is the incremental path used right after a
// transaction is created: only budgets watching that category are
// considered.
func EvaluateBudgetsForCategory(budgets []Budget, txs []Transaction, categories []Category, categoryID int64) []BudgetAlert {
	if categoryID == UncategorizedID {
		return nil
	}
	scoped := make([]Budget, 0, 1)
	for _, b := range budgets {
		if b.CategoryID == categoryID {
			scoped = append(scoped, b)
		}
	}
	return EvaluateBudgets(scoped, txs, categories)
}
