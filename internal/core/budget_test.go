package core

import (
	"reflect"
	"testing"
	"time"
)

func tx(amountCents int64, categoryID int64, isIncome bool) Transaction {
	return Transaction{
		Description: "t",
		Amount:      Money{Cents: amountCents},
		Date:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		IsIncome:    isIncome,
		CategoryID:  categoryID,
	}
}

func TestSpendByCategory(t *testing.T) {
	txs := []Transaction{
		tx(1500, 1, false),
		tx(500, 1, false),
		tx(2000, 2, false),
		tx(9999, 0, false),  // uncategorized
		tx(100000, 1, true), // income, ignored even with category
		tx(50000, 0, true),  // income, uncategorized
	}

	got := SpendByCategory(txs)

	want := map[int64]Money{1: {Cents: 2000}, 2: {Cents: 2000}}
	if !reflect.DeepEqual(got.ByCategory, want) {
		t.Errorf("ByCategory = %v, want %v", got.ByCategory, want)
	}
	if got.Uncategorized.Cents != 9999 {
		t.Errorf("Uncategorized = %d, want 9999", got.Uncategorized.Cents)
	}
	if got.Income.Cents != 150000 {
		t.Errorf("Income = %d, want 150000", got.Income.Cents)
	}
}

func TestSpendByCategory_Conservation(t *testing.T) {
	// Total across categories plus ignored buckets must equal the sum
	// of all transaction amounts.
	txs := []Transaction{
		tx(1234, 1, false),
		tx(5678, 2, false),
		tx(910, 0, false),
		tx(4321, 3, true),
	}

	var all int64
	for _, x := range txs {
		all += x.Amount.Cents
	}

	s := SpendByCategory(txs)
	if got := s.Total().Cents + s.Uncategorized.Cents + s.Income.Cents; got != all {
		t.Errorf("conservation violated: %d != %d", got, all)
	}
}

func TestSpendByCategory_Idempotent(t *testing.T) {
	txs := []Transaction{tx(100, 1, false), tx(250, 2, false)}
	first := SpendByCategory(txs)
	second := SpendByCategory(txs)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs differ: %v vs %v", first, second)
	}
}

func TestSpendByCategoryBetween(t *testing.T) {
	old := tx(1000, 1, false)
	old.Date = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := tx(500, 1, false)
	recent.Date = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got := SpendByCategoryBetween([]Transaction{old, recent}, from, time.Time{})
	if got.ByCategory[1].Cents != 500 {
		t.Errorf("ByCategory[1] = %d, want 500", got.ByCategory[1].Cents)
	}
}

func TestEvaluateBudgets(t *testing.T) {
	cats := []Category{{ID: 1, Name: "Groceries"}}
	budget := func(amountCents int64, threshold int) []Budget {
		return []Budget{{CategoryID: 1, Amount: Money{Cents: amountCents}, Period: Monthly, AlertThreshold: threshold}}
	}

	tests := []struct {
		name        string
		spendCents  int64
		budgets     []Budget
		wantAlert   bool
		wantPercent int64
		wantExceed  bool
	}{
		{
			name:       "below threshold - no alert",
			spendCents: 7900,
			budgets:    budget(10000, 80),
			wantAlert:  false,
		},
		{
			name:        "at threshold - approaching",
			spendCents:  8000,
			budgets:     budget(10000, 80),
			wantAlert:   true,
			wantPercent: 80,
			wantExceed:  false,
		},
		{
			name:        "over budget - exceeded",
			spendCents:  10100,
			budgets:     budget(10000, 80),
			wantAlert:   true,
			wantPercent: 101,
			wantExceed:  true,
		},
		{
			name:        "zero-amount budget with spend - exceeded, no division",
			spendCents:  500,
			budgets:     budget(0, 80),
			wantAlert:   true,
			wantPercent: 0,
			wantExceed:  true,
		},
		{
			name:       "zero-amount budget without spend - no alert",
			spendCents: 0,
			budgets:    budget(0, 80),
			wantAlert:  false,
		},
		{
			name:        "zero threshold falls back to default 80",
			spendCents:  8000,
			budgets:     budget(10000, 0),
			wantAlert:   true,
			wantPercent: 80,
			wantExceed:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var txs []Transaction
			if tt.spendCents > 0 {
				txs = append(txs, tx(tt.spendCents, 1, false))
			}
			alerts := EvaluateBudgets(tt.budgets, txs, cats)
			if !tt.wantAlert {
				if len(alerts) != 0 {
					t.Fatalf("expected no alerts, got %v", alerts)
				}
				return
			}
			if len(alerts) != 1 {
				t.Fatalf("expected 1 alert, got %d", len(alerts))
			}
			a := alerts[0]
			if a.PercentSpent != tt.wantPercent {
				t.Errorf("PercentSpent = %d, want %d", a.PercentSpent, tt.wantPercent)
			}
			if a.IsExceeded != tt.wantExceed {
				t.Errorf("IsExceeded = %v, want %v", a.IsExceeded, tt.wantExceed)
			}
			if a.CategoryName != "Groceries" {
				t.Errorf("CategoryName = %q, want Groceries", a.CategoryName)
			}
			if a.Spent.Cents != tt.spendCents {
				t.Errorf("Spent = %d, want %d", a.Spent.Cents, tt.spendCents)
			}
		})
	}
}

func TestEvaluateBudgets_DeletedCategorySkipped(t *testing.T) {
	budgets := []Budget{{CategoryID: 42, Amount: Money{Cents: 100}, Period: Monthly, AlertThreshold: 80}}
	txs := []Transaction{tx(500, 42, false)}

	alerts := EvaluateBudgets(budgets, txs, nil)
	if len(alerts) != 0 {
		t.Errorf("budget for deleted category should be skipped, got %v", alerts)
	}
}

func TestEvaluateBudgets_StableOrder(t *testing.T) {
	cats := []Category{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}
	budgets := []Budget{
		{CategoryID: 3, Amount: Money{Cents: 100}, Period: Monthly, AlertThreshold: 80},
		{CategoryID: 1, Amount: Money{Cents: 100}, Period: Monthly, AlertThreshold: 80},
		{CategoryID: 2, Amount: Money{Cents: 100}, Period: Monthly, AlertThreshold: 80},
	}
	txs := []Transaction{tx(200, 1, false), tx(200, 2, false), tx(200, 3, false)}

	alerts := EvaluateBudgets(budgets, txs, cats)
	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(alerts))
	}
	wantOrder := []int64{3, 1, 2}
	for i, want := range wantOrder {
		if alerts[i].CategoryID != want {
			t.Errorf("alerts[%d].CategoryID = %d, want %d (input order must be preserved)", i, alerts[i].CategoryID, want)
		}
	}
}

func TestEvaluateBudgetsForCategory(t *testing.T) {
	cats := []Category{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	budgets := []Budget{
		{CategoryID: 1, Amount: Money{Cents: 100}, Period: Monthly, AlertThreshold: 80},
		{CategoryID: 2, Amount: Money{Cents: 100}, Period: Monthly, AlertThreshold: 80},
	}
	txs := []Transaction{tx(200, 1, false), tx(200, 2, false)}

	alerts := EvaluateBudgetsForCategory(budgets, txs, cats, 1)
	if len(alerts) != 1 || alerts[0].CategoryID != 1 {
		t.Errorf("expected single alert for category 1, got %v", alerts)
	}

	if got := EvaluateBudgetsForCategory(budgets, txs, cats, UncategorizedID); got != nil {
		t.Errorf("uncategorized must never alert, got %v", got)
	}
}
