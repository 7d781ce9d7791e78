package core

import (
	"strings"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Description: "coffee",
		Amount:      Money{Cents: 350},
		Date:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "blank description", mutate: func(x *Transaction) { x.Description = "   " }, wantErr: ErrEmptyDescription},
		{name: "zero amount", mutate: func(x *Transaction) { x.Amount = Money{} }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(x *Transaction) { x.Amount = Money{Cents: -1} }, wantErr: ErrInvalidAmount},
		{name: "zero date", mutate: func(x *Transaction) { x.Date = time.Time{} }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := valid
			tt.mutate(&x)
			err := x.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && err != tt.wantErr {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	long := valid
	long.Description = strings.Repeat("x", 201)
	if long.Validate() == nil {
		t.Error("overlong description must fail validation")
	}
}

func TestBudgetValidate(t *testing.T) {
	valid := Budget{
		CategoryID:     1,
		Amount:         Money{Cents: 10000},
		Period:         Monthly,
		StartDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		AlertThreshold: 80,
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}

	zero := valid
	zero.Amount = Money{}
	if err := zero.Validate(); err != nil {
		t.Errorf("zero-amount budget must be legal: %v", err)
	}

	noCat := valid
	noCat.CategoryID = UncategorizedID
	if noCat.Validate() == nil {
		t.Error("budget without category must fail")
	}

	badPeriod := valid
	badPeriod.Period = "weekly"
	if badPeriod.Validate() != ErrInvalidPeriod {
		t.Error("invalid period must fail")
	}

	badThreshold := valid
	badThreshold.AlertThreshold = 101
	if badThreshold.Validate() != ErrInvalidThreshold {
		t.Error("threshold above 100 must fail")
	}
}

func TestBillValidate(t *testing.T) {
	valid := Bill{
		Name:         "Internet",
		Amount:       Money{Cents: 4999},
		DueDate:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Period:       BillMonthly,
		ReminderDays: 3,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid bill rejected: %v", err)
	}

	negative := valid
	negative.ReminderDays = -1
	if negative.Validate() == nil {
		t.Error("negative reminder days must fail")
	}

	badPeriod := valid
	badPeriod.Period = "daily"
	if badPeriod.Validate() != ErrInvalidPeriod {
		t.Error("invalid bill period must fail")
	}
}
