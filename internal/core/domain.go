package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly   BudgetPeriod = "monthly"
	Quarterly BudgetPeriod = "quarterly"
	Yearly    BudgetPeriod = "yearly"
)

const (
	BillOnce    BillPeriod = "once"
	BillWeekly  BillPeriod = "weekly"
	BillMonthly BillPeriod = "monthly"
	BillYearly  BillPeriod = "yearly"
)

// UncategorizedID is the reserved category identifier for transactions
// without a category reference. It never appears in the categories table.
const UncategorizedID int64 = 0

// DefaultAlertThreshold is the percent-of-budget at which an
// "approaching" alert fires when the budget does not set its own.
const DefaultAlertThreshold = 80

type (
	BudgetPeriod string
	BillPeriod   string

	User struct {
		ID           int64     `json:"id"`
		Email        string    `json:"email"`
		Name         string    `json:"name"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	// Category labels transactions and bills. UserID == 0 marks a
	// global category visible to every user.
	Category struct {
		ID     int64  `json:"id"`
		UserID int64  `json:"-"`
		Name   string `json:"name"`
		Icon   string `json:"icon,omitempty"`
		Color  string `json:"color,omitempty"`
	}

	Account struct {
		ID         int64  `json:"id"`
		UserID     int64  `json:"-"`
		Name       string `json:"name"`
		Balance    Money  `json:"balance"`
		Currency   string `json:"currency"`
		ExternalID string `json:"externalId,omitempty"` // bank aggregator item id
		SyncCursor string `json:"-"`
	}

	// Transaction amounts are always non-negative; direction is carried
	// by IsIncome, never by the sign of Amount.
	Transaction struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"-"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Date        time.Time `json:"date"`
		IsIncome    bool      `json:"isIncome"`
		CategoryID  int64     `json:"categoryId,omitempty"`
		AccountID   int64     `json:"accountId,omitempty"`
		Notes       string    `json:"notes,omitempty"`
		ReceiptPath string    `json:"receiptPath,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	Budget struct {
		ID             int64        `json:"id"`
		UserID         int64        `json:"-"`
		CategoryID     int64        `json:"categoryId"`
		Amount         Money        `json:"amount"`
		Period         BudgetPeriod `json:"period"`
		StartDate      time.Time    `json:"startDate"`
		EndDate        time.Time    `json:"endDate"`
		AlertThreshold int          `json:"alertThreshold"`
	}

	Bill struct {
		ID           int64      `json:"id"`
		UserID       int64      `json:"-"`
		Name         string     `json:"name"`
		Amount       Money      `json:"amount"`
		DueDate      time.Time  `json:"dueDate"`
		Period       BillPeriod `json:"period"`
		IsPaid       bool       `json:"isPaid"`
		ReminderDays int        `json:"reminderDays"`
	}

	Goal struct {
		ID            int64     `json:"id"`
		UserID        int64     `json:"-"`
		Name          string    `json:"name"`
		TargetAmount  Money     `json:"targetAmount"`
		CurrentAmount Money     `json:"currentAmount"`
		TargetDate    time.Time `json:"targetDate"`
		Priority      int       `json:"priority"`
	}

	Insight struct {
		ID        int64     `json:"id"`
		UserID    int64     `json:"-"`
		Title     string    `json:"title"`
		Content   string    `json:"content"`
		Type      string    `json:"type"`
		Severity  string    `json:"severity"`
		IsRead    bool      `json:"isRead"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidThreshold = errors.New("invalid alert threshold")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
)

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return nil
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyName
	}
	if a.Currency == "" {
		return errors.New("empty currency")
	}
	return nil
}

// Validate allows Amount.Cents == 0: a zero-amount budget is legal and
// means any spend at all counts as exceeded.
func (b Budget) Validate() error {
	if b.CategoryID == UncategorizedID {
		return errors.New("budget requires a category")
	}
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	switch b.Period {
	case Monthly, Quarterly, Yearly:
	default:
		return ErrInvalidPeriod
	}
	if b.AlertThreshold < 0 || b.AlertThreshold > 100 {
		return ErrInvalidThreshold
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return errors.New("end date must not be before start date")
	}
	return nil
}

func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if b.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if b.DueDate.IsZero() {
		return ErrInvalidDate
	}
	switch b.Period {
	case BillOnce, BillWeekly, BillMonthly, BillYearly:
	default:
		return ErrInvalidPeriod
	}
	if b.ReminderDays < 0 || b.ReminderDays > 365 {
		return errors.New("reminder days out of range")
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
