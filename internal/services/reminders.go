package services

import (
	"context"
	"fmt"
	"time"

	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/notify"
	"finbook/internal/storage"
)

// ReminderService finds bills whose reminder window covers today and
// dispatches one reminder per bill. Reminders are stateless: a bill in
// its window gets a reminder on every run until it is paid.
type ReminderService struct {
	repo          *storage.Repository
	dispatcher    *notify.Dispatcher
	lookaheadDays int
	logger        *log.Logger
	now           func() time.Time
}

func NewReminderService(repo *storage.Repository, dispatcher *notify.Dispatcher, lookaheadDays int, logger *log.Logger) *ReminderService {
	return &ReminderService{
		repo:          repo,
		dispatcher:    dispatcher,
		lookaheadDays: lookaheadDays,
		logger:        logger.WithComponent(log.ComponentBills),
		now:           time.Now,
	}
}

// Upcoming returns unpaid bills due within the given number of days,
// regardless of each bill's own reminder window.
func (s *ReminderService) Upcoming(ctx context.Context, userID int64, days int) ([]core.BillReminder, error) {
	today := s.now()
	bills, err := s.repo.ListUnpaidBillsDueBy(ctx, userID, today.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("load bills: %w", err)
	}

	reminders := []core.BillReminder{}
	for _, b := range bills {
		days := core.DaysUntil(today, b.DueDate)
		if days < 0 {
			continue
		}
		reminders = append(reminders, core.BillReminder{Bill: b, DaysToDue: days})
	}
	return reminders, nil
}

// RunForUser dispatches reminders for every bill inside its own
// reminder window. Returns the reminders that were dispatched.
func (s *ReminderService) RunForUser(ctx context.Context, userID int64) ([]core.BillReminder, error) {
	today := s.now()
	bills, err := s.repo.ListUnpaidBillsDueBy(ctx, userID, today.AddDate(0, 0, s.lookaheadDays))
	if err != nil {
		return nil, fmt.Errorf("load bills: %w", err)
	}

	due := core.DueReminders(bills, today)
	if len(due) == 0 {
		return nil, nil
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	for _, reminder := range due {
		s.dispatcher.BillReminder(ctx, user, reminder)
	}
	s.logger.InfoContext(ctx, "dispatched bill reminders",
		log.FieldUserID, userID,
		log.FieldOperation, log.OpRemind,
		"reminders", len(due))
	return due, nil
}

// RunAll sweeps every user. A failure for one user is logged and does
// not stop the sweep.
func (s *ReminderService) RunAll(ctx context.Context) (int, error) {
	userIDs, err := s.repo.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	total := 0
	for _, userID := range userIDs {
		due, err := s.RunForUser(ctx, userID)
		if err != nil {
			s.logger.ErrorContext(ctx, "reminder run failed for user",
				log.FieldError, err, log.FieldUserID, userID)
			continue
		}
		total += len(due)
	}
	return total, nil
}

// MarkPaid marks the bill paid. Recurring bills roll forward to the
// next due date and reopen; one-off bills stay paid.
func (s *ReminderService) MarkPaid(ctx context.Context, userID, billID int64) (core.Bill, error) {
	bill, err := s.repo.GetBill(ctx, userID, billID)
	if err != nil {
		return core.Bill{}, err
	}

	if bill.Period == core.BillOnce {
		bill.IsPaid = true
	} else {
		// Paying early still advances one period; paying late skips
		// past every missed occurrence.
		after := s.now()
		if bill.DueDate.After(after) {
			after = bill.DueDate
		}
		bill.DueDate = core.NextDueDate(bill, after)
		bill.IsPaid = false
	}

	if err := s.repo.UpdateBill(ctx, bill); err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}
	return bill, nil
}
