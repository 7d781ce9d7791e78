package notify

import (
	"context"

	"finbook/internal/amqp"
	"finbook/internal/core"
	"finbook/internal/log"
)

// Queue is the subset of the AMQP client the dispatcher publishes on.
type Queue interface {
	Publish(ctx context.Context, msg *amqp.NotificationMessage) error
}

// Dispatcher routes notifications either onto the queue for the worker
// to deliver, or straight to the mailer when no queue is configured.
// Every method is best-effort: failures are logged and swallowed so the
// triggering operation still succeeds. There are no retries.
type Dispatcher struct {
	queue  Queue
	mailer Mailer
	from   string
	logger *log.Logger
}

// NewDispatcher builds a dispatcher. queue and mailer may each be nil;
// with neither, notifications are dropped with a debug log.
func NewDispatcher(queue Queue, mailer Mailer, from string, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		queue:  queue,
		mailer: mailer,
		from:   from,
		logger: logger.WithComponent(log.ComponentNotify),
	}
}

// BudgetAlerts dispatches one notification per alert.
func (d *Dispatcher) BudgetAlerts(ctx context.Context, user core.User, alerts []core.BudgetAlert) {
	for _, alert := range alerts {
		if d.queue != nil {
			msg := amqp.NewBudgetAlertMessage(user.ID, alert.CategoryID)
			if err := d.queue.Publish(ctx, msg); err != nil {
				d.logger.ErrorContext(ctx, "failed to publish budget alert",
					log.FieldError, err,
					log.FieldUserID, user.ID,
					log.FieldCategoryID, alert.CategoryID)
			}
			continue
		}
		d.sendBudgetAlert(ctx, user, alert)
	}
}

// BillReminder dispatches a single bill reminder.
func (d *Dispatcher) BillReminder(ctx context.Context, user core.User, reminder core.BillReminder) {
	if d.queue != nil {
		msg := amqp.NewBillReminderMessage(user.ID, reminder.Bill.ID)
		if err := d.queue.Publish(ctx, msg); err != nil {
			d.logger.ErrorContext(ctx, "failed to publish bill reminder",
				log.FieldError, err,
				log.FieldUserID, user.ID,
				log.FieldBillID, reminder.Bill.ID)
		}
		return
	}
	d.sendBillReminder(ctx, user, reminder)
}

// RequestInsights asks the worker to generate insights for the user.
// Returns false when no queue is configured so the caller can generate
// inline instead.
func (d *Dispatcher) RequestInsights(ctx context.Context, userID int64) bool {
	if d.queue == nil {
		return false
	}
	if err := d.queue.Publish(ctx, amqp.NewInsightRequestMessage(userID)); err != nil {
		d.logger.ErrorContext(ctx, "failed to publish insight request",
			log.FieldError, err,
			log.FieldUserID, userID)
		return false
	}
	return true
}

// SendBudgetAlert renders and sends immediately, bypassing the queue.
// Used by the worker once it has loaded the referenced records.
func (d *Dispatcher) SendBudgetAlert(ctx context.Context, user core.User, alert core.BudgetAlert) {
	d.sendBudgetAlert(ctx, user, alert)
}

// SendBillReminder renders and sends immediately, bypassing the queue.
func (d *Dispatcher) SendBillReminder(ctx context.Context, user core.User, reminder core.BillReminder) {
	d.sendBillReminder(ctx, user, reminder)
}

func (d *Dispatcher) sendBudgetAlert(ctx context.Context, user core.User, alert core.BudgetAlert) {
	if d.mailer == nil {
		d.logger.DebugContext(ctx, "no mailer configured, dropping budget alert",
			log.FieldUserID, user.ID)
		return
	}
	email := RenderBudgetAlert(user.Email, d.from, alert)
	if err := d.mailer.Send(ctx, email); err != nil {
		d.logger.ErrorContext(ctx, "failed to send budget alert email",
			log.FieldError, err,
			log.FieldUserID, user.ID,
			log.FieldEmailTo, user.Email,
			log.FieldCategoryID, alert.CategoryID)
		return
	}
	d.logger.InfoContext(ctx, "sent budget alert email",
		log.FieldUserID, user.ID,
		log.FieldCategoryID, alert.CategoryID,
		"exceeded", alert.IsExceeded)
}

func (d *Dispatcher) sendBillReminder(ctx context.Context, user core.User, reminder core.BillReminder) {
	if d.mailer == nil {
		d.logger.DebugContext(ctx, "no mailer configured, dropping bill reminder",
			log.FieldUserID, user.ID)
		return
	}
	email := RenderBillReminder(user.Email, d.from, reminder)
	if err := d.mailer.Send(ctx, email); err != nil {
		d.logger.ErrorContext(ctx, "failed to send bill reminder email",
			log.FieldError, err,
			log.FieldUserID, user.ID,
			log.FieldEmailTo, user.Email,
			log.FieldBillID, reminder.Bill.ID)
		return
	}
	d.logger.InfoContext(ctx, "sent bill reminder email",
		log.FieldUserID, user.ID,
		log.FieldBillID, reminder.Bill.ID,
		"days_to_due", reminder.DaysToDue)
}
