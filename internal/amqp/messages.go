package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message kinds routed through the notification queue.
const (
	KindBudgetAlert    = "budget_alert"
	KindBillReminder   = "bill_reminder"
	KindInsightRequest = "insight_request"
)

// NotificationMessage is a lightweight pointer into the database: it
// carries identifiers only, the worker fetches the full records before
// rendering anything. CategoryID is set for budget alerts, BillID for
// bill reminders.
type NotificationMessage struct {
	Kind       string    `json:"kind"`
	UserID     int64     `json:"userId"`
	CategoryID int64     `json:"categoryId,omitempty"`
	BillID     int64     `json:"billId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewBudgetAlertMessage(userID, categoryID int64) *NotificationMessage {
	return &NotificationMessage{
		Kind:       KindBudgetAlert,
		UserID:     userID,
		CategoryID: categoryID,
		Timestamp:  time.Now(),
	}
}

func NewBillReminderMessage(userID, billID int64) *NotificationMessage {
	return &NotificationMessage{
		Kind:      KindBillReminder,
		UserID:    userID,
		BillID:    billID,
		Timestamp: time.Now(),
	}
}

func NewInsightRequestMessage(userID int64) *NotificationMessage {
	return &NotificationMessage{
		Kind:      KindInsightRequest,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (m *NotificationMessage) Validate() error {
	switch m.Kind {
	case KindBudgetAlert, KindBillReminder, KindInsightRequest:
	default:
		return fmt.Errorf("unknown message kind %q", m.Kind)
	}
	if m.UserID <= 0 {
		return fmt.Errorf("message missing user id")
	}
	return nil
}

func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
