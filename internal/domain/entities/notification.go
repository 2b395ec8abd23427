package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// NotificationType categorises notifications
type NotificationType string

const (
	NotificationInvestment NotificationType = "investment"
	NotificationFunding    NotificationType = "funding"
	NotificationKYC        NotificationType = "kyc"
	NotificationSystem     NotificationType = "system"
)

// Notification is a one-way message to a user
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	ActionURL null.String      `json:"action_url"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// RowID implements livequery.Row
func (n Notification) RowID() uuid.UUID { return n.ID }
