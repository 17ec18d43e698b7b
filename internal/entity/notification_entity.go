// FILE: internal/entity/notification_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeFeeDue                       NotificationType = "FEE_DUE"
	NotificationTypeFeePaymentSubmitted          NotificationType = "FEE_PAYMENT_SUBMITTED"
	NotificationTypeFeePaid                      NotificationType = "FEE_PAID"
	NotificationTypeFeePaymentRejected           NotificationType = "FEE_PAYMENT_REJECTED"
	NotificationTypeSubscriptionDue              NotificationType = "SUBSCRIPTION_DUE"
	NotificationTypeSubscriptionPaymentSubmitted NotificationType = "SUBSCRIPTION_PAYMENT_SUBMITTED"
	NotificationTypeSubscriptionActivated        NotificationType = "SUBSCRIPTION_ACTIVATED"
	NotificationTypeGeneral                      NotificationType = "GENERAL"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeFeeDue, NotificationTypeFeePaymentSubmitted, NotificationTypeFeePaid,
		NotificationTypeFeePaymentRejected, NotificationTypeSubscriptionDue,
		NotificationTypeSubscriptionPaymentSubmitted, NotificationTypeSubscriptionActivated,
		NotificationTypeGeneral:
		return true
	}
	return false
}

type Notification struct {
	Id         uuid.UUID
	Type       NotificationType
	Title      string
	Message    string
	SenderId   *uuid.UUID // nil when raised by the system
	ReceiverId uuid.UUID
	IsRead     bool
	ReadAt     *time.Time
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}
