// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending    SubscriptionStatus = "PENDING"
	SubscriptionStatusProcessing SubscriptionStatus = "PROCESSING"
	SubscriptionStatusActive     SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired    SubscriptionStatus = "EXPIRED"
	SubscriptionStatusCancelled  SubscriptionStatus = "CANCELLED"
)

// Subscription is a tenant admin's paid access period.
type Subscription struct {
	Id              uuid.UUID
	AdminId         uuid.UUID
	Plan            string
	Amount          decimal.Decimal
	Currency        string
	StartDate       time.Time
	EndDate         time.Time
	Status          SubscriptionStatus
	PaymentDetails  map[string]interface{}
	PaymentProofURL *string
	PaidDate        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
