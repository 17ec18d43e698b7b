// FILE: internal/entity/fee_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FeeCadence string
type FeeStatus string

const (
	FeeCadenceOnce       FeeCadence = "ONCE"
	FeeCadenceMonthly    FeeCadence = "MONTHLY"
	FeeCadenceBimonthly  FeeCadence = "BIMONTHLY"
	FeeCadenceQuarterly  FeeCadence = "QUARTERLY"
	FeeCadenceHalfYearly FeeCadence = "HALF_YEARLY"
	FeeCadenceYearly     FeeCadence = "YEARLY"

	FeeStatusPending    FeeStatus = "PENDING"
	FeeStatusProcessing FeeStatus = "PROCESSING"
	FeeStatusPaid       FeeStatus = "PAID"
	FeeStatusOverdue    FeeStatus = "OVERDUE"
	FeeStatusCancelled  FeeStatus = "CANCELLED"
)

// PeriodMonths returns the length of one billing period in months.
// ONCE and unknown cadences return 0.
func (c FeeCadence) PeriodMonths() int {
	switch c {
	case FeeCadenceMonthly:
		return 1
	case FeeCadenceBimonthly:
		return 2
	case FeeCadenceQuarterly:
		return 3
	case FeeCadenceHalfYearly:
		return 6
	case FeeCadenceYearly:
		return 12
	}
	return 0
}

func (c FeeCadence) IsValid() bool {
	return c == FeeCadenceOnce || c.PeriodMonths() > 0
}

// FeeDefinition is the template a recurring or one-time Fee is generated from.
type FeeDefinition struct {
	Id            uuid.UUID
	AdminId       uuid.UUID
	StudentId     uuid.UUID
	CourseId      *uuid.UUID
	Title         string
	Description   string
	Amount        decimal.Decimal
	Currency      string
	Cadence       FeeCadence
	GenerationDay int
	StartDate     time.Time
	EndDate       *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Fee struct {
	Id              uuid.UUID
	AdminId         uuid.UUID
	StudentId       uuid.UUID
	CourseId        *uuid.UUID
	FeeDefinitionId *uuid.UUID // nil for ad hoc fees
	Title           string
	Description     string
	Amount          decimal.Decimal
	Currency        string
	DueDate         time.Time
	Month           int
	Year            int
	Status          FeeStatus

	PaidAmount      *decimal.Decimal
	PaidDate        *time.Time
	PaidById        *uuid.UUID
	PaymentDetails  map[string]interface{}
	PaymentProofURL *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
