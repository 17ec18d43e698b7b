package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Subscription struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AdminId         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Plan            string          `gorm:"type:varchar(100);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'USD'"`
	StartDate       time.Time       `gorm:"not null"`
	EndDate         time.Time       `gorm:"not null;index"`
	Status          string          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentDetails  datatypes.JSON  `gorm:"type:jsonb"`
	PaymentProofURL *string         `gorm:"type:text"`
	PaidDate        *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
