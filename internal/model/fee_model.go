package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type FeeDefinition struct {
	Id            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AdminId       uuid.UUID       `gorm:"type:uuid;not null;index"`
	StudentId     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CourseId      *uuid.UUID      `gorm:"type:uuid"`
	Title         string          `gorm:"type:varchar(255);not null"`
	Description   string          `gorm:"type:text"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Cadence       string          `gorm:"type:varchar(20);not null"`
	GenerationDay int             `gorm:"not null;default:1"`
	StartDate     time.Time       `gorm:"not null"`
	EndDate       *time.Time
	IsActive      bool      `gorm:"not null;default:true;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (FeeDefinition) TableName() string {
	return "fee_definitions"
}

// Fee rows are unique per (fee_definition_id, month, year). Ad hoc fees carry a
// NULL definition and are not constrained by the index.
type Fee struct {
	Id              uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AdminId         uuid.UUID        `gorm:"type:uuid;not null;index"`
	StudentId       uuid.UUID        `gorm:"type:uuid;not null;index"`
	CourseId        *uuid.UUID       `gorm:"type:uuid"`
	FeeDefinitionId *uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_fee_definition_period,priority:1"`
	Title           string           `gorm:"type:varchar(255);not null"`
	Description     string           `gorm:"type:text"`
	Amount          decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Currency        string           `gorm:"type:varchar(3);not null;default:'USD'"`
	DueDate         time.Time        `gorm:"not null;index"`
	Month           int              `gorm:"not null;uniqueIndex:idx_fee_definition_period,priority:2"`
	Year            int              `gorm:"not null;uniqueIndex:idx_fee_definition_period,priority:3"`
	Status          string           `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidAmount      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	PaidDate        *time.Time
	PaidById        *uuid.UUID     `gorm:"type:uuid"`
	PaymentDetails  datatypes.JSON `gorm:"type:jsonb"`
	PaymentProofURL *string        `gorm:"type:text"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (Fee) TableName() string {
	return "fees"
}
