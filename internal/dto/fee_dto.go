package dto

import (
	"time"

	"academy-be/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateFeeDefinitionRequest struct {
	StudentId     uuid.UUID       `json:"student_id" validate:"required"`
	CourseId      *uuid.UUID      `json:"course_id"`
	Title         string          `json:"title" validate:"required,max=200"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3"`
	Cadence       string          `json:"cadence" validate:"required,oneof=ONCE MONTHLY BIMONTHLY QUARTERLY HALF_YEARLY YEARLY"`
	GenerationDay int             `json:"generation_day" validate:"required,min=1,max=31"`
	StartDate     time.Time       `json:"start_date" validate:"required"`
	EndDate       *time.Time      `json:"end_date"`
}

type UpdateFeeDefinitionRequest struct {
	Id            uuid.UUID
	Title         string          `json:"title" validate:"required,max=200"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3"`
	Cadence       string          `json:"cadence" validate:"required,oneof=ONCE MONTHLY BIMONTHLY QUARTERLY HALF_YEARLY YEARLY"`
	GenerationDay int             `json:"generation_day" validate:"required,min=1,max=31"`
	StartDate     time.Time       `json:"start_date" validate:"required"`
	EndDate       *time.Time      `json:"end_date"`
	IsActive      *bool           `json:"is_active"`
}

type FeeDefinitionResponse struct {
	Id            uuid.UUID       `json:"id"`
	StudentId     uuid.UUID       `json:"student_id"`
	CourseId      *uuid.UUID      `json:"course_id,omitempty"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Cadence       string          `json:"cadence"`
	GenerationDay int             `json:"generation_day"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewFeeDefinitionResponse(d *entity.FeeDefinition) FeeDefinitionResponse {
	return FeeDefinitionResponse{
		Id:            d.Id,
		StudentId:     d.StudentId,
		CourseId:      d.CourseId,
		Title:         d.Title,
		Description:   d.Description,
		Amount:        d.Amount,
		Currency:      d.Currency,
		Cadence:       string(d.Cadence),
		GenerationDay: d.GenerationDay,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
	}
}

type ListFeeDefinitionsQuery struct {
	StudentId  *uuid.UUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

// CreateFeeRequest creates an ad hoc fee that is not tied to a definition.
type CreateFeeRequest struct {
	StudentId   uuid.UUID       `json:"student_id" validate:"required"`
	CourseId    *uuid.UUID      `json:"course_id"`
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" validate:"required,len=3"`
	DueDate     time.Time       `json:"due_date" validate:"required"`
}

type SubmitFeePaymentRequest struct {
	Id              uuid.UUID
	PaidAmount      decimal.Decimal        `json:"paid_amount"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
	Reference       string                 `json:"reference"`
	PaymentProofURL string                 `json:"payment_proof_url" validate:"required,url"`
	Details         map[string]interface{} `json:"details"`
}

type RejectPaymentRequest struct {
	Id     uuid.UUID
	Reason string `json:"reason" validate:"required,min=3"`
}

type FeeResponse struct {
	Id              uuid.UUID              `json:"id"`
	StudentId       uuid.UUID              `json:"student_id"`
	CourseId        *uuid.UUID             `json:"course_id,omitempty"`
	FeeDefinitionId *uuid.UUID             `json:"fee_definition_id,omitempty"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Amount          decimal.Decimal        `json:"amount"`
	Currency        string                 `json:"currency"`
	DueDate         time.Time              `json:"due_date"`
	Month           int                    `json:"month"`
	Year            int                    `json:"year"`
	Status          string                 `json:"status"`
	PaidAmount      *decimal.Decimal       `json:"paid_amount,omitempty"`
	PaidDate        *time.Time             `json:"paid_date,omitempty"`
	PaidById        *uuid.UUID             `json:"paid_by_id,omitempty"`
	PaymentDetails  map[string]interface{} `json:"payment_details,omitempty"`
	PaymentProofURL *string                `json:"payment_proof_url,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

func NewFeeResponse(f *entity.Fee) FeeResponse {
	return FeeResponse{
		Id:              f.Id,
		StudentId:       f.StudentId,
		CourseId:        f.CourseId,
		FeeDefinitionId: f.FeeDefinitionId,
		Title:           f.Title,
		Description:     f.Description,
		Amount:          f.Amount,
		Currency:        f.Currency,
		DueDate:         f.DueDate,
		Month:           f.Month,
		Year:            f.Year,
		Status:          string(f.Status),
		PaidAmount:      f.PaidAmount,
		PaidDate:        f.PaidDate,
		PaidById:        f.PaidById,
		PaymentDetails:  f.PaymentDetails,
		PaymentProofURL: f.PaymentProofURL,
		CreatedAt:       f.CreatedAt,
	}
}

type ListFeesQuery struct {
	StudentId *uuid.UUID
	Status    string `validate:"omitempty,oneof=PENDING PROCESSING PAID OVERDUE CANCELLED"`
	Month     int    `validate:"omitempty,min=1,max=12"`
	Year      int    `validate:"omitempty,min=2000,max=2100"`
	Limit     int    `validate:"omitempty,min=1,max=100"`
	Offset    int    `validate:"omitempty,min=0"`
}
