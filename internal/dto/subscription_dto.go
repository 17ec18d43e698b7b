package dto

import (
	"time"

	"academy-be/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSubscriptionRequest opens a PENDING renewal for the calling admin.
type CreateSubscriptionRequest struct {
	Plan      string          `json:"plan" validate:"required,max=100"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency" validate:"required,len=3"`
	StartDate time.Time       `json:"start_date" validate:"required"`
	EndDate   time.Time       `json:"end_date" validate:"required"`
}

type SubmitSubscriptionPaymentRequest struct {
	Id              uuid.UUID
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
	Reference       string                 `json:"reference"`
	PaymentProofURL string                 `json:"payment_proof_url" validate:"required,url"`
	Details         map[string]interface{} `json:"details"`
}

type SubscriptionResponse struct {
	Id              uuid.UUID              `json:"id"`
	AdminId         uuid.UUID              `json:"admin_id"`
	Plan            string                 `json:"plan"`
	Amount          decimal.Decimal        `json:"amount"`
	Currency        string                 `json:"currency"`
	StartDate       time.Time              `json:"start_date"`
	EndDate         time.Time              `json:"end_date"`
	Status          string                 `json:"status"`
	PaymentDetails  map[string]interface{} `json:"payment_details,omitempty"`
	PaymentProofURL *string                `json:"payment_proof_url,omitempty"`
	PaidDate        *time.Time             `json:"paid_date,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

func NewSubscriptionResponse(s *entity.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		Id:              s.Id,
		AdminId:         s.AdminId,
		Plan:            s.Plan,
		Amount:          s.Amount,
		Currency:        s.Currency,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		Status:          string(s.Status),
		PaymentDetails:  s.PaymentDetails,
		PaymentProofURL: s.PaymentProofURL,
		PaidDate:        s.PaidDate,
		CreatedAt:       s.CreatedAt,
	}
}

type ListSubscriptionsQuery struct {
	AdminId *uuid.UUID
	Status  string `validate:"omitempty,oneof=PENDING PROCESSING ACTIVE EXPIRED CANCELLED"`
	Limit   int    `validate:"omitempty,min=1,max=100"`
	Offset  int    `validate:"omitempty,min=0"`
}
