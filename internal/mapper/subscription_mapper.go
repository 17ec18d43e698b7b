package mapper

import (
	"academy-be/internal/entity"
	"academy-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:              s.Id,
		AdminId:         s.AdminId,
		Plan:            s.Plan,
		Amount:          s.Amount,
		Currency:        s.Currency,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		Status:          entity.SubscriptionStatus(s.Status),
		PaymentDetails:  jsonToMap(s.PaymentDetails),
		PaymentProofURL: s.PaymentProofURL,
		PaidDate:        s.PaidDate,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:              s.Id,
		AdminId:         s.AdminId,
		Plan:            s.Plan,
		Amount:          s.Amount,
		Currency:        s.Currency,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
		Status:          string(s.Status),
		PaymentDetails:  mapToJSON(s.PaymentDetails),
		PaymentProofURL: s.PaymentProofURL,
		PaidDate:        s.PaidDate,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
