package mapper

import (
	"academy-be/internal/entity"
	"academy-be/internal/model"
)

type FeeMapper struct{}

func NewFeeMapper() *FeeMapper {
	return &FeeMapper{}
}

func (m *FeeMapper) DefinitionToEntity(d *model.FeeDefinition) *entity.FeeDefinition {
	if d == nil {
		return nil
	}
	return &entity.FeeDefinition{
		Id:            d.Id,
		AdminId:       d.AdminId,
		StudentId:     d.StudentId,
		CourseId:      d.CourseId,
		Title:         d.Title,
		Description:   d.Description,
		Amount:        d.Amount,
		Currency:      d.Currency,
		Cadence:       entity.FeeCadence(d.Cadence),
		GenerationDay: d.GenerationDay,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (m *FeeMapper) DefinitionToModel(d *entity.FeeDefinition) *model.FeeDefinition {
	if d == nil {
		return nil
	}
	return &model.FeeDefinition{
		Id:            d.Id,
		AdminId:       d.AdminId,
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
		UpdatedAt:     d.UpdatedAt,
	}
}

func (m *FeeMapper) ToEntity(f *model.Fee) *entity.Fee {
	if f == nil {
		return nil
	}
	return &entity.Fee{
		Id:              f.Id,
		AdminId:         f.AdminId,
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
		Status:          entity.FeeStatus(f.Status),
		PaidAmount:      f.PaidAmount,
		PaidDate:        f.PaidDate,
		PaidById:        f.PaidById,
		PaymentDetails:  jsonToMap(f.PaymentDetails),
		PaymentProofURL: f.PaymentProofURL,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

func (m *FeeMapper) ToModel(f *entity.Fee) *model.Fee {
	if f == nil {
		return nil
	}
	return &model.Fee{
		Id:              f.Id,
		AdminId:         f.AdminId,
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
		PaymentDetails:  mapToJSON(f.PaymentDetails),
		PaymentProofURL: f.PaymentProofURL,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}
