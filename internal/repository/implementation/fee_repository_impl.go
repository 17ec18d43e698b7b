package implementation

import (
	"context"
	"errors"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/mapper"
	"academy-be/internal/model"
	"academy-be/internal/repository/contract"
	"academy-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeeMapper
}

func NewFeeRepository(db *gorm.DB) contract.FeeRepository {
	return &FeeRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeeMapper(),
	}
}

// Definition Implementation

func (r *FeeRepositoryImpl) CreateDefinition(ctx context.Context, def *entity.FeeDefinition) error {
	if def.Id == uuid.Nil {
		def.Id = uuid.New()
	}
	m := r.mapper.DefinitionToModel(def)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	*def = *r.mapper.DefinitionToEntity(m)
	return nil
}

func (r *FeeRepositoryImpl) UpdateDefinition(ctx context.Context, def *entity.FeeDefinition) error {
	m := r.mapper.DefinitionToModel(def)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateWriteError(err)
	}
	*def = *r.mapper.DefinitionToEntity(m)
	return nil
}

func (r *FeeRepositoryImpl) FindDefinitionByID(ctx context.Context, id uuid.UUID) (*entity.FeeDefinition, error) {
	var m model.FeeDefinition
	if err := r.db.WithContext(ctx).Scopes(specification.ByID{ID: id}.Apply).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DefinitionToEntity(&m), nil
}

func (r *FeeRepositoryImpl) FindAllDefinitions(ctx context.Context, filter contract.FeeDefinitionFilter) ([]*entity.FeeDefinition, int64, error) {
	var specs []specification.Specification
	if filter.AdminId != nil {
		specs = append(specs, specification.OwnedByAdmin{AdminID: *filter.AdminId})
	}
	if filter.StudentId != nil {
		specs = append(specs, specification.ByStudent{StudentID: *filter.StudentId})
	}
	if filter.ActiveOnly {
		specs = append(specs, specification.ActiveDefinitions{})
	}

	query := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.FeeDefinition{}), specs...)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.FeeDefinition
	err := specification.ApplyAll(query,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: filter.Limit, Offset: filter.Offset},
	).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	defs := make([]*entity.FeeDefinition, len(models))
	for i, m := range models {
		defs[i] = r.mapper.DefinitionToEntity(m)
	}
	return defs, total, nil
}

func (r *FeeRepositoryImpl) FindActiveDefinitions(ctx context.Context) ([]*entity.FeeDefinition, error) {
	var models []*model.FeeDefinition
	query := specification.ApplyAll(r.db.WithContext(ctx),
		specification.ActiveDefinitions{},
		specification.OrderBy{Field: "created_at"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	defs := make([]*entity.FeeDefinition, len(models))
	for i, m := range models {
		defs[i] = r.mapper.DefinitionToEntity(m)
	}
	return defs, nil
}

// Fee Implementation

func (r *FeeRepositoryImpl) Create(ctx context.Context, fee *entity.Fee) error {
	if fee.Id == uuid.Nil {
		fee.Id = uuid.New()
	}
	m := r.mapper.ToModel(fee)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	*fee = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeeRepositoryImpl) Update(ctx context.Context, fee *entity.Fee) error {
	m := r.mapper.ToModel(fee)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateWriteError(err)
	}
	*fee = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeeRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Fee, error) {
	var m model.Fee
	if err := r.db.WithContext(ctx).Scopes(specification.ByID{ID: id}.Apply).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeeRepositoryImpl) FindAll(ctx context.Context, filter contract.FeeFilter) ([]*entity.Fee, int64, error) {
	var specs []specification.Specification
	if filter.AdminId != nil {
		specs = append(specs, specification.OwnedByAdmin{AdminID: *filter.AdminId})
	}
	if filter.StudentIds != nil {
		specs = append(specs, specification.ForStudents{StudentIDs: filter.StudentIds})
	}
	if filter.Status != "" {
		specs = append(specs, specification.Filter("status", string(filter.Status)))
	}
	specs = append(specs, specification.ForPeriod{Month: filter.Month, Year: filter.Year})

	query := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Fee{}), specs...)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.Fee
	err := specification.ApplyAll(query,
		specification.OrderBy{Field: "due_date", Desc: true},
		specification.Pagination{Limit: filter.Limit, Offset: filter.Offset},
	).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	fees := make([]*entity.Fee, len(models))
	for i, m := range models {
		fees[i] = r.mapper.ToEntity(m)
	}
	return fees, total, nil
}

func (r *FeeRepositoryImpl) ExistsForPeriod(ctx context.Context, definitionId uuid.UUID, month, year int) (bool, error) {
	var count int64
	err := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Fee{}),
		specification.ByDefinition{DefinitionID: definitionId},
		specification.ForPeriod{Month: month, Year: year},
	).Count(&count).Error
	return count > 0, err
}

func (r *FeeRepositoryImpl) CountByDefinition(ctx context.Context, definitionId uuid.UUID) (int64, error) {
	var count int64
	err := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Fee{}),
		specification.ByDefinition{DefinitionID: definitionId},
	).Count(&count).Error
	return count, err
}

func (r *FeeRepositoryImpl) MarkOverdue(ctx context.Context, dueBefore time.Time) (int64, error) {
	result := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Fee{}),
		specification.Filter("status", string(entity.FeeStatusPending)),
		specification.DueBefore{Before: dueBefore},
	).Update("status", string(entity.FeeStatusOverdue))
	return result.RowsAffected, result.Error
}
