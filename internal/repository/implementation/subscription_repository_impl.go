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

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscription *entity.Subscription) error {
	if subscription.Id == uuid.Nil {
		subscription.Id = uuid.New()
	}
	m := r.mapper.ToModel(subscription)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	*subscription = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscription *entity.Subscription) error {
	m := r.mapper.ToModel(subscription)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateWriteError(err)
	}
	*subscription = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	var m model.Subscription
	if err := r.db.WithContext(ctx).Scopes(specification.ByID{ID: id}.Apply).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAll(ctx context.Context, filter contract.SubscriptionFilter) ([]*entity.Subscription, int64, error) {
	var specs []specification.Specification
	if filter.AdminId != nil {
		specs = append(specs, specification.OwnedByAdmin{AdminID: *filter.AdminId})
	}
	if filter.Status != "" {
		specs = append(specs, specification.Filter("status", string(filter.Status)))
	}

	query := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Subscription{}), specs...)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.Subscription
	err := specification.ApplyAll(query,
		specification.OrderBy{Field: "end_date", Desc: true},
		specification.Pagination{Limit: filter.Limit, Offset: filter.Offset},
	).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}
	return r.toEntities(models), total, nil
}

func (r *SubscriptionRepositoryImpl) FindExpired(ctx context.Context, now time.Time) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	err := specification.ApplyAll(r.db.WithContext(ctx),
		specification.Filter("status", string(entity.SubscriptionStatusActive)),
		specification.EndsBefore{Before: now},
	).Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(models), nil
}

func (r *SubscriptionRepositoryImpl) FindExpiring(ctx context.Context, from, to time.Time) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	err := specification.ApplyAll(r.db.WithContext(ctx),
		specification.Filter("status", string(entity.SubscriptionStatusActive)),
		specification.EndsBetween{From: from, To: to},
	).Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(models), nil
}

func (r *SubscriptionRepositoryImpl) toEntities(models []*model.Subscription) []*entity.Subscription {
	subs := make([]*entity.Subscription, len(models))
	for i, m := range models {
		subs[i] = r.mapper.ToEntity(m)
	}
	return subs
}
