package implementation

import (
	"context"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/mapper"
	"academy-be/internal/model"
	"academy-be/internal/repository/contract"
	"academy-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotificationMapper
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotificationMapper(),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.Id == uuid.Nil {
		notification.Id = uuid.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	m := r.mapper.ToModel(notification)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	*notification = *r.mapper.ToEntity(m)
	return nil
}

func (r *NotificationRepositoryImpl) FindByReceiver(ctx context.Context, receiverId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	var models []*model.Notification
	var total int64

	db := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Notification{}),
		specification.ForReceiver{ReceiverID: receiverId},
	)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := specification.ApplyAll(db,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	notifications := make([]*entity.Notification, len(models))
	for i, m := range models {
		notifications[i] = r.mapper.ToEntity(m)
	}
	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, receiverId uuid.UUID) (int64, error) {
	var count int64
	err := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Notification{}),
		specification.ForReceiver{ReceiverID: receiverId},
		specification.Unread{},
	).Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(ctx context.Context, id, receiverId uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND receiver_id = ?", id, receiverId).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(ctx context.Context, receiverId uuid.UUID) error {
	now := time.Now()
	return specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Notification{}),
		specification.ForReceiver{ReceiverID: receiverId},
		specification.Unread{},
	).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error
}

func (r *NotificationRepositoryImpl) ExistsSince(ctx context.Context, receiverId uuid.UUID, notifType entity.NotificationType, title string, since time.Time) (bool, error) {
	var count int64
	err := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Notification{}),
		specification.ForReceiver{ReceiverID: receiverId},
		specification.Filter("type", string(notifType)),
		specification.Filter("title", title),
		specification.CreatedSince{Since: since},
	).Count(&count).Error
	return count > 0, err
}
