package contract

import (
	"context"
	"time"

	"academy-be/internal/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindByReceiver(ctx context.Context, receiverId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, receiverId uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, receiverId uuid.UUID) error
	MarkAllAsRead(ctx context.Context, receiverId uuid.UUID) error

	// ExistsSince reports whether the receiver already got a notification with
	// this type and title created at or after since.
	ExistsSince(ctx context.Context, receiverId uuid.UUID, notifType entity.NotificationType, title string, since time.Time) (bool, error)
}
