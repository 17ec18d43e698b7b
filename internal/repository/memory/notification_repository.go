package memory

import (
	"context"
	"sort"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/repository/contract"

	"github.com/google/uuid"
)

type notificationRepository struct {
	store *Store
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if hook := r.store.BeforeNotificationCreate; hook != nil {
		if err := hook(notification); err != nil {
			return err
		}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if notification.Id == uuid.Nil {
		notification.Id = uuid.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	cp := *notification
	r.store.notifications[notification.Id] = &cp
	return nil
}

func (r *notificationRepository) FindByReceiver(ctx context.Context, receiverId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Notification
	for _, n := range r.store.notifications {
		if n.ReceiverId == receiverId {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), int64(len(out)), nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, receiverId uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, n := range r.store.notifications {
		if n.ReceiverId == receiverId && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, receiverId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n, ok := r.store.notifications[id]
	if !ok || n.ReceiverId != receiverId {
		return contract.ErrNotFound
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, receiverId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	for _, n := range r.store.notifications {
		if n.ReceiverId == receiverId && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *notificationRepository) ExistsSince(ctx context.Context, receiverId uuid.UUID, notifType entity.NotificationType, title string, since time.Time) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, n := range r.store.notifications {
		if n.ReceiverId == receiverId && n.Type == notifType && n.Title == title && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}
