// Package notify is the shared sink both billing jobs use to raise in-app
// notifications. Delivery is best effort: callers log a failed Notify and move on.
package notify

import (
	"context"
	"fmt"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type Message struct {
	Type       entity.NotificationType
	Title      string
	Message    string
	SenderID   *uuid.UUID // nil for system notifications
	ReceiverID uuid.UUID
	Metadata   map[string]interface{}
	CreatedAt  time.Time // zero means "now"
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) (*entity.Notification, error)
}

// RepositoryNotifier persists notifications and does nothing else.
type RepositoryNotifier struct {
	factory unitofwork.RepositoryFactory
}

func NewRepositoryNotifier(factory unitofwork.RepositoryFactory) *RepositoryNotifier {
	return &RepositoryNotifier{factory: factory}
}

func (n *RepositoryNotifier) Notify(ctx context.Context, msg Message) (*entity.Notification, error) {
	if msg.ReceiverID == uuid.Nil {
		return nil, fmt.Errorf("notify: receiver is required")
	}
	if !msg.Type.IsValid() {
		return nil, fmt.Errorf("notify: unknown type %q", msg.Type)
	}

	notification := &entity.Notification{
		Type:       msg.Type,
		Title:      msg.Title,
		Message:    msg.Message,
		SenderId:   msg.SenderID,
		ReceiverId: msg.ReceiverID,
		IsRead:     false,
		Metadata:   msg.Metadata,
		CreatedAt:  msg.CreatedAt,
	}

	uow := n.factory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("notify: persist: %w", err)
	}
	return notification, nil
}
