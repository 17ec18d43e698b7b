package contract

import (
	"context"
	"time"

	"academy-be/internal/entity"

	"github.com/google/uuid"
)

type SubscriptionFilter struct {
	AdminId *uuid.UUID
	Status  entity.SubscriptionStatus
	Limit   int
	Offset  int
}

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error)
	FindAll(ctx context.Context, filter SubscriptionFilter) ([]*entity.Subscription, int64, error)

	// FindExpired returns ACTIVE subscriptions whose end date is before now.
	FindExpired(ctx context.Context, now time.Time) ([]*entity.Subscription, error)
	// FindExpiring returns ACTIVE subscriptions ending within [from, to].
	FindExpiring(ctx context.Context, from, to time.Time) ([]*entity.Subscription, error)
}
