package unitofwork

import (
	"context"

	"academy-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	FeeRepository() contract.FeeRepository
	SubscriptionRepository() contract.SubscriptionRepository
	NotificationRepository() contract.NotificationRepository
}
