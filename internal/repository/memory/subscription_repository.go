package memory

import (
	"context"
	"sort"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/repository/contract"

	"github.com/google/uuid"
)

type subscriptionRepository struct {
	store *Store
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if subscription.Id == uuid.Nil {
		subscription.Id = uuid.New()
	}
	if _, ok := r.store.subscriptions[subscription.Id]; ok {
		return contract.ErrDuplicate
	}
	stamp(&subscription.CreatedAt, &subscription.UpdatedAt)
	cp := *subscription
	r.store.subscriptions[subscription.Id] = &cp
	return nil
}

func (r *subscriptionRepository) Update(ctx context.Context, subscription *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.subscriptions[subscription.Id]; !ok {
		return contract.ErrNotFound
	}
	stamp(&subscription.CreatedAt, &subscription.UpdatedAt)
	cp := *subscription
	r.store.subscriptions[subscription.Id] = &cp
	return nil
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error {
	if hook := r.store.BeforeSubscriptionStatus; hook != nil {
		if err := hook(id, status); err != nil {
			return err
		}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.subscriptions[id]
	if !ok {
		return contract.ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	return nil
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.subscriptions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *subscriptionRepository) FindAll(ctx context.Context, filter contract.SubscriptionFilter) ([]*entity.Subscription, int64, error) {
	subs := r.collect(func(s *entity.Subscription) bool {
		if filter.AdminId != nil && s.AdminId != *filter.AdminId {
			return false
		}
		return filter.Status == "" || s.Status == filter.Status
	})
	sort.Slice(subs, func(i, j int) bool { return subs[i].EndDate.After(subs[j].EndDate) })
	return paginate(subs, filter.Limit, filter.Offset), int64(len(subs)), nil
}

func (r *subscriptionRepository) FindExpired(ctx context.Context, now time.Time) ([]*entity.Subscription, error) {
	return r.collect(func(s *entity.Subscription) bool {
		return s.Status == entity.SubscriptionStatusActive && s.EndDate.Before(now)
	}), nil
}

func (r *subscriptionRepository) FindExpiring(ctx context.Context, from, to time.Time) ([]*entity.Subscription, error) {
	return r.collect(func(s *entity.Subscription) bool {
		return s.Status == entity.SubscriptionStatusActive && !s.EndDate.Before(from) && !s.EndDate.After(to)
	}), nil
}

func (r *subscriptionRepository) collect(keep func(*entity.Subscription) bool) []*entity.Subscription {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var subs []*entity.Subscription
	for _, s := range r.store.subscriptions {
		if keep(s) {
			cp := *s
			subs = append(subs, &cp)
		}
	}
	return subs
}
