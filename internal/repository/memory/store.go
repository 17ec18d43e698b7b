// Package memory holds an in-process implementation of every repository
// contract. It enforces the same uniqueness rules as the Postgres schema and
// backs the service and controller tests.
package memory

import (
	"context"
	"sync"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/repository/contract"
	"academy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	users          map[uuid.UUID]*entity.User
	parentStudents map[uuid.UUID]*entity.ParentStudent
	definitions    map[uuid.UUID]*entity.FeeDefinition
	fees           map[uuid.UUID]*entity.Fee
	subscriptions  map[uuid.UUID]*entity.Subscription
	notifications  map[uuid.UUID]*entity.Notification

	// BeforeFeeCreate, when set, runs before a fee insert and may veto it.
	BeforeFeeCreate func(fee *entity.Fee) error
	// BeforeSubscriptionStatus, when set, runs before a status update and may veto it.
	BeforeSubscriptionStatus func(id uuid.UUID, status entity.SubscriptionStatus) error
	// BeforeNotificationCreate, when set, runs before a notification insert and may veto it.
	BeforeNotificationCreate func(n *entity.Notification) error
	// BeforeDependentsUpdate, when set, runs before a bulk activation change and may veto it.
	BeforeDependentsUpdate func(adminId uuid.UUID, active bool) error
}

func NewStore() *Store {
	return &Store{
		users:          make(map[uuid.UUID]*entity.User),
		parentStudents: make(map[uuid.UUID]*entity.ParentStudent),
		definitions:    make(map[uuid.UUID]*entity.FeeDefinition),
		fees:           make(map[uuid.UUID]*entity.Fee),
		subscriptions:  make(map[uuid.UUID]*entity.Subscription),
		notifications:  make(map[uuid.UUID]*entity.Notification),
	}
}

// Factory returns a RepositoryFactory whose units of work share this store.
func (s *Store) Factory() unitofwork.RepositoryFactory {
	return factory{store: s}
}

// Fees returns a snapshot of every stored fee.
func (s *Store) Fees() []*entity.Fee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Fee, 0, len(s.fees))
	for _, f := range s.fees {
		cp := *f
		out = append(out, &cp)
	}
	return out
}

// Notifications returns a snapshot of every stored notification.
func (s *Store) Subscriptions() []*entity.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		cp := *sub
		out = append(out, &cp)
	}
	return out
}

func (s *Store) Notifications() []*entity.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		cp := *n
		out = append(out, &cp)
	}
	return out
}

type factory struct {
	store *Store
}

func (f factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork applies writes immediately. Begin snapshots the store and
// Rollback restores it, so concurrent units of work are not isolated.
type unitOfWork struct {
	store    *Store
	active   bool
	snapshot *snapshot
}

type snapshot struct {
	users         map[uuid.UUID]entity.User
	fees          map[uuid.UUID]entity.Fee
	subscriptions map[uuid.UUID]entity.Subscription
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return errTxStarted
	}
	u.active = true
	u.snapshot = u.store.takeSnapshot()
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.active {
		return errNoTx
	}
	u.active = false
	u.snapshot = nil
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.active {
		return errNoTx
	}
	u.active = false
	u.store.restore(u.snapshot)
	u.snapshot = nil
	return nil
}

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &userRepository{store: u.store}
}

func (u *unitOfWork) FeeRepository() contract.FeeRepository {
	return &feeRepository{store: u.store}
}

func (u *unitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &subscriptionRepository{store: u.store}
}

func (u *unitOfWork) NotificationRepository() contract.NotificationRepository {
	return &notificationRepository{store: u.store}
}

// takeSnapshot copies the rows a transactional flow can mutate.
func (s *Store) takeSnapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := &snapshot{
		users:         make(map[uuid.UUID]entity.User, len(s.users)),
		fees:          make(map[uuid.UUID]entity.Fee, len(s.fees)),
		subscriptions: make(map[uuid.UUID]entity.Subscription, len(s.subscriptions)),
	}
	for id, v := range s.users {
		snap.users[id] = *v
	}
	for id, v := range s.fees {
		snap.fees[id] = *v
	}
	for id, v := range s.subscriptions {
		snap.subscriptions[id] = *v
	}
	return snap
}

func (s *Store) restore(snap *snapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[uuid.UUID]*entity.User, len(snap.users))
	for id, v := range snap.users {
		v := v
		s.users[id] = &v
	}
	s.fees = make(map[uuid.UUID]*entity.Fee, len(snap.fees))
	for id, v := range snap.fees {
		v := v
		s.fees[id] = &v
	}
	s.subscriptions = make(map[uuid.UUID]*entity.Subscription, len(snap.subscriptions))
	for id, v := range snap.subscriptions {
		v := v
		s.subscriptions[id] = &v
	}
}

// Users returns a snapshot of every stored user.
func (s *Store) Users() []*entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
