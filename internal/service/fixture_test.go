package service

import (
	"context"
	"testing"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/pkg/logger"
	"academy-be/internal/pkg/serverutils"
	"academy-be/internal/repository/memory"
	"academy-be/pkg/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

type world struct {
	store *memory.Store
	fees  *feeService
	subs  *subscriptionService
}

func newWorld() *world {
	store := memory.NewStore()
	notifier := notify.NewRepositoryNotifier(store.Factory())

	fees := NewFeeService(store.Factory(), notifier, logger.NewNopLogger()).(*feeService)
	fees.now = func() time.Time { return fixedNow }
	subs := NewSubscriptionService(store.Factory(), notifier, logger.NewNopLogger()).(*subscriptionService)
	subs.now = func() time.Time { return fixedNow }

	return &world{store: store, fees: fees, subs: subs}
}

func (w *world) addUser(t *testing.T, role entity.UserRole, adminId *uuid.UUID) *entity.User {
	t.Helper()
	u := &entity.User{
		Id:       uuid.New(),
		Email:    uuid.NewString() + "@academy.test",
		FullName: string(role) + " user",
		Role:     role,
		IsActive: true,
		AdminId:  adminId,
	}
	require.NoError(t, w.store.Factory().NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	return u
}

func (w *world) link(t *testing.T, parent, student *entity.User) {
	t.Helper()
	require.NoError(t, w.store.Factory().NewUnitOfWork(context.Background()).UserRepository().LinkParentStudent(
		context.Background(), &entity.ParentStudent{ParentId: parent.Id, StudentId: student.Id}))
}

// academy creates an admin with one linked parent/student pair.
func (w *world) academy(t *testing.T) (admin, parent, student *entity.User) {
	t.Helper()
	admin = w.addUser(t, entity.UserRoleAdmin, nil)
	parent = w.addUser(t, entity.UserRoleParent, &admin.Id)
	student = w.addUser(t, entity.UserRoleStudent, &admin.Id)
	w.link(t, parent, student)
	return admin, parent, student
}

func (w *world) notificationsFor(receiver uuid.UUID, notifType entity.NotificationType) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range w.store.Notifications() {
		if n.ReceiverId == receiver && n.Type == notifType {
			out = append(out, n)
		}
	}
	return out
}

func (w *world) user(id uuid.UUID) *entity.User {
	for _, u := range w.store.Users() {
		if u.Id == id {
			return u
		}
	}
	return nil
}

func as(u *entity.User) serverutils.Principal {
	return serverutils.Principal{UserId: u.Id, Role: u.Role, AdminId: u.AdminId}
}
