package service

import (
	"context"
	"errors"
	"testing"

	"academy-be/internal/dto"
	"academy-be/internal/entity"
	"academy-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renewal(t *testing.T, w *world, admin *entity.User) *dto.SubscriptionResponse {
	t.Helper()
	sub, err := w.subs.Create(context.Background(), as(admin), &dto.CreateSubscriptionRequest{
		Plan:      "Standard",
		Amount:    decimal.NewFromInt(49),
		Currency:  "usd",
		StartDate: fixedNow,
		EndDate:   fixedNow.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	return sub
}

func pay(t *testing.T, w *world, admin *entity.User, id uuid.UUID) {
	t.Helper()
	_, err := w.subs.SubmitPayment(context.Background(), as(admin), &dto.SubmitSubscriptionPaymentRequest{
		Id: id, PaymentMethod: "bank_transfer", PaymentProofURL: "https://files.test/sub.png",
	})
	require.NoError(t, err)
}

func TestSubscriptionService_CreateValidation(t *testing.T) {
	w := newWorld()
	admin := w.addUser(t, entity.UserRoleAdmin, nil)

	_, err := w.subs.Create(context.Background(), as(admin), &dto.CreateSubscriptionRequest{
		Plan: "Standard", Amount: decimal.NewFromInt(49), Currency: "USD",
		StartDate: fixedNow, EndDate: fixedNow,
	})
	assert.ErrorIs(t, err, contract.ErrInvalidInput)

	sub := renewal(t, w, admin)
	assert.Equal(t, "PENDING", sub.Status)
	assert.Equal(t, "USD", sub.Currency)
	assert.Equal(t, admin.Id, sub.AdminId)
}

func TestSubscriptionService_SubmitPaymentNotifiesDevelopers(t *testing.T) {
	w := newWorld()
	dev := w.addUser(t, entity.UserRoleDeveloper, nil)
	admin := w.addUser(t, entity.UserRoleAdmin, nil)
	intruder := w.addUser(t, entity.UserRoleAdmin, nil)
	sub := renewal(t, w, admin)

	_, err := w.subs.SubmitPayment(context.Background(), as(intruder), &dto.SubmitSubscriptionPaymentRequest{
		Id: sub.Id, PaymentMethod: "cash", PaymentProofURL: "https://files.test/x.png",
	})
	assert.ErrorIs(t, err, contract.ErrForbidden)

	pay(t, w, admin, sub.Id)
	assert.Len(t, w.notificationsFor(dev.Id, entity.NotificationTypeSubscriptionPaymentSubmitted), 1)

	_, err = w.subs.SubmitPayment(context.Background(), as(admin), &dto.SubmitSubscriptionPaymentRequest{
		Id: sub.Id, PaymentMethod: "cash", PaymentProofURL: "https://files.test/x.png",
	})
	assert.ErrorIs(t, err, contract.ErrInvalidTransition)
}

func TestSubscriptionService_VerifyRestoresTenant(t *testing.T) {
	w := newWorld()
	dev := w.addUser(t, entity.UserRoleDeveloper, nil)
	admin, parent, student := w.academy(t)
	teacher := w.addUser(t, entity.UserRoleTeacher, &admin.Id)
	otherAdmin, otherParent, _ := w.academy(t)

	// Both academies were disabled by an earlier expiry.
	users := w.store.Factory().NewUnitOfWork(context.Background()).UserRepository()
	for _, id := range []uuid.UUID{admin.Id, otherAdmin.Id} {
		require.NoError(t, users.SetActive(context.Background(), id, false))
		_, err := users.SetActiveForDependents(context.Background(), id, entity.DependentRoles, false)
		require.NoError(t, err)
	}

	sub := renewal(t, w, admin)
	pay(t, w, admin, sub.Id)

	res, err := w.subs.Verify(context.Background(), as(dev), sub.Id)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", res.Status)
	require.NotNil(t, res.PaidDate)

	for _, u := range []*entity.User{admin, parent, student, teacher} {
		assert.True(t, w.user(u.Id).IsActive, "%s should be active", u.Role)
	}
	assert.False(t, w.user(otherAdmin.Id).IsActive)
	assert.False(t, w.user(otherParent.Id).IsActive)

	assert.Len(t, w.notificationsFor(admin.Id, entity.NotificationTypeSubscriptionActivated), 1)
}

func TestSubscriptionService_VerifyRollsBackOnCascadeFailure(t *testing.T) {
	w := newWorld()
	dev := w.addUser(t, entity.UserRoleDeveloper, nil)
	admin := w.addUser(t, entity.UserRoleAdmin, nil)
	sub := renewal(t, w, admin)
	pay(t, w, admin, sub.Id)

	w.store.BeforeDependentsUpdate = func(uuid.UUID, bool) error { return errors.New("db down") }

	_, err := w.subs.Verify(context.Background(), as(dev), sub.Id)
	require.Error(t, err)

	page, err := w.subs.List(context.Background(), as(dev), dto.ListSubscriptionsQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "PROCESSING", page.Items[0].Status)
	assert.Empty(t, w.notificationsFor(admin.Id, entity.NotificationTypeSubscriptionActivated))
}

func TestSubscriptionService_CancelRules(t *testing.T) {
	w := newWorld()
	dev := w.addUser(t, entity.UserRoleDeveloper, nil)
	admin := w.addUser(t, entity.UserRoleAdmin, nil)
	other := w.addUser(t, entity.UserRoleAdmin, nil)

	pending := renewal(t, w, admin)
	_, err := w.subs.Cancel(context.Background(), as(other), pending.Id)
	assert.ErrorIs(t, err, contract.ErrForbidden)

	res, err := w.subs.Cancel(context.Background(), as(admin), pending.Id)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", res.Status)

	processing := renewal(t, w, admin)
	pay(t, w, admin, processing.Id)
	_, err = w.subs.Cancel(context.Background(), as(dev), processing.Id)
	assert.ErrorIs(t, err, contract.ErrInvalidTransition)
}

func TestSubscriptionService_ListScopesAdmins(t *testing.T) {
	w := newWorld()
	dev := w.addUser(t, entity.UserRoleDeveloper, nil)
	admin := w.addUser(t, entity.UserRoleAdmin, nil)
	other := w.addUser(t, entity.UserRoleAdmin, nil)
	renewal(t, w, admin)
	renewal(t, w, other)

	own, err := w.subs.List(context.Background(), as(admin), dto.ListSubscriptionsQuery{AdminId: &other.Id})
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, admin.Id, own.Items[0].AdminId)

	all, err := w.subs.List(context.Background(), as(dev), dto.ListSubscriptionsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)
}
