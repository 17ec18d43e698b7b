package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"academy-be/internal/dto"
	"academy-be/internal/entity"
	"academy-be/internal/pkg/logger"
	"academy-be/internal/repository/contract"
	"academy-be/internal/repository/memory"
	"academy-be/pkg/events"
	"academy-be/pkg/notify"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	userID    uuid.UUID
	eventType string
	data      interface{}
}

type fakeDelivery struct {
	mu   sync.Mutex
	sent []pushed
	err  error
}

func (d *fakeDelivery) Send(userID uuid.UUID, eventType string, data interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, pushed{userID: userID, eventType: eventType, data: data})
	return d.err
}

func (d *fakeDelivery) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

func newNotificationFixture(t *testing.T) (*notificationService, *memory.Store, *fakeDelivery) {
	t.Helper()
	store := memory.NewStore()
	delivery := &fakeDelivery{}
	bus := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })

	svc := NewNotificationService(store.Factory(), bus, delivery, nil, logger.NewNopLogger()).(*notificationService)
	return svc, store, delivery
}

func TestNotificationService_NotifyPushesToReceiver(t *testing.T) {
	svc, store, delivery := newNotificationFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, svc.Start(ctx))

	receiver := uuid.New()
	n, err := svc.Notify(ctx, notify.Message{
		Type:       entity.NotificationTypeGeneral,
		Title:      "Holiday",
		Message:    "The academy is closed on Friday.",
		ReceiverID: receiver,
	})
	require.NoError(t, err)
	assert.Len(t, store.Notifications(), 1)

	require.Eventually(t, func() bool { return delivery.count() == 1 }, time.Second, 10*time.Millisecond)

	delivery.mu.Lock()
	got := delivery.sent[0]
	delivery.mu.Unlock()
	assert.Equal(t, receiver, got.userID)
	assert.Equal(t, WsEventNotification, got.eventType)
	payload, ok := got.data.(dto.NotificationResponse)
	require.True(t, ok)
	assert.Equal(t, n.Id, payload.Id)
	assert.Equal(t, "Holiday", payload.Title)
}

func TestNotificationService_DeliveryFailureKeepsRow(t *testing.T) {
	svc, store, delivery := newNotificationFixture(t)
	delivery.err = errors.New("user offline")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, svc.Start(ctx))

	_, err := svc.Notify(ctx, notify.Message{
		Type: entity.NotificationTypeGeneral, Title: "t", Message: "m", ReceiverID: uuid.New(),
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return delivery.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Len(t, store.Notifications(), 1)
}

func TestNotificationService_UnreadCountCache(t *testing.T) {
	svc, _, _ := newNotificationFixture(t)
	ctx := context.Background()
	receiver := uuid.New()

	first, err := svc.Notify(ctx, notify.Message{Type: entity.NotificationTypeGeneral, Title: "a", Message: "a", ReceiverID: receiver})
	require.NoError(t, err)
	count, err := svc.UnreadCount(ctx, receiver)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// A new notification invalidates the cached count.
	_, err = svc.Notify(ctx, notify.Message{Type: entity.NotificationTypeGeneral, Title: "b", Message: "b", ReceiverID: receiver})
	require.NoError(t, err)
	count, err = svc.UnreadCount(ctx, receiver)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, svc.MarkAsRead(ctx, first.Id, receiver))
	count, err = svc.UnreadCount(ctx, receiver)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.MarkAllAsRead(ctx, receiver))
	count, err = svc.UnreadCount(ctx, receiver)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_MarkAsReadScopedToReceiver(t *testing.T) {
	svc, _, _ := newNotificationFixture(t)
	ctx := context.Background()
	receiver := uuid.New()

	n, err := svc.Notify(ctx, notify.Message{Type: entity.NotificationTypeGeneral, Title: "a", Message: "a", ReceiverID: receiver})
	require.NoError(t, err)

	err = svc.MarkAsRead(ctx, n.Id, uuid.New())
	assert.ErrorIs(t, err, contract.ErrNotFound)

	page, err := svc.List(ctx, receiver, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.False(t, page.Items[0].IsRead)
	assert.Equal(t, 20, page.Limit)
}

func TestNotificationService_HandleIntake(t *testing.T) {
	svc, store, _ := newNotificationFixture(t)
	ctx := context.Background()
	receiver := uuid.New()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	err := svc.handleIntake(ctx, events.BaseEvent{
		Type: events.NotifyPrefix + "general",
		Data: map[string]interface{}{
			"title":       "Exam schedule",
			"message":     "Exams start next week.",
			"receiver_id": receiver.String(),
		},
		OccurredAt: at,
	})
	require.NoError(t, err)

	stored := store.Notifications()
	require.Len(t, stored, 1)
	assert.Equal(t, entity.NotificationTypeGeneral, stored[0].Type)
	assert.Equal(t, receiver, stored[0].ReceiverId)
	assert.True(t, stored[0].CreatedAt.Equal(at))
}

func TestNotificationService_HandleIntakeDropsMalformed(t *testing.T) {
	svc, store, _ := newNotificationFixture(t)
	ctx := context.Background()

	cases := []events.BaseEvent{
		{Type: events.NotifyPrefix + "general", Data: map[string]interface{}{"title": "no receiver", "message": "m"}},
		{Type: events.NotifyPrefix + "birthday", Data: map[string]interface{}{"title": "t", "message": "m", "receiver_id": uuid.NewString()}},
		{Type: events.NotifyPrefix + "general", Data: map[string]interface{}{"title": "t", "message": "m", "receiver_id": "not-a-uuid"}},
	}
	for _, ev := range cases {
		assert.NoError(t, svc.handleIntake(ctx, ev))
	}
	assert.Empty(t, store.Notifications())
}

func TestNotificationService_HandleIntakeRetriesStorageFailure(t *testing.T) {
	svc, store, _ := newNotificationFixture(t)
	store.BeforeNotificationCreate = func(*entity.Notification) error { return errors.New("db down") }

	err := svc.handleIntake(context.Background(), events.BaseEvent{
		Type: events.NotifyPrefix + "general",
		Data: map[string]interface{}{"title": "t", "message": "m", "receiver_id": uuid.NewString()},
	})
	assert.Error(t, err)
}
