package notify

import (
	"context"
	"testing"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryNotifier_PersistsUnread(t *testing.T) {
	store := memory.NewStore()
	n := NewRepositoryNotifier(store.Factory())
	receiver := uuid.New()
	at := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	got, err := n.Notify(context.Background(), Message{
		Type:       entity.NotificationTypeFeeDue,
		Title:      "New Fee Due",
		Message:    "Tuition is due",
		ReceiverID: receiver,
		CreatedAt:  at,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.Id)
	assert.False(t, got.IsRead)
	assert.Nil(t, got.SenderId)
	assert.Equal(t, at, got.CreatedAt)

	stored := store.Notifications()
	require.Len(t, stored, 1)
	assert.Equal(t, receiver, stored[0].ReceiverId)
}

func TestRepositoryNotifier_RejectsInvalidMessages(t *testing.T) {
	n := NewRepositoryNotifier(memory.NewStore().Factory())

	_, err := n.Notify(context.Background(), Message{Type: entity.NotificationTypeGeneral})
	assert.Error(t, err)

	_, err = n.Notify(context.Background(), Message{Type: "NOPE", ReceiverID: uuid.New()})
	assert.Error(t, err)
}
