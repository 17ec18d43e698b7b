package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"academy-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func connect(hub *Hub, userID uuid.UUID, buffer int) *Client {
	c := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, buffer)}
	hub.register <- c
	return c
}

func TestHub_SendReachesEveryDeviceOfUser(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()
	phone := connect(hub, user, 4)
	laptop := connect(hub, user, 4)
	stranger := connect(hub, uuid.New(), 4)

	require.Eventually(t, func() bool { return hub.Connected(user) == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hub.Send(user, "notification", map[string]string{"title": "New Fee Due"}))

	for _, c := range []*Client{phone, laptop} {
		select {
		case raw := <-c.Send:
			var envelope map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &envelope))
			assert.Equal(t, "notification", envelope["type"])
			assert.Equal(t, "New Fee Due", envelope["data"].(map[string]interface{})["title"])
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.Len(t, stranger.Send, 0)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()
	slow := connect(hub, user, 1)
	require.Eventually(t, func() bool { return hub.Connected(user) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Send(user, "notification", "first"))
	require.NoError(t, hub.Send(user, "notification", "second"))

	require.Eventually(t, func() bool { return hub.Connected(user) == 0 }, time.Second, 5*time.Millisecond)

	// The buffered message is still readable, then the channel is closed.
	_, ok := <-slow.Send
	assert.True(t, ok)
	_, ok = <-slow.Send
	assert.False(t, ok)
}

func TestClient_AnswersHeartbeat(t *testing.T) {
	c := &Client{Send: make(chan []byte, 1), pongs: make(chan struct{}, 1)}

	c.answer([]byte(`{"type":"ping"}`))
	c.answer([]byte(`{"type":"ping"}`))
	c.answer([]byte(`{"type":"subscribe"}`))
	c.answer([]byte(`not json`))

	assert.Len(t, c.pongs, 1)
	assert.Len(t, c.Send, 0)
}
