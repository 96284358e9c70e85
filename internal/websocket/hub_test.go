package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHubPublishFansOutToClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.register <- client

	hub.Publish("income.created", map[string]string{"guest": "Alice"})

	select {
	case raw := <-client.Send:
		var got activityEvent
		require.NoError(t, json.Unmarshal(raw, &got))
		require.Equal(t, "income.created", got.Event)
		require.NotZero(t, got.At)
		payload, ok := got.Payload.(map[string]interface{})
		require.True(t, ok)
		require.Equal(t, "Alice", payload["guest"])
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered to client")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 1)}
	hub.register <- client
	hub.unregister <- client

	select {
	case _, open := <-client.Send:
		require.False(t, open, "send channel should be closed after unregister")
	case <-time.After(2 * time.Second):
		t.Fatal("send channel not closed")
	}
}
