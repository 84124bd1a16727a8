package service

import (
	"encoding/json"
	"testing"
	"time"

	"alphagex/dashboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastTagsOriginAndDeliversLocally(t *testing.T) {
	hub := NewWSHub(nil)

	received := make(chan []byte, 1)
	go func() {
		received <- <-hub.broadcast
	}()

	hub.Broadcast(model.WSMessage{
		Type:      model.MessageTypeSummaryUpdate,
		BotID:     "ARES",
		Timestamp: time.Now(),
	})

	select {
	case data := <-received:
		var msg model.WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, model.MessageTypeSummaryUpdate, msg.Type)
		assert.Equal(t, "ARES", msg.BotID)
		assert.Equal(t, hub.instanceID, msg.Origin)
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the local channel")
	}
}

func TestAcceptPeerMessageDropsOwnEnvelopes(t *testing.T) {
	hub := NewWSHub(nil)

	own, err := json.Marshal(model.WSMessage{
		Type:   model.MessageTypeBotState,
		BotID:  "ATHENA",
		Origin: hub.instanceID,
	})
	require.NoError(t, err)

	_, ok := hub.acceptPeerMessage(own)
	assert.False(t, ok, "an instance must not re-broadcast its own envelope")
}

func TestAcceptPeerMessageAcceptsForeignEnvelopes(t *testing.T) {
	hub := NewWSHub(nil)

	foreign, err := json.Marshal(model.WSMessage{
		Type:   model.MessageTypeBotState,
		BotID:  "ATHENA",
		Origin: "some-other-instance",
	})
	require.NoError(t, err)

	data, ok := hub.acceptPeerMessage(foreign)
	require.True(t, ok)
	assert.Equal(t, foreign, data)
}

func TestAcceptPeerMessageRejectsGarbage(t *testing.T) {
	hub := NewWSHub(nil)

	_, ok := hub.acceptPeerMessage([]byte("not json"))
	assert.False(t, ok)
}
